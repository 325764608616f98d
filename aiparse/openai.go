package aiparse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"moneytrack/model"
)

// OpenAIParser parses messages with an OpenAI-compatible chat model.
type OpenAIParser struct {
	client *openai.Client
	model  string
}

// NewOpenAIParser builds a parser for the given API key. baseURL and
// modelName may be empty; they default to the OpenAI API and gpt-4o-mini.
func NewOpenAIParser(apiKey, baseURL, modelName string) *OpenAIParser {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &OpenAIParser{client: openai.NewClientWithConfig(cfg), model: modelName}
}

const systemPrompt = `You extract a financial transaction from a user message.
Respond with a JSON object with exactly these fields:
  "description": short description of the expense,
  "amount": the amount as a decimal string, negative for refunds,
  "expenseDate": the date in YYYY-MM-DD format, today if not mentioned,
  "categoryCode": one of the codes below that fits best.
Codes: %s
Today is %s.`

func (p *OpenAIParser) Parse(ctx context.Context, message string, categories []model.Category) (Draft, error) {
	codes := make([]string, len(categories))
	for i, c := range categories {
		codes[i] = fmt.Sprintf("%s (%s)", c.Code, c.Name)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPrompt, strings.Join(codes, ", "), time.Now().Format("2006-01-02")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: message,
			},
		},
	})
	if err != nil {
		return Draft{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Draft{}, fmt.Errorf("chat completion returned no choices")
	}

	var parsed struct {
		Description  string `json:"description"`
		Amount       string `json:"amount"`
		ExpenseDate  string `json:"expenseDate"`
		CategoryCode string `json:"categoryCode"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return Draft{}, fmt.Errorf("failed to decode model response: %w", err)
	}

	draft := Draft{
		Description:  parsed.Description,
		CategoryCode: parsed.CategoryCode,
		ExpenseDate:  time.Now(),
	}
	if draft.Amount, err = decimal.NewFromString(parsed.Amount); err != nil {
		return Draft{}, fmt.Errorf("model returned bad amount %q: %w", parsed.Amount, err)
	}
	if parsed.ExpenseDate != "" {
		if d, err := time.Parse("2006-01-02", parsed.ExpenseDate); err == nil {
			draft.ExpenseDate = d
		}
	}
	if _, ok := model.CategoryByCode(draft.CategoryCode); !ok {
		return Draft{}, fmt.Errorf("model returned unknown category %q", draft.CategoryCode)
	}
	return draft, nil
}
