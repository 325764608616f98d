package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"moneytrack/model"
)

// RemoteAPI is the slice of the MoneyTrack API the tracker and sync driver
// consume.
type RemoteAPI interface {
	GetAll(ctx context.Context) ([]model.Transaction, error)
	Create(ctx context.Context, tx model.Transaction) error
	Update(ctx context.Context, tx model.Transaction) error
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, txs []model.Transaction) error
	BulkUpdate(ctx context.Context, txs []model.Transaction) error
	BulkDelete(ctx context.Context, ids []string) error
}

// Remote talks to the MoneyTrack HTTP API. The token func is consulted per
// request so a refreshed session is picked up without rebuilding the client.
type Remote struct {
	baseURL string
	token   func() string
	http    *http.Client
}

func NewRemote(baseURL string, token func() string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := r.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// bulk posts a batch and converts any server-reported partial failure into an
// error: the driver treats the whole batch as failed.
func (r *Remote) bulk(ctx context.Context, path string, body any) error {
	var resp model.BulkResponse
	if err := r.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if len(resp.Errors) > 0 {
			return fmt.Errorf("%s rejected: %s", path, strings.Join(resp.Errors, "; "))
		}
		return fmt.Errorf("%s rejected: %s", path, resp.Message)
	}
	return nil
}

func (r *Remote) GetAll(ctx context.Context) ([]model.Transaction, error) {
	txs := []model.Transaction{}
	if err := r.do(ctx, http.MethodGet, "/api/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *Remote) Create(ctx context.Context, tx model.Transaction) error {
	return r.do(ctx, http.MethodPost, "/api/transactions", tx, nil)
}

func (r *Remote) Update(ctx context.Context, tx model.Transaction) error {
	return r.do(ctx, http.MethodPut, "/api/transactions/"+tx.ID, tx, nil)
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/transactions/"+id, nil, nil)
}

func (r *Remote) BulkCreate(ctx context.Context, txs []model.Transaction) error {
	return r.bulk(ctx, "/api/transactions/bulk-create", txs)
}

func (r *Remote) BulkUpdate(ctx context.Context, txs []model.Transaction) error {
	return r.bulk(ctx, "/api/transactions/bulk-update", txs)
}

func (r *Remote) BulkDelete(ctx context.Context, ids []string) error {
	return r.bulk(ctx, "/api/transactions/bulk-delete", ids)
}

// AskAI asks the server to parse a free-text message into a transaction
// draft. The draft is not persisted anywhere until the user confirms it.
func (r *Remote) AskAI(ctx context.Context, message string) (model.Transaction, error) {
	var resp struct {
		Success     bool              `json:"success"`
		Message     string            `json:"message"`
		Transaction model.Transaction `json:"transaction"`
	}
	body := map[string]string{"message": message}
	if err := r.do(ctx, http.MethodPost, "/api/transactions/transaction-by-ai", body, &resp); err != nil {
		return model.Transaction{}, err
	}
	if !resp.Success {
		return model.Transaction{}, fmt.Errorf("ai parse failed: %s", resp.Message)
	}
	return resp.Transaction, nil
}

// Login authenticates and returns the token pair.
func (r *Remote) Login(ctx context.Context, username, password string) (model.LoginResponse, error) {
	var resp model.LoginResponse
	body := map[string]string{"username": username, "password": password}
	err := r.do(ctx, http.MethodPost, "/api/auth/login", body, &resp)
	return resp, err
}
