package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"moneytrack/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := model.User{ID: "u-123", Username: "an", Email: "an@example.com"}

	token, err := generateAccessToken(user)
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}

	sub, err := parseAccessToken(token)
	if err != nil {
		t.Fatalf("parseAccessToken: %v", err)
	}
	if sub != user.ID {
		t.Errorf("subject = %q, want %q", sub, user.ID)
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	if _, err := parseAccessToken("not-a-token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}

func TestAuthRequiredMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", authRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": currentUserID(c)})
	})

	// No token.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	// Invalid token.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	// Valid token.
	token, err := generateAccessToken(model.User{ID: "u-123", Username: "an", Email: "an@example.com"})
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestOtpIssueAndVerify(t *testing.T) {
	code, err := issueOtp("otp@example.com")
	if err != nil {
		t.Fatalf("issueOtp: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code length = %d, want 6", len(code))
	}

	if verifyOtp("otp@example.com", "000000") && code != "000000" {
		t.Error("wrong code should not verify")
	}

	code, err = issueOtp("otp@example.com")
	if err != nil {
		t.Fatalf("issueOtp: %v", err)
	}
	if !verifyOtp("otp@example.com", code) {
		t.Error("correct code should verify")
	}
	if verifyOtp("otp@example.com", code) {
		t.Error("code should be single use")
	}
}
