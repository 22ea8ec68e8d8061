package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/juniorgolf-backend/api/middleware"
)

type caller struct {
	userID   uuid.UUID
	parentID uuid.UUID
}

func newCaller() caller {
	return caller{userID: uuid.New(), parentID: uuid.New()}
}

func (c caller) context(ctx context.Context) context.Context {
	if c.userID != uuid.Nil {
		ctx = middleware.WithUserID(ctx, c.userID.String())
	}
	if c.parentID != uuid.Nil {
		ctx = middleware.WithParentID(ctx, c.parentID.String())
	}
	return ctx
}

// serve routes target through a chi router so URL params resolve.
func serve(t *testing.T, c caller, method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Method(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(c.context(req.Context()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}
