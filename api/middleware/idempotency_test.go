package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/safarilink/groupstay-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestIdempotencyCoversClaimMutations(t *testing.T) {
	bookingID := uuid.NewString()
	claimID := uuid.NewString()
	tests := []struct {
		name    string
		method  string
		path    string
		guarded bool
	}{
		{"claim submit", http.MethodPost, "/api/v1/owner/claims", true},
		{"claim accept", http.MethodPost, "/api/v1/admin/assignments/" + bookingID + "/claims/" + claimID + "/accept", true},
		{"claim reject", http.MethodPost, "/api/v1/admin/assignments/" + bookingID + "/claims/" + claimID + "/reject", true},
		{"claim withdraw", http.MethodPost, "/api/v1/owner/claims/" + claimID + "/withdraw", true},
		{"available listing", http.MethodGet, "/api/v1/owner/claims/available", false},
		{"open window", http.MethodPatch, "/api/v1/admin/assignments/" + bookingID + "/open-for-claims", false},
	}

	mw := Idempotency(newFakeStore(), nil, time.Hour)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		// No Idempotency-Key: guarded routes reject, unguarded pass through.
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		if tt.guarded && resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 without key got %d", tt.name, resp.Code)
		}
		if !tt.guarded && resp.Code != http.StatusOK {
			t.Fatalf("%s: expected pass-through got %d", tt.name, resp.Code)
		}
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil, time.Hour)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	body := `{"bookingId":"b1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/owner/claims", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", resp.Code)
	}

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/owner/claims", strings.NewReader(body))
	replay.Header.Set("Idempotency-Key", "abc")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, replay)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil, time.Hour)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/owner/claims", strings.NewReader(`{"bookingId":"b1"}`))
	req.Header.Set("Idempotency-Key", "xyz")
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/owner/claims", strings.NewReader(`{"bookingId":"b2"}`))
	replay.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}

func TestIdempotencyScopesKeysByActor(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil, time.Hour)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	body := `{"bookingId":"b1"}`
	first := httptest.NewRequest(http.MethodPost, "/api/v1/owner/claims", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "shared")
	first = first.WithContext(WithActor(first.Context(), "owner-a", "owner"))
	mw(handler).ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/owner/claims", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "shared")
	second = second.WithContext(WithActor(second.Context(), "owner-b", "owner"))
	mw(handler).ServeHTTP(httptest.NewRecorder(), second)

	if calls != 2 {
		t.Fatalf("expected distinct actors to execute separately, handler ran %d times", calls)
	}
}
