package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
)

func TestDoSendsBearerAndDecodes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("authorization header = %q", got)
		}
		if got := r.URL.Query().Get("date"); got != "2026-03-01" {
			t.Errorf("query date = %q", got)
		}
		if got := r.Header.Get("X-Request-ID"); len(got) != 32 {
			t.Errorf("request id = %q, want 32 hex chars", got)
		}
		w.Write([]byte(`{"total_xp": 750}`))
	}))
	defer srv.Close()

	var out struct {
		TotalXP int `json:"total_xp"`
	}
	client := NewClient(srv.URL+"/", "tok-1")
	query := url.Values{"date": {"2026-03-01"}}
	if err := client.Do(context.Background(), http.MethodGet, "/user-stats", query, nil, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.TotalXP != 750 {
		t.Fatalf("total xp = %d, want 750", out.TotalXP)
	}
}

func TestDoMapsStatuses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, apperrors.ErrAuthExpired},
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusInternalServerError, apperrors.ErrRemoteUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))
		err := NewClient(srv.URL, "").Do(context.Background(), http.MethodGet, "/user-stats", nil, nil, nil)
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestDoUnreachableHostIsRemoteUnavailable(t *testing.T) {
	t.Parallel()

	client := NewClient("http://127.0.0.1:1", "")
	err := client.Do(context.Background(), http.MethodGet, "/health", nil, nil, nil)
	if !errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("got %v, want ErrRemoteUnavailable", err)
	}
}
