package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	velaerrors "github.com/vango-dev/vela/internal/errors"
)

type item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		_ = json.NewEncoder(w).Encode([]item{{1, "a"}, {2, "b"}})
	}))
	defer srv.Close()

	items, err := Get[[]item](context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(items) != 2 || items[1].Title != "b" {
		t.Errorf("Get() = %+v", items)
	}
}

func TestPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		var in item
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		in.ID = 7
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	got, err := Post[item](context.Background(), srv.Client(), srv.URL, item{Title: "new"})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if got.ID != 7 || got.Title != "new" {
		t.Errorf("Post() = %+v, want {7 new}", got)
	}
}

func TestRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("Authorization = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewRequest(http.MethodDelete, srv.URL).
		Header("Authorization", "Bearer token").
		Client(srv.Client()).
		Do(context.Background(), nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		status2 int
	}{
		{"not found", http.StatusNotFound, `{"error":"missing"}`, "E180", 404},
		{"server error", http.StatusInternalServerError, "boom", "E180", 500},
		{"bad json", http.StatusOK, "{not json", "E181", 0},
		{"wrong shape", http.StatusOK, `"text"`, "E181", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := Get[[]item](context.Background(), srv.Client(), srv.URL)
			if !velaerrors.HasCode(err, tt.code) {
				t.Fatalf("Get() error = %v, want %s", err, tt.code)
			}
			var se *StatusError
			if tt.status2 != 0 {
				if !errors.As(err, &se) || se.Code != tt.status2 {
					t.Errorf("StatusError = %v, want code %d", se, tt.status2)
				}
			} else if errors.As(err, &se) {
				t.Errorf("unexpected StatusError %v", se)
			}
		})
	}
}

func TestContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Get[item](ctx, srv.Client(), srv.URL)
	if !velaerrors.HasCode(err, "E180") {
		t.Fatalf("Get() error = %v, want E180", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Get() error = %v, want DeadlineExceeded in chain", err)
	}
}
