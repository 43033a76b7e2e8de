package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fastClient() *http.Client {
	return &http.Client{Timeout: 2 * time.Second}
}

func TestGetJSONDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Corona Extra","brand":"Corona"}`))
	}))
	defer srv.Close()

	c := NewClient("test", fastClient())

	type payload struct {
		Name  string `json:"name"`
		Brand string `json:"brand"`
	}

	got, err := GetJSON[payload](context.Background(), c, srv.URL)
	if err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if got.Name != "Corona Extra" || got.Brand != "Corona" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("test", fastClient())
	c.backoff.InitialInterval = time.Millisecond
	c.backoff.MaxInterval = time.Millisecond

	type payload struct {
		OK bool `json:"ok"`
	}

	got, err := GetJSON[payload](context.Background(), c, srv.URL)
	if err != nil {
		t.Fatalf("GetJSON returned error after retries: %v", err)
	}
	if !got.OK {
		t.Errorf("expected ok payload, got %+v", got)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test", fastClient())

	_, err := GetJSON[struct{}](context.Background(), c, srv.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !errors.Is(err, errUnexpected) {
		t.Errorf("expected errUnexpected, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestDoStopsAfterMaxRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("test", fastClient())
	c.backoff.InitialInterval = time.Millisecond
	c.backoff.MaxInterval = time.Millisecond

	_, err := GetJSON[struct{}](context.Background(), c, srv.URL)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, errServerError) {
		t.Errorf("expected errServerError, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts (1 + 2 retries), got %d", calls)
	}
}

func TestPostJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		w.Write([]byte(`{"received":true}`))
	}))
	defer srv.Close()

	c := NewClient("test", fastClient())

	type payload struct {
		Received bool `json:"received"`
	}

	got, err := PostJSON[payload](context.Background(), c, srv.URL, map[string]string{"image": "data"})
	if err != nil {
		t.Fatalf("PostJSON returned error: %v", err)
	}
	if !got.Received {
		t.Errorf("unexpected payload: %+v", got)
	}
}
