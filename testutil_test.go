package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
)

// newTestService returns a Service backed by a fresh file store in a temp dir.
func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewFileStore(filepath.Join(t.TempDir(), "data.json")))
}

// newTestRouter returns a router over a fresh service, plus the service for
// direct seeding.
func newTestRouter(t *testing.T) (*mux.Router, *Service) {
	t.Helper()
	svc := newTestService(t)
	return newRouter(svc, t.TempDir()), svc
}

func testCard(id, text string) Card {
	return Card{CardID: id, Text: text, Author: "unknown", Votes: map[string]int{}}
}

// seedBoard creates a board and replaces its columns with the given cards.
func seedBoard(t *testing.T, svc *Service, name string, columns map[string][]Card) *Board {
	t.Helper()
	board, err := svc.CreateBoard(name)
	if err != nil {
		t.Fatalf("CreateBoard(%q) failed: %v", name, err)
	}
	if columns != nil {
		if err := svc.ReplaceColumns(board.ID, columns); err != nil {
			t.Fatalf("ReplaceColumns failed: %v", err)
		}
	}
	return board
}

// doRequest runs a request through the router. An empty cookie means the
// caller is not signed in.
func doRequest(t *testing.T, r *mux.Router, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: identityCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
