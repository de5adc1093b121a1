package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CTAG07/charlm/pkg/charlm"
)

func setupTestAPI(t *testing.T) *httptest.Server {
	m, err := charlm.New(2, charlm.WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Train(context.Background(), strings.NewReader("abab")); err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	NewModelAPI(m, "test", slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleGenerate(t *testing.T) {
	srv := setupTestAPI(t)

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		want       GenerateResponse
	}{
		{
			name:       "Full length",
			body:       `{"seed_text": "ab", "length": 6}`,
			wantStatus: http.StatusOK,
			want:       GenerateResponse{Text: "ababab"},
		},
		{
			name:       "Unseen window",
			body:       `{"seed_text": "zz", "length": 6}`,
			wantStatus: http.StatusOK,
			want:       GenerateResponse{Text: "zz", TerminatedEarly: true},
		},
		{name: "Zero length", body: `{"seed_text": "ab", "length": 0}`, wantStatus: http.StatusBadRequest},
		{name: "Invalid JSON", body: `{"seed_text": `, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/generate", "application/json", bytes.NewBufferString(tc.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, resp.StatusCode)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}
			var got GenerateResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestHandleGenerateMethod(t *testing.T) {
	srv := setupTestAPI(t)
	resp, err := http.Get(srv.URL + "/api/generate")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHandleStats(t *testing.T) {
	srv := setupTestAPI(t)
	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := StatsResponse{Source: "test", Stats: charlm.Stats{WindowLength: 2, Windows: 2, Transitions: 2, Observations: 2, Alphabet: 2}}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestHandleWindow(t *testing.T) {
	srv := setupTestAPI(t)

	resp, err := http.Get(srv.URL + "/api/windows/ab")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got WindowResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Window != "ab" || len(got.Entries) != 1 || got.Entries[0].Char != 'a' || got.Entries[0].CumulativeProbability != 1 {
		t.Errorf("got unexpected window response: %+v", got)
	}

	missing, err := http.Get(srv.URL + "/api/windows/zz")
	if err != nil {
		t.Fatal(err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for an unseen window, got %d", missing.StatusCode)
	}
}
