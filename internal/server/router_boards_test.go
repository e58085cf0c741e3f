package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cinecircle/cinecircle/internal/cineboards"
)

func TestBoardLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	recorder := env.do(t, http.MethodPost, "/api/cineboards", token, map[string]interface{}{
		"title":    "Space Operas",
		"movieIds": []string{"tmdb_11", "tmdb_12"},
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var board cineboards.Board
	if err := json.Unmarshal(recorder.Body.Bytes(), &board); err != nil {
		t.Fatalf("failed to decode board: %v", err)
	}
	if board.OwnerUserID != "user_123" {
		t.Fatalf("unexpected owner %q", board.OwnerUserID)
	}

	recorder = env.do(t, http.MethodGet, "/api/cineboards", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected list status %d", recorder.Code)
	}
	var listing struct {
		Boards []cineboards.Board `json:"boards"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &listing); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if len(listing.Boards) != 1 || listing.Boards[0].ID != board.ID {
		t.Fatalf("unexpected listing %+v", listing)
	}

	recorder = env.do(t, http.MethodPut, "/api/cineboards/"+board.ID, token, map[string]interface{}{
		"isPublic": true,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected update status %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = env.do(t, http.MethodDelete, "/api/cineboards/"+board.ID, token, nil)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected delete status %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodGet, "/api/cineboards/"+board.ID, token, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", recorder.Code)
	}
}

func TestBoardRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	recorder := env.do(t, http.MethodPost, "/api/cineboards", "", map[string]string{"title": "Nope"})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestCinelinkOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	recorder := env.do(t, http.MethodPost, "/api/cinelinks", token, map[string]string{
		"movieId":  "tmdb_42",
		"toUserId": "user_456",
		"note":     "watch this tonight",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = env.do(t, http.MethodGet, "/api/cinelinks?direction=sent", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected list status %d", recorder.Code)
	}
	var listing struct {
		Cinelinks []cineboards.Recommendation `json:"cinelinks"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &listing); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if len(listing.Cinelinks) != 1 || listing.Cinelinks[0].ToUserID != "user_456" {
		t.Fatalf("unexpected listing %+v", listing)
	}

	recorder = env.do(t, http.MethodPost, "/api/cinelinks", token, map[string]string{
		"movieId":  "tmdb_42",
		"toUserId": "user_123",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self link, got %d", recorder.Code)
	}
}
