package cineboards

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cinecircle/cinecircle/internal/users"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, clock func() time.Time) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Board{}, &Recommendation{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	store := users.NewMemoryStore(nil)
	store.Seed(users.DevFixtures()...)

	service, err := NewService(ServiceConfig{Database: db, Users: store, Clock: clock})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func TestCreateAndGetBoard(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	created, err := service.CreateBoard(ctx, "user_123", Board{
		Title:       "Friday Horror Night",
		Description: "slow burns only",
		MovieIDs:    MovieIDList{"tmdb_1", "tmdb_2", "tmdb_3"},
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated board id")
	}

	board, err := service.GetBoard(ctx, "user_123", created.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if len(board.MovieIDs) != 3 || board.MovieIDs[0] != "tmdb_1" || board.MovieIDs[2] != "tmdb_3" {
		t.Fatalf("movie order not preserved: %v", board.MovieIDs)
	}
}

func TestCreateBoardRequiresTitle(t *testing.T) {
	service := newTestService(t, nil)
	if _, err := service.CreateBoard(context.Background(), "user_123", Board{Title: "  "}); err == nil {
		t.Fatalf("expected error for empty title")
	}
}

func TestPrivateBoardHiddenFromOtherUsers(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	created, err := service.CreateBoard(ctx, "user_123", Board{Title: "Secret Stash"})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if _, err := service.GetBoard(ctx, "user_456", created.ID); !errors.Is(err, ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound for private board, got %v", err)
	}

	isPublic := true
	if _, err := service.UpdateBoard(ctx, "user_123", created.ID, BoardUpdate{IsPublic: &isPublic}); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if _, err := service.GetBoard(ctx, "user_456", created.ID); err != nil {
		t.Fatalf("public board should be visible: %v", err)
	}
}

func TestUpdateBoardOwnershipAndMerge(t *testing.T) {
	updateTime := time.Date(2026, time.May, 5, 8, 0, 0, 0, time.UTC)
	service := newTestService(t, func() time.Time { return updateTime })
	ctx := context.Background()

	created, err := service.CreateBoard(ctx, "user_123", Board{
		Title:       "Noir Classics",
		Description: "black and white only",
		MovieIDs:    MovieIDList{"tmdb_9"},
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	title := "Neo-Noir Classics"
	if _, err := service.UpdateBoard(ctx, "user_456", created.ID, BoardUpdate{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := service.UpdateBoard(ctx, "user_123", created.ID, BoardUpdate{Title: &title})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.Description != "black and white only" {
		t.Fatalf("description should be preserved, got %q", updated.Description)
	}
	if len(updated.MovieIDs) != 1 || updated.MovieIDs[0] != "tmdb_9" {
		t.Fatalf("movie list should be preserved, got %v", updated.MovieIDs)
	}
}

func TestDeleteBoard(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	created, err := service.CreateBoard(ctx, "user_123", Board{Title: "Short Lived"})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	if err := service.DeleteBoard(ctx, "user_456", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner delete, got %v", err)
	}
	if err := service.DeleteBoard(ctx, "user_123", created.ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, err := service.GetBoard(ctx, "user_123", created.ID); !errors.Is(err, ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound after delete, got %v", err)
	}
}

func TestListBoardsOnlyOwn(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	if _, err := service.CreateBoard(ctx, "user_123", Board{Title: "Mine"}); err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if _, err := service.CreateBoard(ctx, "user_456", Board{Title: "Theirs"}); err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	boards, err := service.ListBoards(ctx, "user_123")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(boards) != 1 || boards[0].Title != "Mine" {
		t.Fatalf("unexpected board list %+v", boards)
	}
}

func TestCreateRecommendationValidation(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		rec  Recommendation
	}{
		{name: "missing movie", rec: Recommendation{ToUserID: "user_456"}},
		{name: "self recommendation", rec: Recommendation{MovieID: "tmdb_1", ToUserID: "user_123"}},
		{name: "unknown recipient", rec: Recommendation{MovieID: "tmdb_1", ToUserID: "user_999"}},
	}
	for _, testCase := range cases {
		if _, err := service.CreateRecommendation(ctx, "user_123", testCase.rec); !errors.Is(err, ErrInvalidRecommendation) {
			t.Fatalf("%s: expected ErrInvalidRecommendation, got %v", testCase.name, err)
		}
	}
}

func TestRecommendationDirections(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	created, err := service.CreateRecommendation(ctx, "user_123", Recommendation{
		MovieID:  "tmdb_42",
		ToUserID: "user_456",
		Note:     "best heist movie ever made",
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated cinelink id")
	}

	sent, err := service.ListRecommendations(ctx, "user_123", DirectionSent)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(sent) != 1 || sent[0].MovieID != "tmdb_42" {
		t.Fatalf("unexpected sent list %+v", sent)
	}

	received, err := service.ListRecommendations(ctx, "user_456", DirectionReceived)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(received) != 1 || received[0].Note != "best heist movie ever made" {
		t.Fatalf("unexpected received list %+v", received)
	}

	empty, err := service.ListRecommendations(ctx, "user_456", DirectionSent)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no sent links for recipient, got %+v", empty)
	}
}
