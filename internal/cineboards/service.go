package cineboards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cinecircle/cinecircle/internal/users"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Direction selects which side of a cinelink a listing covers.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

var (
	// ErrBoardNotFound indicates no board matched the lookup or the caller may not see it.
	ErrBoardNotFound = errors.New("cineboards: board not found")
	// ErrForbidden indicates the caller does not own the board.
	ErrForbidden = errors.New("cineboards: forbidden")
	// ErrInvalidRecommendation indicates the cinelink payload is unusable.
	ErrInvalidRecommendation = errors.New("cineboards: invalid recommendation")
)

// ServiceConfig describes the dependencies for the cineboards service.
type ServiceConfig struct {
	Database *gorm.DB
	Users    users.Store
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Service manages curated boards and directed recommendations.
type Service struct {
	db     *gorm.DB
	users  users.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the cineboards service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("cineboards: database connection required")
	}
	if cfg.Users == nil {
		return nil, fmt.Errorf("cineboards: user store required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{db: cfg.Database, users: cfg.Users, logger: logger, now: clock}, nil
}

// CreateBoard stores a new board owned by the caller.
func (s *Service) CreateBoard(ctx context.Context, ownerUserID string, board Board) (*Board, error) {
	title := strings.TrimSpace(board.Title)
	if title == "" {
		return nil, fmt.Errorf("cineboards: title is required")
	}

	now := s.now().UTC()
	record := Board{
		ID:          "board_" + uuid.NewString(),
		OwnerUserID: ownerUserID,
		Title:       title,
		Description: strings.TrimSpace(board.Description),
		MovieIDs:    board.MovieIDs,
		IsPublic:    board.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if record.MovieIDs == nil {
		record.MovieIDs = MovieIDList{}
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetBoard returns a board visible to the caller: its owner always, anyone
// else only when the board is public.
func (s *Service) GetBoard(ctx context.Context, callerUserID, boardID string) (*Board, error) {
	var board Board
	err := s.db.WithContext(ctx).Where("id = ?", boardID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	if board.OwnerUserID != callerUserID && !board.IsPublic {
		// Hidden boards are indistinguishable from missing ones.
		return nil, ErrBoardNotFound
	}
	return &board, nil
}

// ListBoards returns the caller's boards, newest first.
func (s *Service) ListBoards(ctx context.Context, ownerUserID string) ([]Board, error) {
	var boards []Board
	err := s.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// UpdateBoard applies a shallow patch to an owned board.
func (s *Service) UpdateBoard(ctx context.Context, callerUserID, boardID string, patch BoardUpdate) (*Board, error) {
	board, err := s.ownedBoard(ctx, callerUserID, boardID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": s.now().UTC()}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("cineboards: title is required")
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.MovieIDs != nil {
		encoded, err := patch.MovieIDs.Value()
		if err != nil {
			return nil, err
		}
		updates["movie_ids"] = encoded
	}
	if patch.IsPublic != nil {
		updates["is_public"] = *patch.IsPublic
	}

	if err := s.db.WithContext(ctx).Model(&Board{}).Where("id = ?", board.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	var refreshed Board
	if err := s.db.WithContext(ctx).Where("id = ?", board.ID).First(&refreshed).Error; err != nil {
		return nil, err
	}
	return &refreshed, nil
}

// DeleteBoard removes an owned board.
func (s *Service) DeleteBoard(ctx context.Context, callerUserID, boardID string) error {
	board, err := s.ownedBoard(ctx, callerUserID, boardID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&Board{}, "id = ?", board.ID).Error
}

func (s *Service) ownedBoard(ctx context.Context, callerUserID, boardID string) (*Board, error) {
	var board Board
	err := s.db.WithContext(ctx).Where("id = ?", boardID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	if board.OwnerUserID != callerUserID {
		return nil, ErrForbidden
	}
	return &board, nil
}

// CreateRecommendation records a cinelink from the caller to another user.
// The target must be an existing active user and must differ from the sender.
func (s *Service) CreateRecommendation(ctx context.Context, fromUserID string, rec Recommendation) (*Recommendation, error) {
	movieID := strings.TrimSpace(rec.MovieID)
	toUserID := strings.TrimSpace(rec.ToUserID)
	if movieID == "" || toUserID == "" {
		return nil, fmt.Errorf("%w: movie id and recipient are required", ErrInvalidRecommendation)
	}
	if toUserID == fromUserID {
		return nil, fmt.Errorf("%w: cannot recommend to yourself", ErrInvalidRecommendation)
	}

	target, err := s.users.FindByID(ctx, toUserID)
	if errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: recipient not found", ErrInvalidRecommendation)
	}
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, fmt.Errorf("%w: recipient is deactivated", ErrInvalidRecommendation)
	}

	record := Recommendation{
		ID:         "link_" + uuid.NewString(),
		MovieID:    movieID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Note:       strings.TrimSpace(rec.Note),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}

	s.logger.Debug("cinelink created",
		zap.String("from", fromUserID),
		zap.String("to", toUserID),
		zap.String("movie", movieID))
	return &record, nil
}

// ListRecommendations returns cinelinks sent by or received by the user,
// newest first.
func (s *Service) ListRecommendations(ctx context.Context, userID string, direction Direction) ([]Recommendation, error) {
	column := "to_user_id"
	if direction == DirectionSent {
		column = "from_user_id"
	}

	var records []Recommendation
	err := s.db.WithContext(ctx).
		Where(column+" = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
