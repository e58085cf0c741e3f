package server

import (
	"net/http"
	"strings"

	"github.com/cinecircle/cinecircle/internal/cineboards"
	"github.com/gin-gonic/gin"
)

type boardPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MovieIDs    []string `json:"movieIds"`
	IsPublic    bool     `json:"isPublic"`
}

type recommendationPayload struct {
	MovieID  string `json:"movieId"`
	ToUserID string `json:"toUserId"`
	Note     string `json:"note"`
}

func (h *httpHandler) handleCreateBoard(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request boardPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	board, err := h.boardsService.CreateBoard(c.Request.Context(), claims.Subject, cineboards.Board{
		Title:       request.Title,
		Description: request.Description,
		MovieIDs:    cineboards.MovieIDList(request.MovieIDs),
		IsPublic:    request.IsPublic,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

func (h *httpHandler) handleListBoards(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	boards, err := h.boardsService.ListBoards(c.Request.Context(), claims.Subject)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (h *httpHandler) handleGetBoard(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	board, err := h.boardsService.GetBoard(c.Request.Context(), claims.Subject, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *httpHandler) handleUpdateBoard(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var patch cineboards.BoardUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	board, err := h.boardsService.UpdateBoard(c.Request.Context(), claims.Subject, c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *httpHandler) handleDeleteBoard(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.boardsService.DeleteBoard(c.Request.Context(), claims.Subject, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleCreateRecommendation(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request recommendationPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	link, err := h.boardsService.CreateRecommendation(c.Request.Context(), claims.Subject, cineboards.Recommendation{
		MovieID:  request.MovieID,
		ToUserID: request.ToUserID,
		Note:     request.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *httpHandler) handleListRecommendations(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	direction := cineboards.DirectionReceived
	if c.Query("direction") == string(cineboards.DirectionSent) {
		direction = cineboards.DirectionSent
	}

	links, err := h.boardsService.ListRecommendations(c.Request.Context(), claims.Subject, direction)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cinelinks": links})
}
