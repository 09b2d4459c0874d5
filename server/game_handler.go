package server

import (
	"net/http"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/errors"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/pkg/studio"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// GameHandler maps the game HTTP routes onto studio.Service.
//
// Flow: HTTP Request -> GameHandler -> studio.Service -> (ai, extract, store)
type GameHandler struct {
	svc    *studio.Service
	logger zerolog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(app *App, svc *studio.Service) *GameHandler {
	return &GameHandler{
		svc:    svc,
		logger: app.logger.With().Str("handler", "game").Logger(),
	}
}

// GenerateRequest is the body of POST /generate
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// SaveGameRequest is the body of POST /api/games
type SaveGameRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// GenerateGameRequest is the body of POST /api/games/generate
type GenerateGameRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// IterateRequest is the body of POST /api/iterate
type IterateRequest struct {
	GameID string `json:"gameId"`
	Prompt string `json:"prompt"`
}

// bind decodes the JSON body. A malformed body is answered with
// invalidMsg, the same message as a body with missing fields.
func (h *GameHandler) bind(c *gin.Context, dst interface{}, invalidMsg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Debug().Err(err).Msg("Invalid request body")
		ErrorWithMessage(c, http.StatusBadRequest, invalidMsg)
		return false
	}
	return true
}

// Generate godoc
// @Summary      Generate a game
// @Description  Asks the model for a single-file HTML game. The result is not saved.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateRequest  true  "Game description"
// @Success      200      {object}  types.GenerateResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /generate [post]
func (h *GameHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if !h.bind(c, &req, studio.MsgPromptRequired) {
		return
	}

	generated, err := h.svc.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		HandleAppError(c, h.logger, err)
		return
	}
	OK(c, types.GenerateResponse{Code: generated.Code})
}

// SaveGame godoc
// @Summary      Save a game
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        request  body      SaveGameRequest  true  "Game name and code"
// @Success      201      {object}  types.CreatedResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/games [post]
func (h *GameHandler) SaveGame(c *gin.Context) {
	var req SaveGameRequest
	if !h.bind(c, &req, studio.MsgNameCodeRequired) {
		return
	}

	rec, err := h.svc.Save(c.Request.Context(), req.Name, req.Code)
	if err != nil {
		HandleAppError(c, h.logger, err)
		return
	}
	Created(c, types.CreatedResponse{ID: rec.ID})
}

// GenerateGame godoc
// @Summary      Generate and save a game
// @Description  Generates a game from a prompt and stores it at version 1.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateGameRequest  true  "Game name and description"
// @Success      201      {object}  store.GameRecord
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/games/generate [post]
func (h *GameHandler) GenerateGame(c *gin.Context) {
	var req GenerateGameRequest
	if !h.bind(c, &req, studio.MsgNamePromptRequired) {
		return
	}

	rec, err := h.svc.GenerateAndSave(c.Request.Context(), req.Name, req.Prompt)
	if err != nil {
		HandleAppError(c, h.logger, err)
		return
	}
	Created(c, rec)
}

// ListGames godoc
// @Summary      List games
// @Tags         games
// @Produce      json
// @Success      200  {array}   store.GameRecord
// @Failure      500  {object}  ErrorResponse
// @Router       /api/games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleAppError(c, h.logger, err)
		return
	}
	OK(c, games)
}

// GetGame godoc
// @Summary      Get a game
// @Tags         games
// @Produce      json
// @Param        id   path      string  true  "Game ID"
// @Success      200  {object}  store.GameRecord
// @Failure      404  {object}  ErrorResponse
// @Router       /api/games/{id} [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleAppError(c, h.logger, err)
		return
	}
	OK(c, rec)
}

// DeleteGame godoc
// @Summary      Delete a game
// @Tags         games
// @Produce      json
// @Param        id   path      string  true  "Game ID"
// @Success      200  {object}  types.MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/games/{id} [delete]
func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleAppError(c, h.logger, err)
		return
	}
	OK(c, types.MessageResponse{Message: studio.MsgDeleted})
}

// Iterate godoc
// @Summary      Iterate on a game
// @Description  Revises a stored game from a change request and saves it as the next version.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        request  body      IterateRequest  true  "Game ID and change request"
// @Success      200      {object}  store.GameRecord
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/iterate [post]
func (h *GameHandler) Iterate(c *gin.Context) {
	var req IterateRequest
	if !h.bind(c, &req, studio.MsgIDPromptRequired) {
		return
	}

	rec, err := h.svc.Iterate(c.Request.Context(), req.GameID, req.Prompt)
	if err != nil {
		HandleAppError(c, h.logger, err)
		return
	}
	OK(c, rec)
}

// notFound answers unknown API routes with the standard error body.
func notFound(c *gin.Context) {
	HandleAppError(c, zerolog.Nop(), errors.New(errors.ErrNotFound, "Not found"))
}
