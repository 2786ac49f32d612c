package api

import (
	"net/http"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/game"

	"github.com/gin-gonic/gin"
)

type FleetRequest struct {
	Fleet      game.Fleet `json:"fleet"`
	FleetValid *bool      `json:"fleetValid"`
}

type ReadyRequest struct {
	Ready *bool `json:"ready" binding:"required"`
}

type ResultRequest struct {
	WinnerPlayerID string `json:"winnerPlayerId" binding:"required"`
}

// SubmitFleet stores the caller's fleet snapshot for the current round.
func (h *MatchHandler) SubmitFleet(c *gin.Context) {
	var req FleetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	resolved, err := h.svc.SubmitFleet(c.Request.Context(), roomParam(c), playerFromContext(c), req.Fleet, req.FleetValid)
	if err != nil {
		respondError(c, err)
		return
	}
	if resolved {
		c.JSON(http.StatusOK, gin.H{"resolved": true, constants.JSONKeyMessage: "Round resolved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": false, constants.JSONKeyMessage: "Fleet stored. Waiting for opponent."})
}

// ToggleReady sets the caller's readiness.
func (h *MatchHandler) ToggleReady(c *gin.Context) {
	var req ReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	id, err := h.svc.ToggleReady(c.Request.Context(), roomParam(c), playerFromContext(c), *req.Ready)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player_id": id, "ready": *req.Ready})
}

// Ack records that the caller finished replaying the round.
func (h *MatchHandler) Ack(c *gin.Context) {
	res, err := h.svc.Ack(c.Request.Context(), roomParam(c), playerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ResolveResult records an externally decided round winner.
func (h *MatchHandler) ResolveResult(c *gin.Context) {
	var req ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	out, err := h.svc.ResolveCombatResult(c.Request.Context(), roomParam(c), req.WinnerPlayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
