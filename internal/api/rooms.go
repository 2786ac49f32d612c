package api

import (
	"net/http"

	"github.com/ericogr/fleet-clash/internal/constants"

	"github.com/gin-gonic/gin"
)

type RoomPayload struct {
	Faction string `json:"faction"`
}

// CreateRoom opens a room hosted by the caller.
func (h *MatchHandler) CreateRoom(c *gin.Context) {
	var req RoomPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}
	room, err := h.svc.CreateRoom(c.Request.Context(), playerFromContext(c), req.Faction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room_id": room.ID, "room": room})
}

// JoinRoom adds the caller as the second player of a room.
func (h *MatchHandler) JoinRoom(c *gin.Context) {
	var req RoomPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}
	room, err := h.svc.JoinRoom(c.Request.Context(), roomParam(c), playerFromContext(c), req.Faction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// StartMatch creates the match of a full room.
func (h *MatchHandler) StartMatch(c *gin.Context) {
	m, err := h.svc.StartMatch(c.Request.Context(), roomParam(c), playerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Rematch restarts a finished match.
func (h *MatchHandler) Rematch(c *gin.Context) {
	m, err := h.svc.Rematch(c.Request.Context(), roomParam(c), playerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GetMatch returns the roster and match state of a room.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	view, err := h.svc.GetView(c.Request.Context(), roomParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// LastSeenFleet returns the latest archived winning fleet of a player.
func (h *MatchHandler) LastSeenFleet(c *gin.Context) {
	a, err := h.svc.LastSeenFleet(c.Request.Context(), roomParam(c), c.Param("playerID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Subscribe upgrades the request to a websocket that receives the match
// view of the room after every change.
func (h *MatchHandler) Subscribe(c *gin.Context) {
	roomID := roomParam(c)
	initial, err := h.notifier.Snapshot(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	// Serve writes its own response on a failed handshake.
	_ = h.hub.Serve(c.Writer, c.Request, roomID, initial)
}
