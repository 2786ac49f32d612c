package api

import (
	"errors"
	"net/http"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/keys"
	"github.com/ericogr/fleet-clash/internal/logging"
	"github.com/ericogr/fleet-clash/internal/service"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service sentinels to responses. Order matters only for
// wrapped errors matching more than one entry.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrRoomNotFound, http.StatusNotFound, constants.ErrRoomNotFound},
	{service.ErrPlayerNotFound, http.StatusNotFound, constants.ErrPlayerNotInRoom},
	{service.ErrMatchNotFound, http.StatusNotFound, constants.ErrMatchNotFound},
	{service.ErrArchiveNotFound, http.StatusNotFound, constants.ErrNoArchive},
	{service.ErrNotInSetup, http.StatusConflict, constants.ErrNotInSetup},
	{service.ErrRoomFull, http.StatusConflict, constants.ErrRoomFull},
	{service.ErrNotEnoughPlayers, http.StatusConflict, constants.ErrNotEnoughPlayers},
	{service.ErrMatchAlreadyStarted, http.StatusConflict, constants.ErrMatchAlreadyActive},
	{service.ErrMatchNotFinished, http.StatusConflict, constants.ErrMatchNotFinished},
	{service.ErrConflict, http.StatusConflict, constants.ErrConcurrentUpdate},
}

// respondError writes the response for an error returned by the service.
func respondError(c *gin.Context, err error) {
	var ge *service.GuardError
	if errors.As(err, &ge) {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrReadyRejected, constants.JSONKeyReason: ge.Reason})
		return
	}
	if errors.Is(err, service.ErrInvalidFleet) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidFleet, constants.JSONKeyMessage: err.Error()})
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{constants.JSONKeyError: e.message})
			return
		}
	}
	logging.Error("request failed", err, logging.Fields{
		constants.LogFieldRoomID: c.Param("roomID"),
		"path":                   c.FullPath(),
	})
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
}

func roomParam(c *gin.Context) string {
	return keys.NormalizeRoomID(c.Param("roomID"))
}

// playerFromContext returns the identity set by RequirePlayer.
func playerFromContext(c *gin.Context) string {
	v, _ := c.Get(constants.ContextPlayerID)
	s, _ := v.(string)
	return s
}
