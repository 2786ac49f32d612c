package api

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/gin-gonic/gin"
)

const maxPlayerIDLength = 64

// RequirePlayer reads the caller's player id from the X-Player-ID header
// and injects it into the context. Browsers cannot set headers on a
// websocket handshake, so the "player" query parameter is accepted too.
// Authenticating that id is the job of whatever fronts this server.
func RequirePlayer() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(constants.HeaderPlayerID))
		if id == "" {
			id = strings.TrimSpace(c.Query("player"))
		}
		if id == "" || utf8.RuneCountInString(id) > maxPlayerIDLength {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrPlayerIDRequired})
			return
		}
		c.Set(constants.ContextPlayerID, id)
		c.Next()
	}
}
