package api

import (
	"time"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterOptions carries the HTTP settings from the configuration.
type RouterOptions struct {
	AllowedOrigins []string
	RateLimit      float64
}

// NewRouter builds the gin engine serving every route of the server.
func NewRouter(h *MatchHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(opts.AllowedOrigins))

	router.GET(constants.RouteHealth, Health)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	apiRoutes.Use(RateLimit(opts.RateLimit))
	{
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteRoomMatch, h.GetMatch)
		apiRoutes.GET(constants.RouteRoomArchive, h.LastSeenFleet)

		player := apiRoutes.Group("")
		player.Use(RequirePlayer())

		player.POST(constants.RouteRooms, h.CreateRoom)
		player.POST(constants.RouteRoomJoin, h.JoinRoom)
		player.POST(constants.RouteRoomStart, h.StartMatch)
		player.POST(constants.RouteRoomRematch, h.Rematch)
		player.POST(constants.RouteRoomFleet, h.SubmitFleet)
		player.POST(constants.RouteRoomReady, h.ToggleReady)
		player.POST(constants.RouteRoomAck, h.Ack)
		player.POST(constants.RouteRoomResult, h.ResolveResult)
		player.GET(constants.RouteRoomSocket, h.Subscribe)
	}
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			constants.HeaderContentType,
			constants.HeaderPlayerID,
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
		MaxAge: 12 * time.Hour,
	}
	cfg.AllowAllOrigins = len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
