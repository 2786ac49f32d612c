package api

import (
	"github.com/ericogr/fleet-clash/internal/realtime"
	"github.com/ericogr/fleet-clash/internal/service"
)

// MatchHandler groups the room and match HTTP handlers.
type MatchHandler struct {
	svc      *service.MatchService
	hub      *realtime.Hub
	notifier *realtime.Notifier
}

// NewMatchHandler wires the handlers to the match service and the
// websocket hub used for subscriptions.
func NewMatchHandler(svc *service.MatchService, hub *realtime.Hub, notifier *realtime.Notifier) *MatchHandler {
	return &MatchHandler{svc: svc, hub: hub, notifier: notifier}
}
