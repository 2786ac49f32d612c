package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/logging"
	"github.com/ericogr/fleet-clash/internal/service"
)

// MessageTypeMatch tags a full match view pushed to a room.
const MessageTypeMatch = "match"

// Message is the envelope of every frame sent to a session.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ViewLoader loads the state published to a room.
type ViewLoader interface {
	GetView(ctx context.Context, roomID string) (*service.MatchView, error)
}

// Notifier publishes the current match view of a room to its sessions.
// It satisfies service.Notifier.
type Notifier struct {
	hub   *Hub
	views ViewLoader
}

func NewNotifier(hub *Hub, views ViewLoader) *Notifier {
	return &Notifier{hub: hub, views: views}
}

// MatchChanged reloads roomID and publishes it. Rooms without sessions
// are skipped.
func (n *Notifier) MatchChanged(roomID string) {
	if n.hub.Subscribers(roomID) == 0 {
		return
	}
	payload, err := n.Snapshot(roomID)
	if err != nil {
		logging.Error("failed to load match for publishing", err, logging.Fields{constants.LogFieldRoomID: roomID})
		return
	}
	n.hub.Publish(roomID, payload)
}

// Snapshot returns the encoded match message for roomID.
func (n *Notifier) Snapshot(roomID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	view, err := n.views.GetView(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: MessageTypeMatch, Payload: view})
}
