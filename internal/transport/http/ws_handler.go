package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"quizgate/internal/app"
	"quizgate/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler accepts the chat-platform bridge's websocket connection and
// wires gateway events into the quiz core.
type WSHandler struct {
	service  *app.GateService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GateService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type triggerPayload struct {
	UserID    string `json:"userId"`
	MessageID string `json:"messageId"`
}

type answerPayload struct {
	Handle string `json:"handle"`
	UserID string `json:"userId"`
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sendPayload struct {
	UserID  string         `json:"userId"`
	Handle  string         `json:"handle"`
	Message domain.Message `json:"message"`
}

type editPayload struct {
	Handle  string         `json:"handle"`
	Message domain.Message `json:"message"`
}

type ackPayload struct {
	Handle string `json:"handle"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the bridge connection and runs its read loop. Only one
// bridge may be attached at a time; a second connection is refused.
// Sessions started from this bridge share its context, so a disconnect
// aborts them without recording failures.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	bridge := &bridgeConn{
		send: make(chan outboundMessage[any], 16),
		done: make(chan struct{}),
	}
	if !h.hub.attach(bridge) {
		_ = conn.WriteJSON(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "bridge already connected"}})
		return
	}
	defer h.hub.detach(bridge)
	defer close(bridge.done)

	go func() {
		for {
			select {
			case msg := <-bridge.send:
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case <-bridge.done:
				return
			}
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "trigger":
			var payload triggerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				log.Printf("invalid trigger payload: %v", err)
				continue
			}
			go func() {
				if err := h.service.HandleTrigger(ctx, payload.UserID, payload.MessageID); err != nil {
					log.Printf("trigger for %s: %v", payload.UserID, err)
				}
			}()
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				log.Printf("invalid answer payload: %v", err)
				continue
			}
			h.service.HandleAnswer(payload.Handle, payload.UserID, payload.Answer)
		default:
			log.Printf("unsupported bridge message type %q", inbound.Type)
		}
	}
}
