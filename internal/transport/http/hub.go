package http

import (
	"context"
	"fmt"
	"sync"

	"quizgate/internal/domain"
)

// Hub implements the core's Messenger port over whichever bridge
// connection is currently attached. Outbound commands are enqueued on the
// bridge's send channel; message handles are allocated here so the core
// never sees platform message IDs.
type Hub struct {
	mu     sync.Mutex
	conn   *bridgeConn
	serial uint64
}

type bridgeConn struct {
	send chan outboundMessage[any]
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) attach(conn *bridgeConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn != nil {
		return false
	}
	h.conn = conn
	return true
}

func (h *Hub) detach(conn *bridgeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn == conn {
		h.conn = nil
	}
}

func (h *Hub) SendPrivate(ctx context.Context, userID string, msg domain.Message) (string, error) {
	h.mu.Lock()
	conn := h.conn
	h.serial++
	handle := fmt.Sprintf("m%d", h.serial)
	h.mu.Unlock()

	if conn == nil {
		return "", domain.ErrBridgeUnavailable
	}
	payload := sendPayload{UserID: userID, Handle: handle, Message: msg}
	if err := enqueue(ctx, conn, outboundMessage[any]{Type: "send", Payload: payload}); err != nil {
		return "", err
	}
	return handle, nil
}

func (h *Hub) Edit(ctx context.Context, handle string, msg domain.Message) error {
	return h.enqueueCurrent(ctx, outboundMessage[any]{Type: "edit", Payload: editPayload{Handle: handle, Message: msg}})
}

func (h *Hub) Ack(ctx context.Context, handle string) error {
	return h.enqueueCurrent(ctx, outboundMessage[any]{Type: "ack", Payload: ackPayload{Handle: handle}})
}

func (h *Hub) enqueueCurrent(ctx context.Context, msg outboundMessage[any]) error {
	h.mu.Lock()
	conn := h.conn
	h.mu.Unlock()
	if conn == nil {
		return domain.ErrBridgeUnavailable
	}
	return enqueue(ctx, conn, msg)
}

func enqueue(ctx context.Context, conn *bridgeConn, msg outboundMessage[any]) error {
	select {
	case conn.send <- msg:
		return nil
	case <-conn.done:
		return domain.ErrBridgeUnavailable
	case <-ctx.Done():
		return ctx.Err()
	}
}
