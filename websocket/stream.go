package websocket

import (
	"bytes"
	"context"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/models"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

const (
	HeaderClientID = "X-Client-Id"
)

// StreamHandler answers every regions request frame of a connection with a
// regions response or an error frame. Request failures do not close the
// connection.
type StreamHandler struct {
	// The time a client is idle before being disconnected.
	ClientIdleTimeout time.Duration

	Resolver models.Resolver

	conn     *websocket.Conn
	clientID string
}

func (h *StreamHandler) HandleConnect(conn *websocket.Conn) {
	h.conn = conn

	if req := conn.Request(); req != nil {
		h.clientID = req.Header.Get(HeaderClientID)
	}
	if h.clientID == "" {
		h.clientID = uuid.NewString()
	}
}

// HandleRegions answers a regions request frame. Blank frames are skipped
// without a response.
func (h *StreamHandler) HandleRegions(ctx context.Context, respond ResponseSender, msg Msg) error {
	if len(bytes.TrimSpace(msg.Data)) == 0 {
		return errors.New("blank frame").WithType(ErrTypeMsgSkip)
	}

	var req models.RegionsRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		respond.Send(MsgTypeError, models.NewErrorResponse("", errors.New("decoding request failed").
			WithType(models.ErrTypeBadRequest).
			Wrap(err)))
		return nil
	}

	p, err := h.Resolver.Resolve(&req)
	if err != nil {
		respond.Send(MsgTypeError, models.NewErrorResponse(req.RequestID, err))
		return nil
	}

	respond.Send(MsgTypeRegionsResponse, p.Response())
	return nil
}

func (h *StreamHandler) HandleDisconnect(_ error) {
}

func (h *StreamHandler) Receiver() Receiver {
	return func() (Msg, int, error) {
		return Receive(h.conn)
	}
}

func (h *StreamHandler) Sender() Sender {
	return func(msg Msg) (int, error) {
		return Send(h.conn, msg)
	}
}

func (h *StreamHandler) Close() {
}

func (h *StreamHandler) IdleTimeout() time.Duration {
	return h.ClientIdleTimeout
}

func (h *StreamHandler) GetClientID() string {
	return h.clientID
}
