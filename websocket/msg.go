package websocket

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"golang.org/x/net/websocket"
)

const (
	MsgTypeRegionsRequest  = "regions_request"
	MsgTypeRegionsResponse = "regions_response"
	MsgTypeError           = "error"

	ErrTypeMsgSkip = "msg_skip"
)

// Msg is a websocket frame payload. Type is only known to the server: every
// inbound frame is a regions request and outbound frames are either regions
// responses or errors.
type Msg struct {
	Type string
	Data []byte
}

func (m Msg) TypeString() string {
	if m.Type == "" {
		return "unknown"
	}
	return m.Type
}

// Receiver reads the next message and returns the number of bytes read.
type Receiver func() (Msg, int, error)

// Sender writes a message and returns the number of bytes written.
type Sender func(Msg) (int, error)

// ResponseSender queues messages to the connected client.
type ResponseSender interface {
	// Encodes v to JSON and queues it with the given type.
	Send(msgType string, v any)
}

// Receive reads a frame from conn as a regions request.
func Receive(conn *websocket.Conn) (Msg, int, error) {
	var data []byte
	if err := websocket.Message.Receive(conn, &data); err != nil {
		return Msg{}, 0, errors.New("receiving frame failed").Wrap(err)
	}

	return Msg{
		Type: MsgTypeRegionsRequest,
		Data: data,
	}, len(data), nil
}

// Send writes msg to conn as a text frame.
func Send(conn *websocket.Conn, msg Msg) (int, error) {
	if err := websocket.Message.Send(conn, string(msg.Data)); err != nil {
		return 0, errors.New("sending frame failed").
			WithTag("msg_type", msg.TypeString()).
			Wrap(err)
	}
	return len(msg.Data), nil
}
