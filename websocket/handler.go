package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

const (
	sendChanSize    = 64
	receiveChanSize = 16
)

// Handler represents a regions stream handler.
type Handler interface {
	// Handles a client connection.
	HandleConnect(conn *websocket.Conn)

	// Handles a regions request.
	HandleRegions(ctx context.Context, respond ResponseSender, msg Msg) error

	// Handles a client's disconnection.
	HandleDisconnect(error)

	// Creates a message receiver used to receive incoming messages.
	Receiver() Receiver

	// Creates a message sender used to write queued messages.
	Sender() Sender

	// Closes the handler and releases its allocated resources.
	Close()

	// The time a client is idle before being disconnected.
	IdleTimeout() time.Duration

	GetClientID() string
}

// Handle serves conn with h until the client disconnects, stays idle for too
// long or ctx is done.
func Handle(ctx context.Context, conn *websocket.Conn, h Handler) {
	handler := handler{
		Conn:    conn,
		Handler: h,
	}

	handler.Handle(ctx)
}

type handler struct {
	// The WebSocket connection.
	Conn *websocket.Conn

	Handler Handler

	sendChan       chan Msg
	receiveChan    chan Msg
	sender         Sender
	receiver       Receiver
	disconnectChan chan error
}

func (h *handler) Handle(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h.Handler.HandleConnect(h.Conn)

	h.disconnectChan = make(chan error, 1)
	h.sendChan = make(chan Msg, sendChanSize)
	h.receiveChan = make(chan Msg, receiveChanSize)
	h.sender = h.Handler.Sender()
	h.receiver = h.Handler.Receiver()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.startSending(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.startReceiving(ctx)
	}()

	idleTimeout := h.Handler.IdleTimeout()
	idleTimer := time.NewTimer(idleTimeout)
	defer idleTimer.Stop()

	responder := responseSender{
		send: h.send,
	}

	var err error

loop:
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop

		case <-idleTimer.C:
			err = errors.New("idle connection").WithTag("duration", idleTimeout)
			break loop

		case msg := <-h.receiveChan:
			idleTimer.Stop()
			idleTimer.Reset(idleTimeout)

			if err = h.handleMessage(ctx, msg, responder); err != nil {
				err = errors.New("handling message failed").Wrap(err)
				break loop
			}

		case err = <-h.disconnectChan:
			break loop
		}
	}

	h.Conn.Close()
	h.Handler.HandleDisconnect(err)

	cancel()
	wg.Wait()
}

func (h *handler) send(msgType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logs.WithTag("client_id", h.Handler.GetClientID()).
			WithTag("msg_type", msgType).
			Debug(errors.New("encoding message failed").Wrap(err))
		return
	}

	h.sendMsg(Msg{
		Type: msgType,
		Data: data,
	})
}

func (h *handler) sendMsg(msg Msg) {
	h.sendChan <- msg
}

func (h *handler) startSending(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-h.sendChan:
			if _, err := h.sender(msg); err != nil {
				h.disconnect(errors.New("sending message failed").Wrap(err))
				return
			}
		}
	}
}

func (h *handler) startReceiving(ctx context.Context) {
	for {
		msg, _, err := h.receiver()
		if err != nil {
			h.disconnect(errors.New("receiving message failed").Wrap(err))
			return
		}

		select {
		case <-ctx.Done():
			return

		case h.receiveChan <- msg:
		}
	}
}

func (h *handler) handleMessage(ctx context.Context, msg Msg, responder ResponseSender) error {
	var err error

	switch msg.Type {
	case MsgTypeRegionsRequest:
		err = h.Handler.HandleRegions(ctx, responder, msg)
	}

	if errors.IsType(err, ErrTypeMsgSkip) {
		return nil
	}
	return err
}

// disconnect keeps the first reported error only.
func (h *handler) disconnect(err error) {
	select {
	case h.disconnectChan <- err:
	default:
	}
}

type responseSender struct {
	send func(string, any)
}

func (r responseSender) Send(msgType string, v any) {
	r.send(msgType, v)
}
