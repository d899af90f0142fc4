package server

import (
	"context"
	"ctchen222/tictactoe-hotseat/internal/events"
	"ctchen222/tictactoe-hotseat/internal/session"
	"ctchen222/tictactoe-hotseat/internal/validator"
	"ctchen222/tictactoe-hotseat/pkg/proto"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	heartbeatInterval = 10 * time.Second
	pongWait          = 3 * heartbeatInterval
	writeWait         = 5 * time.Second
)

// client is one websocket connection. Only writePump writes to conn.
type client struct {
	id      string
	conn    *websocket.Conn
	session *session.Session
	send    chan *proto.ServerToClientMessage
}

func newClient(id string, conn *websocket.Conn, s *session.Session) *client {
	return &client{
		id:      id,
		conn:    conn,
		session: s,
		send:    make(chan *proto.ServerToClientMessage, 8),
	}
}

func (cl *client) serve(ctx context.Context) {
	updates, unsubscribe := cl.session.Subscribe()
	defer unsubscribe()

	cl.send <- proto.NewUpdate(cl.session.Snapshot())

	done := make(chan struct{})
	go cl.writePump(updates, done)
	cl.readPump(ctx)
	close(done)
}

// readPump handles client messages until the connection fails.
func (cl *client) readPump(ctx context.Context) {
	defer cl.conn.Close()

	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "websocket connection error", "client.id", cl.id, "error", err)
			}
			return
		}
		cl.handleMessage(ctx, raw)
	}
}

func (cl *client) handleMessage(ctx context.Context, raw []byte) {
	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "client.id", cl.id, "error", err)
		cl.reply(proto.NewError("malformed message"))
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from client", "client.id", cl.id, "error", err)
		cl.reply(proto.NewError(validator.Describe(err)))
		return
	}

	switch message.Type {
	case proto.TypeMove:
		if len(message.Position) != 2 {
			cl.reply(proto.NewError("position must hold a row and a column"))
			return
		}
		if _, err := cl.session.Click(ctx, message.Position[0], message.Position[1]); err != nil {
			cl.reply(proto.NewError(err.Error()))
		}
	case proto.TypeRestart:
		cl.session.Restart(ctx)
	}
}

// reply queues a message for this client only, dropping it if the writer is gone.
func (cl *client) reply(msg *proto.ServerToClientMessage) {
	select {
	case cl.send <- msg:
	default:
		slog.Warn("dropping reply for slow client", "client.id", cl.id, "message.type", msg.Type)
	}
}

// writePump pushes replies, session updates and pings to the connection.
func (cl *client) writePump(updates <-chan events.Event, done <-chan struct{}) {
	pingTicker := time.NewTicker(heartbeatInterval)
	defer func() {
		pingTicker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case <-done:
			return

		case msg := <-cl.send:
			if err := cl.write(msg); err != nil {
				return
			}

		case event, ok := <-updates:
			if !ok {
				return
			}
			snapshot, err := event.Snapshot()
			if err != nil {
				slog.Error("dropping undecodable event", "client.id", cl.id, "error", err)
				continue
			}
			if err := cl.write(proto.NewUpdate(snapshot)); err != nil {
				return
			}

		case <-pingTicker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("Failed to send ping to client, assuming disconnect", "client.id", cl.id, "error", err)
				return
			}
		}
	}
}

func (cl *client) write(msg *proto.ServerToClientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("error marshalling message", "client.id", cl.id, "error", err)
		return nil
	}
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Warn("error writing message to client", "client.id", cl.id, "error", err)
		return err
	}
	return nil
}
