package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	velaerrors "github.com/vango-dev/vela/internal/errors"
	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/protocol"
	"github.com/vango-dev/vela/pkg/surface"
)

// session is one browser connection running one app instance on its own
// memory surface. Every pass's ops are forwarded to the client as op frames.
type session struct {
	id     string
	name   string
	conn   *websocket.Conn
	server *Server
	logger *slog.Logger

	mem *surface.Memory
	run app.Runner

	ctx    context.Context
	cancel context.CancelFunc

	writeMu sync.Mutex
	seq     uint64
}

func newSession(conn *websocket.Conn, name string, s *Server) *session {
	id := newSessionID()
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		id:     id,
		name:   name,
		conn:   conn,
		server: s,
		logger: s.logger.With("session", id, "app", name),
		mem:    surface.NewMemory(),
		ctx:    ctx,
		cancel: cancel,
	}
}

func newSessionID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// serve starts the app, sends the initial snapshot and runs the app loop
// until the connection or the app ends.
func (s *session) serve(factory app.Factory) {
	defer s.cancel()
	cfg := s.server.config

	run, err := factory(s.mem, s.mem.Root(),
		app.WithLogger(s.logger),
		app.WithMetrics(s.server.appMetrics),
		app.WithMaxQueue(cfg.MaxQueue),
		app.OnPass(s.flush),
	)
	if err != nil {
		s.logger.Error("app start failed", "error", err)
		s.fail(err)
		return
	}
	s.run = run
	defer run.Stop()

	snapshot := s.mem.Snapshot(s.mem.Root())
	s.mem.ResetOps()
	frames, err := protocol.EncodeOpsFrames(0, snapshot, protocol.FlagSnapshot)
	if err != nil {
		s.logger.Error("snapshot encode failed", "error", err)
		s.fail(err)
		return
	}
	if err := s.send(frames); err != nil {
		s.logger.Debug("snapshot write failed", "error", err)
		return
	}
	s.server.metrics.sent("ops", len(snapshot))
	s.logger.Info("session started", "ops", len(snapshot))

	go s.readLoop()
	go s.pingLoop()

	if err := run.Run(s.ctx); err != nil {
		s.logger.Error("app stopped", "error", err)
		s.fail(err)
		return
	}
	s.closeWith(websocket.CloseNormalClosure, "")
	s.logger.Info("session ended")
}

// flush sends the ops of a finished pass. It runs on the app loop.
func (s *session) flush(pass app.Pass) {
	ops := s.mem.Drain()
	if len(ops) == 0 {
		return
	}
	s.writeMu.Lock()
	s.seq++
	seq := s.seq
	s.writeMu.Unlock()

	frames, err := protocol.EncodeOpsFrames(seq, ops, 0)
	if err != nil {
		// The client can no longer mirror the tree.
		s.logger.Error("ops encode failed", "seq", seq, "pass", pass.Seq, "error", err)
		s.fail(err)
		s.cancel()
		return
	}
	if err := s.send(frames); err != nil {
		s.logger.Debug("ops write failed", "seq", seq, "error", err)
		s.cancel()
		return
	}
	s.server.metrics.sent("ops", len(ops))
}

func (s *session) send(frames []*protocol.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	for _, f := range frames {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
		data, err := f.Encode()
		if err != nil {
			return err
		}
		if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			s.server.metrics.wsError("write")
			return err
		}
	}
	return nil
}

func (s *session) sendError(err error, fallback string) {
	ef := protocol.ErrorFrameFor(err, fallback)
	if werr := s.send([]*protocol.Frame{protocol.NewFrame(protocol.FrameError, protocol.EncodeError(ef))}); werr != nil {
		return
	}
	s.server.metrics.sent("error", 0)
}

// fail reports err to the client and closes the connection.
func (s *session) fail(err error) {
	s.sendError(err, "E121")
	s.closeWith(websocket.CloseInternalServerErr, velaerrors.FromError(err, "E121").Code)
}

func (s *session) closeWith(code int, text string) {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()
	_ = s.conn.Close()
}

// shutdown ends the session from the server side.
func (s *session) shutdown() {
	s.cancel()
}

// readLoop decodes event frames and fires them on the app loop.
func (s *session) readLoop() {
	defer s.cancel()
	cfg := s.server.config

	s.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.server.metrics.wsError("read")
				s.logger.Debug("read failed", "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		if msgType != websocket.BinaryMessage {
			continue
		}

		ev, err := s.decode(data)
		if err != nil {
			s.server.metrics.received("invalid")
			s.logger.Warn("bad frame", "error", err)
			s.sendError(err, "E140")
			continue
		}
		s.server.metrics.received("event")

		err = s.run.Do(func() {
			if !s.mem.Fire(ev.Node, ev.Event) {
				s.logger.Debug("event on unknown node", "node", ev.Node, "type", ev.Event.Type, "seq", ev.Seq)
			}
		})
		switch {
		case err == nil:
		case velaerrors.HasCode(err, "E122"):
			s.logger.Warn("event dropped", "seq", ev.Seq, "error", err)
			s.sendError(err, "E122")
		default:
			return
		}
	}
}

func (s *session) decode(data []byte) (*protocol.EventFrame, error) {
	f, err := protocol.DecodeFrame(data)
	if err != nil {
		if errors.Is(err, protocol.ErrInvalidFrameType) {
			return nil, velaerrors.New("E141").Wrap(err)
		}
		return nil, velaerrors.New("E140").Wrap(err)
	}
	if f.Type != protocol.FrameEvent {
		return nil, velaerrors.New("E141").WithDetailf("unexpected %s frame from client", f.Type)
	}
	return protocol.DecodeEvent(f.Payload)
}

func (s *session) pingLoop() {
	ticker := time.NewTicker(s.server.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.server.config.WriteTimeout))
			s.writeMu.Unlock()
			if err != nil {
				s.server.metrics.wsError("ping")
				s.cancel()
				return
			}
		}
	}
}
