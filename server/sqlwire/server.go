package sqlwire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/tuannm99/elemsql/internal/render"
	"github.com/tuannm99/elemsql/internal/session"
	"github.com/tuannm99/elemsql/internal/sql/executor"
)

type ServerConfig struct {
	Addr string
	// DatabaseName names the database each new session starts with.
	DatabaseName   string
	StatementCache int
	// Debug logs every request.
	Debug bool
}

// Run listens on sc.Addr and serves until SIGINT/SIGTERM.
func Run(sc ServerConfig) error {
	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, ln, sc)
}

// Serve accepts connections on ln until ctx is done. Every connection gets
// its own session and database.
func Serve(ctx context.Context, ln net.Listener, sc ServerConfig) error {
	defer func() { _ = ln.Close() }()
	slog.Info("sqlwire: listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Warn("sqlwire: accept", "err", err)
			continue
		}
		go handleConn(ctx, conn, sc)
	}
}

func handleConn(ctx context.Context, conn net.Conn, sc ServerConfig) {
	defer func() { _ = conn.Close() }()

	// No global deadline; clients set per-request deadlines.
	_ = conn.SetDeadline(time.Time{})

	sess := newSession(sc)
	defer func() { _ = sess.Close() }()
	log := slog.With("session", sess.ID().String(), "remote", conn.RemoteAddr().String())
	log.Info("sqlwire: session opened")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var req Request
		if err := ReadFrame(conn, &req); err != nil {
			var fe *FrameError
			if !errors.As(err, &fe) || !fe.Recoverable() {
				log.Info("sqlwire: session closed", "reason", err)
				return
			}
			log.Warn("sqlwire: frame rejected", "err", err)
			resp := Response{Error: err.Error(), Category: render.Category(err)}
			if err := WriteFrame(conn, resp); err != nil {
				log.Warn("sqlwire: write response", "err", err)
				return
			}
			continue
		}
		if sc.Debug {
			log.Debug("sqlwire: request", "id", req.ID, "op", req.Op)
		}

		resp := dispatch(ctx, sess, req)
		if err := WriteFrame(conn, resp); err != nil {
			log.Warn("sqlwire: write response", "id", req.ID, "err", err)
			return
		}
	}
}

// newSession returns a fresh database per connection so nothing is shared
// across clients.
func newSession(sc ServerConfig) *session.Session {
	return session.New(session.Options{
		DatabaseName:   sc.DatabaseName,
		StatementCache: sc.StatementCache,
	})
}

func dispatch(ctx context.Context, sess *session.Session, req Request) Response {
	resp := Response{ID: req.ID}

	var err error
	switch req.Op {
	case OpCreateDatabase:
		err = sess.CreateDatabase(ctx, req.Name)
	case OpExecute:
		resp.Results, err = sess.Execute(ctx, req.SQL)
	case OpImport:
		err = sess.Import(ctx, req.Path)
	case OpExport:
		err = sess.Export(ctx, req.Format, req.Path)
	default:
		err = fmt.Errorf("sqlwire: unknown op %q", req.Op)
	}

	if err != nil {
		resp.Error = err.Error()
		resp.Category = render.Category(err)
		var se *executor.ScriptError
		if errors.As(err, &se) {
			resp.Line = se.Line
		}
	}
	return resp
}
