// Package session binds one database to the operations a shell or remote
// client can invoke: create database, execute, import and export.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tuannm99/elemsql/internal/engine"
	"github.com/tuannm99/elemsql/internal/format"
	"github.com/tuannm99/elemsql/internal/sql/executor"
)

// Backend is what the shells drive. *Session runs in-process; sqlclient
// forwards the same calls to a server.
type Backend interface {
	CreateDatabase(ctx context.Context, name string) error
	Execute(ctx context.Context, sql string) ([]*executor.Result, error)
	Import(ctx context.Context, path string) error
	Export(ctx context.Context, formatName, path string) error
	Close() error
}

type Options struct {
	// DatabaseName names the initial database; empty means
	// engine.DefaultDatabaseName.
	DatabaseName string
	// StatementCache is the parsed-statement cache size; 0 disables it.
	StatementCache int
}

// Session owns one database. Calls are serialized, so a Session may be shared
// between goroutines, but the database never is.
type Session struct {
	id uuid.UUID

	mu   sync.Mutex
	exec *executor.Executor
}

var _ Backend = (*Session)(nil)

func New(opts Options) *Session {
	name := opts.DatabaseName
	if name == "" {
		name = engine.DefaultDatabaseName
	}
	s := &Session{
		id:   uuid.New(),
		exec: executor.NewExecutor(engine.NewDatabase(name), executor.WithStatementCache(opts.StatementCache)),
	}
	slog.Debug("session: opened", "session", s.id, "database", name)
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

// Database returns the current database. Callers must not use it
// concurrently with other Session calls.
func (s *Session) Database() *engine.Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.DB()
}

// CreateDatabase replaces the current database with an empty one.
func (s *Session) CreateDatabase(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		name = engine.DefaultDatabaseName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.exec.SetDatabase(engine.NewDatabase(name))
	slog.Info("session: database created", "session", s.id, "database", name)
	return nil
}

// Execute runs every statement in sql. On failure the results of the
// statements that succeeded are returned with a *executor.ScriptError.
func (s *Session) Execute(ctx context.Context, sql string) ([]*executor.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.ExecScript(sql)
}

// Import replaces the current database with the one stored at path. The
// format follows the file extension.
func (s *Session) Import(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db, err := format.ImportFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.exec.SetDatabase(db)
	return nil
}

// Export writes the current database to path in the named format
// ("sql" or "dbexp").
func (s *Session) Export(ctx context.Context, formatName, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := format.ForName(formatName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := format.Export(s.exec.DB(), f, path); err != nil {
		return fmt.Errorf("session: export: %w", err)
	}
	return nil
}

func (s *Session) Close() error {
	slog.Debug("session: closed", "session", s.id)
	return nil
}
