package sqlclient

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuannm99/elemsql/internal/session"
	"github.com/tuannm99/elemsql/internal/sql/executor"
	"github.com/tuannm99/elemsql/server/sqlwire"
)

// RemoteError is a failure reported by the server.
type RemoteError struct {
	Message string
	Kind    string
	Line    int
}

func (e *RemoteError) Error() string { return e.Message }

// Category returns the failure class assigned by the server.
func (e *RemoteError) Category() string { return e.Kind }

// Client is a simple synchronous client.
// It locks send/recv so calls may be made concurrently but they serialize.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
	id   atomic.Uint64

	// Optional per-request timeout (0 = no timeout).
	rwTimeout time.Duration
}

var _ session.Backend = (*Client)(nil)

func Dial(addr string, timeout time.Duration) (*Client, error) {
	return DialContext(context.Background(), addr, timeout)
}

func DialContext(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: c}, nil
}

// SetRWTimeout sets a per-request read/write deadline.
func (c *Client) SetRWTimeout(d time.Duration) {
	if c == nil {
		return
	}
	c.rwTimeout = d
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) CreateDatabase(ctx context.Context, name string) error {
	_, err := c.do(ctx, sqlwire.Request{Op: sqlwire.OpCreateDatabase, Name: name})
	return err
}

// Execute runs a script remotely. On failure the results of the statements
// that succeeded are returned with a *RemoteError.
func (c *Client) Execute(ctx context.Context, sql string) ([]*executor.Result, error) {
	resp, err := c.do(ctx, sqlwire.Request{Op: sqlwire.OpExecute, SQL: sql})
	if resp == nil {
		return nil, err
	}
	return resp.Results, err
}

// Import loads a file that lives on the server's filesystem.
func (c *Client) Import(ctx context.Context, path string) error {
	_, err := c.do(ctx, sqlwire.Request{Op: sqlwire.OpImport, Path: path})
	return err
}

// Export writes a file on the server's filesystem.
func (c *Client) Export(ctx context.Context, formatName, path string) error {
	_, err := c.do(ctx, sqlwire.Request{Op: sqlwire.OpExport, Format: formatName, Path: path})
	return err
}

func (c *Client) do(ctx context.Context, req sqlwire.Request) (*sqlwire.Response, error) {
	if c == nil || c.conn == nil {
		return nil, fmt.Errorf("sqlclient: nil client")
	}

	req.ID = c.id.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() {
		// Clear deadline after request so idle connection doesn't expire.
		_ = c.conn.SetDeadline(time.Time{})
	}()

	if err := sqlwire.WriteFrame(c.conn, req); err != nil {
		return nil, err
	}

	var resp sqlwire.Response
	if err := sqlwire.ReadFrame(c.conn, &resp); err != nil {
		return nil, err
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("sqlclient: response id mismatch: got=%d want=%d", resp.ID, req.ID)
	}
	if resp.Error != "" {
		return &resp, &RemoteError{Message: resp.Error, Kind: resp.Category, Line: resp.Line}
	}
	return &resp, nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	// Prefer context deadline if present; otherwise use rwTimeout.
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.rwTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.rwTimeout))
	}
	return nil
}
