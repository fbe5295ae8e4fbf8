package sqlwire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// MaxFrameSize bounds the JSON body of one frame in either direction.
const MaxFrameSize = 8 << 20 // 8 MiB

const headerSize = 4

// FrameErrorKind says why a frame was refused.
type FrameErrorKind int

const (
	FrameEmpty FrameErrorKind = iota + 1
	FrameTooLarge
	FrameMalformed
)

func (k FrameErrorKind) String() string {
	switch k {
	case FrameEmpty:
		return "empty frame"
	case FrameTooLarge:
		return "frame too large"
	case FrameMalformed:
		return "malformed frame"
	default:
		return "bad frame"
	}
}

// FrameError is a frame refused by ReadFrame or WriteFrame. Transport
// failures are returned unwrapped instead.
type FrameError struct {
	Kind FrameErrorKind
	Size int
	Err  error
}

func (e *FrameError) Error() string {
	switch {
	case e.Kind == FrameTooLarge:
		return fmt.Sprintf("sqlwire: %s: %d > %d", e.Kind, e.Size, MaxFrameSize)
	case e.Err != nil:
		return fmt.Sprintf("sqlwire: %s: %v", e.Kind, e.Err)
	default:
		return "sqlwire: " + e.Kind.String()
	}
}

func (e *FrameError) Unwrap() error { return e.Err }

// Category labels the error for clients.
func (e *FrameError) Category() string { return "[PROTOCOL ERROR]" }

// Recoverable reports whether the stream still sits on a frame boundary, so
// the peer can be answered and the connection kept. An oversized body is
// never read, which leaves the stream out of step.
func (e *FrameError) Recoverable() bool { return e.Kind != FrameTooLarge }

// ReadFrame reads one length-prefixed JSON frame into v.
func ReadFrame(r io.Reader, v any) error {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return err
	}
	n := int(binary.BigEndian.Uint32(hdr[:]))
	switch {
	case n == 0:
		return &FrameError{Kind: FrameEmpty}
	case n > MaxFrameSize:
		return &FrameError{Kind: FrameTooLarge, Size: n}
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return &FrameError{Kind: FrameMalformed, Size: n, Err: err}
	}
	return nil
}

// WriteFrame encodes v and sends header and body in a single Write.
func WriteFrame(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return &FrameError{Kind: FrameMalformed, Err: err}
	}
	if len(body) > MaxFrameSize {
		return &FrameError{Kind: FrameTooLarge, Size: len(body)}
	}

	buf := make([]byte, headerSize+len(body))
	binary.BigEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[headerSize:], body)
	_, err = w.Write(buf)
	return err
}
