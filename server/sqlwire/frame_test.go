package sqlwire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/elemsql/internal/sql/executor"
)

func frameKind(t *testing.T, err error) *FrameError {
	t.Helper()
	var fe *FrameError
	require.True(t, errors.As(err, &fe), "want *FrameError, got %v", err)
	return fe
}

func TestFrame_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := Response{
		ID: 7,
		Results: []*executor.Result{{
			Statement: executor.KindSelect,
			Table:     &executor.TableData{Name: "t", Columns: []string{"a"}, Rows: [][]string{{"x\ny"}}},
		}},
	}
	require.NoError(t, WriteFrame(&buf, in))

	var out Response
	require.NoError(t, ReadFrame(&buf, &out))
	assert.Equal(t, in, out)
}

// countingWriter records how many Write calls a frame took.
type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestWriteFrame_SingleWrite(t *testing.T) {
	var w countingWriter
	require.NoError(t, WriteFrame(&w, Request{ID: 1, Op: OpExecute, SQL: "SHOW TABLES"}))
	assert.Equal(t, 1, w.writes)
	assert.Equal(t, w.Len()-headerSize, int(binary.BigEndian.Uint32(w.Bytes())))
}

func TestReadFrame_Rejects(t *testing.T) {
	var hdr [headerSize]byte
	fe := frameKind(t, ReadFrame(bytes.NewReader(hdr[:]), &Request{}))
	assert.Equal(t, FrameEmpty, fe.Kind)
	assert.True(t, fe.Recoverable())
	assert.Contains(t, fe.Error(), "empty frame")

	binary.BigEndian.PutUint32(hdr[:], MaxFrameSize+1)
	fe = frameKind(t, ReadFrame(bytes.NewReader(hdr[:]), &Request{}))
	assert.Equal(t, FrameTooLarge, fe.Kind)
	assert.False(t, fe.Recoverable())

	var buf bytes.Buffer
	binary.BigEndian.PutUint32(hdr[:], 3)
	buf.Write(hdr[:])
	buf.WriteString("{x}")
	fe = frameKind(t, ReadFrame(&buf, &Request{}))
	assert.Equal(t, FrameMalformed, fe.Kind)
	assert.True(t, fe.Recoverable())
	assert.Equal(t, "[PROTOCOL ERROR]", fe.Category())
	assert.Zero(t, buf.Len(), "body must be consumed")
}

func TestReadFrame_TransportErrors(t *testing.T) {
	err := ReadFrame(bytes.NewReader(nil), &Request{})
	assert.ErrorIs(t, err, io.EOF)

	var buf bytes.Buffer
	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[:], 10)
	buf.Write(hdr[:])
	buf.WriteString("{}")
	err = ReadFrame(&buf, &Request{})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	var fe *FrameError
	assert.False(t, errors.As(err, &fe))
}
