package server

import (
	"bufio"
	"bytes"
	"io"

	"github.com/facebookgo/stackerr"
	"github.com/pkg/errors"
)

// Wire protocol constants (SPEC_FULL §6): the four cache verbs, STATS,
// the connection-scoped IDENTIFY handshake, and the response codes each
// verb can produce.
const (
	Separator = "\r\n"

	AddCommand      = "ADD"
	UpdateCommand   = "UPDATE"
	GetCommand      = "GET"
	DeleteCommand   = "DELETE"
	StatsCommand    = "STATS"
	IdentifyCommand = "IDENTIFY"

	StoredResponse      = "STORED"
	ExistsResponse      = "EXISTS"
	NotFoundResponse    = "NOT_FOUND"
	DeletedResponse     = "DELETED"
	ServerErrorResponse = "SERVER_ERROR"
	ValueResponse       = "VALUE"
	StatResponse        = "STAT"
	EndResponse         = "END"
	OkResponse          = "OK"

	MaxKeySize     = 250
	MaxCommandSize = 1 << 12

	InBufferSize  = 16 * (1 << 10)
	OutBufferSize = 16 * (1 << 10)
)

var (
	ErrMoreFieldsRequired   = errors.New("more fields required")
	ErrTooManyFields        = errors.New("too many fields")
	ErrTooLargeCommand      = errors.New("command length is too big")
	ErrEmptyCommand         = errors.New("empty command")
	ErrInvalidLineSeparator = errors.New("invalid line separator")
	ErrFieldsParseError     = errors.New("fields parse error")
	ErrTooLargeKey          = errors.New("too large key")
	ErrInvalidCharInKey     = errors.New("key contains invalid characters")
	ErrUnknownCommand       = errors.New("unknown command")

	separatorBytes = []byte(Separator)
)

func isInvalidFieldChar(b byte) bool {
	return b <= ' ' || b == 127
}

func checkKey(p []byte) error {
	if len(p) == 0 {
		return stackerr.Wrap(ErrMoreFieldsRequired)
	}
	if len(p) > MaxKeySize {
		return stackerr.Wrap(ErrTooLargeKey)
	}
	for _, b := range p {
		if isInvalidFieldChar(b) {
			return stackerr.Wrap(ErrInvalidCharInKey)
		}
	}
	return nil
}

// reader wraps a bufio.Reader with the command/data-block framing the
// protocol uses, adapted from the teacher's protocol.go reader.
type reader struct {
	*bufio.Reader
}

func newReader(r io.Reader) reader {
	return reader{bufio.NewReaderSize(r, InBufferSize)}
}

// readCommand reads one line and splits it into a verb and its fields.
// WARN: returned slices point into the read buffer and are invalidated
// by the next read.
func (r reader) readCommand() (command []byte, fields [][]byte, clientErr, err error) {
	var lineWithSeparator []byte
	lineWithSeparator, err = r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		clientErr = stackerr.Wrap(ErrTooLargeCommand)
		err = r.discardCommand()
		return
	}
	if err == io.EOF {
		if len(lineWithSeparator) != 0 {
			err = stackerr.Wrap(io.ErrUnexpectedEOF)
		}
		return
	}
	if err != nil {
		err = stackerr.Wrap(err)
		return
	}
	if !bytes.HasSuffix(lineWithSeparator, separatorBytes) {
		clientErr = stackerr.Wrap(ErrInvalidLineSeparator)
		return
	}
	line := bytes.TrimSuffix(lineWithSeparator, separatorBytes)
	split := bytes.Fields(line)
	if len(split) == 0 {
		clientErr = stackerr.Wrap(ErrEmptyCommand)
		return
	}
	command = split[0]
	fields = split[1:]
	return
}

// readDataBlock reads exactly size bytes followed by the line
// separator, the payload framing ADD/UPDATE use.
func (r reader) readDataBlock(size int) (data []byte, clientErr, err error) {
	data = make([]byte, size)
	_, err = io.ReadFull(r.Reader, data)
	if err != nil {
		err = stackerr.Wrap(err)
		return
	}
	var sep []byte
	sep, err = r.ReadSlice('\n')
	err = stackerr.Wrap(err)
	if err == nil && !bytes.Equal(sep, separatorBytes) {
		clientErr = stackerr.Wrap(ErrInvalidLineSeparator)
	}
	return
}

// discardCommand discards input until the next separator, used to
// resynchronize after a malformed command whose data block (if any)
// was never read.
func (r reader) discardCommand() error {
	for {
		lineWithSeparator, err := r.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			return err
		}
		if !bytes.HasSuffix(lineWithSeparator, separatorBytes) {
			continue
		}
		return nil
	}
}
