package server

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"errors"

	"github.com/facebookgo/stackerr"

	"github.com/kvarena/pagecache/internal/util"
	"github.com/kvarena/pagecache/log"
	"github.com/kvarena/pagecache/store"
)

// conn is one client connection speaking the line protocol of
// protocol.go, adapted from the teacher's conn.go: a read loop
// dispatching to per-verb handlers, with every store operation run on
// the server's worker pool rather than inline on the connection's own
// goroutine (spec §5's worker-pool concurrency envelope).
type conn struct {
	reader
	*bufio.Writer
	closer io.Closer

	store *store.Store
	pool  *WorkerPool
	log   log.Logger
	owner string
}

func newConn(s *Server, rwc io.ReadWriteCloser, connID string) *conn {
	return &conn{
		reader: newReader(rwc),
		Writer: bufio.NewWriterSize(rwc, OutBufferSize),
		closer: rwc,
		store:  s.Store,
		pool:   s.pool,
		log:    s.Log.WithFields(log.Fields{"conn": connID}),
	}
}

func (c *conn) serve() {
	c.log.Debug("serve connection")
	defer func() {
		if r := recover(); r != nil {
			c.serverError(stackerr.Newf("panic: %v", r))
		}
		c.Close()
		c.log.Debug("connection closed")
	}()

	if err := c.loop(); err != nil {
		c.serverError(err)
	}
}

func (c *conn) Close() error {
	c.Flush()
	return c.closer.Close()
}

func (c *conn) Flush() error { return stackerr.Wrap(c.Writer.Flush()) }

func (c *conn) loop() error {
	for {
		command, fields, clientErr, err := c.readCommand()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return stackerr.Wrap(err)
		}
		if clientErr == nil {
			c.log.Debugf("command: %s", command)
			switch string(command) {
			case IdentifyCommand:
				clientErr, err = c.identify(fields)
			case AddCommand:
				clientErr, err = c.add(fields)
			case UpdateCommand:
				clientErr, err = c.update(fields)
			case GetCommand:
				clientErr, err = c.get(fields)
			case DeleteCommand:
				clientErr, err = c.delete(fields)
			case StatsCommand:
				err = c.stats()
			default:
				clientErr = stackerr.Wrap(ErrUnknownCommand)
			}
		}
		if clientErr != nil && err == nil {
			err = c.sendClientError(clientErr)
		}
		if err != nil {
			return err
		}
	}
}

// runOnPool submits fn to the worker pool and blocks the connection's
// goroutine until it has run, keeping per-key ordering: the next
// command on this connection is only read after this one's store
// operation has completed.
func (c *conn) runOnPool(fn func()) {
	done := make(chan struct{})
	c.pool.Submit(func() {
		fn()
		close(done)
	})
	<-done
}

func (c *conn) identify(fields [][]byte) (clientErr, err error) {
	if len(fields) != 1 {
		clientErr = stackerr.Wrap(ErrMoreFieldsRequired)
		return
	}
	c.owner = string(fields[0])
	err = c.sendResponse(OkResponse)
	return
}

// parseMutation reads "<key> [<owner>] <bytes>" plus the trailing data
// block; owner falls back to the connection's identified owner when
// omitted (SPEC_FULL §6).
func (c *conn) parseMutation(fields [][]byte) (key []byte, owner string, value []byte, clientErr, err error) {
	var bytesField []byte
	switch len(fields) {
	case 2:
		key, bytesField = fields[0], fields[1]
		owner = c.owner
	case 3:
		key, bytesField = fields[0], fields[2]
		owner = string(fields[1])
	default:
		clientErr = stackerr.Wrap(ErrMoreFieldsRequired)
		return
	}
	clientErr = checkKey(key)
	if clientErr != nil {
		return
	}
	n, perr := strconv.ParseUint(string(bytesField), 10, 32)
	if perr != nil {
		clientErr = stackerr.Newf("%s: %s", ErrFieldsParseError, perr)
		err = c.discardCommand()
		return
	}
	value, clientErr, err = c.readDataBlock(int(n))
	return
}

// parseLookup reads "<key> [<owner>]" for GET/DELETE.
func (c *conn) parseLookup(fields [][]byte) (key []byte, owner string, clientErr error) {
	switch len(fields) {
	case 1:
		key = fields[0]
		owner = c.owner
	case 2:
		key = fields[0]
		owner = string(fields[1])
	default:
		clientErr = stackerr.Wrap(ErrMoreFieldsRequired)
		return
	}
	clientErr = checkKey(key)
	return
}

func (c *conn) add(fields [][]byte) (clientErr, err error) {
	key, owner, value, clientErr, err := c.parseMutation(fields)
	if clientErr != nil || err != nil {
		return
	}

	var serr error
	c.runOnPool(func() { serr = c.store.Add(string(key), owner, value) })

	switch {
	case serr == nil:
		err = c.sendResponse(StoredResponse)
	case errors.Is(serr, store.ErrKeyExists):
		err = c.sendResponse(ExistsResponse)
	default:
		err = c.sendResponse(fmt.Sprintf("%s %s", ServerErrorResponse, serr))
	}
	return
}

func (c *conn) update(fields [][]byte) (clientErr, err error) {
	key, owner, value, clientErr, err := c.parseMutation(fields)
	if clientErr != nil || err != nil {
		return
	}

	var serr error
	c.runOnPool(func() { serr = c.store.Update(string(key), owner, value) })

	switch {
	case serr == nil:
		err = c.sendResponse(StoredResponse)
	case errors.Is(serr, store.ErrNotFound):
		err = c.sendResponse(NotFoundResponse)
	default:
		err = c.sendResponse(fmt.Sprintf("%s %s", ServerErrorResponse, serr))
	}
	return
}

func (c *conn) get(fields [][]byte) (clientErr, err error) {
	key, owner, clientErr := c.parseLookup(fields)
	if clientErr != nil {
		return
	}

	var value []byte
	var serr error
	c.runOnPool(func() { value, serr = c.store.Get(string(key), owner) })

	if serr != nil {
		err = c.sendResponse(NotFoundResponse)
		return
	}
	c.WriteString(ValueResponse)
	c.WriteByte(' ')
	fmt.Fprintf(c, "%v"+Separator, len(value))
	c.Write(value)
	_, err = c.WriteString(Separator)
	if err != nil {
		err = stackerr.Wrap(err)
		return
	}
	err = c.Flush()
	return
}

func (c *conn) delete(fields [][]byte) (clientErr, err error) {
	key, owner, clientErr := c.parseLookup(fields)
	if clientErr != nil {
		return
	}

	var serr error
	c.runOnPool(func() { serr = c.store.Delete(string(key), owner) })

	if serr != nil {
		err = c.sendResponse(NotFoundResponse)
	} else {
		err = c.sendResponse(DeletedResponse)
	}
	return
}

func (c *conn) stats() error {
	var snap []store.Stat
	c.runOnPool(func() { snap = c.store.Stats().Snapshot() })

	for _, s := range snap {
		if _, err := fmt.Fprintf(c, "%s %s %v"+Separator, StatResponse, s.Name, s.Value); err != nil {
			return stackerr.Wrap(err)
		}
	}
	return c.sendResponse(EndResponse)
}

func (c *conn) serverError(err error) {
	c.log.Error("server error: ", util.Unwrap(err))
	if err == io.ErrUnexpectedEOF {
		return
	}
	c.sendResponse(fmt.Sprintf("%s %s", ServerErrorResponse, err))
}

func (c *conn) sendClientError(err error) error {
	c.log.Error("client error: ", util.Unwrap(err))
	return c.sendResponse(fmt.Sprintf("%s %s", ServerErrorResponse, err))
}

func (c *conn) sendResponse(res string) error {
	c.WriteString(res)
	c.WriteString(Separator)
	return c.Flush()
}
