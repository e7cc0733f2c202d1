// Package wire reads requests from and writes responses to the raw
// HTTP/1.1-shaped text protocol spoken on the service socket.
package wire

import (
	"bytes"
	"strconv"
	"strings"

	"usersvc/internal/errors"
	"usersvc/internal/user"
)

var (
	crlfBlank = []byte("\r\n\r\n")
	lfBlank   = []byte("\n\n")
)

// Request is what ParseRequest extracts from one read off a connection.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// ParseRequest splits raw request bytes into method, path and body. It
// never fails: a missing or malformed request line leaves Method and Path
// empty, which no route matches.
func ParseRequest(raw []byte) *Request {
	req := &Request{}

	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	fields := strings.Fields(string(line))
	if len(fields) >= 2 {
		req.Method = fields[0]
		req.Path = fields[1]
	}

	if i := bytes.Index(raw, crlfBlank); i >= 0 {
		req.Body = raw[i+len(crlfBlank):]
	} else if i := bytes.Index(raw, lfBlank); i >= 0 {
		req.Body = raw[i+len(lfBlank):]
	}

	return req
}

// ID returns the numeric resource id, the path segment after /users/.
// A missing or non-numeric segment is an InvalidID error, never id 0.
func (r *Request) ID() (int64, error) {
	segments := strings.Split(r.Path, "/")
	if len(segments) < 3 || segments[2] == "" {
		return 0, errors.New(errors.InvalidID, "missing id segment in "+strconv.Quote(r.Path), nil)
	}
	id, err := strconv.ParseInt(segments[2], 10, 64)
	if err != nil {
		return 0, errors.New(errors.InvalidID, "id segment is not an integer", err)
	}
	return id, nil
}

// User decodes the body as a user record.
func (r *Request) User() (user.User, error) {
	return user.Decode(r.Body)
}
