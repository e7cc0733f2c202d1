package wire

import (
	"bytes"
	"io"
	"strconv"

	"usersvc/internal/user"
)

// Status is one of the three response classes the service emits.
type Status int

const (
	StatusOK                  Status = 200
	StatusNotFound            Status = 404
	StatusInternalServerError Status = 500
)

// Text returns the reason phrase written on the status line.
func (s Status) Text() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNotFound:
		return "NOT FOUND"
	default:
		return "INTERNAL SERVER ERROR"
	}
}

// Code returns the numeric code; anything unknown is reported as 500.
func (s Status) Code() int {
	switch s {
	case StatusOK, StatusNotFound:
		return int(s)
	default:
		return int(StatusInternalServerError)
	}
}

// Response is a status plus a body, built fresh for every request.
type Response struct {
	Status Status
	Body   []byte
}

// Text builds a response with a plain diagnostic or confirmation body.
func Text(status Status, body string) *Response {
	return &Response{Status: status, Body: []byte(body)}
}

// JSON builds a 200 response carrying v encoded by the user codec. An
// encoding failure yields a 500 with the given diagnostic.
func JSON(v any, failure string) *Response {
	data, err := user.Encode(v)
	if err != nil {
		return Text(StatusInternalServerError, failure)
	}
	return &Response{Status: StatusOK, Body: data}
}

// Bytes serializes the response. Success responses are labelled
// application/json; the connection always closes after the write.
func (r *Response) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(96 + len(r.Body))

	buf.WriteString("HTTP/1.1 ")
	buf.WriteString(strconv.Itoa(r.Status.Code()))
	buf.WriteByte(' ')
	buf.WriteString(r.Status.Text())
	buf.WriteString("\r\n")

	if r.Status.Code() == int(StatusOK) {
		buf.WriteString("Content-Type: application/json\r\n")
	}
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(r.Body)))
	buf.WriteString("\r\n")
	buf.WriteString("Connection: close\r\n")
	buf.WriteString("\r\n")

	buf.Write(r.Body)
	return buf.Bytes()
}

// WriteTo writes the serialized response to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
