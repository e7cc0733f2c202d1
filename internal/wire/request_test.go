package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usersvc/internal/errors"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{
			name:       "get without body",
			raw:        "GET /users HTTP/1.1\r\nHost: localhost\r\n\r\n",
			wantMethod: "GET",
			wantPath:   "/users",
		},
		{
			name:       "post with body",
			raw:        "POST /users HTTP/1.1\r\nContent-Type: application/json\r\nContent-Length: 35\r\n\r\n{\"name\":\"Ana\",\"email\":\"ana@x.com\"}",
			wantMethod: "POST",
			wantPath:   "/users",
			wantBody:   `{"name":"Ana","email":"ana@x.com"}`,
		},
		{
			name:       "bare newlines",
			raw:        "PUT /users/3 HTTP/1.1\nHost: x\n\n{\"name\":\"a\",\"email\":\"b\"}",
			wantMethod: "PUT",
			wantPath:   "/users/3",
			wantBody:   `{"name":"a","email":"b"}`,
		},
		{
			name:       "body keeps later blank lines",
			raw:        "POST /users HTTP/1.1\r\n\r\nfirst\r\n\r\nsecond",
			wantMethod: "POST",
			wantPath:   "/users",
			wantBody:   "first\r\n\r\nsecond",
		},
		{
			name:       "no header terminator",
			raw:        "DELETE /users/9 HTTP/1.1\r\nHost: x",
			wantMethod: "DELETE",
			wantPath:   "/users/9",
		},
		{
			name:       "request line only",
			raw:        "GET /users/42 HTTP/1.1",
			wantMethod: "GET",
			wantPath:   "/users/42",
		},
		{name: "empty", raw: ""},
		{name: "single token", raw: "GET\r\n\r\n"},
		{name: "blank first line", raw: "\r\nGET /users HTTP/1.1\r\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ParseRequest([]byte(tt.raw))
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, tt.wantBody, string(req.Body))
		})
	}
}

func TestRequest_ID(t *testing.T) {
	tests := []struct {
		path    string
		want    int64
		wantErr bool
	}{
		{path: "/users/42", want: 42},
		{path: "/users/0", want: 0},
		{path: "/users/7/extra", want: 7},
		{path: "/users/-3", want: -3},
		{path: "/users/abc", wantErr: true},
		{path: "/users/", wantErr: true},
		{path: "/users", wantErr: true},
		{path: "/users/42?x=1", wantErr: true},
		{path: "/users/4 2", wantErr: true},
		{path: "/users/99999999999999999999", wantErr: true},
		{path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, err := (&Request{Path: tt.path}).ID()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.InvalidID, errors.CodeOf(err))
				assert.Zero(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestRequest_User(t *testing.T) {
	req := ParseRequest([]byte("POST /users HTTP/1.1\r\n\r\n{\"name\":\"Ana\",\"email\":\"ana@x.com\"}"))
	u, err := req.User()
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@x.com", u.Email)

	req = ParseRequest([]byte("POST /users HTTP/1.1\r\n\r\n{not json"))
	_, err = req.User()
	require.Error(t, err)
	assert.Equal(t, errors.InvalidBody, errors.CodeOf(err))

	req = ParseRequest([]byte("POST /users HTTP/1.1\r\nHost: x"))
	_, err = req.User()
	assert.Equal(t, errors.InvalidBody, errors.CodeOf(err), "a request without body separator has an empty body")
}
