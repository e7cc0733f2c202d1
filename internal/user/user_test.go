package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usersvc/internal/errors"
)

func TestDecode(t *testing.T) {
	u, err := Decode([]byte(`{"name":"Ana","email":"ana@x.com"}`))
	require.NoError(t, err)
	assert.Equal(t, User{Name: "Ana", Email: "ana@x.com"}, u)
}

func TestDecode_IgnoresIDAndUnknownKeys(t *testing.T) {
	u, err := Decode([]byte(" {\"id\": 7, \"name\":\"Bo\",\"email\":\"bo@x.com\",\"role\":\"admin\"}\r\n"))
	require.NoError(t, err)
	assert.Nil(t, u.ID)
	assert.Equal(t, "Bo", u.Name)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "  \r\n"},
		{"not json", "name=Ana"},
		{"truncated", `{"name":"Ana","email":`},
		{"array", `[{"name":"Ana","email":"ana@x.com"}]`},
		{"missing email", `{"name":"Ana"}`},
		{"missing name", `{"email":"ana@x.com"}`},
		{"wrong type", `{"name":42,"email":"ana@x.com"}`},
		{"null name", `{"name":null,"email":"ana@x.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, errors.InvalidBody, errors.CodeOf(err))
		})
	}
}

func TestEncode_OmitsMissingID(t *testing.T) {
	data, err := Encode(User{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ana","email":"ana@x.com"}`, string(data))

	data, err = Encode(User{Name: "Ana", Email: "ana@x.com"}.WithID(3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"Ana","email":"ana@x.com"}`, string(data))
}

func TestEncode_EmptyList(t *testing.T) {
	data, err := Encode([]User{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRoundTrip(t *testing.T) {
	for _, raw := range []string{
		`{"name":"Ana","email":"ana@x.com"}`,
		`{"email":"zé@example.org","name":"Zé \"Z\" Silva"}`,
		`{"name":"","email":""}`,
	} {
		u, err := Decode([]byte(raw))
		require.NoError(t, err)

		out, err := Encode(u)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	}
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := Encode(json.RawMessage(`{`))
	require.Error(t, err)
	assert.Equal(t, errors.InternalError, errors.CodeOf(err))
}
