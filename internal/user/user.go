// Package user holds the user record and its JSON wire form.
package user

import (
	"bytes"
	"encoding/json"
	"strings"

	"usersvc/internal/errors"
)

// User is the single resource exposed by the service. ID is assigned by
// the store and is nil until the record has been inserted.
type User struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WithID returns a copy of u carrying the given store id.
func (u User) WithID(id int64) User {
	u.ID = &id
	return u
}

// input is the decoding shape; pointer fields detect absent keys.
type input struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Decode parses a request body into a User. Both name and email must be
// present as strings; unknown keys, including id, are ignored.
func Decode(data []byte) (User, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return User{}, errors.New(errors.InvalidBody, "empty body", nil)
	}

	var in input
	if err := json.Unmarshal(data, &in); err != nil {
		return User{}, errors.New(errors.InvalidBody, "malformed JSON", err)
	}

	var missing []string
	if in.Name == nil {
		missing = append(missing, "name")
	}
	if in.Email == nil {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return User{}, errors.New(errors.InvalidBody, "missing field: "+strings.Join(missing, ", "), nil)
	}

	return User{Name: *in.Name, Email: *in.Email}, nil
}

// Encode renders a User, or a slice of them, as JSON.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.New(errors.InternalError, "encode response", err)
	}
	return data, nil
}
