package server

import (
	"usersvc/internal/errors"
	"usersvc/internal/wire"
)

// StatusFor maps error codes to the response class sent on the wire.
func StatusFor(code errors.ErrorCode) wire.Status {
	switch code {
	case "":
		return wire.StatusOK
	case errors.NotFound:
		return wire.StatusNotFound // 404
	case errors.RouteNotMatched:
		return wire.StatusNotFound // 404
	case errors.InvalidID, errors.InvalidBody:
		return wire.StatusInternalServerError // 500
	case errors.StoreUnavailable, errors.StoreFailure:
		return wire.StatusInternalServerError // 500
	default:
		return wire.StatusInternalServerError // 500
	}
}

// Fixed diagnostics written on the wire. Error detail only goes to logs.
const (
	msgCreated       = "User created"
	msgUpdated       = "User updated"
	msgDeleted       = "User deleted"
	msgUserNotFound  = "User not found"
	msgRouteNotFound = "Route not found"
	msgCreateFailed  = "Failed to create user"
	msgFetchFailed   = "Error fetching user"
	msgListFailed    = "Error listing users"
	msgUpdateFailed  = "Error updating user"
	msgDeleteFailed  = "Error deleting user"
	msgInternal      = "Internal server error"
)

// failure converts err into a response. A NotFound error always reads
// "User not found"; everything else carries the operation's diagnostic.
func failure(err error, message string) *wire.Response {
	if errors.Is(err, errors.NotFound) {
		message = msgUserNotFound
	}
	return wire.Text(StatusFor(errors.CodeOf(err)), message)
}
