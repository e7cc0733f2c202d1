package server

import (
	"context"
	"log/slog"

	"usersvc/internal/errors"
	"usersvc/internal/storage"
	"usersvc/internal/user"
	"usersvc/internal/wire"
)

// Session is the per-request view of the store.
type Session interface {
	CreateUser(ctx context.Context, u user.User) (int64, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	UpdateUser(ctx context.Context, id int64, u user.User) (int64, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	Close() error
}

// Store hands out one Session per request.
type Store interface {
	Connect(ctx context.Context) (Session, error)
}

// StoreFunc adapts a function to the Store interface.
type StoreFunc func(ctx context.Context) (Session, error)

// Connect calls f(ctx).
func (f StoreFunc) Connect(ctx context.Context) (Session, error) {
	return f(ctx)
}

// GatewayStore serves sessions from a storage gateway.
func GatewayStore(gw *storage.Gateway) Store {
	return StoreFunc(func(ctx context.Context) (Session, error) {
		s, err := gw.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Handler runs the operation a request routes to.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler creates a handler backed by store.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Handle dispatches req and always produces a response. Every error is
// folded into a 404 or 500 here and logged.
func (h *Handler) Handle(ctx context.Context, req *wire.Request) *wire.Response {
	route := Match(req.Method, req.Path)

	var (
		resp *wire.Response
		err  error
	)
	switch route {
	case RouteCreate:
		resp, err = h.create(ctx, req)
	case RouteReadOne:
		resp, err = h.readOne(ctx, req)
	case RouteReadAll:
		resp, err = h.readAll(ctx)
	case RouteUpdate:
		resp, err = h.update(ctx, req)
	case RouteDelete:
		resp, err = h.delete(ctx, req)
	default:
		resp = wire.Text(wire.StatusNotFound, msgRouteNotFound)
		err = errors.New(errors.RouteNotMatched, "no route for "+req.Method+" "+req.Path, nil)
	}

	if err != nil {
		h.logger.Log(ctx, logLevel(err), "Request failed",
			"route", route.String(),
			"code", string(errors.CodeOf(err)),
			"error", err,
		)
	}
	return resp
}

// logLevel grades a request failure by its error family.
func logLevel(err error) slog.Level {
	switch {
	case errors.Is(err, errors.NotFound), errors.Is(err, errors.RouteNotMatched):
		return slog.LevelDebug
	case errors.IsParse(err):
		return slog.LevelInfo
	case errors.IsStore(err):
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// withSession runs fn on a fresh session and closes it afterwards.
func (h *Handler) withSession(ctx context.Context, fn func(Session) error) error {
	s, err := h.store.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			h.logger.Debug("Closing store session failed", "error", cerr)
		}
	}()
	return fn(s)
}

func (h *Handler) create(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	u, err := req.User()
	if err != nil {
		return failure(err, msgCreateFailed), err
	}

	err = h.withSession(ctx, func(s Session) error {
		_, err := s.CreateUser(ctx, u)
		return err
	})
	if err != nil {
		return failure(err, msgCreateFailed), err
	}
	return wire.Text(wire.StatusOK, msgCreated), nil
}

func (h *Handler) readOne(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	id, err := req.ID()
	if err != nil {
		return failure(err, msgFetchFailed), err
	}

	var found *user.User
	err = h.withSession(ctx, func(s Session) error {
		found, err = s.GetUser(ctx, id)
		return err
	})
	if err == nil && found == nil {
		err = errors.New(errors.NotFound, "no user with that id", nil)
	}
	if err != nil {
		return failure(err, msgFetchFailed), err
	}
	return wire.JSON(found, msgFetchFailed), nil
}

func (h *Handler) readAll(ctx context.Context) (*wire.Response, error) {
	var users []user.User
	err := h.withSession(ctx, func(s Session) error {
		var err error
		users, err = s.ListUsers(ctx)
		return err
	})
	if err != nil {
		return failure(err, msgListFailed), err
	}
	if users == nil {
		users = []user.User{}
	}
	return wire.JSON(users, msgListFailed), nil
}

func (h *Handler) update(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	id, err := req.ID()
	if err != nil {
		return failure(err, msgUpdateFailed), err
	}
	u, err := req.User()
	if err != nil {
		return failure(err, msgUpdateFailed), err
	}

	var affected int64
	err = h.withSession(ctx, func(s Session) error {
		affected, err = s.UpdateUser(ctx, id, u)
		return err
	})
	if err == nil && affected == 0 {
		err = errors.New(errors.NotFound, "no user with that id", nil)
	}
	if err != nil {
		return failure(err, msgUpdateFailed), err
	}
	return wire.Text(wire.StatusOK, msgUpdated), nil
}

func (h *Handler) delete(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	id, err := req.ID()
	if err != nil {
		return failure(err, msgDeleteFailed), err
	}

	var affected int64
	err = h.withSession(ctx, func(s Session) error {
		affected, err = s.DeleteUser(ctx, id)
		return err
	})
	if err == nil && affected == 0 {
		err = errors.New(errors.NotFound, "no user with that id", nil)
	}
	if err != nil {
		return failure(err, msgDeleteFailed), err
	}
	return wire.Text(wire.StatusOK, msgDeleted), nil
}
