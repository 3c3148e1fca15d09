package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mmynk/splitchamp/internal/api"
	"github.com/mmynk/splitchamp/internal/auth"
	"github.com/mmynk/splitchamp/internal/categorizer"
	"github.com/mmynk/splitchamp/internal/middleware"
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/mmynk/splitchamp/internal/session"
	"github.com/mmynk/splitchamp/internal/storage"
	"google.golang.org/protobuf/types/known/emptypb"
)

// SessionService implements the SessionService RPC interface. Every mutation
// loads the session, applies the change under a per-session lock and stores
// the whole session again.
type SessionService struct {
	store         storage.SessionStore
	categorizer   *categorizer.Categorizer
	observer      session.Observer
	defaultPolicy models.UnassignedPolicy
	locks         *keyedMutex
	logger        *slog.Logger
}

// Option configures a SessionService.
type Option func(*SessionService)

// WithDefaultPolicy sets the policy of sessions created without one.
func WithDefaultPolicy(p models.UnassignedPolicy) Option {
	return func(s *SessionService) { s.defaultPolicy = p }
}

// WithCategorizer replaces categorizer.Default.
func WithCategorizer(c *categorizer.Categorizer) Option {
	return func(s *SessionService) { s.categorizer = c }
}

// WithObserver reports every session recomputation to o.
func WithObserver(o session.Observer) Option {
	return func(s *SessionService) { s.observer = o }
}

// NewSessionService creates a new SessionService with the given storage backend.
func NewSessionService(store storage.SessionStore, logger *slog.Logger, opts ...Option) *SessionService {
	s := &SessionService{
		store:         store,
		categorizer:   categorizer.Default,
		defaultPolicy: models.ShareWithEveryone,
		locks:         newKeyedMutex(),
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount registers the service's procedures on mux.
func (s *SessionService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, CreateSessionProcedure, s.CreateSession, opts)
	handle(mux, GetSessionProcedure, s.GetSession, opts)
	handle(mux, ListSessionsProcedure, s.ListSessions, opts)
	handle(mux, DeleteSessionProcedure, s.DeleteSession, opts)
	handle(mux, ResetSessionProcedure, s.ResetSession, opts)
	handle(mux, SetPolicyProcedure, s.SetPolicy, opts)
	handle(mux, AddParticipantProcedure, s.AddParticipant, opts)
	handle(mux, RemoveParticipantProcedure, s.RemoveParticipant, opts)
	handle(mux, RenameParticipantsProcedure, s.RenameParticipants, opts)
	handle(mux, AddExpenseProcedure, s.AddExpense, opts)
	handle(mux, RemoveExpenseProcedure, s.RemoveExpense, opts)
	handle(mux, ImportReceiptProcedure, s.ImportReceipt, opts)
	handle(mux, ApplyEqualSplitProcedure, s.ApplyEqualSplit, opts)
	handle(mux, ApplyWeightedSplitProcedure, s.ApplyWeightedSplit, opts)
	handle(mux, AutoAssignItemsProcedure, s.AutoAssignItems, opts)
	handle(mux, AssignItemsProcedure, s.AssignItems, opts)
	handle(mux, ExcludeAlcoholProcedure, s.ExcludeAlcohol, opts)
	handle(mux, SplitItemProcedure, s.SplitItem, opts)
	handle(mux, CategorizeItemsProcedure, s.CategorizeItems, opts)
	handle(mux, GetBreakdownProcedure, s.GetBreakdown, opts)
	handle(mux, GetDiscrepancyProcedure, s.GetDiscrepancy, opts)
	handle(mux, ComputeSettlementsProcedure, s.ComputeSettlements, opts)
	handle(mux, CategorizeItemProcedure, s.CategorizeItem, opts)
	handle(mux, SuggestTipProcedure, s.SuggestTip, opts)
}

func (s *SessionService) sessionOptions() []session.Option {
	opts := []session.Option{session.WithCategorizer(s.categorizer)}
	if s.observer != nil {
		opts = append(opts, session.WithObserver(s.observer))
	}
	return opts
}

// load returns a session owned by the caller.
func (s *SessionService) load(ctx context.Context, sessionID string) (*session.Session, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	m, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if m.OwnerID != userID {
		s.logger.Warn("Session access denied", "session_id", sessionID, "user_id", userID)
		return nil, toConnectError(ErrNotOwner)
	}

	return session.FromModel(m, s.sessionOptions()...), nil
}

// mutate applies fn to a session and stores the result. Calls for the same
// session are serialized.
func (s *SessionService) mutate(ctx context.Context, sessionID string, fn func(*session.Session) error) (*session.Session, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateSession(ctx, sess.Model()); err != nil {
		s.logger.Error("Failed to update session", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}
	return sess, nil
}

func sessionResponse(sess *session.Session) *connect.Response[api.SessionResponse] {
	return connect.NewResponse(&api.SessionResponse{Session: api.NewSessionView(sess)})
}

// CreateSession starts a new split owned by the caller.
func (s *SessionService) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	policy := req.Msg.Policy
	if policy == "" {
		policy = s.defaultPolicy
	}

	sess := session.New(req.Msg.Title, policy, s.sessionOptions()...)
	sess.SetOwner(userID)
	switch {
	case len(req.Msg.Participants) > 0:
		sess.RenameParticipants(req.Msg.Participants)
	case req.Msg.ParticipantCount > 0:
		sess.CreateParticipantsByCount(req.Msg.ParticipantCount)
	}

	m := sess.Model()
	if err := s.store.CreateSession(ctx, m); err != nil {
		s.logger.Error("Failed to create session", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Session created",
		"session_id", m.ID,
		"title", m.Title,
		"user_id", userID,
		"participants", len(m.Participants),
	)
	return sessionResponse(session.FromModel(m, s.sessionOptions()...)), nil
}

// GetSession returns a session with its balances and transfers.
func (s *SessionService) GetSession(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.load(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// ListSessions returns the caller's sessions, most recently updated first.
func (s *SessionService) ListSessions(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListSessionsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list sessions", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ListSessionsResponse{Sessions: make([]api.SessionSummary, 0, len(sessions))}
	for _, m := range sessions {
		resp.Sessions = append(resp.Sessions, api.NewSessionSummary(m))
	}
	return connect.NewResponse(resp), nil
}

// DeleteSession removes a session and everything in it.
func (s *SessionService) DeleteSession(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.Msg.SessionID)
	defer unlock()

	if _, err := s.load(ctx, req.Msg.SessionID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteSession(ctx, req.Msg.SessionID); err != nil {
		s.logger.Error("Failed to delete session", "session_id", req.Msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Session deleted", "session_id", req.Msg.SessionID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// ResetSession removes every participant and expense.
func (s *SessionService) ResetSession(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		sess.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// SetPolicy changes how unassigned items are treated.
func (s *SessionService) SetPolicy(ctx context.Context, req *connect.Request[api.SetPolicyRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		sess.SetPolicy(req.Msg.Policy)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}
