package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/mmynk/splitchamp/internal/api"
	"github.com/mmynk/splitchamp/internal/receipt"
	"github.com/mmynk/splitchamp/internal/session"
)

// AddExpense appends an expense. The payer must be a participant.
func (s *SessionService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		_, err := sess.AddExpense(req.Msg.Expense.Model())
		return err
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// RemoveExpense deletes an expense and its items.
func (s *SessionService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		return sess.RemoveExpense(req.Msg.ExpenseID)
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// ImportReceipt replaces the session's expenses with a parsed receipt.
func (s *SessionService) ImportReceipt(ctx context.Context, req *connect.Request[api.ImportReceiptRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	r, err := receipt.Decode(req.Msg.Receipt)
	if err != nil {
		s.logger.Warn("Receipt rejected", "session_id", req.Msg.SessionID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	opts := receipt.ImportOptions{
		Itemized:      req.Msg.Itemized,
		IncludeTaxTip: req.Msg.IncludeTaxTip,
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		_, err := sess.ImportReceipt(r, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Receipt imported",
		"session_id", req.Msg.SessionID,
		"merchant", r.Merchant,
		"lines", len(r.Items),
		"itemized", req.Msg.Itemized,
	)
	return sessionResponse(sess), nil
}

// GetBreakdown returns what each participant owes for one expense.
func (s *SessionService) GetBreakdown(ctx context.Context, req *connect.Request[api.ExpenseRequest]) (*connect.Response[api.BreakdownResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.load(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	alloc, err := sess.Breakdown(req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	resp := api.NewBreakdown(req.Msg.ExpenseID, sess.Participants(), alloc)
	return connect.NewResponse(&resp), nil
}

// GetDiscrepancy reports how far an itemized expense is from its items plus tax and tip.
func (s *SessionService) GetDiscrepancy(ctx context.Context, req *connect.Request[api.ExpenseRequest]) (*connect.Response[api.DiscrepancyResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.load(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	diff, err := sess.Discrepancy(req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DiscrepancyResponse{
		ExpenseID:   req.Msg.ExpenseID,
		Discrepancy: diff,
	}), nil
}
