package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/mmynk/splitchamp/internal/api"
	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/mmynk/splitchamp/internal/models"
)

// ComputeSettlements settles the given participants and expenses without
// storing anything.
func (s *SessionService) ComputeSettlements(ctx context.Context, req *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.ComputeSettlementsResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	policy := req.Msg.Policy
	if policy == "" {
		policy = s.defaultPolicy
	}
	expenses := make([]models.Expense, len(req.Msg.Expenses))
	for i, in := range req.Msg.Expenses {
		expenses[i] = in.Model()
	}

	balances := calculator.CalculateBalances(req.Msg.Participants, expenses, policy)
	transfers := calculator.ComputeSettlementsWithPolicy(req.Msg.Participants, expenses, policy)

	s.logger.Debug("Settlements computed",
		"participants", len(req.Msg.Participants),
		"expenses", len(expenses),
		"transfers", len(transfers),
	)
	return connect.NewResponse(&api.ComputeSettlementsResponse{
		Balances:  api.NewBalances(balances),
		Transfers: transfers,
	}), nil
}

// CategorizeItem classifies receipt line descriptions.
func (s *SessionService) CategorizeItem(ctx context.Context, req *connect.Request[api.CategorizeItemRequest]) (*connect.Response[api.CategorizeItemResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	categories := make([]models.Category, len(req.Msg.Descriptions))
	for i, desc := range req.Msg.Descriptions {
		categories[i] = s.categorizer.Categorize(desc)
	}
	return connect.NewResponse(&api.CategorizeItemResponse{Categories: categories}), nil
}

// SuggestTip computes a tip from a percentage or a fixed amount.
func (s *SessionService) SuggestTip(ctx context.Context, req *connect.Request[api.SuggestTipRequest]) (*connect.Response[api.SuggestTipResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	tip, err := calculator.SuggestTip(req.Msg.Subtotal, req.Msg.Tax, req.Msg.Percent, req.Msg.FixedTip)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SuggestTipResponse{Tip: tip.Tip, Total: tip.Total}), nil
}
