package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/mmynk/splitchamp/internal/api"
	"github.com/mmynk/splitchamp/internal/session"
)

// ApplyEqualSplit makes every participant owe an equal share of everything.
func (s *SessionService) ApplyEqualSplit(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		sess.ApplyEqualSplit()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// ApplyWeightedSplit makes participants owe in proportion to their weights.
func (s *SessionService) ApplyWeightedSplit(ctx context.Context, req *connect.Request[api.WeightedSplitRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		sess.ApplyWeightedSplit(req.Msg.Weights)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// AutoAssignItems assigns items whose description names exactly one participant.
func (s *SessionService) AutoAssignItems(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.AutoAssignResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	var assigned int
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		assigned = sess.AutoAssignItemsByName()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Items auto-assigned", "session_id", req.Msg.SessionID, "assigned", assigned)
	return connect.NewResponse(&api.AutoAssignResponse{
		Assigned: assigned,
		Session:  api.NewSessionView(sess),
	}), nil
}

// AssignItems assigns a batch of items to one participant, to everyone or to nobody.
func (s *SessionService) AssignItems(ctx context.Context, req *connect.Request[api.AssignItemsRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		switch req.Msg.Mode {
		case api.AssignToEveryone:
			return sess.ShareItemsWithEveryone(req.Msg.Targets)
		case api.AssignToNobody:
			return sess.UnassignItems(req.Msg.Targets)
		default:
			return sess.AssignItemsTo(req.Msg.Targets, req.Msg.ParticipantID)
		}
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// ExcludeAlcohol takes participants off every alcohol item.
func (s *SessionService) ExcludeAlcohol(ctx context.Context, req *connect.Request[api.ExcludeAlcoholRequest]) (*connect.Response[api.ExcludeAlcoholResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	var changed int
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		var err error
		changed, err = sess.ExcludeAlcoholFor(req.Msg.ParticipantIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ExcludeAlcoholResponse{
		Changed: changed,
		Session: api.NewSessionView(sess),
	}), nil
}

// SplitItem replaces an item with Count equal copies that can be assigned separately.
func (s *SessionService) SplitItem(ctx context.Context, req *connect.Request[api.SplitItemRequest]) (*connect.Response[api.SplitItemResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	var ids []string
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		var err error
		ids, err = sess.SplitItemIntoCopies(req.Msg.ItemID, req.Msg.Count)
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.SplitItemResponse{
		ItemIDs: ids,
		Session: api.NewSessionView(sess),
	}), nil
}

// CategorizeItems fills in missing item categories of a session.
func (s *SessionService) CategorizeItems(ctx context.Context, req *connect.Request[api.SessionRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		sess.CategorizeItems()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}
