package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/mmynk/splitchamp/internal/api"
	"github.com/mmynk/splitchamp/internal/session"
)

// AddParticipant appends a participant. A blank name becomes "Person N".
func (s *SessionService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		sess.AddParticipant(req.Msg.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

// RemoveParticipant removes a participant together with the expenses they paid.
func (s *SessionService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		return sess.RemoveParticipant(req.Msg.ParticipantID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Participant removed", "session_id", req.Msg.SessionID, "participant_id", req.Msg.ParticipantID)
	return sessionResponse(sess), nil
}

// RenameParticipants renames participants by position.
func (s *SessionService) RenameParticipants(ctx context.Context, req *connect.Request[api.RenameParticipantsRequest]) (*connect.Response[api.SessionResponse], error) {
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	sess, err := s.mutate(ctx, req.Msg.SessionID, func(sess *session.Session) error {
		sess.RenameParticipants(req.Msg.Names)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}
