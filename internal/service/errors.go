package service

import (
	"errors"

	"connectrpc.com/connect"
	"github.com/mmynk/splitchamp/internal/api"
	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/mmynk/splitchamp/internal/receipt"
	"github.com/mmynk/splitchamp/internal/session"
	"github.com/mmynk/splitchamp/internal/storage"
	"github.com/mmynk/splitchamp/internal/strategy"
)

var ErrNotOwner = errors.New("session belongs to another user")

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrSessionNotFound),
		errors.Is(err, session.ErrParticipantNotFound),
		errors.Is(err, session.ErrExpenseNotFound),
		errors.Is(err, strategy.ErrItemNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, strategy.ErrInvalidCopyCount),
		errors.Is(err, strategy.ErrInvalidCopyAmount),
		errors.Is(err, receipt.ErrNoItems),
		errors.Is(err, receipt.ErrNegativeAmount),
		errors.Is(err, calculator.ErrNegativeAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func validate(req any) error {
	if err := api.Validate(req); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}
