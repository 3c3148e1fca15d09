// Package service implements the Connect RPC services.
//
// Messages are plain Go structs from the api package, carried by api.Codec.
// Parameterless calls take emptypb.Empty.
package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mmynk/splitchamp/internal/api"
)

const (
	AuthServiceName    = "splitchamp.v1.AuthService"
	SessionServiceName = "splitchamp.v1.SessionService"
)

const (
	RegisterProcedure       = "/" + AuthServiceName + "/Register"
	LoginProcedure          = "/" + AuthServiceName + "/Login"
	GetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

const (
	CreateSessionProcedure      = "/" + SessionServiceName + "/CreateSession"
	GetSessionProcedure         = "/" + SessionServiceName + "/GetSession"
	ListSessionsProcedure       = "/" + SessionServiceName + "/ListSessions"
	DeleteSessionProcedure      = "/" + SessionServiceName + "/DeleteSession"
	ResetSessionProcedure       = "/" + SessionServiceName + "/ResetSession"
	SetPolicyProcedure          = "/" + SessionServiceName + "/SetPolicy"
	AddParticipantProcedure     = "/" + SessionServiceName + "/AddParticipant"
	RemoveParticipantProcedure  = "/" + SessionServiceName + "/RemoveParticipant"
	RenameParticipantsProcedure = "/" + SessionServiceName + "/RenameParticipants"
	AddExpenseProcedure         = "/" + SessionServiceName + "/AddExpense"
	RemoveExpenseProcedure      = "/" + SessionServiceName + "/RemoveExpense"
	ImportReceiptProcedure      = "/" + SessionServiceName + "/ImportReceipt"
	ApplyEqualSplitProcedure    = "/" + SessionServiceName + "/ApplyEqualSplit"
	ApplyWeightedSplitProcedure = "/" + SessionServiceName + "/ApplyWeightedSplit"
	AutoAssignItemsProcedure    = "/" + SessionServiceName + "/AutoAssignItems"
	AssignItemsProcedure        = "/" + SessionServiceName + "/AssignItems"
	ExcludeAlcoholProcedure     = "/" + SessionServiceName + "/ExcludeAlcohol"
	SplitItemProcedure          = "/" + SessionServiceName + "/SplitItem"
	CategorizeItemsProcedure    = "/" + SessionServiceName + "/CategorizeItems"
	GetBreakdownProcedure       = "/" + SessionServiceName + "/GetBreakdown"
	GetDiscrepancyProcedure     = "/" + SessionServiceName + "/GetDiscrepancy"
	ComputeSettlementsProcedure = "/" + SessionServiceName + "/ComputeSettlements"
	CategorizeItemProcedure     = "/" + SessionServiceName + "/CategorizeItem"
	SuggestTipProcedure         = "/" + SessionServiceName + "/SuggestTip"
)

// PublicProcedures can be called without signing in.
var PublicProcedures = []string{
	RegisterProcedure,
	LoginProcedure,
	ComputeSettlementsProcedure,
	CategorizeItemProcedure,
	SuggestTipProcedure,
}

// handle mounts one unary procedure on mux with the JSON codec.
func handle[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	all := append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, all...))
}
