package api

import (
	"encoding/json"

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"max=200"`

	// Participants are created in order. ParticipantCount adds "Person N"
	// placeholders instead when no names are given.
	Participants     []string                `json:"participants" validate:"max=100,dive,max=100"`
	ParticipantCount int                     `json:"participant_count" validate:"gte=0,lte=100"`
	Policy           models.UnassignedPolicy `json:"policy" validate:"omitempty,oneof=share_with_everyone leave_unassigned"`
}

// SessionRequest addresses one session.
type SessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type SetPolicyRequest struct {
	SessionID string                  `json:"session_id" validate:"required"`
	Policy    models.UnassignedPolicy `json:"policy" validate:"required,oneof=share_with_everyone leave_unassigned"`
}

type AddParticipantRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Name      string `json:"name" validate:"max=100"`
}

type RemoveParticipantRequest struct {
	SessionID     string `json:"session_id" validate:"required"`
	ParticipantID string `json:"participant_id" validate:"required"`
}

// RenameParticipantsRequest renames by position, adding participants when
// there are more names than people.
type RenameParticipantsRequest struct {
	SessionID string   `json:"session_id" validate:"required"`
	Names     []string `json:"names" validate:"required,max=100,dive,max=100"`
}

type ItemInput struct {
	ID          string          `json:"id"`
	Description string          `json:"description" validate:"max=200"`
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	SplitAmong  []string        `json:"split_among"`
	Category    models.Category `json:"category" validate:"omitempty,oneof=food alcohol appetizer tax tip ignore"`
}

type ExpenseInput struct {
	ID          string             `json:"id"`
	Description string             `json:"description" validate:"max=200"`
	Amount      decimal.Decimal    `json:"amount" validate:"gte=0"`
	PaidBy      string             `json:"paid_by" validate:"required"`
	SplitAmong  []string           `json:"split_among"`
	SplitMethod models.SplitMethod `json:"split_method" validate:"omitempty,oneof=even itemized"`
	Items       []ItemInput        `json:"items" validate:"max=500,dive"`
	Tax         decimal.Decimal    `json:"tax" validate:"gte=0"`
	Tip         decimal.Decimal    `json:"tip" validate:"gte=0"`
}

// Model converts the input to an expense. An expense with items and no split
// method is itemized.
func (in ExpenseInput) Model() models.Expense {
	e := models.Expense{
		ID:          in.ID,
		Description: in.Description,
		Amount:      in.Amount,
		PaidBy:      in.PaidBy,
		SplitAmong:  in.SplitAmong,
		SplitMethod: in.SplitMethod,
		Tax:         in.Tax,
		Tip:         in.Tip,
	}
	if e.SplitMethod == "" {
		e.SplitMethod = models.SplitEven
		if len(in.Items) > 0 {
			e.SplitMethod = models.SplitItemized
		}
	}
	for _, item := range in.Items {
		e.Items = append(e.Items, models.ExpenseItem{
			ID:          item.ID,
			Description: item.Description,
			Amount:      item.Amount,
			SplitAmong:  item.SplitAmong,
			Category:    item.Category,
		})
	}
	return e.Clone()
}

type AddExpenseRequest struct {
	SessionID string       `json:"session_id" validate:"required"`
	Expense   ExpenseInput `json:"expense"`
}

type RemoveExpenseRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	ExpenseID string `json:"expense_id" validate:"required"`
}

// ImportReceiptRequest carries the receipt parser's raw output.
type ImportReceiptRequest struct {
	SessionID     string          `json:"session_id" validate:"required"`
	Receipt       json.RawMessage `json:"receipt" validate:"required"`
	Itemized      bool            `json:"itemized"`
	IncludeTaxTip bool            `json:"include_tax_tip"`
}

type WeightedSplitRequest struct {
	SessionID string             `json:"session_id" validate:"required"`
	Weights   map[string]float64 `json:"weights" validate:"max=500,dive,keys,required,endkeys,gte=0,lte=100"`
}

// Assignment modes of AssignItemsRequest.
const (
	AssignToParticipant = "participant"
	AssignToEveryone    = "everyone"
	AssignToNobody      = "unassign"
)

// AssignItemsRequest assigns items in bulk. A target is an item id, or the id
// of an expense without items.
type AssignItemsRequest struct {
	SessionID     string   `json:"session_id" validate:"required"`
	Targets       []string `json:"targets" validate:"required,min=1,dive,required"`
	Mode          string   `json:"mode" validate:"required,oneof=participant everyone unassign"`
	ParticipantID string   `json:"participant_id" validate:"required_if=Mode participant"`
}

type ExcludeAlcoholRequest struct {
	SessionID      string   `json:"session_id" validate:"required"`
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,required"`
}

type SplitItemRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	ItemID    string `json:"item_id" validate:"required"`
	Count     int    `json:"count" validate:"lte=100"`
}

type ExpenseRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	ExpenseID string `json:"expense_id" validate:"required"`
}

// SessionResponse returns the session state after a call.
type SessionResponse struct {
	Session SessionView `json:"session"`
}

type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type AutoAssignResponse struct {
	Assigned int         `json:"assigned"`
	Session  SessionView `json:"session"`
}

type ExcludeAlcoholResponse struct {
	Changed int         `json:"changed"`
	Session SessionView `json:"session"`
}

type SplitItemResponse struct {
	ItemIDs []string    `json:"item_ids"`
	Session SessionView `json:"session"`
}

type DiscrepancyResponse struct {
	ExpenseID string `json:"expense_id"`

	// Discrepancy is the expense amount minus items, tax and tip. Positive
	// means the receipt total is higher than what was itemized.
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

type BreakdownResponse struct {
	ExpenseID  string               `json:"expense_id"`
	People     []PersonBreakdown    `json:"people"`
	Allocated  decimal.Decimal      `json:"allocated"`
	Unassigned []models.ExpenseItem `json:"unassigned"`
}
