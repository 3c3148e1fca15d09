package api

import (
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeSettlementsRequest settles a set of participants and expenses
// without storing anything.
type ComputeSettlementsRequest struct {
	Participants []models.Participant    `json:"participants" validate:"max=500,unique=ID"`
	Expenses     []ExpenseInput          `json:"expenses" validate:"max=2000,dive"`
	Policy       models.UnassignedPolicy `json:"policy" validate:"omitempty,oneof=share_with_everyone leave_unassigned"`
}

type ComputeSettlementsResponse struct {
	Balances  []Balance         `json:"balances"`
	Transfers []models.Transfer `json:"transfers"`
}

type CategorizeItemRequest struct {
	Descriptions []string `json:"descriptions" validate:"required,min=1,max=500"`
}

// CategorizeItemResponse lists one category per description, in order.
type CategorizeItemResponse struct {
	Categories []models.Category `json:"categories"`
}

type SuggestTipRequest struct {
	Subtotal decimal.Decimal `json:"subtotal" validate:"gte=0"`
	Tax      decimal.Decimal `json:"tax" validate:"gte=0"`
	Percent  decimal.Decimal `json:"percent" validate:"gte=0,lte=100"`

	// FixedTip overrides Percent when set.
	FixedTip *decimal.Decimal `json:"fixed_tip,omitempty"`
}

type SuggestTipResponse struct {
	Tip   decimal.Decimal `json:"tip"`
	Total decimal.Decimal `json:"total"`
}
