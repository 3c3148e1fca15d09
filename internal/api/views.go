package api

import (
	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/mmynk/splitchamp/internal/models"
	"github.com/mmynk/splitchamp/internal/session"
	"github.com/shopspring/decimal"
)

// SessionView is a session with everything derived from it.
type SessionView struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Policy       models.UnassignedPolicy `json:"policy"`
	Participants []models.Participant    `json:"participants"`
	Expenses     []models.Expense        `json:"expenses"`
	Balances     []Balance               `json:"balances"`
	Transfers    []models.Transfer       `json:"transfers"`

	// Spent is the sum of every expense total; ToSettle the sum of all transfers.
	Spent    decimal.Decimal `json:"spent"`
	ToSettle decimal.Decimal `json:"to_settle"`

	UnassignedItems []models.ExpenseItem `json:"unassigned_items"`
	CreatedAt       int64                `json:"created_at"`
	UpdatedAt       int64                `json:"updated_at"`
}

type Balance struct {
	ParticipantID string          `json:"participant_id"`
	NetBalance    decimal.Decimal `json:"net_balance"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
}

// SessionSummary is a row of the session list.
type SessionSummary struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Participants int             `json:"participants"`
	Expenses     int             `json:"expenses"`
	Spent        decimal.Decimal `json:"spent"`
	UpdatedAt    int64           `json:"updated_at"`
}

// PersonBreakdown is what one participant owes for one expense.
type PersonBreakdown struct {
	ParticipantID string                  `json:"participant_id"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
	Tax           decimal.Decimal         `json:"tax"`
	Tip           decimal.Decimal         `json:"tip"`
	Total         decimal.Decimal         `json:"total"`
	Items         []calculator.PersonItem `json:"items"`
}

// NewSessionView renders a session. Balance amounts are rounded to cents.
func NewSessionView(s *session.Session) SessionView {
	m := s.Model()
	totals := s.Totals()
	unassigned := s.UnassignedItems()
	if unassigned == nil {
		unassigned = []models.ExpenseItem{}
	}

	return SessionView{
		ID:              m.ID,
		Title:           m.Title,
		Policy:          m.Policy,
		Participants:    m.Participants,
		Expenses:        m.Expenses,
		Balances:        NewBalances(s.Balances()),
		Transfers:       s.Transfers(),
		Spent:           calculator.RoundCents(totals.Spent),
		ToSettle:        totals.ToSettle,
		UnassignedItems: unassigned,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func NewBalances(balances []calculator.MemberBalance) []Balance {
	out := make([]Balance, len(balances))
	for i, b := range balances {
		out[i] = Balance{
			ParticipantID: b.ParticipantID,
			NetBalance:    calculator.RoundCents(b.NetBalance),
			TotalPaid:     calculator.RoundCents(b.TotalPaid),
			TotalOwed:     calculator.RoundCents(b.TotalOwed),
		}
	}
	return out
}

func NewSessionSummary(m *models.Session) SessionSummary {
	spent := decimal.Zero
	for i := range m.Expenses {
		spent = spent.Add(m.Expenses[i].Total())
	}
	return SessionSummary{
		ID:           m.ID,
		Title:        m.Title,
		Participants: len(m.Participants),
		Expenses:     len(m.Expenses),
		Spent:        calculator.RoundCents(spent),
		UpdatedAt:    m.UpdatedAt,
	}
}

// NewBreakdown lists the participants of an allocation in session order.
func NewBreakdown(expenseID string, participants []models.Participant, alloc calculator.Allocation) BreakdownResponse {
	resp := BreakdownResponse{
		ExpenseID:  expenseID,
		People:     []PersonBreakdown{},
		Allocated:  calculator.RoundCents(alloc.Allocated),
		Unassigned: alloc.Unassigned,
	}
	if resp.Unassigned == nil {
		resp.Unassigned = []models.ExpenseItem{}
	}
	for _, p := range participants {
		split, ok := alloc.Splits[p.ID]
		if !ok {
			continue
		}
		resp.People = append(resp.People, PersonBreakdown{
			ParticipantID: p.ID,
			Subtotal:      calculator.RoundCents(split.Subtotal),
			Tax:           calculator.RoundCents(split.Tax),
			Tip:           calculator.RoundCents(split.Tip),
			Total:         calculator.RoundCents(split.Total),
			Items:         split.Items,
		})
	}
	return resp
}
