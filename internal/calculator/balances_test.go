package calculator

import (
	"testing"

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/shopspring/decimal"
)

func people(ids ...string) []models.Participant {
	out := make([]models.Participant, len(ids))
	for i, id := range ids {
		out[i] = models.Participant{ID: id, Name: "Name " + id}
	}
	return out
}

func TestCalculateBalances(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		expenses     []models.Expense
		want         map[string]string
	}{
		{
			name:         "flat expense paid by A",
			participants: people("A", "B"),
			expenses: []models.Expense{
				{ID: "e1", Amount: dec("60"), PaidBy: "A", SplitAmong: []string{"A", "B"}},
			},
			want: map[string]string{"A": "30", "B": "-30"},
		},
		{
			name:         "itemized expense with tax and tip",
			participants: people("A", "B", "C"),
			expenses: []models.Expense{
				{
					ID:          "e1",
					PaidBy:      "A",
					SplitMethod: models.SplitItemized,
					Items: []models.ExpenseItem{
						{ID: "i1", Amount: dec("30"), SplitAmong: []string{"A", "B"}},
						{ID: "i2", Amount: dec("20"), SplitAmong: []string{"C"}},
					},
					Tax: dec("5"),
					Tip: dec("5"),
				},
			},
			want: map[string]string{"A": "42", "B": "-18", "C": "-24"},
		},
		{
			name:         "two payers offset each other",
			participants: people("A", "B"),
			expenses: []models.Expense{
				{ID: "e1", Amount: dec("40"), PaidBy: "A"},
				{ID: "e2", Amount: dec("20"), PaidBy: "B"},
			},
			want: map[string]string{"A": "10", "B": "-10"},
		},
		{
			name:         "unknown payer is skipped",
			participants: people("A", "B"),
			expenses: []models.Expense{
				{ID: "e1", Amount: dec("40"), PaidBy: "ghost"},
			},
			want: map[string]string{"A": "0", "B": "0"},
		},
		{
			name:         "no expenses",
			participants: people("A", "B"),
			want:         map[string]string{"A": "0", "B": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := CalculateBalances(tt.participants, tt.expenses, models.ShareWithEveryone)
			if len(balances) != len(tt.participants) {
				t.Fatalf("expected %d balances, got %d", len(tt.participants), len(balances))
			}
			for i, bal := range balances {
				if bal.ParticipantID != tt.participants[i].ID {
					t.Errorf("balance %d is for %s, want %s", i, bal.ParticipantID, tt.participants[i].ID)
				}
				if !near(bal.NetBalance, tt.want[bal.ParticipantID]) {
					t.Errorf("%s net = %v, want %s", bal.ParticipantID, bal.NetBalance, tt.want[bal.ParticipantID])
				}
			}
		})
	}
}

func TestCalculateBalances_ZeroSum(t *testing.T) {
	participants := people("A", "B", "C", "D")
	expenses := []models.Expense{
		{ID: "e1", Amount: dec("10"), PaidBy: "A", SplitAmong: []string{"A", "B", "C"}},
		{ID: "e2", Amount: dec("17.35"), PaidBy: "B"},
		{
			ID:          "e3",
			PaidBy:      "C",
			SplitMethod: models.SplitItemized,
			Items: []models.ExpenseItem{
				{ID: "i1", Amount: dec("13.99"), SplitAmong: []string{"A", "D"}},
				{ID: "i2", Amount: dec("7.01")},
				{ID: "i3", Amount: dec("22.50"), SplitAmong: []string{"B", "B", "C"}},
			},
			Tax: dec("3.77"),
			Tip: dec("8.00"),
		},
		{
			ID:          "e4",
			PaidBy:      "D",
			SplitMethod: models.SplitItemized,
			Items: []models.ExpenseItem{
				{ID: "i4", Amount: dec("0")},
			},
			Tax: dec("4"),
		},
	}

	for _, policy := range []models.UnassignedPolicy{models.ShareWithEveryone, models.LeaveUnassigned} {
		t.Run(string(policy), func(t *testing.T) {
			balances := CalculateBalances(participants, expenses, policy)
			sum := decimal.Zero
			for _, bal := range balances {
				sum = sum.Add(bal.NetBalance)
			}
			if sum.Abs().GreaterThan(Epsilon) {
				t.Errorf("balances sum to %v, want 0", sum)
			}
		})
	}
}

func TestCalculateBalances_DuplicateParticipants(t *testing.T) {
	participants := people("A", "A", "B")
	expenses := []models.Expense{
		{ID: "e1", Amount: dec("60"), PaidBy: "B"},
	}

	balances := CalculateBalances(participants, expenses, models.ShareWithEveryone)
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d: %+v", len(balances), balances)
	}

	want := map[string]string{"A": "-30", "B": "30"}
	sum := decimal.Zero
	for _, bal := range balances {
		if !near(bal.NetBalance, want[bal.ParticipantID]) {
			t.Errorf("%s net = %v, want %s", bal.ParticipantID, bal.NetBalance, want[bal.ParticipantID])
		}
		sum = sum.Add(bal.NetBalance)
	}
	if !sum.IsZero() {
		t.Errorf("balances sum to %v, want 0", sum)
	}

	transfers := ComputeSettlements(participants, expenses)
	if len(transfers) != 1 || transfers[0].From != "A" || !transfers[0].Amount.Equal(dec("30")) {
		t.Errorf("unexpected transfers %+v", transfers)
	}
}

func TestComputeSettlements_EmptyInputs(t *testing.T) {
	if got := ComputeSettlements(nil, []models.Expense{{Amount: dec("10")}}); len(got) != 0 {
		t.Errorf("expected no transfers without participants, got %v", got)
	}
	if got := ComputeSettlements(people("A", "B"), nil); len(got) != 0 {
		t.Errorf("expected no transfers without expenses, got %v", got)
	}
}
