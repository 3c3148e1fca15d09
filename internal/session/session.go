// Package session holds the state of one bill split and keeps its balances and
// transfers current.
//
// A Session is not safe for concurrent use. Every mutating method recomputes
// balances and transfers from scratch before it returns.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/splitchamp/internal/calculator"
	"github.com/mmynk/splitchamp/internal/categorizer"
	"github.com/mmynk/splitchamp/internal/models"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrExpenseNotFound     = errors.New("expense not found")
)

// Observer is notified after every recomputation.
type Observer interface {
	ObserveRecompute(elapsed time.Duration, transfers int)
}

// Option configures a Session.
type Option func(*Session)

// WithCategorizer sets the categorizer used for alcohol exclusion and the
// unassigned item count. The default is categorizer.Default.
func WithCategorizer(c *categorizer.Categorizer) Option {
	return func(s *Session) { s.categorizer = c }
}

// WithObserver reports recomputations to o.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithIDGenerator replaces uuid.NewString for new participants, expenses and items.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// Session is one bill split: its participants, its expenses and the balances
// and transfers derived from them.
type Session struct {
	state models.Session

	categorizer *categorizer.Categorizer
	observer    Observer
	newID       func() string

	balances  []calculator.MemberBalance
	transfers []models.Transfer
}

// New creates an empty session.
func New(title string, policy models.UnassignedPolicy, opts ...Option) *Session {
	now := time.Now().Unix()
	s := newSession(opts)
	s.state = models.Session{
		ID:           s.newID(),
		Title:        title,
		Participants: []models.Participant{},
		Expenses:     []models.Expense{},
		Policy:       policy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.normalizePolicy()
	s.recompute()
	return s
}

// FromModel restores a session from its stored state. The model is copied.
func FromModel(m *models.Session, opts ...Option) *Session {
	s := newSession(opts)
	s.state = *m
	s.state.Participants = append([]models.Participant{}, m.Participants...)
	s.state.Expenses = models.CloneExpenses(m.Expenses)
	if s.state.Expenses == nil {
		s.state.Expenses = []models.Expense{}
	}
	s.normalizePolicy()
	s.recompute()
	return s
}

func newSession(opts []Option) *Session {
	s := &Session{
		categorizer: categorizer.Default,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) normalizePolicy() {
	if !s.state.Policy.Valid() {
		s.state.Policy = models.ShareWithEveryone
	}
}

// Model returns a copy of the session's stored state.
func (s *Session) Model() *models.Session {
	m := s.state
	m.Participants = s.Participants()
	m.Expenses = s.Expenses()
	return &m
}

func (s *Session) ID() string { return s.state.ID }
func (s *Session) Title() string { return s.state.Title }
func (s *Session) OwnerID() string { return s.state.OwnerID }
func (s *Session) Policy() models.UnassignedPolicy { return s.state.Policy }

// SetOwner records the user the session belongs to.
func (s *Session) SetOwner(userID string) {
	s.state.OwnerID = userID
}

// SetPolicy changes how unassigned items are treated.
func (s *Session) SetPolicy(p models.UnassignedPolicy) {
	s.state.Policy = p
	s.normalizePolicy()
	s.changed()
}

// Participants returns a copy of the participants in display order.
func (s *Session) Participants() []models.Participant {
	return append([]models.Participant{}, s.state.Participants...)
}

// Expenses returns a deep copy of the expenses.
func (s *Session) Expenses() []models.Expense {
	out := models.CloneExpenses(s.state.Expenses)
	if out == nil {
		out = []models.Expense{}
	}
	return out
}

// Balances returns the net balance of every participant, in participant order.
func (s *Session) Balances() []calculator.MemberBalance {
	return append([]calculator.MemberBalance{}, s.balances...)
}

// Transfers returns the payments that settle the session.
func (s *Session) Transfers() []models.Transfer {
	return append([]models.Transfer{}, s.transfers...)
}

// AddParticipant appends a participant. A blank name becomes "Person N".
func (s *Session) AddParticipant(name string) models.Participant {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultParticipantName(len(s.state.Participants) + 1)
	}
	p := models.Participant{ID: s.newID(), Name: name}
	s.state.Participants = append(s.state.Participants, p)
	s.changed()
	return p
}

// RemoveParticipant removes a participant. Expenses they paid for are removed
// with them; everywhere else they are dropped from owed-groups.
func (s *Session) RemoveParticipant(id string) error {
	idx := s.participantIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
	}
	s.state.Participants = append(s.state.Participants[:idx:idx], s.state.Participants[idx+1:]...)

	kept := s.state.Expenses[:0]
	for _, e := range s.state.Expenses {
		if e.PaidBy == id {
			continue
		}
		e.SplitAmong = without(e.SplitAmong, id)
		for j := range e.Items {
			e.Items[j].SplitAmong = without(e.Items[j].SplitAmong, id)
		}
		kept = append(kept, e)
	}
	s.state.Expenses = kept
	s.changed()
	return nil
}

// RenameParticipants renames participants by position. The list grows with
// "Person N" placeholders when names has more entries than there are
// participants. Blank names leave the current name alone.
func (s *Session) RenameParticipants(names []string) {
	for len(s.state.Participants) < len(names) {
		n := len(s.state.Participants) + 1
		s.state.Participants = append(s.state.Participants, models.Participant{
			ID:   s.newID(),
			Name: models.DefaultParticipantName(n),
		})
	}
	for i, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			s.state.Participants[i].Name = name
		}
	}
	s.changed()
}

// CreateParticipantsByCount replaces the participants with n placeholders
// named "Person 1" to "Person n".
func (s *Session) CreateParticipantsByCount(n int) []models.Participant {
	participants := make([]models.Participant, 0, max(n, 0))
	for i := range max(n, 0) {
		participants = append(participants, models.Participant{
			ID:   s.newID(),
			Name: models.DefaultParticipantName(i + 1),
		})
	}
	s.state.Participants = participants
	s.changed()
	return s.Participants()
}

// AddExpense appends an expense, filling in missing ids. The payer must be a
// participant.
func (s *Session) AddExpense(e models.Expense) (models.Expense, error) {
	if s.participantIndex(e.PaidBy) < 0 {
		return models.Expense{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, e.PaidBy)
	}
	e = e.Clone()
	s.assignIDs(&e)
	s.state.Expenses = append(s.state.Expenses, e)
	s.changed()
	return e.Clone(), nil
}

// RemoveExpense deletes an expense and its items.
func (s *Session) RemoveExpense(id string) error {
	idx := s.expenseIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}
	s.state.Expenses = append(s.state.Expenses[:idx:idx], s.state.Expenses[idx+1:]...)
	s.changed()
	return nil
}

// SetOptions controls SetExpenses.
type SetOptions struct {
	// Overwrite replaces the current expenses instead of appending.
	Overwrite bool

	// AssignToAllIfEmpty gives expenses without a group every participant.
	AssignToAllIfEmpty bool
}

// DefaultSetOptions overwrites and assigns empty groups to everyone.
func DefaultSetOptions() SetOptions {
	return SetOptions{Overwrite: true, AssignToAllIfEmpty: true}
}

// SetExpenses replaces or extends the expense list in one step.
func (s *Session) SetExpenses(list []models.Expense, opts SetOptions) {
	everyone := models.ParticipantIDs(s.state.Participants)
	normalized := models.CloneExpenses(list)
	for i := range normalized {
		e := &normalized[i]
		s.assignIDs(e)
		if opts.AssignToAllIfEmpty && len(e.SplitAmong) == 0 {
			e.SplitAmong = append([]string{}, everyone...)
		}
	}

	if opts.Overwrite {
		s.state.Expenses = normalized
	} else {
		s.state.Expenses = append(s.state.Expenses, normalized...)
	}
	if s.state.Expenses == nil {
		s.state.Expenses = []models.Expense{}
	}
	s.changed()
}

// Reset removes every participant and expense.
func (s *Session) Reset() {
	s.state.Participants = []models.Participant{}
	s.state.Expenses = []models.Expense{}
	s.changed()
}

func (s *Session) assignIDs(e *models.Expense) {
	if e.ID == "" {
		e.ID = s.newID()
	}
	for j := range e.Items {
		if e.Items[j].ID == "" {
			e.Items[j].ID = s.newID()
		}
	}
}

func (s *Session) participantIndex(id string) int {
	for i, p := range s.state.Participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) expenseIndex(id string) int {
	for i, e := range s.state.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// changed stamps the update time and recomputes.
func (s *Session) changed() {
	s.state.UpdatedAt = time.Now().Unix()
	s.recompute()
}

func (s *Session) recompute() {
	start := time.Now()

	s.balances = calculator.CalculateBalances(s.state.Participants, s.state.Expenses, s.state.Policy)
	if len(s.state.Participants) == 0 || len(s.state.Expenses) == 0 {
		s.transfers = []models.Transfer{}
	} else {
		s.transfers = calculator.ResolveTransfers(
			models.ParticipantIDs(s.state.Participants),
			calculator.NetBalances(s.balances),
		)
	}

	elapsed := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveRecompute(elapsed, len(s.transfers))
	}
	slog.Debug("Session recomputed",
		"session_id", s.state.ID,
		"participants", len(s.state.Participants),
		"expenses", len(s.state.Expenses),
		"transfers", len(s.transfers),
		"elapsed", elapsed)
}

func without(ids []string, id string) []string {
	if len(ids) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
