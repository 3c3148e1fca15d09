// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitchamp/internal/models"
	"github.com/mmynk/splitchamp/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps the foreign_keys pragma in effect for every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession persists a new session to the database.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}
	if session.UpdatedAt == 0 {
		session.UpdatedAt = session.CreatedAt
	}
	if session.Title == "" {
		session.Title = generateTitle(session.Participants)
	}
	if !session.Policy.Valid() {
		session.Policy = models.ShareWithEveryone
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (id, title, owner_id, policy, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		session.ID, session.Title, nullable(session.OwnerID), session.Policy, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := insertContents(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateSession rewrites a session's participants and expenses.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *models.Session) error {
	if !session.Policy.Valid() {
		session.Policy = models.ShareWithEveryone
	}
	if session.UpdatedAt == 0 {
		session.UpdatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE sessions SET title = ?, owner_id = ?, policy = ?, updated_at = ? WHERE id = ?",
		session.Title, nullable(session.OwnerID), session.Policy, session.UpdatedAt, session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	} else if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrSessionNotFound, session.ID)
	}

	for _, table := range []string{"participants", "expenses", "expense_assignments", "items", "item_assignments"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE session_id = ?", session.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertContents(ctx, tx, session); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertContents writes the participants, expenses, items and assignments of a session.
func insertContents(ctx context.Context, tx *sql.Tx, session *models.Session) error {
	for pos, p := range session.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants (session_id, position, id, name) VALUES (?, ?, ?, ?)",
			session.ID, pos, p.ID, p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for ePos := range session.Expenses {
		e := &session.Expenses[ePos]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (session_id, position, id, description, amount, paid_by, split_method, tax, tip)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ID, ePos, e.ID, e.Description, e.Amount, e.PaidBy, e.SplitMethod, e.Tax, e.Tip,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for pos, pid := range e.SplitAmong {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_assignments (session_id, expense_pos, position, participant_id) VALUES (?, ?, ?, ?)",
				session.ID, ePos, pos, pid,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense assignment: %w", err)
			}
		}

		for iPos := range e.Items {
			item := &e.Items[iPos]
			_, err = tx.ExecContext(ctx,
				`INSERT INTO items (session_id, expense_pos, position, id, description, amount, category)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				session.ID, ePos, iPos, item.ID, item.Description, item.Amount, item.Category,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item: %w", err)
			}

			for pos, pid := range item.SplitAmong {
				_, err = tx.ExecContext(ctx,
					`INSERT INTO item_assignments (session_id, expense_pos, item_pos, position, participant_id)
					 VALUES (?, ?, ?, ?, ?)`,
					session.ID, ePos, iPos, pos, pid,
				)
				if err != nil {
					return fmt.Errorf("failed to insert item assignment: %w", err)
				}
			}
		}
	}
	return nil
}

// GetSession retrieves a session by ID, including participants, expenses and items.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	var owner sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, owner_id, policy, created_at, updated_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &session.Title, &owner, &session.Policy, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.OwnerID = owner.String

	if session.Participants, err = s.loadParticipants(ctx, sessionID); err != nil {
		return nil, err
	}
	if session.Expenses, err = s.loadExpenses(ctx, sessionID); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, sessionID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name FROM participants WHERE session_id = ? ORDER BY position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

func (s *SQLiteStore) loadExpenses(ctx context.Context, sessionID string) ([]models.Expense, error) {
	expenses := []models.Expense{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, paid_by, split_method, tax, tip
		 FROM expenses WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.PaidBy, &e.SplitMethod, &e.Tax, &e.Tip); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Owed-groups of expenses
	assignRows, err := s.db.QueryContext(ctx,
		`SELECT expense_pos, participant_id FROM expense_assignments
		 WHERE session_id = ? ORDER BY expense_pos, position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense assignments: %w", err)
	}
	defer assignRows.Close()

	for assignRows.Next() {
		var ePos int
		var pid string
		if err := assignRows.Scan(&ePos, &pid); err != nil {
			return nil, fmt.Errorf("failed to scan expense assignment: %w", err)
		}
		if ePos < len(expenses) {
			expenses[ePos].SplitAmong = append(expenses[ePos].SplitAmong, pid)
		}
	}
	if err := assignRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense assignments: %w", err)
	}

	// Items
	itemRows, err := s.db.QueryContext(ctx,
		`SELECT expense_pos, id, description, amount, category FROM items
		 WHERE session_id = ? ORDER BY expense_pos, position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var ePos int
		var item models.ExpenseItem
		if err := itemRows.Scan(&ePos, &item.ID, &item.Description, &item.Amount, &item.Category); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if ePos < len(expenses) {
			expenses[ePos].Items = append(expenses[ePos].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	// Owed-groups of items
	itemAssignRows, err := s.db.QueryContext(ctx,
		`SELECT expense_pos, item_pos, participant_id FROM item_assignments
		 WHERE session_id = ? ORDER BY expense_pos, item_pos, position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get item assignments: %w", err)
	}
	defer itemAssignRows.Close()

	for itemAssignRows.Next() {
		var ePos, iPos int
		var pid string
		if err := itemAssignRows.Scan(&ePos, &iPos, &pid); err != nil {
			return nil, fmt.Errorf("failed to scan item assignment: %w", err)
		}
		if ePos < len(expenses) && iPos < len(expenses[ePos].Items) {
			item := &expenses[ePos].Items[iPos]
			item.SplitAmong = append(item.SplitAmong, pid)
		}
	}
	if err := itemAssignRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item assignments: %w", err)
	}

	return expenses, nil
}

// DeleteSession removes a session; child rows go with it.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	return nil
}

// ListSessions returns all sessions owned by a user, most recently updated first.
func (s *SQLiteStore) ListSessions(ctx context.Context, ownerID string) ([]*models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM sessions WHERE owner_id = ? ORDER BY updated_at DESC, created_at DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// generateTitle creates an auto-generated title from participants.
func generateTitle(participants []models.Participant) string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	if len(names) == 0 {
		return fmt.Sprintf("Split - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
