// Package store keeps scenario inputs per session in SQLite.
//
// Only inputs are stored. Results are recomputed on load, so a stored
// scenario can never disagree with the calculator.
package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/income"
	"github.com/theirongolddev/homeloan/internal/scenario"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DefaultDSN is a process-private in-memory database.
const DefaultDSN = "file:homeloan?mode=memory&cache=shared"

// ErrSessionNotFound is returned for unknown or deleted sessions.
var ErrSessionNotFound = errors.New("session not found")

// Store provides SQLite-backed session storage.
type Store struct {
	db *sql.DB
}

// Open opens the database at dsn and creates the schema.
// An empty dsn means DefaultDSN.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite", dsn+sep+"_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database. In-memory sessions are gone afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// timeLayout is fixed width so stored timestamps compare as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func now() string {
	return time.Now().UTC().Format(timeLayout)
}

// CreateSession starts an empty session and returns its ID.
func (s *Store) CreateSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (session_id, next_id, created_at, touched_at) VALUES (?, 1, ?, ?)",
		id, ts, ts)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// nextID reads the session counter inside tx.
func nextID(ctx context.Context, tx *sql.Tx, sessionID string) (int, error) {
	var next int
	err := tx.QueryRowContext(ctx, "SELECT next_id FROM sessions WHERE session_id = ?", sessionID).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return next, err
}

func advance(ctx context.Context, tx *sql.Tx, sessionID string, next int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE sessions SET next_id = ?, touched_at = ? WHERE session_id = ?",
		next, now(), sessionID)
	return err
}

// SaveLoan appends a loan scenario to the session. An empty name gets the
// "Scenario N" default.
func (s *Store) SaveLoan(ctx context.Context, sessionID, name string, r amortization.Result) (scenario.Loan, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return scenario.Loan{}, err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := nextID(ctx, tx, sessionID)
	if err != nil {
		return scenario.Loan{}, err
	}
	if name == "" {
		name = scenario.Book{}.WithNextID(id).DefaultLoanName()
	}

	p := r.Params
	_, err = tx.ExecContext(ctx, `INSERT INTO loans
		(session_id, id, name, principal, annual_rate, term_years, frequency,
		 start_date, home_price, down_payment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, id, name, p.Principal, p.AnnualRatePercent, p.TermYears, p.Frequency.String(),
		p.StartDate.UTC().Format(time.RFC3339Nano), nullFloat(p.HomePrice), nullFloat(p.DownPayment),
	)
	if err != nil {
		return scenario.Loan{}, fmt.Errorf("saving loan: %w", err)
	}
	if err := advance(ctx, tx, sessionID, id+1); err != nil {
		return scenario.Loan{}, err
	}
	if err := tx.Commit(); err != nil {
		return scenario.Loan{}, err
	}
	return scenario.Loan{ID: id, Name: name, Result: r}, nil
}

// SaveStream appends an income stream to the session.
func (s *Store) SaveStream(ctx context.Context, sessionID, name string, p income.Projection) (scenario.Stream, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return scenario.Stream{}, err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := nextID(ctx, tx, sessionID)
	if err != nil {
		return scenario.Stream{}, err
	}
	if name == "" {
		name = "Monthly Income"
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO streams
		(session_id, id, name, monthly_income, growth_kind, growth_rate, years, start_month)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, id, name, p.MonthlyIncome, int(p.Growth.Kind), p.Growth.RatePercent, p.Years, p.Start,
	)
	if err != nil {
		return scenario.Stream{}, fmt.Errorf("saving stream: %w", err)
	}
	if err := advance(ctx, tx, sessionID, id+1); err != nil {
		return scenario.Stream{}, err
	}
	if err := tx.Commit(); err != nil {
		return scenario.Stream{}, err
	}
	return scenario.Stream{ID: id, Name: name, Projection: p}, nil
}

// entry is a stored loan or stream awaiting replay into a Book.
type entry struct {
	id  int
	add func(scenario.Book) scenario.Book
}

// LoadBook rebuilds the session's Book, recomputing every result. Reading a
// session counts as activity for PurgeIdle.
func (s *Store) LoadBook(ctx context.Context, sessionID string) (scenario.Book, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return scenario.Book{}, err
	}
	defer func() { _ = tx.Rollback() }()

	next, err := nextID(ctx, tx, sessionID)
	if err != nil {
		return scenario.Book{}, err
	}

	loans, err := loadLoans(ctx, tx, sessionID)
	if err != nil {
		return scenario.Book{}, err
	}
	streams, err := loadStreams(ctx, tx, sessionID)
	if err != nil {
		return scenario.Book{}, err
	}

	entries := append(loans, streams...)
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.id, b.id) })

	var book scenario.Book
	for _, e := range entries {
		book = e.add(book.WithNextID(e.id))
	}

	if err := advance(ctx, tx, sessionID, next); err != nil {
		return scenario.Book{}, fmt.Errorf("touching session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return scenario.Book{}, err
	}
	return book.WithNextID(next), nil
}

func loadLoans(ctx context.Context, tx *sql.Tx, sessionID string) ([]entry, error) {
	rows, err := tx.QueryContext(ctx, `SELECT
		id, name, principal, annual_rate, term_years, frequency, start_date, home_price, down_payment
		FROM loans WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entry
	for rows.Next() {
		var (
			id             int
			name, freq, st string
			p              amortization.Params
			home, down     sql.NullFloat64
		)
		if err := rows.Scan(&id, &name, &p.Principal, &p.AnnualRatePercent, &p.TermYears,
			&freq, &st, &home, &down); err != nil {
			return nil, err
		}
		if p.Frequency, err = amortization.ParseFrequency(freq); err != nil {
			return nil, fmt.Errorf("loan %d: %w", id, err)
		}
		if p.StartDate, err = time.Parse(time.RFC3339Nano, st); err != nil {
			return nil, fmt.Errorf("loan %d start date: %w", id, err)
		}
		p.HomePrice = floatPtr(home)
		p.DownPayment = floatPtr(down)

		res, err := amortization.Compute(p)
		if err != nil {
			return nil, fmt.Errorf("recomputing loan %d: %w", id, err)
		}
		out = append(out, entry{id: id, add: func(b scenario.Book) scenario.Book {
			b, _ = b.AddLoan(name, res)
			return b
		}})
	}
	return out, rows.Err()
}

func loadStreams(ctx context.Context, tx *sql.Tx, sessionID string) ([]entry, error) {
	rows, err := tx.QueryContext(ctx, `SELECT
		id, name, monthly_income, growth_kind, growth_rate, years, start_month
		FROM streams WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entry
	for rows.Next() {
		var (
			id, kind, years int
			name, start     string
			monthly, rate   float64
		)
		if err := rows.Scan(&id, &name, &monthly, &kind, &rate, &years, &start); err != nil {
			return nil, err
		}
		month, err := time.Parse(income.MonthLayout, start)
		if err != nil {
			return nil, fmt.Errorf("stream %d start month: %w", id, err)
		}
		g := income.Growth{Kind: income.GrowthKind(kind), RatePercent: rate}
		proj, err := income.Project(month, monthly, g, years)
		if err != nil {
			return nil, fmt.Errorf("recomputing stream %d: %w", id, err)
		}
		out = append(out, entry{id: id, add: func(b scenario.Book) scenario.Book {
			b, _ = b.AddStream(name, proj)
			return b
		}})
	}
	return out, rows.Err()
}

// ClearLoans removes every loan scenario in the session. The counter
// restarts at 1 when the session holds no income streams.
func (s *Store) ClearLoans(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	next, err := nextID(ctx, tx, sessionID)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM loans WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clearing loans: %w", err)
	}

	var streams int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM streams WHERE session_id = ?", sessionID).Scan(&streams); err != nil {
		return err
	}
	if streams == 0 {
		next = 1
	}
	if err := advance(ctx, tx, sessionID, next); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSession removes a session and everything in it.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// PurgeIdle deletes sessions not written to since cutoff and reports how
// many were removed.
func (s *Store) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE touched_at < ?",
		cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	return res.RowsAffected()
}

// SessionCount returns the number of live sessions.
func (s *Store) SessionCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
