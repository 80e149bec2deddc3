// Package scenario holds the named loan and income results a user is
// comparing. A Book is a plain value owned by the caller: every change
// returns a new Book and computed results are never modified.
package scenario

import (
	"errors"
	"fmt"
	"slices"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/income"
)

// ErrNotFound is returned when a scenario lookup fails.
var ErrNotFound = errors.New("scenario not found")

// Loan is a named amortization result.
type Loan struct {
	ID     int                 `json:"id"`
	Name   string              `json:"name"`
	Result amortization.Result `json:"result"`
}

// Stream is a named income projection.
type Stream struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Projection income.Projection `json:"projection"`
}

// Book is an ordered collection of loans and income streams.
// The zero value is an empty book.
type Book struct {
	Loans   []Loan   `json:"loans"`
	Streams []Stream `json:"streams"`
	nextID  int
}

// NextID returns the identifier the next added entry will receive.
func (b Book) NextID() int {
	if b.nextID < 1 {
		return 1
	}
	return b.nextID
}

// WithNextID returns a copy of b whose counter continues from id.
// Stores use it to restore a book without renumbering.
func (b Book) WithNextID(id int) Book {
	b.nextID = id
	return b
}

// DefaultLoanName suggests a name for the next loan scenario.
func (b Book) DefaultLoanName() string {
	return fmt.Sprintf("Scenario %d", b.NextID())
}

// AddLoan returns a new book with the result appended.
func (b Book) AddLoan(name string, r amortization.Result) (Book, Loan) {
	id := b.NextID()
	if name == "" {
		name = b.DefaultLoanName()
	}
	l := Loan{ID: id, Name: name, Result: r}
	b.Loans = append(slices.Clip(b.Loans), l)
	b.nextID = id + 1
	return b, l
}

// AddStream returns a new book with the projection appended.
func (b Book) AddStream(name string, p income.Projection) (Book, Stream) {
	id := b.NextID()
	if name == "" {
		name = "Monthly Income"
	}
	s := Stream{ID: id, Name: name, Projection: p}
	b.Streams = append(slices.Clip(b.Streams), s)
	b.nextID = id + 1
	return b, s
}

// ClearLoans removes every loan scenario. The ID counter restarts at 1
// when no income streams remain to collide with.
func (b Book) ClearLoans() Book {
	b.Loans = nil
	if len(b.Streams) == 0 {
		b.nextID = 1
	}
	return b
}

// Loan returns the first loan with the given name.
func (b Book) Loan(name string) (Loan, error) {
	for _, l := range b.Loans {
		if l.Name == name {
			return l, nil
		}
	}
	return Loan{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// LoanByID returns the loan with the given identifier.
func (b Book) LoanByID(id int) (Loan, error) {
	for _, l := range b.Loans {
		if l.ID == id {
			return l, nil
		}
	}
	return Loan{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// LoanNames returns the loan names in insertion order.
func (b Book) LoanNames() []string {
	names := make([]string, len(b.Loans))
	for i, l := range b.Loans {
		names[i] = l.Name
	}
	return names
}
