package loan

import (
	"errors"
	"time"
)

// Period is how long a borrowed book may be kept. Due dates are always
// computed as borrowed_at + Period; the policy is not configurable per loan.
const Period = 15 * 24 * time.Hour

var (
	// ErrBookNotFound is returned when the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrNoCopies is returned when a book has no available copies.
	ErrNoCopies = errors.New("no copies available")
	// ErrLoanNotFound is returned when no active loan exists for the
	// (user, book) pair.
	ErrLoanNotFound = errors.New("borrowed book not found")
	// ErrAlreadyBorrowed is returned when the user already holds an active
	// loan on the book.
	ErrAlreadyBorrowed = errors.New("book already borrowed by user")
)

// Loan links a user and a book. BorrowedAt is immutable after creation and
// Returned only ever flips false to true. Overdue is a derived status: an
// active loan whose due date has passed.
type Loan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BookID     string    `json:"book_id"`
	BookTitle  string    `json:"book_title,omitempty"`
	BorrowedAt time.Time `json:"borrowed_at"`
	DueDate    time.Time `json:"due_date"`
	Returned   bool      `json:"returned"`
}

// Overdue reports whether the loan is active and past due at the given time.
func (l Loan) Overdue(now time.Time) bool {
	return !l.Returned && l.DueDate.Before(now)
}
