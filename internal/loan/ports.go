package loan

import (
	"context"
	"time"
)

// Repository defines the contract for the loan ledger. Implementations must
// treat Borrow and Return as atomic units: the loan row and the book's copy
// count change together or not at all, and concurrent borrows of the last
// copy must yield exactly one success.
type Repository interface {
	Borrow(ctx context.Context, userID, bookID string, borrowedAt, dueDate time.Time) (Loan, error)
	Return(ctx context.Context, userID, bookID string) (Loan, error)
	ListOverdue(ctx context.Context, now time.Time) ([]Loan, error)
}
