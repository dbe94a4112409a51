package loan

import (
	"context"
	"time"
)

// Service provides the borrow/return workflow and the overdue scan.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Borrow creates a loan for the user and decrements the book's available
// copies in one atomic unit. The due date is fixed at borrowed_at + Period.
func (s *Service) Borrow(ctx context.Context, userID, bookID string) (Loan, error) {
	borrowedAt := s.now().UTC()
	return s.repo.Borrow(ctx, userID, bookID, borrowedAt, borrowedAt.Add(Period))
}

// Return marks the user's active loan on the book as returned and increments
// the available copies in one atomic unit. If several active loans exist for
// the pair, the earliest-borrowed one is returned first.
func (s *Service) Return(ctx context.Context, userID, bookID string) (Loan, error) {
	return s.repo.Return(ctx, userID, bookID)
}

// ScanOverdue returns every active loan whose due date is before now. It is
// read-only and safe to invoke repeatedly or concurrently.
func (s *Service) ScanOverdue(ctx context.Context, now time.Time) ([]Loan, error) {
	if now.IsZero() {
		now = s.now()
	}
	return s.repo.ListOverdue(ctx, now)
}
