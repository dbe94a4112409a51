package loan

import (
	"context"
	"log"
	"time"
)

// Scanner periodically runs the overdue scan and logs what it finds. The
// scan is read-only, so overlapping runs are harmless.
type Scanner struct {
	svc      *Service
	interval time.Duration
}

func NewScanner(svc *Service, interval time.Duration) *Scanner {
	return &Scanner{svc: svc, interval: interval}
}

// Run blocks until ctx is canceled, scanning once per interval.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ScanOnce(ctx)
		}
	}
}

// ScanOnce performs a single scan pass.
func (s *Scanner) ScanOnce(ctx context.Context) {
	now := time.Now()
	overdue, err := s.svc.ScanOverdue(ctx, now)
	if err != nil {
		log.Printf("overdue scan failed: error=%v", err)
		return
	}

	for _, l := range overdue {
		log.Printf("overdue book=%q user_id=%s due_date=%s", l.BookTitle, l.UserID, l.DueDate.Format(time.RFC3339))
	}
	log.Printf("overdue scan complete: count=%d", len(overdue))
}
