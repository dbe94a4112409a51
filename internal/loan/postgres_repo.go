package loan

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Borrow runs as one transaction. The copy count is decremented with a
// compare-and-decrement guarded by available_copies > 0, so two concurrent
// borrows of the last copy can never both succeed or drive the count
// negative. The partial unique index on (user_id, book_id) rejects a second
// active loan for the same pair.
func (r *PostgresRepo) Borrow(ctx context.Context, userID, bookID string, borrowedAt, dueDate time.Time) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	const decrementSQL = `
	UPDATE books
	SET available_copies = available_copies - 1, updated_at = now()
	WHERE id = $1 AND available_copies > 0
	RETURNING title
	`
	var title string
	err = tx.QueryRow(timeoutCtx, decrementSQL, bookID).Scan(&title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(timeoutCtx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
				return Loan{}, err
			}
			if !exists {
				return Loan{}, ErrBookNotFound
			}
			return Loan{}, ErrNoCopies
		}
		return Loan{}, err
	}

	const insertSQL = `
	INSERT INTO loans (id, user_id, book_id, borrowed_at, due_date, returned)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, false)
	RETURNING id
	`
	l := Loan{
		UserID:     userID,
		BookID:     bookID,
		BookTitle:  title,
		BorrowedAt: borrowedAt,
		DueDate:    dueDate,
	}
	if err := tx.QueryRow(timeoutCtx, insertSQL, userID, bookID, borrowedAt, dueDate).Scan(&l.ID); err != nil {
		if isUniqueViolation(err) {
			return Loan{}, ErrAlreadyBorrowed
		}
		return Loan{}, err
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, err
	}
	return l, nil
}

// Return runs as one transaction. The active loan is selected FOR UPDATE so
// a concurrent return of the same loan blocks; the earliest borrowed_at wins
// when more than one active loan exists for the pair.
func (r *PostgresRepo) Return(ctx context.Context, userID, bookID string) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	const selectSQL = `
	SELECT l.id, l.borrowed_at, l.due_date, b.title
	FROM loans l
	JOIN books b ON b.id = l.book_id
	WHERE l.user_id = $1 AND l.book_id = $2 AND NOT l.returned
	ORDER BY l.borrowed_at ASC
	LIMIT 1
	FOR UPDATE OF l
	`
	l := Loan{UserID: userID, BookID: bookID, Returned: true}
	err = tx.QueryRow(timeoutCtx, selectSQL, userID, bookID).Scan(&l.ID, &l.BorrowedAt, &l.DueDate, &l.BookTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrLoanNotFound
		}
		return Loan{}, err
	}

	if _, err := tx.Exec(timeoutCtx, `UPDATE loans SET returned = true WHERE id = $1`, l.ID); err != nil {
		return Loan{}, err
	}

	if _, err := tx.Exec(timeoutCtx, `UPDATE books SET available_copies = available_copies + 1, updated_at = now() WHERE id = $1`, bookID); err != nil {
		return Loan{}, err
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, err
	}
	return l, nil
}

func (r *PostgresRepo) ListOverdue(ctx context.Context, now time.Time) ([]Loan, error) {
	const query = `
	SELECT l.id, l.user_id, l.book_id, b.title, l.borrowed_at, l.due_date, l.returned
	FROM loans l
	JOIN books b ON b.id = l.book_id
	WHERE NOT l.returned AND l.due_date < $1
	ORDER BY l.due_date ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.BookID, &l.BookTitle,
			&l.BorrowedAt, &l.DueDate, &l.Returned,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
