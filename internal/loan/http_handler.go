package loan

import (
	"errors"
	"log"
	"net/http"
	"time"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Borrow handles POST /borrow/{book_id}
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("book_id")
	if bookID == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Book ID is required", nil)
		return
	}

	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	l, err := h.svc.Borrow(r.Context(), userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		case errors.Is(err, ErrNoCopies):
			httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "No copies available", nil)
		case errors.Is(err, ErrAlreadyBorrowed):
			httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "Book already borrowed", nil)
		default:
			log.Printf("borrow failed: request_id=%s user_id=%s book_id=%s error=%v", httpx.RequestIDFrom(r), userID, bookID, err)
			httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccessCreated(w, r, map[string]any{
		"message": "Book borrowed successfully",
		"loan":    l,
	})
}

// Return handles POST /return/{book_id}
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("book_id")
	if bookID == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Book ID is required", nil)
		return
	}

	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	l, err := h.svc.Return(r.Context(), userID, bookID)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Borrowed book not found", nil)
			return
		}
		log.Printf("return failed: request_id=%s user_id=%s book_id=%s error=%v", httpx.RequestIDFrom(r), userID, bookID, err)
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"message": "Book returned successfully",
		"loan":    l,
	}, nil)
}

// CheckDueBooks handles POST /check_due_books (admin/librarian only). It
// runs the overdue scan on demand and reports what it found.
func (h *HTTPHandler) CheckDueBooks(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	overdue, err := h.svc.ScanOverdue(r.Context(), now)
	if err != nil {
		log.Printf("overdue scan failed: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error", nil)
		return
	}

	for _, l := range overdue {
		log.Printf("overdue book=%q user_id=%s due_date=%s", l.BookTitle, l.UserID, l.DueDate.Format(time.RFC3339))
	}

	httpx.JSONSuccess(w, r, overdue, map[string]any{
		"count":      len(overdue),
		"scanned_at": now.Format(time.RFC3339),
	})
}
