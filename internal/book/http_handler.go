package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	q := Query{
		Q:      query.Get("q"),
		Author: query.Get("author"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	books, total, err := h.svc.List(r.Context(), q)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// GetByID handles GET /books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Book ID is required", nil)
		return
	}

	b, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, b, nil)
}

type bookReq struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Author          string  `json:"author" validate:"required,max=255"`
	ISBN            string  `json:"isbn" validate:"required,isbn"`
	PublishedDate   *string `json:"published_date"`
	Pages           int     `json:"pages" validate:"required,gt=0"`
	AvailableCopies int     `json:"available_copies" validate:"gte=0"`
}

func decodeBookReq(w http.ResponseWriter, r *http.Request) (bookReq, bool) {
	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return req, false
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.ISBN = strings.TrimSpace(req.ISBN)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidationError, "Invalid input", validationErrors)
		return req, false
	}
	return req, true
}

// Create handles POST /books (admin/librarian only, enforced by middleware).
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBookReq(w, r)
	if !ok {
		return
	}

	b := Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		PublishedDate:   req.PublishedDate,
		Pages:           req.Pages,
		AvailableCopies: req.AvailableCopies,
	}

	if err := h.svc.Create(r.Context(), &b); err != nil {
		if errors.Is(err, ErrDuplicateISBN) {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidationError, "ISBN already exists", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /books/{id} (admin/librarian only).
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Book ID is required", nil)
		return
	}

	req, ok := decodeBookReq(w, r)
	if !ok {
		return
	}

	b := Book{
		ID:              id,
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		PublishedDate:   req.PublishedDate,
		Pages:           req.Pages,
		AvailableCopies: req.AvailableCopies,
	}

	if err := h.svc.Update(r.Context(), &b); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
		case errors.Is(err, ErrDuplicateISBN):
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidationError, "ISBN already exists", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{id} (admin/librarian only).
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Book ID is required", nil)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error", nil)
		return
	}

	httpx.JSONSuccessNoContent(w)
}
