package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/api/shared"
	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/store"
)

// BookHandler handles book catalog API requests.
//
// The available counter is never taken from the request: creation sets it to
// quantity and updates adjust it by the quantity delta, floored at the number
// of copies currently on loan.
type BookHandler struct {
	bookStore store.BookStore
	loanStore store.LoanStore
	tx        store.Transactor
	validator *validator.Validate
}

// NewBookHandler creates a new BookHandler with the given dependencies.
func NewBookHandler(bookStore store.BookStore, loanStore store.LoanStore, tx store.Transactor) *BookHandler {
	return &BookHandler{
		bookStore: bookStore,
		loanStore: loanStore,
		tx:        tx,
		validator: validator.New(),
	}
}

// Create handles POST /books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	book, err := domain.NewBook(req.Title, req.Author, req.ISBN, req.Category, req.Format, req.Quantity)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book data: "+err.Error())
		return
	}
	book.KnowledgeArea = req.KnowledgeArea
	book.Year = req.Year
	book.Shelf = req.Shelf
	book.ShelfLocation = req.ShelfLocation
	book.Publisher = req.Publisher
	book.CoverURL = req.CoverURL
	book.Synopsis = req.Synopsis

	if err := h.bookStore.Create(r.Context(), book); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, book)
}

// List handles GET /books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, books)
}

// Get handles GET /books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book ID")
		return
	}

	book, err := h.bookStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, book)
}

// Update handles PUT /books/{id}.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book ID")
		return
	}

	var req UpdateBookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Recomputing available from the on-loan count must not race a checkout
	// or return, so the row stays locked from read to write.
	var book *domain.Book
	err = h.tx.RunInTransaction(r.Context(), func(ctx context.Context, tx *sql.Tx) error {
		books := h.bookStore.WithTx(tx)

		var err error
		book, err = books.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		// Adjust available by the quantity delta, floored at zero. Copies out
		// on loan stay out; shrinking the quantity cannot conjure returns.
		if req.Quantity != book.Quantity {
			available := req.Quantity - book.OnLoan()
			if available < 0 {
				available = 0
			}
			book.Quantity = req.Quantity
			book.Available = available
		}

		book.Title = req.Title
		book.Author = req.Author
		book.ISBN = req.ISBN
		book.Category = req.Category
		book.Format = req.Format
		book.KnowledgeArea = req.KnowledgeArea
		book.Year = req.Year
		book.Shelf = req.Shelf
		book.ShelfLocation = req.ShelfLocation
		book.Publisher = req.Publisher
		book.CoverURL = req.CoverURL
		book.Synopsis = req.Synopsis
		book.UpdatedAt = time.Now().UTC()

		if err := book.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		return books.Update(ctx, book)
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, book)
}

// Delete handles DELETE /books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book ID")
		return
	}

	// A title with copies still out cannot be removed from the catalog.
	open, err := h.loanStore.List(r.Context(), store.LoanFilter{BookID: &id, OpenOnly: true})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if len(open) > 0 {
		shared.RespondWithError(w, r, http.StatusConflict, "Book has open loans and cannot be deleted")
		return
	}

	if err := h.bookStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
