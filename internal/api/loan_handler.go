package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/api/shared"
	"github.com/escolalib/biblio-api/internal/service"
)

// defaultLoanPeriodDays is the due date offset applied when a checkout does
// not name one.
const defaultLoanPeriodDays = 7

// LoanHandler handles loan ledger API requests. All writes go through the
// loan service; the handler never touches the stores directly.
type LoanHandler struct {
	loanService service.LoanService
	clock       service.Clock
	validator   *validator.Validate
}

// NewLoanHandler creates a new LoanHandler with the given dependencies.
// If clock is nil the wall clock is used.
func NewLoanHandler(loanService service.LoanService, clock service.Clock) *LoanHandler {
	if clock == nil {
		clock = service.NewClock()
	}

	return &LoanHandler{
		loanService: loanService,
		clock:       clock,
		validator:   validator.New(),
	}
}

// Checkout handles POST /loans.
func (h *LoanHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	loanDate := h.clock.Now()
	if req.LoanDate != nil {
		loanDate = *req.LoanDate
	}

	dueDate := loanDate.AddDate(0, 0, defaultLoanPeriodDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	loan, err := h.loanService.Checkout(r.Context(), req.UserID, req.BookID, loanDate, dueDate)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, loan)
}

// Return handles POST /loans/{id}/return.
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid loan ID")
		return
	}

	loan, err := h.loanService.Return(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, loan)
}

// List handles GET /loans with optional user_id, book_id and overdue query
// parameters.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter service.LoanListFilter

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user_id parameter")
			return
		}
		filter.UserID = &userID
	}

	if raw := r.URL.Query().Get("book_id"); raw != "" {
		bookID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book_id parameter")
			return
		}
		filter.BookID = &bookID
	}

	filter.OverdueOnly = r.URL.Query().Get("overdue") == "true"

	loans, err := h.loanService.List(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, loans)
}
