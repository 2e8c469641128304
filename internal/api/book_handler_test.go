package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolalib/biblio-api/internal/api"
	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/store"
)

// memBookStore is a map-backed store.BookStore. lockedReads counts
// GetByIDForUpdate calls so tests can assert the update path reads under the
// row lock.
type memBookStore struct {
	books       map[uuid.UUID]*domain.Book
	lockedReads int
}

func newMemBookStore() *memBookStore {
	return &memBookStore{books: make(map[uuid.UUID]*domain.Book)}
}

func (s *memBookStore) Create(ctx context.Context, book *domain.Book) error {
	s.books[book.ID] = book
	return nil
}

func (s *memBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, ok := s.books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	return book, nil
}

func (s *memBookStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	s.lockedReads++
	return s.GetByID(ctx, id)
}

func (s *memBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0, len(s.books))
	for _, book := range s.books {
		out = append(out, book)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *memBookStore) Update(ctx context.Context, book *domain.Book) error {
	if _, ok := s.books[book.ID]; !ok {
		return store.ErrBookNotFound
	}
	s.books[book.ID] = book
	return nil
}

func (s *memBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.books[id]; !ok {
		return store.ErrBookNotFound
	}
	delete(s.books, id)
	return nil
}

func (s *memBookStore) ReserveCopy(ctx context.Context, id uuid.UUID) error {
	book, ok := s.books[id]
	if !ok {
		return store.ErrBookNotFound
	}
	if book.Available <= 0 {
		return store.ErrOutOfStock
	}
	book.Available--
	return nil
}

func (s *memBookStore) ReleaseCopy(ctx context.Context, id uuid.UUID) error {
	book, ok := s.books[id]
	if !ok {
		return store.ErrBookNotFound
	}
	if book.Available >= book.Quantity {
		return store.ErrCopyInvariant
	}
	book.Available++
	return nil
}

func (s *memBookStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.books)), nil
}

func (s *memBookStore) WithTx(tx *sql.Tx) store.BookStore { return s }

// memLoanStore holds just enough ledger for the delete guard.
type memLoanStore struct {
	loans []*domain.Loan
}

func (s *memLoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	s.loans = append(s.loans, loan)
	return nil
}

func (s *memLoanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	for _, loan := range s.loans {
		if loan.ID == id {
			return loan, nil
		}
	}
	return nil, store.ErrLoanNotFound
}

func (s *memLoanStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return s.GetByID(ctx, id)
}

func (s *memLoanStore) List(ctx context.Context, filter store.LoanFilter) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, loan := range s.loans {
		if filter.BookID != nil && loan.BookID != *filter.BookID {
			continue
		}
		if filter.UserID != nil && loan.UserID != *filter.UserID {
			continue
		}
		if filter.OpenOnly && !loan.Open() {
			continue
		}
		out = append(out, loan)
	}
	return out, nil
}

func (s *memLoanStore) Update(ctx context.Context, loan *domain.Loan) error { return nil }

func (s *memLoanStore) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	for _, loan := range s.loans {
		if loan.Open() {
			n++
		}
	}
	return n, nil
}

func (s *memLoanStore) WithTx(tx *sql.Tx) store.LoanStore { return s }

// passthroughTransactor runs the function directly; the map-backed stores
// ignore the nil transaction.
type passthroughTransactor struct{}

func (passthroughTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

func newBookRouter(books *memBookStore, loans *memLoanStore) chi.Router {
	handler := api.NewBookHandler(books, loans, passthroughTransactor{})

	r := chi.NewRouter()
	r.Post("/books", handler.Create)
	r.Get("/books", handler.List)
	r.Get("/books/{id}", handler.Get)
	r.Put("/books/{id}", handler.Update)
	r.Delete("/books/{id}", handler.Delete)
	return r
}

func seedBook(t *testing.T, books *memBookStore, quantity, available int) *domain.Book {
	t.Helper()

	book, err := domain.NewBook("Dom Casmurro", "Machado de Assis", "9788525406958", "Romance", "Physical", quantity)
	require.NoError(t, err)
	book.Available = available
	books.books[book.ID] = book
	return book
}

func mustDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func updateBookBody(quantity int) string {
	return fmt.Sprintf(`{"title":"Dom Casmurro","author":"Machado de Assis","quantity":%d}`, quantity)
}

func TestBookHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("all copies start available", func(t *testing.T) {
		t.Parallel()

		books := newMemBookStore()
		router := newBookRouter(books, &memLoanStore{})

		body := `{"title":"Dom Casmurro","author":"Machado de Assis","quantity":3}`
		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var got domain.Book
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, 3, got.Quantity)
		assert.Equal(t, 3, got.Available)
	})

	t.Run("missing title is a bad request", func(t *testing.T) {
		t.Parallel()

		router := newBookRouter(newMemBookStore(), &memLoanStore{})

		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewBufferString(`{"quantity":1}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookHandlerUpdate(t *testing.T) {
	t.Parallel()

	t.Run("quantity change recomputes available under the row lock", func(t *testing.T) {
		t.Parallel()

		books := newMemBookStore()
		router := newBookRouter(books, &memLoanStore{})

		// Five copies, two out on loan.
		book := seedBook(t, books, 5, 3)

		req := httptest.NewRequest(http.MethodPut, "/books/"+book.ID.String(),
			bytes.NewBufferString(updateBookBody(4)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		stored := books.books[book.ID]
		assert.Equal(t, 4, stored.Quantity)
		assert.Equal(t, 2, stored.Available)
		assert.Equal(t, 1, books.lockedReads,
			"available must be recomputed from a locked read, not a stale fetch")
	})

	t.Run("shrinking below the on-loan count floors available at zero", func(t *testing.T) {
		t.Parallel()

		books := newMemBookStore()
		router := newBookRouter(books, &memLoanStore{})

		book := seedBook(t, books, 5, 3)

		req := httptest.NewRequest(http.MethodPut, "/books/"+book.ID.String(),
			bytes.NewBufferString(updateBookBody(1)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		stored := books.books[book.ID]
		assert.Equal(t, 1, stored.Quantity)
		assert.Equal(t, 0, stored.Available)
	})

	t.Run("unchanged quantity leaves available alone", func(t *testing.T) {
		t.Parallel()

		books := newMemBookStore()
		router := newBookRouter(books, &memLoanStore{})

		book := seedBook(t, books, 5, 3)

		req := httptest.NewRequest(http.MethodPut, "/books/"+book.ID.String(),
			bytes.NewBufferString(updateBookBody(5)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, books.books[book.ID].Available)
	})

	t.Run("unknown book is not found", func(t *testing.T) {
		t.Parallel()

		router := newBookRouter(newMemBookStore(), &memLoanStore{})

		req := httptest.NewRequest(http.MethodPut, "/books/"+uuid.NewString(),
			bytes.NewBufferString(updateBookBody(1)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("open loans block deletion", func(t *testing.T) {
		t.Parallel()

		books := newMemBookStore()
		loans := &memLoanStore{}
		router := newBookRouter(books, loans)

		book := seedBook(t, books, 2, 1)
		loan, err := domain.NewLoan(uuid.New(), book.ID,
			mustDate(2025, 3, 1), mustDate(2025, 3, 8))
		require.NoError(t, err)
		require.NoError(t, loans.Create(context.Background(), loan))

		req := httptest.NewRequest(http.MethodDelete, "/books/"+book.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		_, ok := books.books[book.ID]
		assert.True(t, ok, "book must survive a blocked delete")
	})

	t.Run("returned loans do not block deletion", func(t *testing.T) {
		t.Parallel()

		books := newMemBookStore()
		loans := &memLoanStore{}
		router := newBookRouter(books, loans)

		book := seedBook(t, books, 2, 2)
		loan, err := domain.NewLoan(uuid.New(), book.ID,
			mustDate(2025, 3, 1), mustDate(2025, 3, 8))
		require.NoError(t, err)
		loan.MarkReturned(mustDate(2025, 3, 5))
		require.NoError(t, loans.Create(context.Background(), loan))

		req := httptest.NewRequest(http.MethodDelete, "/books/"+book.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
