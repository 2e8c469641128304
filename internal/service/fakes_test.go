package service_test

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/store"
)

// fixedClock pins the service clock to a single day.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// fakeTransactor runs the TxFn directly and restores the fakes' state when it
// fails, mirroring the rollback behavior of the real transactor.
type fakeTransactor struct {
	books *fakeBookStore
	loans *fakeLoanStore
}

func (f *fakeTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	booksBefore := f.books.snapshot()
	loansBefore := f.loans.snapshot()

	if err := fn(ctx, nil); err != nil {
		f.books.restore(booksBefore)
		f.loans.restore(loansBefore)
		return err
	}
	return nil
}

// fakeUserStore implements store.UserStore backed by a map. Only the methods
// the loan service touches carry behavior.
type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) add(user *domain.User) { s.users[user.ID] = user }

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) List(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// fakeBookStore implements store.BookStore with the same reserve/release
// semantics as the postgres implementation.
type fakeBookStore struct {
	books map[uuid.UUID]*domain.Book
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{books: make(map[uuid.UUID]*domain.Book)}
}

func (s *fakeBookStore) add(book *domain.Book) { s.books[book.ID] = book }

func (s *fakeBookStore) snapshot() map[uuid.UUID]domain.Book {
	out := make(map[uuid.UUID]domain.Book, len(s.books))
	for id, book := range s.books {
		out[id] = *book
	}
	return out
}

func (s *fakeBookStore) restore(state map[uuid.UUID]domain.Book) {
	s.books = make(map[uuid.UUID]*domain.Book, len(state))
	for id, book := range state {
		copied := book
		s.books[id] = &copied
	}
}

func (s *fakeBookStore) Create(ctx context.Context, book *domain.Book) error {
	s.books[book.ID] = book
	return nil
}

func (s *fakeBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, ok := s.books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	return book, nil
}

func (s *fakeBookStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0, len(s.books))
	for _, book := range s.books {
		out = append(out, book)
	}
	return out, nil
}

func (s *fakeBookStore) Update(ctx context.Context, book *domain.Book) error {
	if _, ok := s.books[book.ID]; !ok {
		return store.ErrBookNotFound
	}
	s.books[book.ID] = book
	return nil
}

func (s *fakeBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.books[id]; !ok {
		return store.ErrBookNotFound
	}
	delete(s.books, id)
	return nil
}

func (s *fakeBookStore) ReserveCopy(ctx context.Context, id uuid.UUID) error {
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

func (s *fakeBookStore) ReleaseCopy(ctx context.Context, id uuid.UUID) error {
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

func (s *fakeBookStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.books)), nil
}

func (s *fakeBookStore) WithTx(tx *sql.Tx) store.BookStore { return s }

// fakeLoanStore implements store.LoanStore backed by a map.
type fakeLoanStore struct {
	loans map[uuid.UUID]*domain.Loan
}

func newFakeLoanStore() *fakeLoanStore {
	return &fakeLoanStore{loans: make(map[uuid.UUID]*domain.Loan)}
}

func (s *fakeLoanStore) add(loan *domain.Loan) { s.loans[loan.ID] = loan }

func (s *fakeLoanStore) snapshot() map[uuid.UUID]domain.Loan {
	out := make(map[uuid.UUID]domain.Loan, len(s.loans))
	for id, loan := range s.loans {
		out[id] = *loan
	}
	return out
}

func (s *fakeLoanStore) restore(state map[uuid.UUID]domain.Loan) {
	s.loans = make(map[uuid.UUID]*domain.Loan, len(state))
	for id, loan := range state {
		copied := loan
		s.loans[id] = &copied
	}
}

func (s *fakeLoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	s.loans[loan.ID] = loan
	return nil
}

func (s *fakeLoanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	loan, ok := s.loans[id]
	if !ok {
		return nil, store.ErrLoanNotFound
	}
	return loan, nil
}

func (s *fakeLoanStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeLoanStore) List(ctx context.Context, filter store.LoanFilter) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, loan := range s.loans {
		if filter.UserID != nil && loan.UserID != *filter.UserID {
			continue
		}
		if filter.BookID != nil && loan.BookID != *filter.BookID {
			continue
		}
		if filter.OpenOnly && !loan.Open() {
			continue
		}
		out = append(out, loan)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeLoanStore) Update(ctx context.Context, loan *domain.Loan) error {
	if _, ok := s.loans[loan.ID]; !ok {
		return store.ErrLoanNotFound
	}
	s.loans[loan.ID] = loan
	return nil
}

func (s *fakeLoanStore) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	for _, loan := range s.loans {
		if loan.Open() {
			count++
		}
	}
	return count, nil
}

func (s *fakeLoanStore) WithTx(tx *sql.Tx) store.LoanStore { return s }

// fakeNotificationStore implements store.NotificationStore as an append-only
// slice.
type fakeNotificationStore struct {
	notifications []*domain.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{}
}

func (s *fakeNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *fakeNotificationStore) List(ctx context.Context) ([]*domain.Notification, error) {
	out := make([]*domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out, nil
}

func (s *fakeNotificationStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range s.notifications {
		if n.UserID == nil || *n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) ExistsForLoanDay(ctx context.Context, userID, bookID uuid.UUID, day time.Time) (bool, error) {
	target := domain.DateOnly(day)
	for _, n := range s.notifications {
		if n.UserID != nil && *n.UserID == userID &&
			n.BookID != nil && *n.BookID == bookID &&
			n.Date.Equal(target) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeNotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	for _, n := range s.notifications {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return store.ErrNotificationNotFound
}

// recordingPublisher captures every published notification.
type recordingPublisher struct {
	published []*domain.Notification
}

func (p *recordingPublisher) Publish(n *domain.Notification) {
	p.published = append(p.published, n)
}
