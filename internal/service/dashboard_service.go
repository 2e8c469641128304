package service

import (
	"context"
	"fmt"

	"github.com/escolalib/biblio-api/internal/store"
)

// DashboardStats holds the headline counters shown on the dashboard.
type DashboardStats struct {
	TotalBooks  int64 `json:"total_books"`
	TotalUsers  int64 `json:"total_users"`
	ActiveLoans int64 `json:"active_loans"`
	TotalEbooks int64 `json:"total_ebooks"`
}

// DashboardService aggregates counts across the stores.
type DashboardService interface {
	// Stats returns the current headline counters.
	Stats(ctx context.Context) (*DashboardStats, error)
}

// dashboardServiceImpl implements the DashboardService interface.
type dashboardServiceImpl struct {
	bookStore  store.BookStore
	userStore  store.UserStore
	loanStore  store.LoanStore
	assetStore store.AssetStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	bookStore store.BookStore,
	userStore store.UserStore,
	loanStore store.LoanStore,
	assetStore store.AssetStore,
) DashboardService {
	return &dashboardServiceImpl{
		bookStore:  bookStore,
		userStore:  userStore,
		loanStore:  loanStore,
		assetStore: assetStore,
	}
}

// Stats implements DashboardService.Stats
func (s *dashboardServiceImpl) Stats(ctx context.Context) (*DashboardStats, error) {
	books, err := s.bookStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	users, err := s.userStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	loans, err := s.loanStore.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open loans: %w", err)
	}

	assets, err := s.assetStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}

	return &DashboardStats{
		TotalBooks:  books,
		TotalUsers:  users,
		ActiveLoans: loans,
		TotalEbooks: assets,
	}, nil
}
