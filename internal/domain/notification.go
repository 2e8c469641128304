package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification-specific validation errors
var (
	ErrEmptyNotificationID      = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationTitle   = errors.New("notification title cannot be empty")
	ErrEmptyNotificationMessage = errors.New("notification message cannot be empty")
)

// Severity classifies how urgently a notification should be surfaced.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// IsValid reports whether the severity is one of the known levels.
func (s Severity) IsValid() bool {
	return s == SeverityInfo || s == SeverityWarning || s == SeverityDanger
}

// Titles of the two derived loan notifications.
const (
	TitleLoanOverdue   = "Loan Overdue"
	TitleReturnDueSoon = "Return Due Soon"
)

// Notification is a system-generated notice for a user. Notifications are
// never user-authored; the deriver appends them and recipients may only flip
// IsRead. A nil UserID marks a broadcast visible to all admins.
//
// BookID together with UserID and Date forms the dedup key for derived loan
// notices: at most one per loan per calendar day.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	BookID    *uuid.UUID `json:"book_id,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Severity  Severity   `json:"severity"`
	IsRead    bool       `json:"is_read"`
	Date      time.Time  `json:"date"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewOverdueNotification builds the danger notice for a loan past its due
// date. The date is the calendar day the notice was derived on.
func NewOverdueNotification(userID, bookID uuid.UUID, bookTitle string, date time.Time) *Notification {
	return &Notification{
		ID:       uuid.New(),
		UserID:   &userID,
		BookID:   &bookID,
		Title:    TitleLoanOverdue,
		Message:  fmt.Sprintf("The book %q is overdue. Please return it as soon as possible.", bookTitle),
		Severity: SeverityDanger,
		IsRead:   false,
		Date:     DateOnly(date),

		CreatedAt: time.Now().UTC(),
	}
}

// NewDueSoonNotification builds the warning notice for a loan due within the
// reminder window. daysRemaining is the whole-day count until the due date.
func NewDueSoonNotification(userID, bookID uuid.UUID, bookTitle string, daysRemaining int, date time.Time) *Notification {
	return &Notification{
		ID:       uuid.New(),
		UserID:   &userID,
		BookID:   &bookID,
		Title:    TitleReturnDueSoon,
		Message:  fmt.Sprintf("The book %q must be returned in %d days.", bookTitle, daysRemaining),
		Severity: SeverityWarning,
		IsRead:   false,
		Date:     DateOnly(date),

		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks if the Notification has valid data.
// Returns an error if any field fails validation.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}

	if n.Title == "" {
		return ErrEmptyNotificationTitle
	}

	if n.Message == "" {
		return ErrEmptyNotificationMessage
	}

	if !n.Severity.IsValid() {
		return ErrInvalidSeverity
	}

	return nil
}
