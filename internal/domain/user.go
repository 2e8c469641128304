package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUserName       = errors.New("user name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// UserRole distinguishes library staff from regular members.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// MemberType categorizes a library member within the school.
type MemberType string

const (
	MemberStudent MemberType = "student"
	MemberTeacher MemberType = "teacher"
	MemberStaff   MemberType = "staff"
)

// IsValid reports whether the member type is one of the known types.
func (t MemberType) IsValid() bool {
	return t == MemberStudent || t == MemberTeacher || t == MemberStaff
}

// User represents a registered member of the school library.
// The email address doubles as the login identifier.
type User struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Password           string     `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword     string     `json:"-"` // Never expose password hash in JSON
	Role               UserRole   `json:"role"`
	Phone              string     `json:"phone"`
	MemberType         MemberType `json:"member_type"`
	SectorOrClass      string     `json:"sector_or_class,omitempty"`
	PhotoURL           string     `json:"photo_url,omitempty"`
	MustChangePassword bool       `json:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewUser creates a new User with the given identity fields and password.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(name, email, password string, role UserRole, memberType MemberType) (*User, error) {
	user := &User{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		Password:   password, // Plaintext password - must be hashed before storage
		Role:       role,
		MemberType: memberType,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyUserName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	if !u.MemberType.IsValid() {
		return ErrInvalidMemberType
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt truncates input beyond 72 bytes
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs basic validation of email format.
// It deliberately avoids full RFC 5322 parsing; the store's unique
// constraint is the real gatekeeper for identity.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
