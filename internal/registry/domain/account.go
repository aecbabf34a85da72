package registry

import (
	"context"
	"fmt"
	"regexp"
)

// Role is the persisted account role. The integer encoding is part of the
// schema: 0 is administrator, everything else reads back as a regular user.
type Role int

const (
	RoleAdministrator Role = 0
	RoleUser          Role = 6
)

// RoleFrom maps a stored integer onto a role.
func RoleFrom(value int) Role {
	if value == int(RoleAdministrator) {
		return RoleAdministrator
	}
	return RoleUser
}

// Int returns the schema encoding of the role.
func (r Role) Int() int {
	if r == RoleAdministrator {
		return int(RoleAdministrator)
	}
	return int(RoleUser)
}

// Account is a registered identity on the command channel.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// IsAdmin reports whether the account carries the administrator role.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdministrator
}

// emailPattern is the fixed-format registration check: a lowercase local
// part of [a-z0-9_+] with optional dot-separated segments, then a host with
// a 2-6 letter top-level label.
var emailPattern = regexp.MustCompile(`^([a-z0-9_+]([a-z0-9_+.]*[a-z0-9_+])?)@([a-z0-9]+([-.][a-z0-9]+)*\.[a-z]{2,6})`)

// ValidEmail reports whether the address passes the registration format check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks account invariants before persistence.
func (a Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: account id", ErrValidation)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: account name", ErrValidation)
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("%w: account password hash", ErrValidation)
	}
	return nil
}

// AccountRepository manages account persistence. Lookups return nil without
// an error when no row matches.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	ByID(ctx context.Context, id string) (*Account, error)
	ByName(ctx context.Context, name string) (*Account, error)
	Exists(ctx context.Context, name string) (bool, error)
	Empty(ctx context.Context) (bool, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Account, error)
}
