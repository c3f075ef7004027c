// Package session replaces the storefront's global login flags with an
// explicit per-visitor object.
package session

import (
	"strings"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Session lives from the visitor's first request until logout resets it.
type Session struct {
	ID         string    `json:"id"`
	LoggedIn   bool      `json:"loggedIn"`
	Role       Role      `json:"role"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	LoggedInAt time.Time `json:"loggedInAt,omitempty"`
}

func NewID() string {
	return uuid.NewString()
}

func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Role:      RoleGuest,
		CreatedAt: now,
	}
}

func (s *Session) SignIn(email string, role Role, now time.Time) {
	s.LoggedIn = true
	s.Role = role
	s.Email = email
	s.LoggedInAt = now
}

// MarkLoggedIn sets the logged-in flag without downgrading an existing
// role. The checkout login step uses it.
func (s *Session) MarkLoggedIn(email string, now time.Time) {
	role := s.Role
	if role == RoleGuest || role == "" {
		role = RoleUser
	}
	if email == "" {
		email = s.Email
	}
	s.SignIn(email, role, now)
}

func (s *Session) SignOut() {
	s.LoggedIn = false
	s.Role = RoleGuest
	s.Email = ""
	s.LoggedInAt = time.Time{}
}

func (s *Session) IsAdmin() bool {
	return s.LoggedIn && s.Role == RoleAdmin
}

// Authenticator is the storefront's stub credential check: the configured
// admin pair grants the admin role, any other non-empty pair a user role.
type Authenticator struct {
	adminEmail    string
	adminPassword string
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
	}
}

func (a *Authenticator) Authenticate(email, password string) (Role, bool) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return RoleGuest, false
	}
	if a.adminEmail != "" && strings.EqualFold(email, a.adminEmail) && password == a.adminPassword {
		return RoleAdmin, true
	}
	return RoleUser, true
}
