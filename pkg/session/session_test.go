package session

import (
	"testing"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNew_IsGuest(t *testing.T) {
	s := New("abc", now)
	assert.False(t, s.LoggedIn)
	assert.Equal(t, RoleGuest, s.Role)
	assert.False(t, s.IsAdmin())
}

func TestSignInSignOut(t *testing.T) {
	s := New("abc", now)
	s.SignIn("a@b.c", RoleAdmin, now)
	assert.True(t, s.IsAdmin())

	s.SignOut()
	assert.False(t, s.LoggedIn)
	assert.Equal(t, RoleGuest, s.Role)
	assert.Empty(t, s.Email)
}

func TestMarkLoggedIn_KeepsAdmin(t *testing.T) {
	s := New("abc", now)
	s.SignIn("admin@shop", RoleAdmin, now)

	s.MarkLoggedIn("", now)
	assert.Equal(t, RoleAdmin, s.Role)
	assert.Equal(t, "admin@shop", s.Email)
}

func TestMarkLoggedIn_GuestBecomesUser(t *testing.T) {
	s := New("abc", now)
	s.MarkLoggedIn("x@y.z", now)
	assert.True(t, s.LoggedIn)
	assert.Equal(t, RoleUser, s.Role)
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthenticator(config.AuthConfig{AdminEmail: "boss@shop.sn", AdminPassword: "secret"})

	tests := []struct {
		name     string
		email    string
		password string
		wantRole Role
		wantOK   bool
	}{
		{"admin", "boss@shop.sn", "secret", RoleAdmin, true},
		{"admin email case", "BOSS@shop.sn", "secret", RoleAdmin, true},
		{"admin email wrong password", "boss@shop.sn", "nope", RoleUser, true},
		{"any user", "someone@else", "pw", RoleUser, true},
		{"empty email", "", "pw", RoleGuest, false},
		{"empty password", "someone@else", "", RoleGuest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := auth.Authenticate(tt.email, tt.password)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}
