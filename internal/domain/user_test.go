package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates valid user", func(t *testing.T) {
		user, err := NewUser("test@example.com", "correcthorsebattery")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "test@example.com", user.Email)
		assert.Equal(t, "correcthorsebattery", user.Password)
		assert.Empty(t, user.HashedPassword)
	})

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "correcthorsebattery", ErrEmptyEmail},
		{"malformed email", "not-an-email", "correcthorsebattery", ErrInvalidEmail},
		{"short password", "test@example.com", "short", ErrPasswordTooShort},
		{"long password", "test@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	// A user loaded from the store carries only the hash.
	user := &User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: "$2a$10$somethinghashed",
	}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
