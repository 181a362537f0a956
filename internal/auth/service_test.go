package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/booklore/homeshelf/internal/config"
)

func TestNewService_RequiresCredentials(t *testing.T) {
	_, err := NewService(config.Admin{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewService(config.Admin{Username: "admin"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestService_AuthenticatePlaintextConfig(t *testing.T) {
	service, err := NewService(config.Admin{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)

	assert.NoError(t, service.Authenticate("admin", "s3cret"))
	assert.ErrorIs(t, service.Authenticate("admin", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, service.Authenticate("nobody", "s3cret"), ErrInvalidCredentials)
	assert.ErrorIs(t, service.Authenticate("", ""), ErrInvalidCredentials)
}

func TestService_AuthenticateHashedConfig(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	service, err := NewService(config.Admin{Username: "admin", Password: string(hash)})
	require.NoError(t, err)

	assert.NoError(t, service.Authenticate("admin", "s3cret"))
	assert.ErrorIs(t, service.Authenticate("admin", string(hash)), ErrInvalidCredentials,
		"the stored hash itself must not work as a password")
}
