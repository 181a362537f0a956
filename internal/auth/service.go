package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/booklore/homeshelf/internal/config"
)

var (
	// ErrInvalidCredentials is returned for any login failure. It never says
	// which of the two fields was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotConfigured means no admin credential is present in the config,
	// so nobody can ever authenticate.
	ErrNotConfigured = errors.New("admin credentials are not configured")
)

// Service verifies logins against the single configured admin credential.
type Service struct {
	username     string
	passwordHash []byte
}

// NewService builds the credential checker. The configured password may be a
// bcrypt hash (recommended) or plaintext; plaintext is hashed once at startup
// so every comparison afterwards is constant-time bcrypt.
func NewService(admin config.Admin) (*Service, error) {
	if admin.Username == "" || admin.Password == "" {
		return nil, ErrNotConfigured
	}

	var hash []byte
	if strings.HasPrefix(admin.Password, "$2") {
		hash = []byte(admin.Password)
	} else {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}

	return &Service{
		username:     admin.Username,
		passwordHash: hash,
	}, nil
}

// Authenticate checks a credential pair. Both fields are always compared so
// the timing does not reveal whether the username matched.
func (s *Service) Authenticate(username, password string) error {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))

	if !usernameOK || passwordErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
