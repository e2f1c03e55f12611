package driver

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/AngelCh415/ads-driver/internal/config"
	"github.com/AngelCh415/ads-driver/internal/models"
)

const invalidAuthorization = "invalid authorization"

// Authenticator validates per-request credentials for one fixed auth mode.
type Authenticator interface {
	Mode() models.AuthMode
	Authenticate(ctx context.Context, c models.Credentials) Outcome[models.Principal]
}

// StaticAuthenticator compares credentials against values resolved at
// startup. The password may be configured as plaintext or as a bcrypt hash.
type StaticAuthenticator struct {
	mode         models.AuthMode
	token        []byte
	login        []byte
	password     []byte
	passwordHash []byte
}

func NewAuthenticator(cfg config.AuthConfig) (*StaticAuthenticator, error) {
	a := &StaticAuthenticator{mode: models.AuthMode(cfg.Mode)}
	switch a.mode {
	case models.AuthToken:
		if cfg.Token == "" {
			return nil, errors.New("token auth requires a token")
		}
		a.token = []byte(cfg.Token)
	case models.AuthLogin:
		if cfg.Login == "" || (cfg.Password == "" && cfg.PasswordHash == "") {
			return nil, errors.New("login auth requires a login and a password or password hash")
		}
		a.login = []byte(cfg.Login)
		a.password = []byte(cfg.Password)
		if cfg.PasswordHash != "" {
			if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
				return nil, fmt.Errorf("password hash: %w", err)
			}
			a.passwordHash = []byte(cfg.PasswordHash)
		}
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
	return a, nil
}

func (a *StaticAuthenticator) Mode() models.AuthMode { return a.mode }

func (a *StaticAuthenticator) Authenticate(_ context.Context, c models.Credentials) Outcome[models.Principal] {
	var ok bool
	switch a.mode {
	case models.AuthToken:
		ok = c.Token != "" && equal(a.token, c.Token)
		c = models.Credentials{Token: c.Token}
	case models.AuthLogin:
		ok = c.Login != "" && c.Password != "" && equal(a.login, c.Login) && a.checkPassword(c.Password)
		c = models.Credentials{Login: c.Login, Password: c.Password}
	}
	if !ok {
		return Fail[models.Principal](InvalidCredentials, invalidAuthorization)
	}
	return Ok(models.Principal{Mode: a.mode, Credentials: c})
}

func (a *StaticAuthenticator) checkPassword(pw string) bool {
	if a.passwordHash != nil {
		return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(pw)) == nil
	}
	return equal(a.password, pw)
}

func equal(want []byte, got string) bool {
	return subtle.ConstantTimeCompare(want, []byte(got)) == 1
}
