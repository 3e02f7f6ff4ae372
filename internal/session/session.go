package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/plateful/ordering-gateway/internal/dal/localstore"
)

const storeKey = "session"

// Role is the role claim carried by the identity provider's token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
)

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the subset of token claims the gateway cares about.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// Bridge is the single source of truth for the current session's
// bearer token. One component writes it (the capture middleware and
// the session endpoints); every remote client reads it at
// request-build time. A previously persisted token is recovered on
// construction so restarts do not force re-login.
type Bridge struct {
	mu     sync.RWMutex
	token  string
	claims Claims
	secret []byte
	store  *localstore.Store
}

type persistedSession struct {
	Token string `json:"token"`
}

// MustNewBridge creates a bridge with the configured signing secret
// and recovers any persisted session.
func MustNewBridge(store *localstore.Store) *Bridge {
	secret := os.Getenv("GATEWAY_JWT_SECRET")
	if secret == "" {
		panic("GATEWAY_JWT_SECRET is not set")
	}

	b := &Bridge{
		secret: []byte(secret),
		store:  store,
	}
	b.recover()

	return b
}

// NewBridge creates a bridge with an explicit secret. Used by tests.
func NewBridge(secret []byte, store *localstore.Store) *Bridge {
	b := &Bridge{
		secret: secret,
		store:  store,
	}
	b.recover()

	return b
}

func (b *Bridge) recover() {
	if b.store == nil {
		return
	}

	var ps persistedSession
	if err := b.store.Get(storeKey, &ps); err != nil {
		if !errors.Is(err, localstore.ErrKeyNotFound) {
			slog.Warn("Failed to read persisted session, starting signed out", "error", err)
		}

		return
	}

	if err := b.Set(ps.Token); err != nil {
		slog.Info("Persisted session is no longer valid, starting signed out", "error", err)
		if derr := b.store.Delete(storeKey); derr != nil {
			slog.Warn("Failed to drop stale persisted session", "error", derr)
		}
	}
}

// Set validates the bearer token and makes it the current session.
// Expired or malformed tokens are rejected and the previous session is
// left untouched.
func (b *Bridge) Set(token string) error {
	claims, err := b.parse(token)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.token = token
	b.claims = claims
	b.mu.Unlock()

	if b.store != nil {
		if err := b.store.Set(storeKey, persistedSession{Token: token}); err != nil {
			slog.Warn("Failed to persist session", "error", err)
		}
	}

	return nil
}

// Clear drops the current session and wipes the persisted copy.
func (b *Bridge) Clear() {
	b.mu.Lock()
	b.token = ""
	b.claims = Claims{}
	b.mu.Unlock()

	if b.store != nil {
		if err := b.store.Delete(storeKey); err != nil {
			slog.Warn("Failed to wipe persisted session", "error", err)
		}
	}
}

// Token returns the current bearer token. The second return reports
// whether a session is present and not past its expiry.
func (b *Bridge) Token() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.token == "" {
		return "", false
	}
	if !b.claims.ExpiresAt.IsZero() && time.Now().After(b.claims.ExpiresAt) {
		return "", false
	}

	return b.token, true
}

// Claims returns the claims of the current session.
func (b *Bridge) Claims() (Claims, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.token == "" {
		return Claims{}, ErrNoSession
	}
	if !b.claims.ExpiresAt.IsZero() && time.Now().After(b.claims.ExpiresAt) {
		return Claims{}, ErrNoSession
	}

	return b.claims, nil
}

func (b *Bridge) parse(token string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return b.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = Role(role)
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
