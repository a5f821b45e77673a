// Package session turns the upstream access token into an explicit session
// object instead of a global auth singleton. The token's signature is the
// upstream's concern; here only the claims and the expiry matter.
package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	claimUserID = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	claimEmail  = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	claimRole   = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
	ErrNotFound       = errors.New("session not found")
)

type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Session struct {
	ID string `json:"id"`
	Claims
}

// DecodeToken extracts the claims from the payload segment of a JWT.
func DecodeToken(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformedToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var raw struct {
		UserID string  `json:"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"`
		Email  string  `json:"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"`
		Role   string  `json:"http://schemas.microsoft.com/ws/2008/06/identity/claims/role"`
		Exp    float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return Claims{
		UserID:    raw.UserID,
		Email:     raw.Email,
		Role:      raw.Role,
		ExpiresAt: time.Unix(int64(raw.Exp), 0),
	}, nil
}

type Store interface {
	SaveSession(ctx context.Context, s Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type Manager struct {
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Login decodes the token, rejects it when expired, and stores a session
// with a TTL matching the remaining token lifetime.
func (m *Manager) Login(ctx context.Context, token string) (Session, error) {
	claims, err := DecodeToken(token)
	if err != nil {
		return Session{}, err
	}

	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return Session{}, ErrTokenExpired
	}

	s := Session{ID: uuid.NewString(), Claims: claims}
	if err := m.store.SaveSession(ctx, s, ttl); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

func (m *Manager) Lookup(ctx context.Context, id string) (Session, error) {
	s, err := m.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !s.ExpiresAt.After(m.now()) {
		_ = m.store.DeleteSession(ctx, id)
		return Session{}, ErrTokenExpired
	}
	return s, nil
}

func (m *Manager) Logout(ctx context.Context, id string) error {
	return m.store.DeleteSession(ctx, id)
}
