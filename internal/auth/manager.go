package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL applies when Config.TTL is zero
const DefaultSessionTTL = 12 * time.Hour

// Config configures a Manager
type Config struct {
	Users  []User
	Secret []byte
	TTL    time.Duration
	Issuer string
}

// Manager logs users in and resolves session tokens
type Manager struct {
	users  map[string]User
	secret []byte
	ttl    time.Duration
	issuer string
	store  Store
	now    func() time.Time

	// missHash is compared on unknown usernames so a miss costs as much as a wrong password
	missHash []byte
}

// NewManager creates a manager backed by store
func NewManager(conf Config, store Store) (*Manager, error) {
	if len(conf.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if store == nil {
		store = NewMemoryStore()
	}

	users := make(map[string]User, len(conf.Users))
	cost := bcrypt.MinCost
	for _, u := range conf.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("user %q needs a username and a password hash", u.Username)
		}
		if u.Role == "" {
			u.Role = RoleUser
		}
		if u.Role != RoleUser && u.Role != RoleAdmin {
			return nil, fmt.Errorf("user %q has unknown role %q", u.Username, u.Role)
		}
		if c, err := bcrypt.Cost([]byte(u.PasswordHash)); err == nil && c > cost {
			cost = c
		}
		users[u.Username] = u
	}

	missHash, err := bcrypt.GenerateFromPassword([]byte("notepdf-unknown-user"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password check: %w", err)
	}

	ttl := conf.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	issuer := conf.Issuer
	if issuer == "" {
		issuer = "notepdf"
	}
	return &Manager{
		users:    users,
		secret:   conf.Secret,
		ttl:      ttl,
		issuer:   issuer,
		store:    store,
		now:      time.Now,
		missHash: missHash,
	}, nil
}

// TTL is the lifetime of new sessions
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login checks the password, opens a session and returns it with its signed token
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, string, error) {
	u, ok := m.users[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(m.missHash, []byte(password))
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   s.Username,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, "", err
	}
	log.Printf("[INFO] user %s logged in", s.Username)
	return s, token, nil
}

// Authenticate verifies token and returns its live session
func (m *Manager) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	s, err := m.store.Load(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if s.Username != claims.Subject {
		return nil, ErrInvalidToken
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			log.Printf("[WARN] failed to drop expired session %s: %v", s.ID, err)
		}
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Logout ends the session with the given id
func (m *Manager) Logout(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// HashPassword returns the bcrypt hash stored in the users config section
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
