package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clubhouse/internal/constants"
	"clubhouse/internal/logging"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionData is what a logged-in browser is bound to
type SessionData struct {
	SessionID string         `json:"session_id"`
	UserID    uint           `json:"user_id"`
	Username  string         `json:"username"`
	Role      constants.Role `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

func (s *SessionData) IsAdmin() bool {
	return s.Role == constants.RoleAdmin
}

// SessionStore persists serialized sessions with a TTL
type SessionStore interface {
	Save(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions under "session:<id>"
type RedisSessionStore struct {
	redis *redis.Client
}

var _ SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{redis: client}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return string(constants.CachePrefixSession) + sessionID
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	if err := s.redis.Set(ctx, s.key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	val, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return val, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MemorySessionStore is the single-process fallback when redis is disabled
type MemorySessionStore struct {
	cache *cache.Cache
}

var _ SessionStore = (*MemorySessionStore)(nil)

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{cache: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, data []byte, ttl time.Duration) error {
	s.cache.Set(sessionID, data, ttl)
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	val, found := s.cache.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	return val.([]byte), nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

// SessionService manages user sessions
type SessionService struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessionService creates a new session service
func NewSessionService(store SessionStore, ttl time.Duration) *SessionService {
	return &SessionService{
		store: store,
		ttl:   ttl,
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// CreateSession creates a new session for an authenticated user
func (s *SessionService) CreateSession(ctx context.Context, userID uint, username string, role constants.Role) (*SessionData, error) {
	now := time.Now()

	session := &SessionData{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	logging.Debug("Session created", "username", username, "role", role)
	return session, nil
}

// GetSession retrieves a session and rejects expired ones
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	val, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var session SessionData
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.store.Delete(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// DeleteSession deletes a session
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// RefreshSession extends the session expiration
func (s *SessionService) RefreshSession(ctx context.Context, sessionID string) error {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	session.ExpiresAt = time.Now().Add(s.ttl)
	return s.save(ctx, session)
}

func (s *SessionService) save(ctx context.Context, session *SessionData) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.store.Save(ctx, session.SessionID, data, time.Until(session.ExpiresAt))
}
