package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Snapshot is the session as read back from storage.
type Snapshot struct {
	User  *models.User
	Token string
}

func (s Snapshot) Valid() bool { return s.Token != "" && s.User != nil }

// Storage is the session provider used by the HTTP client and the auth
// store. It is safe for concurrent use as long as the Store is.
type Storage struct {
	store Store
	now   func() time.Time
}

func NewStorage(store Store) *Storage {
	return &Storage{store: store, now: time.Now}
}

func (s *Storage) Token(ctx context.Context) (string, error) {
	v, err := s.store.Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *Storage) UserID(ctx context.Context) (string, error) {
	v, err := s.store.Get(ctx, KeyUserID)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// User returns the stored user, or nil when there is none.
func (s *Storage) User(ctx context.Context) (*models.User, error) {
	v, err := s.store.Get(ctx, KeyUser)
	if err != nil || v == nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &u, nil
}

// SetSession writes token, user and userId in one step.
func (s *Storage) SetSession(ctx context.Context, user models.User, token string) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.store.SetAll(ctx, map[string][]byte{
		KeyToken:  []byte(token),
		KeyUser:   b,
		KeyUserID: []byte(user.ID),
	})
}

// SetUser replaces the stored user and keeps the token.
func (s *Storage) SetUser(ctx context.Context, user models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.store.SetAll(ctx, map[string][]byte{
		KeyUser:   b,
		KeyUserID: []byte(user.ID),
	})
}

func (s *Storage) ClearSession(ctx context.Context) error {
	return s.store.Delete(ctx, Keys...)
}

// Load reads the whole session. A JWT whose exp claim has passed is cleared
// and reported as common.ErrAuthExpired. Tokens that are not JWTs are
// returned as is.
func (s *Storage) Load(ctx context.Context) (Snapshot, error) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return Snapshot{}, err
	}

	if s.expired(token) {
		if err := s.ClearSession(ctx); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{}, common.ErrAuthExpired
	}

	u, err := s.User(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{User: u, Token: token}, nil
}

func (s *Storage) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}
