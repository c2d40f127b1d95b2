package session

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/spicestore/internal/client/models"
	"github.com/dmitrijs2005/spicestore/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestStorage_SetSessionThenRead(t *testing.T) {
	ctx := context.Background()
	st := NewStorage(NewMemoryStore())
	u := models.User{ID: "u1", Name: "Asha", Email: "a@b.com", Role: "user"}

	require.NoError(t, st.SetSession(ctx, u, "tok"))

	tok, err := st.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	id, err := st.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	got, err := st.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, &u, got)
}

func TestStorage_ClearSessionRemovesAllKeys(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	st := NewStorage(mem)
	require.NoError(t, st.SetSession(ctx, models.User{ID: "u1"}, "tok"))

	require.NoError(t, st.ClearSession(ctx))

	for _, k := range Keys {
		v, err := mem.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, v, k)
	}
	u, err := st.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestStorage_SetUserKeepsToken(t *testing.T) {
	ctx := context.Background()
	st := NewStorage(NewMemoryStore())
	require.NoError(t, st.SetSession(ctx, models.User{ID: "u1", Name: "old"}, "tok"))

	require.NoError(t, st.SetUser(ctx, models.User{ID: "u1", Name: "new"}))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", snap.Token)
	assert.Equal(t, "new", snap.User.Name)
	assert.True(t, snap.Valid())
}

func TestStorage_Load(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		token     string
		wantErr   error
	}{
		{name: "opaque token kept", token: "opaque"},
		{name: "future exp kept", token: signed(t, now.Add(time.Hour))},
		{name: "past exp cleared", token: signed(t, now.Add(-time.Minute)), wantErr: common.ErrAuthExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := NewStorage(NewMemoryStore())
			st.now = func() time.Time { return now }
			require.NoError(t, st.SetSession(ctx, models.User{ID: "u1"}, tt.token))

			snap, err := st.Load(ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				tok, _ := st.Token(ctx)
				assert.Empty(t, tok, "expired token must be cleared")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, snap.Token)
			require.NotNil(t, snap.User)
			assert.Equal(t, "u1", snap.User.ID)
		})
	}
}

func TestStorage_LoadEmpty(t *testing.T) {
	snap, err := NewStorage(NewMemoryStore()).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Valid())
}

func TestStorage_CorruptUser(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	require.NoError(t, mem.SetAll(ctx, map[string][]byte{KeyUser: []byte("{")}))

	_, err := NewStorage(mem).User(ctx)
	require.Error(t, err)
}
