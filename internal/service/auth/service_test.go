package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stockwatch/internal/domain/entity"
)

type fakeUsers struct {
	users      map[string]*entity.User
	nextID     int64
	lastTouch  int64
	lastTouchT time.Time
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*entity.User{}, nextID: 1}
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, user *entity.User) error {
	if _, ok := f.users[user.Username]; ok {
		return entity.ErrAlreadyExists
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = user
	return nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id int64, t time.Time) error {
	f.lastTouch = id
	f.lastTouchT = t
	return nil
}

func seedUser(t *testing.T, f *fakeUsers, username, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Username: username, PasswordHash: string(hash)}
	require.NoError(t, f.Create(context.Background(), u))
	return u
}

func TestService_Authenticate(t *testing.T) {
	users := newFakeUsers()
	seeded := seedUser(t, users, "alice", "correct horse battery")
	svc := &Service{Users: users}

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), "alice", "correct horse battery")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, u.ID)
		assert.Equal(t, seeded.ID, users.lastTouch, "last login stamped")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "alice", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "mallory", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Register(t *testing.T) {
	users := newFakeUsers()
	svc := &Service{Users: users}

	t.Run("creates user with hashed password", func(t *testing.T) {
		u, err := svc.Register(context.Background(), "bob", "longenough")
		require.NoError(t, err)
		assert.NotEqual(t, "longenough", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenough")))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(context.Background(), "bob", "longenough")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.Register(context.Background(), "carol", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("empty username rejected", func(t *testing.T) {
		_, err := svc.Register(context.Background(), "", "longenough")
		var verr entity.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
