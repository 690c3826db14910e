package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/storepickup/internal/domain/errors"
	pkgAuth "github.com/polkiloo/storepickup/internal/pkg/auth"
	"github.com/polkiloo/storepickup/internal/storage/memory"
	testhelpers "github.com/polkiloo/storepickup/internal/test"
)

func newAuth(repo *testhelpers.UserRepositoryStub, hasher testhelpers.HasherStub, strategy pkgAuth.Strategy) *AuthUseCase {
	return NewAuthUseCase(repo, hasher, strategy, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterNormalizesLogin(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo, testhelpers.HasherStub{}, testhelpers.StrategyStub{})

	usr, token, err := uc.Register(context.Background(), "  Ann@Example.COM ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, "ann@example.com", usr.Login)
	assert.Equal(t, "hash:secret", repo.Users["ann@example.com"].PasswordHash)

	_, _, err = uc.Register(context.Background(), "ANN@example.com", "another1")
	assert.ErrorIs(t, err, domainErrors.ErrAlreadyExists)

	_, token, err = uc.Authenticate(context.Background(), "ann@EXAMPLE.com", "secret")
	require.NoError(t, err)
	id, err := uc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, id)
}

func TestRegisterRejectsWeakCredentials(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, testhelpers.StrategyStub{})
	for _, tc := range []struct{ login, password string }{
		{"", "secret"},
		{"   ", "secret"},
		{"ann", ""},
		{"ann", "12345"},
	} {
		_, _, err := uc.Register(context.Background(), tc.login, tc.password)
		assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials, "login=%q password=%q", tc.login, tc.password)
	}
}

func TestRegisterPropagatesFailures(t *testing.T) {
	boom := errors.New("boom")

	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{HashFn: func(string) (string, error) { return "", boom }}, testhelpers.StrategyStub{})
	_, _, err := uc.Register(context.Background(), "ann", "secret")
	assert.ErrorIs(t, err, boom)

	repo := testhelpers.NewUserRepositoryStub()
	repo.Err = boom
	uc = newAuth(repo, testhelpers.HasherStub{}, testhelpers.StrategyStub{})
	_, _, err = uc.Register(context.Background(), "ann", "secret")
	assert.ErrorIs(t, err, boom)

	uc = newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, testhelpers.StrategyStub{IssueFn: func(int64) (string, error) { return "", boom }})
	_, _, err = uc.Register(context.Background(), "ann", "secret")
	assert.ErrorIs(t, err, boom)
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuth(repo, testhelpers.HasherStub{}, testhelpers.StrategyStub{})
	_, _, err := uc.Register(ctx, "ann", "secret")
	require.NoError(t, err)

	_, _, err = uc.Authenticate(ctx, "bob", "secret")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials, "unknown login")
	_, _, err = uc.Authenticate(ctx, "ann", "wrong-password")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials, "wrong password")
	_, _, err = uc.Authenticate(ctx, "ann", "")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials, "empty password")

	boom := errors.New("boom")
	repo.Err = boom
	_, _, err = uc.Authenticate(ctx, "ann", "secret")
	assert.ErrorIs(t, err, boom)
}

func TestParseToken(t *testing.T) {
	uc := newAuth(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, testhelpers.StrategyStub{ParseFn: func(token string) (int64, error) {
		if token == "good" {
			return 7, nil
		}
		return 0, pkgAuth.ErrInvalidToken
	}})

	_, err := uc.ParseToken("")
	assert.ErrorIs(t, err, pkgAuth.ErrInvalidToken)
	_, err = uc.ParseToken("forged")
	assert.ErrorIs(t, err, pkgAuth.ErrInvalidToken)
	id, err := uc.ParseToken("good")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestAccountRoundTripWithJWT(t *testing.T) {
	ctx := context.Background()
	uc := NewAuthUseCase(memory.New().Users(), testhelpers.HasherStub{}, pkgAuth.NewJWTStrategy("secret", pkgAuth.Options{TTL: time.Hour}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	login, password := testhelpers.RandomLogin(), testhelpers.RandomPassword()
	usr, token, err := uc.Register(ctx, login, password)
	require.NoError(t, err)

	id, err := uc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, id)

	again, token, err := uc.Authenticate(ctx, login, password)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, again.ID)
	id, err = uc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, id)
}
