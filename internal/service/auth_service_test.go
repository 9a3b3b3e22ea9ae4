package service_test

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ticketflow/ticketflow/internal/auth"
	"github.com/ticketflow/ticketflow/internal/config"
	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/internal/service"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 1,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func newAuthService(store *fakeStore, tokenStore *auth.TokenStore) *service.AuthService {
	return service.NewAuthService(testConfig(), service.AuthDependencies{
		UserRepo:   store,
		TokenStore: tokenStore,
	})
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store, auth.NewTokenStore(nil))

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterAgentRole(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store, auth.NewTokenStore(nil))

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "agent1",
		Email:    "agent1@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleAgent,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, user.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store, auth.NewTokenStore(nil))

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
		Role:     domain.UserRole("admin"),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store, auth.NewTokenStore(nil))
	ctx := context.Background()

	input := service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestLoginInvalidCredentialsAreIndistinguishable(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store, auth.NewTokenStore(nil))
	ctx := context.Background()

	_, err := svc.Register(ctx, service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "nobody", "whatever")
	_, _, wrongPassErr := svc.Login(ctx, "alice", "wrong-password")

	assert.Equal(t, "UNAUTHORIZED", domainErrCode(t, unknownErr))
	assert.Equal(t, "UNAUTHORIZED", domainErrCode(t, wrongPassErr))
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store, auth.NewTokenStore(nil))
	ctx := context.Background()

	registered, err := svc.Register(ctx, service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestLoginReusesLiveToken(t *testing.T) {
	store := newFakeStore()
	client, mock := redismock.NewClientMock()
	svc := newAuthService(store, auth.NewTokenStore(client))
	ctx := context.Background()

	cfg := testConfig()
	user, err := svc.Register(ctx, service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	key := "auth:token:" + user.ID

	// first login: no token stored yet, a fresh one gets saved
	mock.ExpectGet(key).RedisNil()
	mock.Regexp().ExpectSet(key, `^.+$`, cfg.Auth.AccessTokenTTL()).SetVal("OK")

	_, first, err := svc.Login(ctx, "alice", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// second login while the token is still live: the same token comes back
	mock.ExpectGet(key).SetVal(first)

	_, second, err := svc.Login(ctx, "alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginReplacesExpiredStoredToken(t *testing.T) {
	store := newFakeStore()
	client, mock := redismock.NewClientMock()
	svc := newAuthService(store, auth.NewTokenStore(client))
	ctx := context.Background()

	cfg := testConfig()
	user, err := svc.Register(ctx, service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	key := "auth:token:" + user.ID

	// the stored value no longer parses, so a fresh token is issued
	mock.ExpectGet(key).SetVal("not-a-valid-token")
	mock.Regexp().ExpectSet(key, `^.+$`, cfg.Auth.AccessTokenTTL()).SetVal("OK")

	_, token, err := svc.Login(ctx, "alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-valid-token", token)
	_, err = svc.TokenManager().ParseToken(token)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
