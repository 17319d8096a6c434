package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winter-of-code-backend/internal/github"
	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
)

type fakeProvider struct {
	accounts map[string]*github.Account
}

func (f *fakeProvider) FetchUser(ctx context.Context, accessToken string) (*github.Account, error) {
	account, ok := f.accounts[accessToken]
	if !ok {
		return nil, fmt.Errorf("bad credentials")
	}
	return account, nil
}

func authFixture(users *fakeUserRepo) *AuthService {
	provider := &fakeProvider{accounts: map[string]*github.Account{
		"gh-token": {Login: "alice", Name: "Alice Doe", Email: "alice@example.com", AvatarURL: "https://avatars.test/alice"},
	}}
	return NewAuthService(users, provider, "test-secret", time.Hour, 3, logging.NewNop())
}

func TestGithubCallbackRegistersNewUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := authFixture(users)

	resp, err := svc.GithubCallback(context.Background(), &models.AuthCallbackRequest{AccessToken: "gh-token"})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.GithubUsername)
	assert.Equal(t, "Alice Doe", resp.User.FullName)
	assert.Equal(t, models.RoleContributor, resp.User.Role)
	assert.Equal(t, 3, resp.User.GenerationsLeft)

	// The session round-trips through validation.
	validated, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, validated.ID)
}

func TestGithubCallbackNeverEscalatesRole(t *testing.T) {
	users := newFakeUserRepo(&models.User{
		ID: "u1", GithubUsername: "alice", Role: models.RoleContributor,
	})
	svc := authFixture(users)

	resp, err := svc.GithubCallback(context.Background(), &models.AuthCallbackRequest{
		AccessToken:  "gh-token",
		IntendedRole: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleContributor, resp.User.Role)
}

func TestGithubCallbackAllowsSteppingDown(t *testing.T) {
	users := newFakeUserRepo(&models.User{
		ID: "u1", GithubUsername: "alice", Role: models.RoleMentor,
	})
	svc := authFixture(users)

	resp, err := svc.GithubCallback(context.Background(), &models.AuthCallbackRequest{
		AccessToken:  "gh-token",
		IntendedRole: models.RoleContributor,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleContributor, resp.User.Role)
}

func TestGithubCallbackRejectsBadToken(t *testing.T) {
	svc := authFixture(newFakeUserRepo())

	_, err := svc.GithubCallback(context.Background(), &models.AuthCallbackRequest{AccessToken: "wrong"})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodeUnauthorized, svcErr.Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := authFixture(newFakeUserRepo())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr, "token %q", token)
		assert.Equal(t, CodeUnauthorized, svcErr.Code)
	}
}

func TestValidateTokenRejectsExpiredSession(t *testing.T) {
	users := newFakeUserRepo()
	provider := &fakeProvider{accounts: map[string]*github.Account{
		"gh-token": {Login: "alice"},
	}}
	svc := NewAuthService(users, provider, "test-secret", -time.Minute, 3, logging.NewNop())

	resp, err := svc.GithubCallback(context.Background(), &models.AuthCallbackRequest{AccessToken: "gh-token"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.Token)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodeUnauthorized, svcErr.Code)
}

func TestValidateTokenRejectsDeletedUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := authFixture(users)

	resp, err := svc.GithubCallback(context.Background(), &models.AuthCallbackRequest{AccessToken: "gh-token"})
	require.NoError(t, err)

	delete(users.users, resp.User.ID)

	_, err = svc.ValidateToken(resp.Token)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodeUnauthorized, svcErr.Code)
}
