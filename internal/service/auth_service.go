package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"winter-of-code-backend/internal/github"
	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// SessionClaims are the JWT claims carried by an application session
// token.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService exchanges a verified GitHub identity for an application
// session and validates session tokens for the auth middleware.
type AuthService struct {
	users       repository.UserRepository
	provider    github.Provider
	secret      []byte
	ttl         time.Duration
	idcardQuota int
	log         logging.Logger
}

// NewAuthService returns an AuthService signing sessions with secret.
func NewAuthService(users repository.UserRepository, provider github.Provider, secret string, ttl time.Duration, idcardQuota int, log logging.Logger) *AuthService {
	return &AuthService{
		users:       users,
		provider:    provider,
		secret:      []byte(secret),
		ttl:         ttl,
		idcardQuota: idcardQuota,
		log:         log,
	}
}

// GithubCallback validates the OAuth access token with GitHub, upserts the
// user and returns a signed session. intended_role is honored only when it
// does not exceed the role already stored server-side; roles are never
// escalated from the client.
func (s *AuthService) GithubCallback(ctx context.Context, req *models.AuthCallbackRequest) (*models.AuthCallbackResponse, error) {
	if req.AccessToken == "" {
		return nil, NewServiceError(CodeInvalidRequest, "access_token is required")
	}

	account, err := s.provider.FetchUser(ctx, req.AccessToken)
	if err != nil {
		s.log.Warnf("github token validation failed: %v", err)
		return nil, NewServiceError(CodeUnauthorized, "could not verify GitHub identity")
	}

	user, err := s.users.GetByGithub(account.Login)
	if err != nil {
		user = &models.User{
			ID:              uuid.NewString(),
			FullName:        accountName(account),
			Email:           account.Email,
			GithubUsername:  account.Login,
			AvatarURL:       account.AvatarURL,
			Role:            resolveRole(models.RoleContributor, req.IntendedRole),
			GenerationsLeft: s.idcardQuota,
		}
		if err := s.users.Create(user); err != nil {
			return nil, err
		}
		user, err = s.users.GetByID(user.ID)
		if err != nil {
			return nil, err
		}
		s.log.Infof("registered new user %s (%s)", user.GithubUsername, user.Role)
	} else {
		user.FullName = accountName(account)
		user.AvatarURL = account.AvatarURL
		if account.Email != "" {
			user.Email = account.Email
		}
		user.Role = resolveRole(user.Role, req.IntendedRole)
		if err := s.users.Update(user); err != nil {
			return nil, err
		}
	}

	token, err := s.sign(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthCallbackResponse{User: user, Token: token}, nil
}

// ValidateToken parses a session token and loads its user, so revoked or
// deleted accounts fail even with a live token.
func (s *AuthService) ValidateToken(token string) (*models.User, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, NewServiceError(CodeUnauthorized, "unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, NewServiceError(CodeUnauthorized, "invalid or expired token")
	}

	user, err := s.users.GetByID(claims.Subject)
	if err != nil {
		return nil, NewServiceError(CodeUnauthorized, "session user no longer exists")
	}
	return user, nil
}

func (s *AuthService) sign(user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// resolveRole keeps the stored role unless the intended role is a
// strictly lower privilege.
func resolveRole(stored, intended string) string {
	if intended == "" {
		return stored
	}
	if roleRank(intended) <= roleRank(stored) && roleRank(intended) > 0 {
		return intended
	}
	return stored
}

func roleRank(role string) int {
	switch role {
	case models.RoleContributor:
		return 1
	case models.RoleMentor:
		return 2
	case models.RoleAdmin:
		return 3
	}
	return 0
}

func accountName(account *github.Account) string {
	if account.Name != "" {
		return account.Name
	}
	return account.Login
}
