package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/olivernygren/sponge-boss/internal/auth"
	"github.com/olivernygren/sponge-boss/internal/domain"
	"github.com/olivernygren/sponge-boss/internal/repository"
	apperrors "github.com/olivernygren/sponge-boss/pkg/util"
)

// ErrDomainNotAllowed is returned when a sign-in resolves to an email outside
// the allow-list. The handler routes it to the unauthorized page.
var ErrDomainNotAllowed = errors.New("email domain not allowed")

// AuthService runs the sign-in flow against the identity provider and manages
// login sessions.
type AuthService struct {
	provider       auth.IdentityProvider
	users          repository.UserRepository
	sessions       repository.SessionRepository
	tokens         *auth.SessionTokenManager
	allowedDomains []string
	logger         *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth flow.
type AuthDependencies struct {
	Provider    auth.IdentityProvider
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Tokens      *auth.SessionTokenManager
	Logger      *zap.Logger
}

// NewAuthService constructs the service with the code-level domain allow-list.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		provider:       deps.Provider,
		users:          deps.UserRepo,
		sessions:       deps.SessionRepo,
		tokens:         deps.Tokens,
		allowedDomains: auth.AllowedEmailDomains,
		logger:         deps.Logger,
	}
}

// BeginSignIn issues a fresh state and the provider consent URL.
func (s *AuthService) BeginSignIn() (state, url string) {
	state = uuid.NewString()
	return state, s.provider.AuthCodeURL(state)
}

// CompleteSignIn exchanges the authorization code, enforces the domain
// allow-list, upserts the user by email and issues a session. The allow-list
// is checked here only; issued sessions are not re-validated against it.
func (s *AuthService) CompleteSignIn(ctx context.Context, code string) (token string, expiresAt time.Time, err error) {
	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", time.Time{}, apperrors.NewUnauthenticated("sign-in failed")
	}

	if !auth.EmailDomainAllowed(identity.Email, s.allowedDomains) {
		s.logger.Info("sign-in rejected by domain allow-list", zap.String("email", identity.Email))
		return "", time.Time{}, ErrDomainNotAllowed
	}

	user, err := s.upsertUser(ctx, identity)
	if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.tokens.TTL()),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}

	token, err = s.tokens.GenerateToken(session.ID, session.ExpiresAt)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}

	s.logger.Info("signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, session.ExpiresAt, nil
}

// upsertUser finds the user by email, creating a MEMBER on first sign-in and
// refreshing name/image on later ones. A concurrent first sign-in can lose
// the insert race on the unique email; the winner's row is re-read.
func (s *AuthService) upsertUser(ctx context.Context, identity *auth.Identity) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if err := s.users.UpdateProfile(ctx, user.ID, identity.Name, identity.Picture); err != nil {
			return nil, err
		}
		user.Name = identity.Name
		user.Image = identity.Picture
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		user = &domain.User{
			Name:      identity.Name,
			Email:     identity.Email,
			Role:      domain.RoleMember,
			IsDormant: false,
			Image:     identity.Picture,
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			if apperrors.CodeOf(apperrors.MapError(createErr)) == "CONFLICT" {
				return s.users.GetByEmail(ctx, identity.Email)
			}
			return nil, createErr
		}
		return user, nil
	default:
		return nil, err
	}
}

// SignOut revokes the session. Unknown sessions are treated as signed out.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}
