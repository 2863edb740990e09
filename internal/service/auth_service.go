package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/repair-service/internal/auth"
	"github.com/spec-kit/repair-service/internal/badge"
	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/events"
	"github.com/spec-kit/repair-service/internal/repository"
	apperrors "github.com/spec-kit/repair-service/pkg/util/errorutil"
)

// Login methods recorded on login events.
const (
	LoginMethodPIN   = "pin"
	LoginMethodBadge = "badge"
)

// AuthService resolves PINs and badges to users and manages session slots.
type AuthService struct {
	users       repository.UserRepository
	sessions    repository.SessionRepository
	tokenMgr    *auth.TokenManager
	transport   badge.Transport
	scanTimeout time.Duration
	events      publisher
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Tokens      *auth.TokenManager
	Transport   badge.Transport
	ScanTimeout time.Duration
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := orNop(deps.Logger)
	timeout := deps.ScanTimeout
	if timeout <= 0 {
		timeout = badge.DefaultScanTimeout
	}
	return &AuthService{
		users:       deps.UserRepo,
		sessions:    deps.SessionRepo,
		tokenMgr:    deps.Tokens,
		transport:   deps.Transport,
		scanTimeout: timeout,
		events:      publisher{dispatcher: deps.Dispatcher, logger: logger, now: time.Now},
		logger:      logger,
	}
}

// LoginByPin finds the first user whose PIN matches exactly and opens a session.
func (s *AuthService) LoginByPin(ctx context.Context, pin string) (*domain.User, *domain.Session, error) {
	if pin == "" {
		return nil, nil, apperrors.NewInvalidCredential("Invalid PIN")
	}
	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range users {
		if auth.MatchPIN(users[i].PIN, pin) {
			return s.establish(ctx, users[i], LoginMethodPIN)
		}
	}
	return nil, nil, apperrors.NewInvalidCredential("Invalid PIN")
}

// LoginByBadge resolves a scanned badge id against each user's own id or
// linked badge and opens a session.
func (s *AuthService) LoginByBadge(ctx context.Context, badgeID string) (*domain.User, *domain.Session, error) {
	badgeID = strings.TrimSpace(badgeID)
	if badgeID == "" {
		return nil, nil, apperrors.NewUnlinkedBadge("Badge has no userid")
	}
	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range users {
		if users[i].MatchesBadge(badgeID) {
			return s.establish(ctx, users[i], LoginMethodBadge)
		}
	}
	return nil, nil, apperrors.NewUnlinkedBadge("No user linked to this badge")
}

// LoginByBadgeScan waits for a badge tap on the transport, then logs in with it.
func (s *AuthService) LoginByBadgeScan(ctx context.Context) (*domain.User, *domain.Session, error) {
	if s.transport == nil {
		return nil, nil, apperrors.NewTransportError(errors.New("no badge reader configured"))
	}
	badgeID, err := badge.Read(ctx, s.transport, s.scanTimeout)
	if err != nil {
		return nil, nil, badgeError(err)
	}
	return s.LoginByBadge(ctx, badgeID)
}

// RequireSession returns the user held in the session slot named by token.
func (s *AuthService) RequireSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.NewNoSession()
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, apperrors.NewNoSession()
	}
	user, ok, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNoSession()
	}
	return user, nil
}

// RequireRole fails with Forbidden unless user holds role.
func (s *AuthService) RequireRole(user *domain.User, role domain.Role) error {
	return auth.RequireRole(user, role)
}

// Logout clears the session slot named by token. Unknown or invalid tokens
// are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Clear(ctx, claims.SessionID); err != nil {
		return err
	}
	s.logger.Info("logged out", zap.String("user_id", claims.UserID))
	return nil
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) establish(ctx context.Context, user domain.User, method string) (*domain.User, *domain.Session, error) {
	token, claims, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	if err := s.sessions.Set(ctx, claims.SessionID, user); err != nil {
		return nil, nil, err
	}

	session := &domain.Session{
		ID:        claims.SessionID,
		UserID:    user.ID,
		Token:     token,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	s.logger.Info("login", zap.String("user_id", user.ID), zap.String("method", method))
	s.events.publish(ctx, events.Event{
		Type:      events.EventLogin,
		SubjectID: user.ID,
		Actor:     events.ActorFor(&user),
		Payload:   events.LoginPayload{Method: method},
	})
	return &user, session, nil
}

// badgeError maps badge package failures onto the error taxonomy.
func badgeError(err error) error {
	switch {
	case errors.Is(err, badge.ErrTimeout):
		return apperrors.NewTimeout("NFC read timed out.")
	case errors.Is(err, badge.ErrNoUserID):
		return apperrors.NewUnlinkedBadge("Badge has no userid")
	case errors.Is(err, context.Canceled):
		return err
	default:
		return apperrors.NewTransportError(err)
	}
}
