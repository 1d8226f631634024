package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/upb/student-registration/auth"
	"github.com/upb/student-registration/dto"
	"github.com/upb/student-registration/models"
	"github.com/upb/student-registration/repositories"
	"github.com/upb/student-registration/services/throttle"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints session tokens for a subject
type TokenIssuer interface {
	IssueWithExpiry(subject string) (string, time.Time, error)
}

// LoginThrottle limits failed login attempts. Implemented by throttle.Limiter.
type LoginThrottle interface {
	CheckLogin(ctx context.Context, identifier, ip string) error
	IncrementLogin(ctx context.Context, identifier, ip string) error
	ResetLogin(ctx context.Context, identifier, ip string) error
}

// LoginResult is a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService signs users in, creates accounts and resolves token subjects to principals
type AuthService struct {
	users      repositories.UserRepository
	issuer     TokenIssuer
	throttle   LoginThrottle
	activity   activityTrail
	bcryptCost int
	dummyHash  []byte
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService. throttle and recorder may be nil.
func NewAuthService(users repositories.UserRepository, issuer TokenIssuer, throttle LoginThrottle, recorder ActivityRecorder, bcryptCost int, logger *zap.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// compared against when the email is unknown, so both paths cost one bcrypt round
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("registration-dummy-password"), bcryptCost)

	return &AuthService{
		users:      users,
		issuer:     issuer,
		throttle:   throttle,
		activity:   activityTrail{recorder: recorder, logger: logger},
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the credentials and issues a session token whose subject is the user's email
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	email = normalizeEmail(email)

	if err := s.checkThrottle(ctx, email, ip); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, WrapInternal("failed to load user", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil || user == nil {
		s.loginFailed(ctx, email, ip)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.IssueWithExpiry(user.Email)
	if err != nil {
		return nil, WrapInternal("failed to issue session token", err)
	}

	if s.throttle != nil {
		if err := s.throttle.ResetLogin(ctx, email, ip); err != nil {
			s.logger.Warn("failed to reset login throttle", zap.Error(err))
		}
	}

	entry := models.NewActivityLog(user.Email, models.ActivityLogin, "session").
		WithActor(user.ID).
		WithRequest(requestID(ctx), ip)
	s.activity.queue(entry)

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) checkThrottle(ctx context.Context, email, ip string) error {
	if s.throttle == nil {
		return nil
	}
	err := s.throttle.CheckLogin(ctx, email, ip)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, throttle.ErrRateLimited):
		s.logger.Warn("login throttled", zap.String("ip", ip))
		return ErrTooManyLoginAttempts
	default:
		// an unavailable throttle must not lock everybody out
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		return nil
	}
}

func (s *AuthService) loginFailed(ctx context.Context, email, ip string) {
	if s.throttle != nil {
		if err := s.throttle.IncrementLogin(ctx, email, ip); err != nil {
			s.logger.Warn("failed to record failed login", zap.Error(err))
		}
	}
	s.activity.queue(models.NewActivityLog(email, models.ActivityLoginFailed, "session").WithRequest(requestID(ctx), ip))
	s.logger.Info("login failed", zap.String("ip", ip))
}

// Logout records the end of a session. Tokens are stateless, so nothing is revoked.
func (s *AuthService) Logout(ctx context.Context, actor *auth.Principal) {
	if actor == nil {
		return
	}
	s.activity.record(ctx, actor, models.ActivityLogout, "session", actor.UserID, nil)
}

// Register creates an account with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, actor *auth.Principal, req dto.CreateUserRequest) (*models.User, error) {
	role := models.UserRole(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole.WithDetail("role", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, WrapError(ErrorTypeValidation, "password cannot be hashed", err)
	}

	user := models.NewUser(normalizeEmail(req.Email), string(hash), strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), role)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, WrapInternal("failed to create user", err)
	}

	s.activity.record(ctx, actor, models.ActivityUserCreated, "user", user.ID, map[string]string{
		"email": user.Email,
		"role":  string(user.Role),
	})
	return user, nil
}

// LoadByIdentifier implements auth.PrincipalLoader
func (s *AuthService) LoadByIdentifier(ctx context.Context, identifier string) (*auth.Principal, error) {
	user, err := s.users.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, err
	}
	return PrincipalFromUser(user), nil
}

// PrincipalFromUser builds the request principal for a user
func PrincipalFromUser(user *models.User) *auth.Principal {
	return &auth.Principal{
		Identifier: user.Email,
		UserID:     user.ID,
		Roles:      []string{string(user.Role)},
	}
}
