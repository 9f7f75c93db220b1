package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"collab-platform/internal/audit"
	"collab-platform/internal/ratelimit"
	"collab-platform/internal/token"
	"collab-platform/internal/user"
)

// Throttling policy. The limiter itself is a dumb counter; scopes,
// thresholds and block windows live here so login and register can
// differ without touching the limiter.
const (
	loginMaxAttempts = 6
	loginBlockWindow = 10 * time.Minute

	registerIPMaxAttempts    = 3
	registerEmailMaxAttempts = 5
	registerBlockWindow      = 30 * time.Minute

	minPasswordLen = 6
)

func loginKey(ip string) string        { return "login_attempts:" + ip }
func registerIPKey(ip string) string   { return "register:ip:" + ip }
func registerEmailKey(e string) string { return "register:email:" + user.NormalizeEmail(e) }

// Service implements the three-token session protocol: app-token
// bootstrap, credential login/register, authenticated reads with silent
// rotation, and logout. Tokens are stateless; the only mutable state
// behind this service is the limiter's counters and the user store.
type Service struct {
	codec   *token.Codec
	users   user.Store
	limiter ratelimit.Limiter
	audit   *audit.Service
	log     *slog.Logger

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(codec *token.Codec, users user.Store, limiter ratelimit.Limiter, auditSvc *audit.Service, log *slog.Logger) *Service {
	return &Service{
		codec:   codec,
		users:   users,
		limiter: limiter,
		audit:   auditSvc,
		log:     log,
		clock:   time.Now,
	}
}

// SetClock overrides the service clock (tests only).
func (s *Service) SetClock(clock func() time.Time) { s.clock = clock }

// Codec exposes the token codec for middleware that shares it.
func (s *Service) Codec() *token.Codec { return s.codec }

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Company  string `json:"company,omitempty"`
}

// LoginResult carries the freshly issued token pair plus the user
// record for the response body.
type LoginResult struct {
	AuthToken    string
	RefreshToken string
	User         user.User
}

// Bootstrap returns a valid app token, reusing the presented one when
// it still verifies. Idempotence matters: reloading the login page must
// not churn the cookie.
func (s *Service) Bootstrap(existing string) (string, bool, error) {
	now := s.clock()
	if existing != "" {
		if _, ok := s.codec.Verify(existing, token.ClassApp, now); ok {
			return existing, true, nil
		}
	}
	fresh, err := s.codec.Issue(token.Identity{}, token.ClassApp, now, 0)
	if err != nil {
		return "", false, fmt.Errorf("issue app token: %w", err)
	}
	return fresh, false, nil
}

// Login validates credentials behind an IP attempt counter.
//
// Precondition order is part of the contract: the rate-limit check runs
// before anything else, so a blocked IP learns nothing from the
// response, and a request that fails early never reaches the store.
func (s *Service) Login(ctx context.Context, ip, appToken string, creds Credentials) (LoginResult, error) {
	now := s.clock()
	key := loginKey(ip)

	count, err := s.limiter.Get(ctx, key)
	if err != nil {
		return LoginResult{}, fmt.Errorf("limiter get: %w", err)
	}
	if count >= loginMaxAttempts {
		s.audit.Record(ctx, audit.Event{Type: audit.EventRateLimitBlock, IPAddress: ip, Message: "login blocked"})
		return LoginResult{}, ErrTooManyAttempts
	}

	if _, ok := s.codec.Verify(appToken, token.ClassApp, now); !ok {
		s.penalize(ctx, loginBlockWindow, key)
		return LoginResult{}, ErrInvalidAppToken
	}

	if !validEmail(creds.Email) || len(creds.Password) < minPasswordLen {
		s.penalize(ctx, loginBlockWindow, key)
		return LoginResult{}, ErrInvalidInput
	}

	u, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Same error as a wrong password; see ErrInvalidCredentials.
			s.penalize(ctx, loginBlockWindow, key)
			s.audit.Record(ctx, audit.Event{Type: audit.EventLoginFailure, Email: user.NormalizeEmail(creds.Email), IPAddress: ip})
			return LoginResult{}, ErrInvalidCredentials
		}
		// Store failures are the service's own fault; no counter side
		// effects, so an outage cannot inflate client lockouts.
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	if !user.VerifyPassword(u.PasswordDigest, creds.Password) {
		s.penalize(ctx, loginBlockWindow, key)
		s.audit.Record(ctx, audit.Event{Type: audit.EventLoginFailure, ActorUID: u.ID, Email: u.Email, IPAddress: ip})
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := s.limiter.Clear(ctx, key); err != nil {
		return LoginResult{}, fmt.Errorf("limiter clear: %w", err)
	}

	result, err := s.issuePair(u, now)
	if err != nil {
		return LoginResult{}, err
	}
	s.audit.Record(ctx, audit.Event{Type: audit.EventLoginSuccess, ActorUID: u.ID, Email: u.Email, IPAddress: ip})
	return result, nil
}

// Register creates a user behind two independent counters: one per IP
// and one per target email. Both are checked up front and both are
// incremented on every failure path, so neither a single IP nor a
// single victim email can be hammered.
func (s *Service) Register(ctx context.Context, ip, appToken string, in RegisterInput) (LoginResult, error) {
	now := s.clock()
	ipKey := registerIPKey(ip)
	emailKey := registerEmailKey(in.Email)

	ipCount, err := s.limiter.Get(ctx, ipKey)
	if err != nil {
		return LoginResult{}, fmt.Errorf("limiter get: %w", err)
	}
	emailCount, err := s.limiter.Get(ctx, emailKey)
	if err != nil {
		return LoginResult{}, fmt.Errorf("limiter get: %w", err)
	}
	if ipCount >= registerIPMaxAttempts || emailCount >= registerEmailMaxAttempts {
		s.audit.Record(ctx, audit.Event{Type: audit.EventRateLimitBlock, IPAddress: ip, Message: "register blocked"})
		return LoginResult{}, ErrTooManyAttempts
	}

	if _, ok := s.codec.Verify(appToken, token.ClassApp, now); !ok {
		s.penalize(ctx, registerBlockWindow, ipKey, emailKey)
		return LoginResult{}, ErrInvalidAppToken
	}

	if strings.TrimSpace(in.Name) == "" || !validEmail(in.Email) || len(in.Password) < minPasswordLen {
		s.penalize(ctx, registerBlockWindow, ipKey, emailKey)
		return LoginResult{}, ErrInvalidInput
	}

	u, err := s.users.Insert(ctx, user.User{
		Email:   in.Email,
		Name:    strings.TrimSpace(in.Name),
		Company: strings.TrimSpace(in.Company),
		Role:    token.RoleClient,
	}, in.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			s.penalize(ctx, registerBlockWindow, ipKey, emailKey)
			return LoginResult{}, ErrEmailTaken
		}
		// Unexpected store errors do not count as attempts.
		return LoginResult{}, fmt.Errorf("insert user: %w", err)
	}

	if err := s.limiter.Clear(ctx, ipKey); err != nil {
		return LoginResult{}, fmt.Errorf("limiter clear: %w", err)
	}
	if err := s.limiter.Clear(ctx, emailKey); err != nil {
		return LoginResult{}, fmt.Errorf("limiter clear: %w", err)
	}

	result, err := s.issuePair(u, now)
	if err != nil {
		return LoginResult{}, err
	}
	s.audit.Record(ctx, audit.Event{Type: audit.EventRegister, ActorUID: u.ID, Email: u.Email, IPAddress: ip})
	return result, nil
}

// Authenticate resolves an identity from an auth token or, failing
// that, a refresh token. When only the refresh token verifies, the
// returned replacement auth token must be attached to the response so
// renewal stays invisible to the caller.
func (s *Service) Authenticate(ctx context.Context, authRaw, refreshRaw string) (token.Identity, string, bool) {
	now := s.clock()

	if id, ok := s.codec.Verify(authRaw, token.ClassAuth, now); ok {
		return id, "", true
	}

	fresh, id, ok := s.codec.Renew(refreshRaw, now)
	if !ok {
		return token.Identity{}, "", false
	}
	s.audit.Record(ctx, audit.Event{Type: audit.EventTokenRotation, ActorUID: id.UID, Email: id.Email})
	return id, fresh, true
}

// Logout records the event. Tokens are stateless so there is nothing to
// revoke server-side; cookie clearing is the handler's job, and a
// captured token stays valid until its natural expiry.
func (s *Service) Logout(ctx context.Context, authRaw string) {
	if id, ok := s.codec.Verify(authRaw, token.ClassAuth, s.clock()); ok {
		s.audit.Record(ctx, audit.Event{Type: audit.EventLogout, ActorUID: id.UID, Email: id.Email})
	}
}

func (s *Service) issuePair(u user.User, now time.Time) (LoginResult, error) {
	id := token.Identity{
		UID:     u.ID,
		Email:   u.Email,
		Role:    u.Role,
		Name:    u.Name,
		Company: u.Company,
		Version: u.TokenVersion,
	}
	authTok, err := s.codec.Issue(id, token.ClassAuth, now, 0)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue auth token: %w", err)
	}
	refreshTok, err := s.codec.Issue(id, token.ClassRefresh, now, 0)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return LoginResult{AuthToken: authTok, RefreshToken: refreshTok, User: u}, nil
}

// penalize bumps the given counters and stamps the block window.
// Limiter errors here are already absorbed or surfaced by the limiter
// wrapper; a failed penalty must not mask the real auth error, so the
// return values are intentionally dropped.
func (s *Service) penalize(ctx context.Context, window time.Duration, keys ...string) {
	for _, key := range keys {
		if _, err := s.limiter.Incr(ctx, key); err != nil {
			s.logWarn("limiter incr failed", key, err)
			continue
		}
		if err := s.limiter.Expire(ctx, key, window); err != nil {
			s.logWarn("limiter expire failed", key, err)
		}
	}
}

func (s *Service) logWarn(msg, key string, err error) {
	if s.log != nil {
		s.log.Warn(msg, "key", key, "err", err)
	}
}

func validEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}
