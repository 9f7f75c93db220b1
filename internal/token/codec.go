package token

import (
	"errors"
	"fmt"
	"time"

	"collab-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Default lifetimes per class. Auth is overridable via config; the rest
// are policy, not deployment knobs.
const (
	DefaultAppTTL      = 45 * time.Minute
	DefaultAuthTTL     = time.Hour
	DefaultRefreshTTL  = 7 * 24 * time.Hour
	DefaultInternalTTL = 8 * time.Minute
)

// Codec signs and verifies the four token classes, each against its own
// HMAC secret. Verification never returns an error to callers: expired,
// tampered, malformed and wrong-class all collapse to "no identity", so
// nothing downstream can branch on why a token failed.
type Codec struct {
	secrets map[Class][]byte
	ttls    map[Class]time.Duration
}

func NewCodec(cfg config.TokenConfig) (*Codec, error) {
	secrets := map[Class][]byte{
		ClassApp:      []byte(cfg.AppSecret),
		ClassAuth:     []byte(cfg.AuthSecret),
		ClassRefresh:  []byte(cfg.RefreshSecret),
		ClassInternal: []byte(cfg.InternalSecret),
	}
	for class, secret := range secrets {
		if len(secret) == 0 {
			return nil, fmt.Errorf("token: secret for class %q is required", class)
		}
	}

	authTTL := cfg.AuthTTL
	if authTTL <= 0 {
		authTTL = DefaultAuthTTL
	}

	return &Codec{
		secrets: secrets,
		ttls: map[Class]time.Duration{
			ClassApp:      DefaultAppTTL,
			ClassAuth:     authTTL,
			ClassRefresh:  DefaultRefreshTTL,
			ClassInternal: DefaultInternalTTL,
		},
	}, nil
}

// TTL reports the effective lifetime for a class, used to align cookie
// max-age with token expiry.
func (c *Codec) TTL(class Class) time.Duration {
	return c.ttls[class]
}

// Issue signs id under the given class. ttl <= 0 applies the class
// default.
func (c *Codec) Issue(id Identity, class Class, now time.Time, ttl time.Duration) (string, error) {
	secret, ok := c.secrets[class]
	if !ok {
		return "", fmt.Errorf("token: unknown class %q", class)
	}
	if ttl <= 0 {
		ttl = c.ttls[class]
	}

	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:     id.UID,
		Email:   id.Email,
		Role:    id.Role,
		Name:    id.Name,
		Company: id.Company,
		Version: id.Version,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Verify checks raw against the class secret and expiry. The boolean is
// the whole contract: false covers bad signature, expired, malformed and
// cross-class tokens alike.
func (c *Codec) Verify(raw string, class Class, now time.Time) (Identity, bool) {
	secret, ok := c.secrets[class]
	if !ok {
		return Identity{}, false
	}

	var claims identityClaims
	if err := c.parse(raw, secret, now, &claims); err != nil {
		return Identity{}, false
	}
	if claims.UID == "" && class != ClassApp {
		return Identity{}, false
	}
	return claims.identity(), true
}

// Renew verifies a refresh token and, if valid, issues a fresh auth
// token carrying the same identity. Failure is a hard stop: the user
// must re-authenticate with credentials, there is no refresh-of-refresh.
func (c *Codec) Renew(refreshRaw string, now time.Time) (string, Identity, bool) {
	id, ok := c.Verify(refreshRaw, ClassRefresh, now)
	if !ok {
		return "", Identity{}, false
	}
	auth, err := c.Issue(id, ClassAuth, now, 0)
	if err != nil {
		return "", Identity{}, false
	}
	return auth, id, true
}

// IssueInternal signs a short-lived service-to-service token binding
// origin and uid.
func (c *Codec) IssueInternal(origin, uid string, now time.Time, ttl time.Duration) (string, error) {
	if origin == "" {
		return "", errors.New("token: internal origin is required")
	}
	if ttl <= 0 {
		ttl = c.ttls[ClassInternal]
	}
	claims := internalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Origin: origin,
		UID:    uid,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secrets[ClassInternal])
}

// VerifyInternal checks an internal token and matches its origin claim
// against the expected origin. Origin is a second factor beyond the
// signature: a leaked internal secret alone is not enough to mint tokens
// accepted by a service expecting a different origin.
func (c *Codec) VerifyInternal(raw, expectedOrigin string, now time.Time) (string, bool) {
	var claims internalClaims
	if err := c.parse(raw, c.secrets[ClassInternal], now, &claims); err != nil {
		return "", false
	}
	if claims.Origin == "" || claims.Origin != expectedOrigin {
		return "", false
	}
	if claims.UID == "" {
		return "", false
	}
	return claims.UID, true
}

func (c *Codec) parse(raw string, secret []byte, now time.Time, claims jwt.Claims) error {
	// No leeway: expiry is exact. A token with exp in the past must
	// never verify, even one second past.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	return err
}
