package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"go-chat-admin/internal/config"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type JWT struct{ secret []byte }

func NewJWT(secret string) *JWT { return &JWT{secret: []byte(secret)} }

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (j *JWT) Sign(username string, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

func (j *JWT) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.Username == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// Session is what a successful login returns to the client.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Issuer checks admin credentials and signs session tokens. Settings are
// read on every call so a config reload takes effect immediately.
type Issuer struct {
	cfg *config.Store
	obs LoginObserver
	now func() time.Time
}

// LoginObserver is told the outcome of every login attempt.
type LoginObserver interface {
	ObserveLogin(ok bool)
}

func NewIssuer(cfg *config.Store, obs LoginObserver) *Issuer {
	return &Issuer{cfg: cfg, obs: obs, now: time.Now}
}

func (i *Issuer) jwt() *JWT { return NewJWT(i.cfg.Current().Admin.JWTSecret) }

// Login returns a signed session for the configured admin. Any mismatch
// yields ErrInvalidCredentials without saying which field was wrong.
func (i *Issuer) Login(username, password string) (*Session, error) {
	admin := i.cfg.Current().Admin
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1
	passOK := checkPassword(admin, password)
	ok := userOK && passOK
	if i.obs != nil {
		i.obs.ObserveLogin(ok)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	tok, err := i.jwt().Sign(admin.Username, i.now(), TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: tok, Username: admin.Username}, nil
}

// Verify returns the username carried by a valid token.
func (i *Issuer) Verify(token string) (string, error) {
	c, err := i.jwt().Parse(token)
	if err != nil {
		return "", err
	}
	return c.Username, nil
}

func checkPassword(admin config.AdminConfig, plain string) bool {
	if admin.PasswordHash == "" && admin.Password == "" {
		return false
	}
	if admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(plain)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(admin.Password)) == 1
}
