package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims mirrors the access tokens issued by the identity service. Only
// verification happens here.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type Verifier interface {
	Verify(token string) (Claims, error)
}

type HMACVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), now: time.Now}
}

// Verify accepts HS256 access tokens signed with the shared secret. A token
// without user_id falls back to the sub claim.
func (v *HMACVerifier) Verify(token string) (Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrTokenInvalid
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(v.now),
		jwtlib.WithExpirationRequired(),
	)

	var c Claims
	tok, err := p.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if c.TokenType != "" && c.TokenType != TokenTypeAccess {
		return Claims{}, ErrTokenInvalid
	}
	if c.UserID == uuid.Nil {
		id, err := uuid.Parse(c.Subject)
		if err != nil {
			return Claims{}, ErrTokenInvalid
		}
		c.UserID = id
	}
	return c, nil
}

var _ Verifier = (*HMACVerifier)(nil)
