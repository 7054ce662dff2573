// Package session implements the signed, client-held session state.
//
// The session is an HMAC-signed JWT carried in a cookie. It holds the
// authenticated user id, display name and, once the petition is signed, the
// signature id. Session values are immutable: handlers derive a new value
// and save it exactly once at the end of the request.
package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "petition_session"

// TTL is the session lifetime.
const TTL = 14 * 24 * time.Hour

const issuer = "petition"

// State enumerates the authorization states derived from session fields.
type State int

const (
	// Anonymous means no authenticated user.
	Anonymous State = iota
	// NoSignature means an authenticated user without a petition signature.
	NoSignature
	// Signed means an authenticated user with a petition signature.
	Signed
)

func (s State) String() string {
	switch s {
	case NoSignature:
		return "authenticated-nosig"
	case Signed:
		return "authenticated-signed"
	default:
		return "anonymous"
	}
}

// Session is the decoded session value. The zero value is Anonymous.
type Session struct {
	UserID      uint
	First       string
	Last        string
	SignatureID uint
}

// State derives the authorization state from the session fields.
func (s Session) State() State {
	switch {
	case s.UserID == 0:
		return Anonymous
	case s.SignatureID == 0:
		return NoSignature
	default:
		return Signed
	}
}

// LoggedIn reports whether the session carries an authenticated user.
func (s Session) LoggedIn() bool {
	return s.UserID != 0
}

// HasSignature reports whether the session carries a signature id.
func (s Session) HasSignature() bool {
	return s.SignatureID != 0
}

// WithSignature returns a copy of the session with the signature id set.
func (s Session) WithSignature(id uint) Session {
	s.SignatureID = id
	return s
}

// WithoutSignature returns a copy of the session with the signature id cleared.
func (s Session) WithoutSignature() Session {
	s.SignatureID = 0
	return s
}

// Codec signs and verifies session tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with the given secret and the default TTL.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), ttl: TTL}
}

// Encode signs the session into a compact JWT.
func (c *Codec) Encode(s Session) (string, error) {
	if len(c.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(s.UserID), 10),
		"first": s.First,
		"last":  s.Last,
		"iss":   issuer,
		"exp":   now.Add(c.ttl).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   uuid.New().String(),
	}
	if s.SignatureID != 0 {
		claims["sig"] = strconv.FormatUint(uint64(s.SignatureID), 10)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a token and returns the session it carries. Any invalid,
// expired or tampered token decodes to the Anonymous session with an error.
func (c *Codec) Decode(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return Session{}, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, fmt.Errorf("invalid session claims")
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return Session{}, fmt.Errorf("invalid user id in session")
	}

	s := Session{UserID: uint(userID)}
	s.First, _ = claims["first"].(string)
	s.Last, _ = claims["last"].(string)
	if sig, ok := claims["sig"].(string); ok {
		if sigID, err := strconv.ParseUint(sig, 10, 32); err == nil {
			s.SignatureID = uint(sigID)
		}
	}
	return s, nil
}

// Middleware decodes the session cookie into the request. The session value
// is stored in c.Locals("session"); the user id additionally goes to
// c.Locals("userID") for the logging and tracing layers.
func (c *Codec) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess := Session{}
		if cookie := ctx.Cookies(CookieName); cookie != "" {
			if decoded, err := c.Decode(cookie); err == nil {
				sess = decoded
			}
			// A bad cookie is treated as Anonymous; it gets overwritten on
			// the next successful login.
		}
		ctx.Locals("session", sess)
		if sess.LoggedIn() {
			ctx.Locals("userID", sess.UserID)
		}
		return ctx.Next()
	}
}

// FromCtx returns the session decoded by Middleware, or Anonymous.
func FromCtx(ctx *fiber.Ctx) Session {
	if s, ok := ctx.Locals("session").(Session); ok {
		return s
	}
	return Session{}
}

// Save signs the session and sets the cookie. Saving an Anonymous session
// clears the cookie.
func (c *Codec) Save(ctx *fiber.Ctx, s Session) error {
	if !s.LoggedIn() {
		Clear(ctx)
		return nil
	}

	token, err := c.Encode(s)
	if err != nil {
		return err
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(c.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	ctx.Locals("session", s)
	return nil
}

// Clear removes the session cookie.
func Clear(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	ctx.Locals("session", Session{})
}
