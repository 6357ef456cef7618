package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
)

type sessionKey struct{}

// WithSession stores the session in context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext retrieves the session from context (if any).
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// TokenCodec carries session ids to clients. The id travels either in a
// securecookie-encoded cookie or inside an HS256 JWT used as a bearer token.
// Neither form holds any session state besides the id.
type TokenCodec struct {
	secret []byte
	cookie *securecookie.SecureCookie
	name   string
}

// NewTokenCodec derives cookie hash and block keys from secret.
func NewTokenCodec(secret, cookieName string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	hashKey := sha256.Sum256([]byte("cookie-hash:" + secret))
	blockKey := sha256.Sum256([]byte("cookie-block:" + secret))
	sc := securecookie.New(hashKey[:], blockKey[:])
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &TokenCodec{secret: []byte(secret), cookie: sc, name: cookieName}, nil
}

// EncodeCookie returns the cookie value for a session id.
func (c *TokenCodec) EncodeCookie(sessionID string) (string, error) {
	return c.cookie.Encode(c.name, sessionID)
}

// DecodeCookie returns the session id held in a cookie value.
func (c *TokenCodec) DecodeCookie(value string) (string, error) {
	var id string
	if err := c.cookie.Decode(c.name, value, &id); err != nil {
		return "", err
	}
	return id, nil
}

type tokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// IssueBearer returns a signed bearer token for the session.
func (c *TokenCodec) IssueBearer(s *Session) (string, error) {
	claims := tokenClaims{
		SessionID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// ParseBearer validates a bearer token and returns its session id.
func (c *TokenCodec) ParseBearer(tokenStr string) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return "", err
	}
	cl, _ := tok.Claims.(*tokenClaims)
	if cl == nil || cl.SessionID == "" {
		return "", errors.New("invalid claims")
	}
	return cl.SessionID, nil
}

// SessionID extracts the session id from a request: a bearer token in the
// Authorization header wins over the cookie. It returns "" when neither is
// present or valid.
func (c *TokenCodec) SessionID(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if id, err := c.ParseBearer(strings.TrimSpace(parts[1])); err == nil {
				return id
			}
		}
		return ""
	}
	if ck, err := r.Cookie(c.name); err == nil {
		if id, err := c.DecodeCookie(ck.Value); err == nil {
			return id
		}
	}
	return ""
}

// SetCookie writes the session cookie for s.
func (c *TokenCodec) SetCookie(w http.ResponseWriter, s *Session, secure bool) error {
	v, err := c.EncodeCookie(s.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    v,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (c *TokenCodec) ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
