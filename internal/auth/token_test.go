package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec(testSecret, "session")
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return c
}

func testSession(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{ID: "sid-1", UserID: 1, Username: "alice", Role: "admin", CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func TestNewTokenCodec_RequiresSecret(t *testing.T) {
	if _, err := NewTokenCodec("", "session"); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestBearer_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	tok, err := c.IssueBearer(testSession(time.Hour))
	if err != nil {
		t.Fatalf("IssueBearer: %v", err)
	}
	id, err := c.ParseBearer(tok)
	if err != nil || id != "sid-1" {
		t.Fatalf("ParseBearer: %q %v", id, err)
	}
}

func TestParseBearer_Rejects(t *testing.T) {
	c := newTestCodec(t)

	expired, _ := c.IssueBearer(testSession(-time.Minute))
	if _, err := c.ParseBearer(expired); err == nil {
		t.Fatalf("expected error for expired token")
	}

	other, _ := NewTokenCodec("wrong", "session")
	foreign, _ := other.IssueBearer(testSession(time.Hour))
	if _, err := c.ParseBearer(foreign); err == nil {
		t.Fatalf("expected error for wrong secret")
	}

	noSID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte(testSecret))
	if _, err := c.ParseBearer(noSID); err == nil {
		t.Fatalf("expected invalid claims error")
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := c.ParseBearer(none); err == nil {
		t.Fatalf("expected error for unsigned token")
	}
}

func TestCookie_RoundTripAndTamper(t *testing.T) {
	c := newTestCodec(t)
	v, err := c.EncodeCookie("sid-1")
	if err != nil {
		t.Fatalf("EncodeCookie: %v", err)
	}
	if v == "sid-1" {
		t.Fatalf("cookie value must not be the raw session id")
	}
	if id, err := c.DecodeCookie(v); err != nil || id != "sid-1" {
		t.Fatalf("DecodeCookie: %q %v", id, err)
	}
	if _, err := c.DecodeCookie(v + "x"); err == nil {
		t.Fatalf("expected error for tampered cookie")
	}
}

func TestSessionID_FromRequest(t *testing.T) {
	c := newTestCodec(t)
	sess := testSession(time.Hour)

	rec := httptest.NewRecorder()
	if err := c.SetCookie(rec, sess, false); err != nil {
		t.Fatalf("SetCookie: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.AddCookie(cookies[0])
	if got := c.SessionID(r); got != "sid-1" {
		t.Fatalf("cookie session id = %q", got)
	}

	tok, _ := c.IssueBearer(sess)
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	if got := c.SessionID(r); got != "sid-1" {
		t.Fatalf("bearer session id = %q", got)
	}

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	r.AddCookie(cookies[0])
	if got := c.SessionID(r); got != "" {
		t.Fatalf("malformed authorization header should not fall back to cookie, got %q", got)
	}
}
