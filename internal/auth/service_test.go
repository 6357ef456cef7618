package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"matchTracker/internal/apperr"
	"matchTracker/models"
)

type fakeAccounts struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*models.UserAccount
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byName: map[string]*models.UserAccount{}}
}

func (f *fakeAccounts) Create(_ context.Context, username, hash string, role models.Role) (*models.UserAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[username]; ok {
		return nil, apperr.Conflict("username already exists")
	}
	f.nextID++
	a := &models.UserAccount{ID: f.nextID, Username: username, PasswordHash: hash, Role: role}
	f.byName[username] = a
	return a, nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*models.UserAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byName[username], nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*models.UserAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byName {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) setRole(username string, role models.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byName[username].Role = role
}

func (f *fakeAccounts) remove(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byName, username)
}

func newTestService(t *testing.T) (*Service, *fakeAccounts) {
	t.Helper()
	accts := newFakeAccounts()
	return NewService(accts, NewMemoryStore(), time.Hour, bcrypt.MinCost), accts
}

func TestRegister(t *testing.T) {
	svc, accts := newTestService(t)
	ctx := context.Background()
	a, err := svc.Register(ctx, " alice ", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if a.Username != "alice" || a.Role != models.RoleUser {
		t.Fatalf("unexpected account: %+v", a)
	}
	if accts.byName["alice"].PasswordHash == "pw" || !CheckPassword(accts.byName["alice"].PasswordHash, "pw") {
		t.Fatalf("password must be stored as a bcrypt hash")
	}
	if _, err := svc.Register(ctx, "alice", "other"); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := svc.Register(ctx, " ", "pw"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogin_IdenticalFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "correct"); err != nil {
		t.Fatal(err)
	}
	_, errWrongPw := svc.Login(ctx, "alice", "wrong")
	_, errNoUser := svc.Login(ctx, "nobody", "wrong")
	if apperr.KindOf(errWrongPw) != apperr.KindUnauthorized || apperr.KindOf(errNoUser) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized errors: %v / %v", errWrongPw, errNoUser)
	}
	if errWrongPw.Error() != errNoUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errWrongPw, errNoUser)
	}
}

func TestLoginLogout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Username != "alice" || sess.Role != models.RoleUser || sess.ID == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if got, err := svc.Resolve(ctx, sess.ID); err != nil || got == nil {
		t.Fatalf("Resolve: %+v %v", got, err)
	}
	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("second Logout should be a no-op: %v", err)
	}
	if got, _ := svc.Resolve(ctx, sess.ID); got != nil {
		t.Fatalf("session should be gone after logout")
	}
}

func TestLogoutAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a, _ := svc.Register(ctx, "alice", "pw")
	s1, _ := svc.Login(ctx, "alice", "pw")
	s2, _ := svc.Login(ctx, "alice", "pw")
	n, err := svc.LogoutAll(ctx, a.ID)
	if err != nil || n != 2 {
		t.Fatalf("LogoutAll = %d, %v", n, err)
	}
	for _, s := range []*Session{s1, s2} {
		if got, _ := svc.Resolve(ctx, s.ID); got != nil {
			t.Fatalf("session %s survived LogoutAll", s.ID)
		}
	}
}

func TestResolve_TracksAccount(t *testing.T) {
	svc, accts := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatal(err)
	}

	accts.setRole("alice", models.RoleAdmin)
	got, err := svc.Resolve(ctx, sess.ID)
	if err != nil || got == nil || got.Role != models.RoleAdmin {
		t.Fatalf("promotion not applied: %+v %v", got, err)
	}

	accts.remove("alice")
	if got, err := svc.Resolve(ctx, sess.ID); err != nil || got != nil {
		t.Fatalf("session of deleted account resolved: %+v %v", got, err)
	}
	if _, err := svc.Sessions().Get(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("session should be deleted, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	admin := &Session{Role: models.RoleAdmin}
	user := &Session{Role: models.RoleUser}
	if err := Authorize(admin, models.RoleAdmin); err != nil {
		t.Fatalf("admin denied: %v", err)
	}
	for name, s := range map[string]*Session{"user": user, "anonymous": nil} {
		err := Authorize(s, models.RoleAdmin)
		if apperr.KindOf(err) != apperr.KindForbidden || apperr.Message(err) != "admin access required" {
			t.Fatalf("%s: expected forbidden, got %v", name, err)
		}
	}
}

func TestMiddleware_AuthenticateAndRequireRole(t *testing.T) {
	svc, accts := newTestService(t)
	ctx := context.Background()
	root, _ := accts.Create(ctx, "root", "h", models.RoleAdmin)
	bob, _ := accts.Create(ctx, "bob", "h", models.RoleUser)
	codec := newTestCodec(t)
	var gotErr error
	mw := NewMiddleware(svc, codec, func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusForbidden)
	})
	h := mw.Authenticate(mw.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		if !ok || s.Role != models.RoleAdmin {
			t.Errorf("handler reached without admin session")
		}
		w.WriteHeader(http.StatusNoContent)
	})))

	do := func(sess *Session) int {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if sess != nil {
			tok, err := codec.IssueBearer(sess)
			if err != nil {
				t.Fatal(err)
			}
			r.Header.Set("Authorization", "Bearer "+tok)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	if code := do(nil); code != http.StatusForbidden || apperr.KindOf(gotErr) != apperr.KindForbidden {
		t.Fatalf("anonymous: code=%d err=%v", code, gotErr)
	}

	now := time.Now()
	userSess := &Session{ID: "u", UserID: bob.ID, Username: "bob", Role: models.RoleUser, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	adminSess := &Session{ID: "a", UserID: root.ID, Username: "root", Role: models.RoleAdmin, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	for _, s := range []*Session{userSess, adminSess} {
		if err := svc.Sessions().Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	if code := do(userSess); code != http.StatusForbidden {
		t.Fatalf("user: code=%d", code)
	}
	if code := do(adminSess); code != http.StatusNoContent {
		t.Fatalf("admin: code=%d", code)
	}

	// A validly signed token for a session the store no longer holds is anonymous.
	_ = svc.Logout(ctx, adminSess.ID)
	if code := do(adminSess); code != http.StatusForbidden {
		t.Fatalf("logged-out admin: code=%d", code)
	}
}

func TestService_DummyHashMatchesConfiguredCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 2} {
		svc := NewService(newFakeAccounts(), NewMemoryStore(), time.Hour, cost)
		got, err := bcrypt.Cost(svc.dummyHash)
		if err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
		if got != cost {
			t.Fatalf("dummy hash cost = %d, want %d", got, cost)
		}
	}
}
