package client

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSession(t *testing.T, api API) (*Session, *FileStore) {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("failed to construct store: %v", err)
	}
	session, err := NewSession(SessionConfig{API: api, Store: store})
	if err != nil {
		t.Fatalf("failed to construct session: %v", err)
	}
	return session, store
}

func fastMock() *MockAPI {
	api := NewMockAPI()
	api.Delay = -1
	return api
}

func TestSignInPersistsAndExposesUser(t *testing.T) {
	session, store := newTestSession(t, fastMock())

	err := session.SignIn(context.Background(), SignInData{
		Email:    "test@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}

	user := session.CurrentUser()
	if user == nil || user.Email != "test@example.com" {
		t.Fatalf("unexpected current user %+v", user)
	}

	creds, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load credentials: %v", err)
	}
	if creds.Empty() {
		t.Fatalf("expected persisted credentials")
	}
	if !TokenValid(creds.AccessToken, time.Now()) {
		t.Fatalf("persisted token should be valid: %q", creds.AccessToken)
	}
}

func TestSignInFailureLeavesStateUntouched(t *testing.T) {
	session, store := newTestSession(t, fastMock())

	if err := session.SignIn(context.Background(), SignInData{Email: "test@example.com", Password: "password123"}); err != nil {
		t.Fatalf("seed sign-in failed: %v", err)
	}

	err := session.SignIn(context.Background(), SignInData{Email: "test@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if session.CurrentUser() == nil {
		t.Fatalf("failed sign-in must not clear prior state")
	}
	creds, err := store.Load()
	if err != nil || creds.Empty() {
		t.Fatalf("prior credentials must survive a failed sign-in: %v %+v", err, creds)
	}
}

func TestSignUpRejectsKnownEmail(t *testing.T) {
	session, _ := newTestSession(t, fastMock())

	err := session.SignUp(context.Background(), SignUpData{
		Name:     "Existing",
		Email:    "test@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if session.Authenticated() {
		t.Fatalf("failed sign-up must not authenticate")
	}
}

type failingLogoutAPI struct {
	*MockAPI
}

func (f failingLogoutAPI) Logout(context.Context) error {
	return errors.New("network down")
}

func TestLogoutClearsStateEvenWhenRemoteFails(t *testing.T) {
	session, store := newTestSession(t, failingLogoutAPI{fastMock()})

	if err := session.SignIn(context.Background(), SignInData{Email: "test@example.com", Password: "password123"}); err != nil {
		t.Fatalf("seed sign-in failed: %v", err)
	}

	if err := session.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected logout error: %v", err)
	}
	if session.Authenticated() {
		t.Fatalf("expected signed-out state")
	}
	creds, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load credentials: %v", err)
	}
	if !creds.Empty() {
		t.Fatalf("expected cleared credentials, got %+v", creds)
	}
}

func TestRestoreRecoversValidSession(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("failed to construct store: %v", err)
	}
	user := User{ID: "1", Name: "Test User", Email: "test@example.com"}
	if err := store.Save(Credentials{
		AccessToken: "mock-jwt-token-1700000000000",
		User:        &user,
	}); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	session, err := NewSession(SessionConfig{API: fastMock(), Store: store})
	if err != nil {
		t.Fatalf("failed to construct session: %v", err)
	}
	if err := session.Restore(); err != nil {
		t.Fatalf("unexpected restore error: %v", err)
	}
	restored := session.CurrentUser()
	if restored == nil || restored.ID != "1" {
		t.Fatalf("expected restored user, got %+v", restored)
	}
}

func TestRestoreClearsInvalidState(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("failed to construct store: %v", err)
	}
	user := User{ID: "1", Name: "Test User", Email: "test@example.com"}
	if err := store.Save(Credentials{AccessToken: "garbage-token", User: &user}); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	session, err := NewSession(SessionConfig{API: fastMock(), Store: store})
	if err != nil {
		t.Fatalf("failed to construct session: %v", err)
	}
	if err := session.Restore(); err != nil {
		t.Fatalf("unexpected restore error: %v", err)
	}
	if session.Authenticated() {
		t.Fatalf("invalid token must not restore a session")
	}
	creds, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load credentials: %v", err)
	}
	if !creds.Empty() {
		t.Fatalf("expected cleared store, got %+v", creds)
	}
}

func TestRefreshUpdatesStoredToken(t *testing.T) {
	session, store := newTestSession(t, fastMock())

	if err := session.SignIn(context.Background(), SignInData{Email: "test@example.com", Password: "password123"}); err != nil {
		t.Fatalf("seed sign-in failed: %v", err)
	}
	before, _ := store.Load()

	if err := session.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}
	after, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load credentials: %v", err)
	}
	if after.AccessToken == before.AccessToken {
		t.Fatalf("expected refreshed access token")
	}
	if !TokenValid(after.AccessToken, time.Now()) {
		t.Fatalf("refreshed token should be valid: %q", after.AccessToken)
	}
}

func TestOnChangeCallbackFires(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("failed to construct store: %v", err)
	}
	var observed []*User
	session, err := NewSession(SessionConfig{
		API:   fastMock(),
		Store: store,
		OnChange: func(user *User) {
			observed = append(observed, user)
		},
	})
	if err != nil {
		t.Fatalf("failed to construct session: %v", err)
	}

	if err := session.SignIn(context.Background(), SignInData{Email: "test@example.com", Password: "password123"}); err != nil {
		t.Fatalf("seed sign-in failed: %v", err)
	}
	if err := session.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected logout error: %v", err)
	}

	if len(observed) != 2 {
		t.Fatalf("expected two state changes, got %d", len(observed))
	}
	if observed[0] == nil || observed[1] != nil {
		t.Fatalf("unexpected change sequence %+v", observed)
	}
}
