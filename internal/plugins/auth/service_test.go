package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lifewiki/lifewiki/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn          func(ctx context.Context, user *User) error
	findByIDFn        func(ctx context.Context, id string) (*User, error)
	findByEmailFn     func(ctx context.Context, email string) (*User, error)
	emailExistsFn     func(ctx context.Context, email string) (bool, error)
	updateLastLoginFn func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

// --- Test Helpers ---

// newTestAuthService creates an authService with a mock repo and no Redis
// (register tests don't touch Redis; session paths use miniredis below).
func newTestAuthService(repo *mockUserRepo) *authService {
	return &authService{
		repo:       repo,
		sessionTTL: 24 * time.Hour,
	}
}

// newRedisTestService creates an authService backed by an in-process
// miniredis instance for exercising the session paths.
func newRedisTestService(t *testing.T, repo *mockUserRepo) (*authService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &authService{
		repo:       repo,
		redis:      rdb,
		sessionTTL: 24 * time.Hour,
	}, mr
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			if user.Email != "alice@example.com" {
				t.Errorf("expected email alice@example.com, got %s", user.Email)
			}
			if user.DisplayName != "Alice" {
				t.Errorf("expected display name Alice, got %s", user.DisplayName)
			}
			if user.PasswordHash == "" {
				t.Error("expected password hash to be set")
			}
			return nil
		},
	}

	svc := newTestAuthService(repo)
	user, err := svc.Register(context.Background(), RegisterInput{
		Email:       "Alice@Example.com",
		DisplayName: "Alice",
		Password:    "secure-password-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID == "" {
		t.Error("expected user ID to be generated")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestAuthService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "taken@example.com",
		DisplayName: "Test",
		Password:    "secure-password-123",
	})
	assertAppError(t, err, 409)
}

func TestRegister_EmailCheckError(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return false, errors.New("db connection lost")
		},
	}

	svc := newTestAuthService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "test@example.com",
		DisplayName: "Test",
		Password:    "secure-password-123",
	})
	assertAppError(t, err, 500)
}

func TestRegister_CreateError(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			return errors.New("db write error")
		},
	}

	svc := newTestAuthService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "test@example.com",
		DisplayName: "Test",
		Password:    "secure-password-123",
	})
	assertAppError(t, err, 500)
}

func TestRegister_EmailNormalization(t *testing.T) {
	var capturedEmail string
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			capturedEmail = user.Email
			return nil
		},
	}

	svc := newTestAuthService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "  Alice@EXAMPLE.com  ",
		DisplayName: "Alice",
		Password:    "secure-password-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedEmail != "alice@example.com" {
		t.Errorf("expected normalized email alice@example.com, got %s", capturedEmail)
	}
}

// --- Login + Session Tests (miniredis) ---

func loginReadyRepo(t *testing.T, password string) *mockUserRepo {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	user := &User{
		ID:           "user-1",
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	return &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, apperror.NewNotFound("user not found")
		},
	}
}

func TestLogin_Success(t *testing.T) {
	repo := loginReadyRepo(t, "correct-horse-battery")
	svc, _ := newRedisTestService(t, repo)

	token, user, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected session token")
	}
	if user == nil || user.ID != "user-1" {
		t.Errorf("expected user-1, got %+v", user)
	}

	// The token should round-trip through session validation.
	session, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error validating session: %v", err)
	}
	if session.UserID != "user-1" {
		t.Errorf("expected session for user-1, got %s", session.UserID)
	}
	if session.Name != "Alice" {
		t.Errorf("expected session name Alice, got %s", session.Name)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := loginReadyRepo(t, "correct-horse-battery")
	svc, _ := newRedisTestService(t, repo)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assertAppError(t, err, 401)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := loginReadyRepo(t, "correct-horse-battery")
	svc, _ := newRedisTestService(t, repo)

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	// Same 401 as a wrong password, so the response doesn't leak
	// whether the account exists.
	assertAppError(t, err, 401)
}

func TestValidateSession_UnknownToken(t *testing.T) {
	svc, _ := newRedisTestService(t, &mockUserRepo{})

	_, err := svc.ValidateSession(context.Background(), "no-such-token")
	assertAppError(t, err, 401)
}

func TestValidateSession_Expired(t *testing.T) {
	repo := loginReadyRepo(t, "correct-horse-battery")
	svc, mr := newRedisTestService(t, repo)

	token, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Advance miniredis past the session TTL.
	mr.FastForward(25 * time.Hour)

	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401)
}

func TestDestroySession(t *testing.T) {
	repo := loginReadyRepo(t, "correct-horse-battery")
	svc, _ := newRedisTestService(t, repo)

	token, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DestroySession(context.Background(), token); err != nil {
		t.Fatalf("unexpected error destroying session: %v", err)
	}

	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401)
}

// --- Password Hashing Tests ---

func TestHashAndVerifyPassword(t *testing.T) {
	password := "my-secret-password-123"

	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}

	// Correct password should verify.
	if !verifyPassword(password, hash) {
		t.Error("expected correct password to verify")
	}

	// Wrong password should not verify.
	if verifyPassword("wrong-password", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty string", ""},
		{"random text", "not-a-hash"},
		{"too few parts", "$argon2id$v=19$m=65536"},
		{"corrupted salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!invalid$aGFzaA"},
		{"corrupted hash", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$!!!invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if verifyPassword("password", tt.hash) {
				t.Error("expected invalid hash to fail verification")
			}
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := hashPassword("same-password")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	hash2, err := hashPassword("same-password")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	if hash1 == hash2 {
		t.Error("expected different salts to produce different hashes")
	}
}
