package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/shoplite/shoplite-backend/pkg/auth"
	"github.com/shoplite/shoplite-backend/pkg/config"
	"github.com/shoplite/shoplite-backend/pkg/db/models"
	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-please-rotate",
		Issuer:            "shoplite-test",
		ExpirationMinutes: 15,
	}
}

func newAuthService(t *testing.T) (Service, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	svc, err := NewService(repo, testJWTConfig(), config.PasswordConfig{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestRegisterMintsUsableToken(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(t)
	session, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Ada@Example.com",
		Password: "correct horse battery",
		Name:     "Ada",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.User.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", session.User.Email)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), session.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != session.User.ID {
		t.Fatalf("token user %s does not match %s", claims.UserID, session.User.ID)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(t)
	input := RegisterInput{Email: "dup@example.com", Password: "password123", Name: "Dup"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	t.Parallel()

	svc, repo := newAuthService(t)
	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "user@example.com", Password: "hunter2hunter2", Name: "User",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	session, err := svc.Login(context.Background(), LoginInput{
		Email: "user@example.com", Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected token")
	}

	user := repo.byEmail["user@example.com"]
	if user.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(t)
	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "user@example.com", Password: "hunter2hunter2", Name: "User",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, errPw := svc.Login(context.Background(), LoginInput{Email: "user@example.com", Password: "nope"})
	_, errEmail := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "nope"})

	for _, err := range []error{errPw, errEmail} {
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	}
	if errPw.Error() != errEmail.Error() {
		t.Fatalf("expected identical messages, got %q and %q", errPw, errEmail)
	}
}

func TestMeUnknownUserIsUnauthorized(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthService(t)
	_, err := svc.Me(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if user, ok := s.byID[id]; ok {
		user.LastLoginAt = &at
	}
	return nil
}
