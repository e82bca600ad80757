package processor

import (
	"context"
	"errors"
	"testing"

	"ventia-server/internal/observability"
	"ventia-server/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeAuthStore struct {
	usersByEmail map[string]store.User
	usersByID    map[uuid.UUID]store.User
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		usersByEmail: make(map[string]store.User),
		usersByID:    make(map[uuid.UUID]store.User),
	}
}

func (f *fakeAuthStore) CheckIfEmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.usersByEmail[email]
	return ok, nil
}

func (f *fakeAuthStore) CreateUser(ctx context.Context, email, name, hashedPassword string) (store.User, error) {
	user := store.User{ID: uuid.New(), Email: email, Name: name, HashedPassword: hashedPassword}
	f.usersByEmail[email] = user
	f.usersByID[user.ID] = user
	return user, nil
}

func (f *fakeAuthStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeAuthStore) GetUserByID(ctx context.Context, id uuid.UUID) (store.User, error) {
	user, ok := f.usersByID[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return user, nil
}

func newTestProcessor(fs *fakeAuthStore) AuthProcessor {
	return New(fs, "test-secret", observability.NewLogger())
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	fs := newFakeAuthStore()
	p := newTestProcessor(fs)

	user, err := p.Signup(ctx, "maria@ventia.com", "María", "Secreta1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "maria@ventia.com" || user.Name != "María" {
		t.Errorf("user = %+v, want the signed up identity", user)
	}

	stored := fs.usersByEmail["maria@ventia.com"]
	if stored.HashedPassword == "Secreta1" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("Secreta1")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	if _, err := p.Signup(ctx, "maria@ventia.com", "Otra", "Secreta1"); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("duplicate signup: got %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	fs := newFakeAuthStore()
	p := newTestProcessor(fs)

	signedUp, err := p.Signup(ctx, "pedro@ventia.com", "Pedro", "Secreta1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := p.Login(ctx, "pedro@ventia.com", "Secreta1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := p.ValidateJWTToken(ctx, token)
	if err != nil {
		t.Fatalf("token failed validation: %v", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		t.Fatalf("failed to read subject: %v", err)
	}
	if sub != signedUp.ID.String() {
		t.Errorf("sub = %q, want %q", sub, signedUp.ID)
	}

	if _, err := p.Login(ctx, "pedro@ventia.com", "otra"); !errors.Is(err, ErrIncorrectPassword) {
		t.Errorf("wrong password: got %v, want ErrIncorrectPassword", err)
	}
	if _, err := p.Login(ctx, "nadie@ventia.com", "Secreta1"); !errors.Is(err, ErrIncorrectPassword) {
		t.Errorf("unknown email: got %v, want ErrIncorrectPassword", err)
	}
}

func TestValidateJWTToken_RejectsTampering(t *testing.T) {
	ctx := context.Background()
	fs := newFakeAuthStore()
	p := newTestProcessor(fs)

	if _, err := p.Signup(ctx, "ana@ventia.com", "Ana", "Secreta1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, err := p.Login(ctx, "ana@ventia.com", "Secreta1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := New(fs, "other-secret", observability.NewLogger())
	if _, err := other.ValidateJWTToken(ctx, token); !errors.Is(err, ErrInvalidJWTToken) {
		t.Errorf("foreign secret: got %v, want ErrInvalidJWTToken", err)
	}
	if _, err := p.ValidateJWTToken(ctx, token+"x"); !errors.Is(err, ErrInvalidJWTToken) {
		t.Errorf("tampered token: got %v, want ErrInvalidJWTToken", err)
	}

	if _, err := p.GetUserByID(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user: got %v, want ErrUserNotFound", err)
	}
}
