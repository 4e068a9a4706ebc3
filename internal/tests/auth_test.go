package tests

import (
	"context"
	"errors"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/service"
)

const testSecret = "test-secret"

func TestAuth_SignupAndLogin(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewAuthService(store, NewMockTokenStore(), testSecret)

	user, pair, err := svc.Signup(context.Background(), service.SignupRequest{
		Name:     "Casey",
		Email:    "Casey@Example.com",
		Password: "secret1",
		Role:     domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "casey@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if user.PasswordHash == "secret1" {
		t.Error("password must not be stored in the clear")
	}

	if _, _, err := svc.Login(context.Background(), "casey@example.com", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "casey@example.com", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_SignupValidation(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewAuthService(store, NewMockTokenStore(), testSecret)

	cases := []struct {
		name    string
		req     service.SignupRequest
		wantErr error
	}{
		{"bad email", service.SignupRequest{Email: "nope", Password: "secret1", Role: domain.RoleCustomer}, service.ErrInvalidEmail},
		{"short password", service.SignupRequest{Email: "a@b.com", Password: "short", Role: domain.RoleCustomer}, service.ErrInvalidPassword},
		{"unknown role", service.SignupRequest{Email: "a@b.com", Password: "secret1", Role: "WIZARD"}, service.ErrInvalidRole},
		{"driver self-signup", service.SignupRequest{Email: "a@b.com", Password: "secret1", Role: domain.RoleDriver}, service.ErrInvalidRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAuth_DuplicateEmail(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewAuthService(store, NewMockTokenStore(), testSecret)

	req := service.SignupRequest{Email: "a@b.com", Password: "secret1", Role: domain.RoleOwner}
	if _, _, err := svc.Signup(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), req); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_RefreshRotation(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewAuthService(store, NewMockTokenStore(), testSecret)

	_, pair, err := svc.Signup(context.Background(), service.SignupRequest{
		Email:    "a@b.com",
		Password: "secret1",
		Role:     domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The old refresh token is spent once rotated.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for the spent token, got %v", err)
	}

	// The new one works.
	if _, err := svc.Refresh(context.Background(), rotated.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An access token is never a refresh token.
	if _, err := svc.Refresh(context.Background(), rotated.AccessToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for an access token, got %v", err)
	}
}

func TestAuth_LogoutRevokesAccessToken(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewAuthService(store, NewMockTokenStore(), testSecret)

	user, pair, err := svc.Signup(context.Background(), service.SignupRequest{
		Email:    "a@b.com",
		Password: "secret1",
		Role:     domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	actor, err := svc.Verify(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.ID != user.ID || actor.Role != domain.RoleCustomer {
		t.Errorf("unexpected actor %+v", actor)
	}

	if err := svc.Logout(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Verify(context.Background(), pair.AccessToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected refresh to be cleared on logout, got %v", err)
	}
}

func TestAuth_VerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewAuthService(store, NewMockTokenStore(), testSecret)

	if _, err := svc.Verify(context.Background(), "not-a-jwt"); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// Tokens signed with a different secret do not verify.
	other := service.NewAuthService(store, NewMockTokenStore(), "other-secret")
	_, pair, err := other.Signup(context.Background(), service.SignupRequest{
		Email:    "a@b.com",
		Password: "secret1",
		Role:     domain.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Verify(context.Background(), pair.AccessToken); !errors.Is(err, service.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
