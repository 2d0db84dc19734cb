package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/waste-point/web-go/models"
	"github.com/waste-point/web-go/testutil"
	"golang.org/x/crypto/bcrypt"
)

func newUserRepo(t *testing.T) *UserRepository {
	t.Helper()
	repo := NewUserRepository(testutil.NewDB(t))
	repo.Cost = bcrypt.MinCost
	return repo
}

func countUsers(t *testing.T, repo *UserRepository) int64 {
	t.Helper()
	var n int64
	if err := repo.DB.Model(&models.User{}).Count(&n).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}

func TestRegister(t *testing.T) {
	repo := newUserRepo(t)

	user, err := repo.Register(context.Background(), "  Ana ", " Ana@X.com ", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 || user.Name != "Ana" || user.Email != "ana@x.com" || user.Role != models.RoleUser {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := newUserRepo(t)
	cases := []struct{ name, email, password string }{
		{"", "a@x.com", "pw"},
		{"Ana", "   ", "pw"},
		{"Ana", "a@x.com", ""},
		{"Ana", "a@x.com", "   "},
		{"Ana", "a@x.com", strings.Repeat("a", 73)},
	}
	for _, tc := range cases {
		if _, err := repo.Register(context.Background(), tc.name, tc.email, tc.password); !errors.Is(err, ErrValidation) {
			t.Errorf("Register(%q, %q, %q) = %v, want ErrValidation", tc.name, tc.email, tc.password, err)
		}
	}
	if n := countUsers(t, repo); n != 0 {
		t.Fatalf("no user should be created, found %d", n)
	}
}

func TestRegisterDuplicateEmailAnyCase(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	if _, err := repo.Register(ctx, "Ana", "ana@x.com", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, email := range []string{"ana@x.com", "ANA@x.com", " Ana@X.COM "} {
		if _, err := repo.Register(ctx, "Other", email, "whatever"); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Register(%q) = %v, want ErrDuplicateEmail", email, err)
		}
	}
	if n := countUsers(t, repo); n != 1 {
		t.Fatalf("expected a single account, found %d", n)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	registered, err := repo.Register(ctx, "Ana", "ana@x.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, email := range []string{"ana@x.com", "ANA@X.COM", "  ana@x.com"} {
		user, err := repo.Authenticate(ctx, email, "secret123")
		if err != nil || user.ID != registered.ID {
			t.Fatalf("Authenticate(%q) = %+v, %v", email, user, err)
		}
	}

	before, err := repo.FindByID(ctx, registered.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := repo.Authenticate(ctx, "ana@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("wrong password: %v", err)
		}
		if _, err := repo.Authenticate(ctx, "nobody@x.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("unknown email: %v", err)
		}
	}

	if n := countUsers(t, repo); n != 1 {
		t.Fatalf("failed logins must not create users, found %d", n)
	}
	after, err := repo.FindByID(ctx, registered.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if after.PasswordHash != before.PasswordHash || after.Role != before.Role || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("failed logins mutated the user: before %+v after %+v", before, after)
	}
}

func TestGoogleUsers(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	created, err := repo.FindOrCreateGoogleUser(ctx, "g-1", "Bo@Y.com", "Bo")
	if err != nil {
		t.Fatalf("FindOrCreateGoogleUser: %v", err)
	}
	if created.Email != "bo@y.com" || created.PasswordHash != "" {
		t.Fatalf("unexpected google user %+v", created)
	}
	if _, err := repo.Authenticate(ctx, "bo@y.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("password-less account must not authenticate, got %v", err)
	}

	again, err := repo.FindOrCreateGoogleUser(ctx, "g-1", "bo@y.com", "Bo")
	if err != nil || again.ID != created.ID {
		t.Fatalf("second sign-in should reuse the account: %+v, %v", again, err)
	}

	local, err := repo.Register(ctx, "Ana", "ana@x.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	linked, err := repo.FindOrCreateGoogleUser(ctx, "g-2", "ana@x.com", "Ana G")
	if err != nil || linked.ID != local.ID || linked.GoogleID == nil || *linked.GoogleID != "g-2" {
		t.Fatalf("google sign-in should link the existing account: %+v, %v", linked, err)
	}

	if _, err := repo.FindOrCreateGoogleUser(ctx, "g-3", "ana@x.com", "Someone"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("a second google account for the same email should be rejected, got %v", err)
	}
}

func TestPromoteToAdmin(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	user, err := repo.Register(ctx, "Ana", "ana@x.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := repo.PromoteToAdmin(ctx, "ANA@x.com"); err != nil {
		t.Fatalf("PromoteToAdmin: %v", err)
	}
	if err := repo.PromoteToAdmin(ctx, "ana@x.com"); err != nil {
		t.Fatalf("promoting twice should be fine: %v", err)
	}
	got, _ := repo.FindByID(ctx, user.ID)
	if got.Role != models.RoleAdmin {
		t.Fatalf("role = %q, want admin", got.Role)
	}
	if err := repo.PromoteToAdmin(ctx, "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown email: %v", err)
	}
}
