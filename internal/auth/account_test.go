package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

const testSecret = "test-secret"

func signupRequest(email string) SignupRequest {
	return SignupRequest{
		Name:            "田中",
		Email:           email,
		Password:        "secret1",
		PasswordConfirm: "secret1",
		Role:            model.RoleTeacher,
		SignupKey:       DefaultSignupSecret,
	}
}

func validationMessage(err error) string {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return ""
}

func TestSignUpChecksInOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Wrong key wins over every other problem.
	req := signupRequest("a@x.com")
	req.SignupKey = "0000"
	req.Password = "abc"
	req.PasswordConfirm = "xyz"
	if _, err := SignUp(ctx, database, DefaultSignupSecret, req); validationMessage(err) != MsgBadSignupKey {
		t.Errorf("expected bad key error, got %v", err)
	}

	// Mismatch is reported before length.
	req.SignupKey = " 8965 "
	if _, err := SignUp(ctx, database, DefaultSignupSecret, req); validationMessage(err) != MsgPasswordsDiffer {
		t.Errorf("expected mismatch error, got %v", err)
	}

	req.PasswordConfirm = "abc"
	if _, err := SignUp(ctx, database, DefaultSignupSecret, req); err == nil {
		t.Error("expected short password error")
	}

	acct, _ := store.GetAccountByEmail(ctx, database, "a@x.com")
	if acct != nil {
		t.Error("expected no account after failed signups")
	}
}

func TestSignUpThenLogin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := SignUp(ctx, database, DefaultSignupSecret, signupRequest("Tanaka@X.com")); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	token, acct, err := Login(ctx, database, testSecret, "tanaka@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if acct.Email != "tanaka@x.com" {
		t.Errorf("unexpected account email %q", acct.Email)
	}

	claims, reg, err := CheckSession(ctx, database, testSecret, token)
	if err != nil {
		t.Fatalf("CheckSession: %v", err)
	}
	if claims.AccountID != acct.ID || reg.Name != "田中" {
		t.Errorf("unexpected session: %+v %+v", claims, reg)
	}

	if _, err := SignUp(ctx, database, DefaultSignupSecret, signupRequest("tanaka@x.com")); validationMessage(err) != MsgAccountExists {
		t.Errorf("expected duplicate account error, got %v", err)
	}
}

func TestSignUpNameDefaultsToLocalPart(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	req := signupRequest("suzuki@x.com")
	req.Name = ""
	if _, err := SignUp(ctx, database, DefaultSignupSecret, req); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	reg, _ := store.GetRegistrantByEmail(ctx, database, "suzuki@x.com")
	if reg == nil || reg.Name != "suzuki" {
		t.Errorf("unexpected registrant: %+v", reg)
	}
}

func TestLoginChecksAllowListFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := HashPassword("secret1")
	store.CreateAccount(ctx, database, "orphan@x.com", hash)

	// Correct password, but not a registrant.
	if _, _, err := Login(ctx, database, testSecret, "orphan@x.com", "secret1"); !errors.Is(err, ErrNotRegistrant) {
		t.Errorf("expected ErrNotRegistrant, got %v", err)
	}

	store.CreateRegistrant(ctx, database, model.RegistrantInput{Name: "孤児", Email: "orphan@x.com", Role: model.RoleOther})
	if _, _, err := Login(ctx, database, testSecret, "orphan@x.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}

	// Registrant without an account.
	store.CreateRegistrant(ctx, database, model.RegistrantInput{Name: "未登録", Email: "new@x.com", Role: model.RoleOther})
	if _, _, err := Login(ctx, database, testSecret, "new@x.com", "secret1"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
}

func TestCheckSessionRequiresRegistrant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	SignUp(ctx, database, DefaultSignupSecret, signupRequest("t@x.com"))
	token, _, err := Login(ctx, database, testSecret, "t@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	reg, _ := store.GetRegistrantByEmail(ctx, database, "t@x.com")
	store.DeleteRegistrant(ctx, database, reg.ID)

	if _, _, err := CheckSession(ctx, database, testSecret, token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expected ErrSessionInvalid after registrant removal, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	SignUp(ctx, database, DefaultSignupSecret, signupRequest("t@x.com"))
	token, _, _ := Login(ctx, database, testSecret, "t@x.com", "secret1")

	if err := Logout(ctx, database, testSecret, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, _, err := CheckSession(ctx, database, testSecret, token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expected revoked token to be rejected, got %v", err)
	}
	if _, _, err := CheckSession(ctx, database, testSecret, ""); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expected empty token to be rejected, got %v", err)
	}
}
