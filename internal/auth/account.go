package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

var (
	// ErrNotRegistrant means the email is not on the registrant allow-list.
	ErrNotRegistrant = errors.New("email is not a registrant")
	// ErrBadCredentials means the email or password is wrong.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrSessionInvalid covers missing, expired, revoked and unauthorised tokens.
	ErrSessionInvalid = errors.New("invalid session")
)

// Messages shown for login failures.
const (
	MsgNotRegistrant   = "登録されていないメールアドレスです。管理者に登録を依頼してください。"
	MsgBadCredentials  = "メールアドレスまたはパスワードが正しくありません。"
	MsgBadSignupKey    = "サインアップキーが正しくありません。"
	MsgPasswordsDiffer = "パスワードが一致しません。"
	MsgAccountExists   = "このメールアドレスは既に登録されています。"
)

// Login checks the allow-list first and the password second, and returns a
// fresh session token.
func Login(ctx context.Context, db *sql.DB, secret, email, password string) (string, *model.Account, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, ErrBadCredentials
	}

	reg, err := store.GetRegistrantByEmail(ctx, db, email)
	if err != nil {
		return "", nil, err
	}
	if reg == nil {
		return "", nil, ErrNotRegistrant
	}

	acct, err := store.GetAccountByEmail(ctx, db, email)
	if err != nil {
		return "", nil, err
	}
	if acct == nil || !CheckPassword(acct.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}

	token, err := GenerateToken(secret, acct.ID, acct.Email)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

// SignupRequest is the signup form.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Role            string `json:"role"`
	SignupKey       string `json:"signup_key"`
}

// SignUp creates an account after checking, in order, the signup key, the
// password confirmation and the password policy. A registrant row is
// created for the email unless one already exists.
func SignUp(ctx context.Context, db *sql.DB, signupSecret string, req SignupRequest) (int64, error) {
	if !VerifySignupKey(req.SignupKey, signupSecret) {
		return 0, &model.ValidationError{Field: "signup_key", Message: MsgBadSignupKey}
	}
	if req.Password != req.PasswordConfirm {
		return 0, &model.ValidationError{Field: "password_confirm", Message: MsgPasswordsDiffer}
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		return 0, err
	}

	reg := model.RegistrantInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Role:     req.Role,
		IsActive: true,
	}
	reg.Normalize()
	if reg.Email == "" {
		return 0, &model.ValidationError{Field: "email", Message: "メールアドレスを入力してください。"}
	}
	if reg.Name == "" {
		// Only used when no registrant row exists yet.
		if at := strings.Index(reg.Email, "@"); at > 0 {
			reg.Name = reg.Email[:at]
		}
	}
	if err := reg.Validate(); err != nil {
		return 0, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	id, err := store.SignUp(ctx, db, hash, reg)
	if errors.Is(err, store.ErrDuplicate) {
		return 0, &model.ValidationError{Field: "email", Message: MsgAccountExists}
	}
	return id, err
}

// CheckSession validates a session token, rejects revoked tokens and
// requires the token's email to still be on the registrant allow-list.
func CheckSession(ctx context.Context, db *sql.DB, secret, token string) (*Claims, *model.Registrant, error) {
	if token == "" {
		return nil, nil, ErrSessionInvalid
	}
	claims, err := ValidateToken(secret, token)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}

	revoked, err := store.IsTokenRevoked(ctx, db, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, ErrSessionInvalid
	}

	reg, err := store.GetRegistrantByEmail(ctx, db, claims.Email)
	if err != nil {
		return nil, nil, err
	}
	if reg == nil {
		return nil, nil, fmt.Errorf("%w: %s is not a registrant", ErrSessionInvalid, claims.Email)
	}
	return claims, reg, nil
}

// Logout revokes the session token so it cannot be reused before expiry.
func Logout(ctx context.Context, db *sql.DB, secret, token string) error {
	claims, err := ValidateToken(secret, token)
	if err != nil {
		// Nothing to revoke.
		return nil
	}
	expires := time.Now().Add(TokenExpiry)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return store.RevokeToken(ctx, db, claims.ID, expires)
}
