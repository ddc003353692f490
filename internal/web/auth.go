package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
)

type loginPage struct {
	PageData
	Email string
}

// LoginPage handles GET /admin/login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := &loginPage{PageData: s.pageData(r, "管理者ログイン")}
	if r.URL.Query().Get("signup") == "1" {
		data.Success = "アカウントを作成しました。ログインしてください。"
	}
	s.Templates.Render(w, "login.html", data)
}

// LoginSubmit handles POST /admin/login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	fail := func(msg string) {
		s.Templates.Render(w, "login.html", &loginPage{
			PageData: PageData{Title: "管理者ログイン", Error: msg},
			Email:    email,
		})
	}

	if email == "" || password == "" {
		fail("メールアドレスとパスワードを入力してください。")
		return
	}

	token, acct, err := auth.Login(r.Context(), s.DB, s.JWTSecret, email, password)
	switch {
	case errors.Is(err, auth.ErrNotRegistrant):
		slog.Warn("login rejected, not a registrant", "email", model.NormalizeEmail(email))
		fail(auth.MsgNotRegistrant)
		return
	case errors.Is(err, auth.ErrBadCredentials):
		slog.Warn("login failed", "email", model.NormalizeEmail(email))
		fail(auth.MsgBadCredentials)
		return
	case err != nil:
		slog.Error("login error", "error", err)
		fail(userMessage("ログイン", err))
		return
	}

	setAuthCookie(w, token)
	slog.Info("user logged in", "email", acct.Email)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

type signupPage struct {
	PageData
	Form auth.SignupRequest
}

// SignupPage handles GET /admin/signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signup.html", &signupPage{
		PageData: s.pageData(r, "管理者アカウント作成"),
		Form:     auth.SignupRequest{Role: model.RoleTeacher},
	})
}

// SignupSubmit handles POST /admin/signup.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	req := auth.SignupRequest{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
		Role:            r.FormValue("role"),
		SignupKey:       r.FormValue("signup_key"),
	}

	if _, err := auth.SignUp(r.Context(), s.DB, s.Config.SignupSecret, req); err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			slog.Error("signup failed", "error", err)
		}
		form := req
		form.Password, form.PasswordConfirm, form.SignupKey = "", "", ""
		s.Templates.Render(w, "signup.html", &signupPage{
			PageData: PageData{Title: "管理者アカウント作成", Error: userMessage("アカウント作成", err)},
			Form:     form,
		})
		return
	}

	slog.Info("account created", "email", model.NormalizeEmail(req.Email))
	http.Redirect(w, r, "/admin/login?signup=1", http.StatusSeeOther)
}

// Logout handles POST /admin/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		if err := auth.Logout(r.Context(), s.DB, s.JWTSecret, cookie.Value); err != nil {
			slog.Error("failed to revoke token", "error", err)
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
