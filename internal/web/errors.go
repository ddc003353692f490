package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/store"
)

// userMessage turns an error into the text shown on a page. Validation
// errors are shown verbatim; storage failures get a hint about the likely
// cause.
func userMessage(action string, err error) string {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return action + "に失敗しました: 既に登録されています。"
	case errors.Is(err, store.ErrNotFound):
		return action + "に失敗しました: 対象が見つかりません。"
	case strings.Contains(lower, "readonly") || strings.Contains(lower, "read-only") ||
		strings.Contains(lower, "permission denied"):
		return action + "に失敗しました: 書き込み権限がありません。データベースと保存先の権限を確認してください。"
	case strings.Contains(lower, "database is locked") || strings.Contains(lower, "busy"):
		return action + "に失敗しました: データベースが混み合っています。しばらくしてから再度お試しください。"
	default:
		return action + "に失敗しました。"
	}
}

// notFound renders the not-found page.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "お探しのページは見つかりませんでした。"
	}
	s.Templates.RenderStatus(w, http.StatusNotFound, "not_found.html", &struct {
		PageData
		Message string
	}{
		PageData: s.pageData(r, "見つかりません"),
		Message:  message,
	})
}

// serverError logs err and renders a generic failure page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "path", r.URL.Path, "error", err)
	s.Templates.RenderStatus(w, http.StatusInternalServerError, "not_found.html", &struct {
		PageData
		Message string
	}{
		PageData: s.pageData(r, "エラー"),
		Message:  userMessage("読み込み", err),
	})
}
