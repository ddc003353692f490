package web

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/lostfound/internal/config"
	"github.com/erazemk/lostfound/internal/objstore"
	"github.com/erazemk/lostfound/internal/qr"
)

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sql.DB
	Templates *Templates
	JWTSecret string
	Bucket    *objstore.Bucket
	Config    *config.Config

	// now is replaced in tests.
	now func() time.Time
}

func (s *Server) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// baseURL is the origin printed into QR codes.
func (s *Server) baseURL(r *http.Request) string {
	if s.Config.PublicBaseURL != "" {
		return s.Config.PublicBaseURL
	}
	return qr.RequestBaseURL(r)
}

// pageData builds the common page fields from the request context.
func (s *Server) pageData(r *http.Request, title string) PageData {
	return PageData{
		Title:      title,
		User:       GetWebClaims(r.Context()),
		Registrant: GetWebRegistrant(r.Context()),
	}
}
