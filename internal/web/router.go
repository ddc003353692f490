package web

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/lostfound/internal/config"
	"github.com/erazemk/lostfound/internal/objstore"
	webembed "github.com/erazemk/lostfound/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string, bucket *objstore.Bucket, cfg *config.Config) (http.Handler, error) {
	templates, err := LoadTemplates(cfg.Location())
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
		Bucket:    bucket,
		Config:    cfg,
	}
	return s.routes(), nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	session := SessionMiddleware(s.JWTSecret, s.DB)
	admin := func(h http.HandlerFunc) http.Handler { return session(h) }

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET "+objstore.PublicPrefix+s.Bucket.Name+"/{name}", s.StorageObject)

	// Public pages.
	mux.HandleFunc("GET /{$}", s.BrowsePage)
	mux.HandleFunc("POST /viewer", s.ViewerSubmit)
	mux.HandleFunc("GET /item/{id}", s.ItemDetailPage)
	mux.HandleFunc("GET /return/{token}", s.ReturnPage)
	mux.HandleFunc("POST /return/{token}", s.ReturnSubmit)
	mux.HandleFunc("GET /qr/{token}", s.QRCode)

	// Sign-in.
	mux.HandleFunc("GET /admin/login", s.LoginPage)
	mux.HandleFunc("POST /admin/login", s.LoginSubmit)
	mux.HandleFunc("GET /admin/signup", s.SignupPage)
	mux.HandleFunc("POST /admin/signup", s.SignupSubmit)
	mux.HandleFunc("POST /admin/logout", s.Logout)

	// Admin pages.
	mux.Handle("GET /admin/{$}", admin(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
	}))
	mux.Handle("GET /admin/dashboard", admin(s.Dashboard))
	mux.Handle("POST /admin/items/{id}", admin(s.ItemUpdateSubmit))
	mux.Handle("POST /admin/items/{id}/return", admin(s.ItemReturnSubmit))
	mux.Handle("POST /admin/items/{id}/delete", admin(s.ItemDeleteSubmit))
	mux.Handle("GET /admin/items.csv", admin(s.ItemsCSV))
	mux.Handle("GET /admin/register", admin(s.RegisterPage))
	mux.Handle("POST /admin/register", admin(s.RegisterSubmit))
	mux.Handle("GET /admin/register/{token}", admin(s.RegisterDonePage))

	mux.Handle("GET /admin/registrants", admin(s.RegistrantsPage))
	mux.Handle("POST /admin/registrants", admin(s.RegistrantCreateSubmit))
	mux.Handle("POST /admin/registrants/bulk", admin(s.RegistrantsBulkSubmit))
	mux.Handle("POST /admin/registrants/{id}", admin(s.RegistrantUpdateSubmit))
	mux.Handle("POST /admin/registrants/{id}/active", admin(s.RegistrantActiveSubmit))
	mux.Handle("POST /admin/registrants/{id}/delete", admin(s.RegistrantDeleteSubmit))

	// Everything else gets the styled not-found page.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.notFound(w, r, "")
	})

	return mux
}
