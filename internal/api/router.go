package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/lostfound/internal/config"
	"github.com/erazemk/lostfound/internal/objstore"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, bucket *objstore.Bucket, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, SignupSecret: cfg.SignupSecret}
	itemsHandler := &ItemsHandler{DB: db, Bucket: bucket, Location: cfg.Location()}
	registrantsHandler := &RegistrantsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public.
	mux.HandleFunc("POST /api/verify-signup-key", authHandler.VerifySignupKey)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("GET /api/return/{token}", itemsHandler.GetByToken)
	mux.HandleFunc("POST /api/return/{token}", itemsHandler.ReturnByToken)

	// Registrants only.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/export.csv", authMW(http.HandlerFunc(itemsHandler.Export)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("POST /api/items/{id}/return", authMW(http.HandlerFunc(itemsHandler.Return)))

	mux.Handle("GET /api/registrants", authMW(http.HandlerFunc(registrantsHandler.List)))
	mux.Handle("POST /api/registrants", authMW(http.HandlerFunc(registrantsHandler.Create)))
	mux.Handle("POST /api/registrants/bulk", authMW(http.HandlerFunc(registrantsHandler.Bulk)))
	mux.Handle("PUT /api/registrants/{id}", authMW(http.HandlerFunc(registrantsHandler.Update)))
	mux.Handle("DELETE /api/registrants/{id}", authMW(http.HandlerFunc(registrantsHandler.Delete)))

	return CORSMiddleware(cfg.CORSOrigins)(mux)
}
