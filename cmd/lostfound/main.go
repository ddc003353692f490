package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/erazemk/lostfound/internal/api"
	"github.com/erazemk/lostfound/internal/config"
	"github.com/erazemk/lostfound/internal/db"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/objstore"
	"github.com/erazemk/lostfound/internal/store"
	"github.com/erazemk/lostfound/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Outside development the output is JSON.
func setupLogger(logPath string, jsonOutput bool) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	newHandler := func(w io.Writer) slog.Handler {
		if jsonOutput {
			return slog.NewJSONHandler(w, opts)
		}
		return slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(&levelRouter{
		stdout: newHandler(stdoutW),
		stderr: newHandler(stderrW),
	}))
	return cleanup, nil
}

func main() {
	fs := flag.NewFlagSet("lostfound", flag.ContinueOnError)

	var configPath, envFile, addr, dbPath, storageDir, logPath, seed string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")
	fs.StringVar(&envFile, "env", ".env", "")
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")
	fs.StringVar(&storageDir, "storage", "", "")
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")
	fs.StringVar(&seed, "registrant", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: lostfound [flags]

Flags:
  -c, -config <path>      YAML config file (default: none)
  -env <path>             dotenv file, may be missing (default: .env)
  -a, -addr <host:port>   listen address (default: :8080)
  -d, -db <path>          SQLite database path (default: lostfound.sqlite3)
  -storage <dir>          photo storage directory (default: storage)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -registrant <name,email>
                          add a registrant on startup if the email is new
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over every other source.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr", "a":
			cfg.Addr = addr
		case "db", "d":
			cfg.DBPath = dbPath
		case "storage":
			cfg.StorageDir = storageDir
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(logPath, !cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", cfg.DBPath)

	if seed != "" {
		if err := seedRegistrant(context.Background(), database, seed); err != nil {
			slog.Error("failed to add registrant", "error", err)
			os.Exit(1)
		}
	}

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	bucket, err := objstore.New(cfg.StorageDir, cfg.Bucket, cfg.PublicBaseURL)
	if err != nil {
		slog.Error("failed to open photo storage", "error", err)
		os.Exit(1)
	}

	slog.Info("storage ready", "dir", cfg.StorageDir, "bucket", bucket.Name)

	apiRouter := api.NewRouter(database, jwtSecret, bucket, cfg)
	webRouter, err := web.NewRouter(database, jwtSecret, bucket, cfg)
	if err != nil {
		slog.Error("failed to set up web router", "error", err)
		os.Exit(1)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// seedRegistrant adds the "name,email" registrant unless the email is
// already on the list, so that the first administrator can sign up.
func seedRegistrant(ctx context.Context, database *sql.DB, entry string) error {
	name, email, _ := strings.Cut(entry, ",")
	in := model.RegistrantInput{Name: name, Email: email, IsActive: true}
	in.Normalize()
	if in.Email == "" {
		return errors.New("registrant email is required")
	}
	if err := in.Validate(); err != nil {
		return err
	}

	existing, err := store.GetRegistrantByEmail(ctx, database, in.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if _, err := store.CreateRegistrant(ctx, database, in); err != nil {
		return err
	}
	slog.Info("registrant added", "name", in.Name, "email", in.Email)
	return nil
}
