// Command createadmin provisions a superuser account from the terminal.
// Superuser creation is deliberately not an HTTP endpoint — whoever can run
// this binary against the database file already owns the deployment.
//
// Usage:
//
//	createadmin -email admin@example.com -password s3cret [-name "Site Admin"]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/auth"
	sqliteRepo "github.com/sakif/recipebox/internal/repository/sqlite"
	"github.com/sakif/recipebox/internal/service"
)

func main() {
	email := flag.String("email", "", "email address for the new superuser (required)")
	password := flag.String("password", "", "password for the new superuser (required)")
	name := flag.String("name", "", "display name (optional)")
	dbPath := flag.String("db", "", "path to the SQLite database (default: $DB_PATH or data/recipebox.db)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env file", slog.String("error", err.Error()))
	}

	// The flag wins over the environment; neither needs the full server
	// config — this tool only touches the database.
	if *dbPath == "" {
		*dbPath = os.Getenv("DB_PATH")
	}
	if *dbPath == "" {
		*dbPath = "data/recipebox.db"
	}

	db, err := sqliteRepo.New(*dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "opening database:", err)
		os.Exit(1)
	}
	defer db.Close()

	users := service.NewUserService(db, auth.NewPasswordService(), logger)

	user, err := users.RegisterSuperuser(context.Background(), *email, *password, *name)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			fmt.Fprintln(os.Stderr, "an account with that email already exists")
		case errors.Is(err, apperror.ErrValidation):
			fmt.Fprintln(os.Stderr, err)
		default:
			fmt.Fprintln(os.Stderr, "creating superuser:", err)
		}
		os.Exit(1)
	}

	fmt.Printf("superuser created: %s (%s)\n", user.Email, user.ID)
}
