package main

import (
	"context"
	"fmt"
	"os"

	"github.com/devlingo/devlingo/internal/auth"
	"github.com/devlingo/devlingo/internal/cli"
	"github.com/devlingo/devlingo/internal/config"
	"github.com/devlingo/devlingo/internal/db"
	"github.com/devlingo/devlingo/internal/logger"
	"github.com/devlingo/devlingo/internal/repository"
	"github.com/devlingo/devlingo/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// --db wins over config and environment; cobra parses it again later.
	if path := cli.DBPathFromArgs(os.Args[1:]); path != "" {
		cfg.Database.Path = path
	}

	log, err := logger.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Sync()

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	users := repository.NewSQLiteUserRepo(database)
	units := repository.NewSQLiteUnitRepo(database)
	lessons := repository.NewSQLiteLessonRepo(database)
	progress := repository.NewSQLiteProgressRepo(database)
	attempts := repository.NewSQLiteAttemptRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	authOpts := []auth.Option{auth.WithSessionTTL(cfg.Auth.SessionTTL)}
	if cfg.Auth.Secret != "" {
		authOpts = append(authOpts, auth.WithSecret(cfg.Auth.Secret))
	}
	ac := auth.New(users, repository.NewSQLiteAuthSessionRepo(database), repository.NewSQLiteSettingsRepo(database),
		progress, log, authOpts...)
	if err := ac.Init(context.Background()); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	defer ac.Close()

	svcLog := log.Named("service")
	observer := service.NewLogUseCaseObserver(svcLog)

	app := &cli.App{
		Auth:     ac,
		Units:    service.NewUnitService(units, progress, ac, svcLog, observer),
		Lessons:  service.NewLessonService(lessons, progress, ac, svcLog, observer),
		Progress: service.NewProgressService(users, lessons, progress, attempts, ac, svcLog, observer),
		Import:   service.NewImportService(uow, svcLog, observer),
		Log:      log,
		Lives:    cfg.Quiz.Lives,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
