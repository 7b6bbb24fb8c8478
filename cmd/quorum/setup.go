package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/quorum/internal/config"
	"github.com/sandevgo/quorum/internal/core"
	"github.com/sandevgo/quorum/internal/providers/remote"
	"github.com/sandevgo/quorum/internal/service/answer"
	"github.com/sandevgo/quorum/internal/service/command"
	"github.com/sandevgo/quorum/internal/service/history"
	"github.com/sandevgo/quorum/internal/service/question"
	"github.com/sandevgo/quorum/internal/service/rating"
	"github.com/sandevgo/quorum/internal/storage/file"
	"github.com/sandevgo/quorum/internal/storage/memory"
	"github.com/sandevgo/quorum/internal/storage/sqlite"
	"github.com/sandevgo/quorum/internal/transport/cli"
	"github.com/sandevgo/quorum/pkg/log"
	"github.com/spf13/cobra"
)

// app holds the wired services shared by every subcommand.
type app struct {
	cfg       *config.AppConfig
	prefs     *config.PreferencesFile
	ledger    *history.Ledger
	ratings   *rating.Store
	selection *answer.Selection
	questions *question.Service
	closers   []func() error
}

func newApp(ctx context.Context) (*app, error) {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, err
	}

	// 1. Configuration
	cfg, err := config.ParseAppConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	// 2. Storage
	kv, closeKV, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closeKV != nil {
		a.closers = append(a.closers, closeKV)
	}

	// 3. Remote collaborator
	client := remote.NewClient(cfg)

	// 4. Ratings and history, loaded once per process
	a.ratings = rating.NewStore(kv)
	if err := a.ratings.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("starting with empty ratings")
	}
	a.ledger = history.NewLedger(kv, client)
	if err := a.ledger.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("starting with empty history")
	}

	// 5. Answer selection
	a.prefs = config.NewPreferencesFile(cfg.GetPreferencesPath())
	selection, err := initSelection(a.prefs, a.ratings)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.selection = selection

	// 6. Question flow
	a.questions = question.NewService(client, answer.NewNormalizer(cfg.ProviderLabels, nil), a.ledger, cfg.GetUserID())

	return a, nil
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (core.KVStore, func() error, error) {
	switch cfg.Storage {
	case config.StorageFile:
		kv, err := file.NewKV(cfg.GetStoragePath())
		return kv, nil, err
	case config.StorageMemory:
		log.FromCtx(ctx).Warn().Msg("memory storage: ratings and history are lost on exit")
		return memory.NewKV(), nil, nil
	}

	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewKVRepo(db), db.Close, nil
}

func initSelection(prefs *config.PreferencesFile, ratings core.RatingLookup) (*answer.Selection, error) {
	p, err := prefs.Load()
	if err != nil {
		return nil, err
	}

	fe, err := answer.NewFilterEngine(p.Filter)
	if err != nil {
		return nil, err
	}
	rec := answer.NewRecommender(p.Recommendation, ratings)

	return answer.NewSelection(fe, rec, func(f core.FilterConfig, r core.RecommendationConfig) error {
		return prefs.Save(config.Preferences{Filter: f, Recommendation: r})
	}), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

func (a *app) router() *command.Router {
	return command.New(command.NewCommands(command.Deps{
		Ledger:       a.ledger,
		Ratings:      a.ratings,
		Selection:    a.selection,
		Questions:    a.questions,
		UserID:       a.cfg.GetUserID(),
		HistoryLimit: a.cfg.GetHistoryLimit(),
	}))
}

func (a *app) printer(out io.Writer) *cli.Printer {
	return cli.NewPrinter(out, a.selection, a.ratings)
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// runWithApp sets up logging and the services, then runs fn.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, flushLog := setupLogger(cmd.Context())
	defer flushLog()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to close storage")
		}
	}()

	return fn(ctx, a)
}
