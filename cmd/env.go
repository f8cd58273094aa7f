package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/shelfexam/internal/access"
	"github.com/abhisek/shelfexam/internal/config"
	"github.com/abhisek/shelfexam/internal/exam"
	"github.com/abhisek/shelfexam/internal/logging"
	"github.com/abhisek/shelfexam/internal/question"
	"github.com/abhisek/shelfexam/internal/review"
	"github.com/abhisek/shelfexam/internal/store"
)

// env holds everything a command needs. Close releases it.
type env struct {
	cfg     config.Config
	logger  zerolog.Logger
	store   *store.Store
	svc     *exam.Service
	closers []io.Closer
}

func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	return errors.Join(errs...)
}

// loadConfig parses the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("questions"); p != "" {
		cfg.QuestionGlob = p
	}
	if p, _ := cmd.Flags().GetString("roster"); p != "" {
		cfg.RosterPath = p
	}
	return cfg, nil
}

// openEnv loads config, opens the log and store, and assembles the exam
// service. interactive sends logs to the configured file instead of stderr.
func openEnv(cmd *cobra.Command, interactive bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg}

	if interactive {
		logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		e.logger = logger
		e.closers = append(e.closers, closer)
	} else {
		e.logger = logging.Console(cfg.LogLevel)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(store.DSN(dbPath))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st)

	pool, err := question.Loader{Pattern: cfg.QuestionGlob, ImageDir: cfg.ImagesDir}.Load()
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load questions: %w", err)
	}
	roster, err := access.LoadRoster(cfg.RosterPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load roster: %w", err)
	}

	var mailer review.Mailer
	if cfg.SMTP.Enabled() {
		mailer = review.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	e.svc = exam.New(exam.Options{
		Pool:                pool,
		Store:               st,
		Roster:              roster,
		Mailer:              mailer,
		SessionSize:         cfg.SessionSize,
		ExclusionWindow:     cfg.ExclusionWindow,
		LockDuration:        cfg.LockDuration,
		RecommendationDelay: cfg.RecommendationDelay,
		PasscodeValidity:    cfg.PasscodeValidity,
		Logger:              e.logger,
	})
	e.logger.Debug().Int("questions", pool.Len()).Str("db", dbPath).Msg("environment ready")
	return e, nil
}
