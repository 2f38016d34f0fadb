package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matt-steen/event-planner/pkg/config"
	"github.com/matt-steen/event-planner/pkg/controller"
	"github.com/matt-steen/event-planner/pkg/db"
	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// session holds what every command needs once the config is loaded.
type session struct {
	cfgFile  string
	cfg      config.Config
	logFile  *os.File
	database *db.Database
	planner  *planner.Planner
}

func newRootCmd() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:          "event-planner",
		Short:        "Plan the guests, tables and todo list of an event",
		Long:         `A terminal user interface to track invitations, seat guests at tables and a U-shaped table, and keep a todo list for the event.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context, p *planner.Planner) error {
				c, err := controller.NewController(ctx, p, s.cfg)
				if err != nil {
					return err
				}

				return c.Go()
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&s.cfgFile, "config", "c", "",
		"config file (default: ~/.config/event-planner/config.yaml)")

	rootCmd.AddCommand(s.exportCmd(), s.importCmd(), s.statsCmd())

	return rootCmd
}

// run opens the config, the log, the database and the planner around fn.
func (s *session) run(cmd *cobra.Command, fn func(ctx context.Context, p *planner.Planner) error) error {
	ctx := cmd.Context()

	if err := s.open(ctx); err != nil {
		return err
	}
	defer s.close()

	return fn(ctx, s.planner)
}

func (s *session) open(ctx context.Context) error {
	cfg, err := config.Load(viper.New(), s.cfgFile)
	if err != nil {
		return err
	}

	s.cfg = cfg

	if err := s.initLogger(); err != nil {
		return err
	}

	log.Info().Str("db", cfg.DBPath).Msg("starting application...")

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	s.database, err = db.NewDatabase(ctx, cfg.DBPath)
	if err != nil {
		return err
	}

	s.planner, err = planner.New(ctx, s.database, planner.Options{UTable: cfg.UTableLayout()})
	if err != nil {
		return err
	}

	return nil
}

func (s *session) initLogger() error {
	level, err := s.cfg.Level()
	if err != nil {
		return err
	}

	filePerms := 0o666

	if err := os.MkdirAll(filepath.Dir(s.cfg.LogPath), 0o750); err != nil {
		return fmt.Errorf("error creating log directory: %w", err)
	}

	s.logFile, err = os.OpenFile(s.cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}

	zerolog.SetGlobalLevel(level)

	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: s.logFile, TimeFormat: "2006-01-02_15:04:05",
	})

	return nil
}

func (s *session) close() {
	if s.database != nil {
		if err := s.database.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing database")
		}
	}

	log.Info().Msg("stopping application")

	if s.logFile != nil {
		s.logFile.Close()
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
