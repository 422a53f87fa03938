package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/tunedb/internal/catalog"
	"github.com/llehouerou/tunedb/internal/config"
	"github.com/llehouerou/tunedb/internal/db"
	"github.com/llehouerou/tunedb/internal/errmsg"
	"github.com/llehouerou/tunedb/internal/report"
)

// cmdError carries the failed operation so the message reads the same
// across commands.
type cmdError struct {
	op      errmsg.Op
	context string
	err     error
}

func (e *cmdError) Error() string { return errmsg.FormatWith(e.op, e.context, e.err) }

func (e *cmdError) Unwrap() error { return e.err }

// session is the state a command runs with: an open database, the catalog
// over it and the printer for results.
type session struct {
	db  *sql.DB
	cat *catalog.Catalog
	out *report.Printer
}

func (s *session) Close() error {
	return s.db.Close()
}

func openSession(cmd *cobra.Command) (*session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	path, err := resolveDBPath()
	if err != nil {
		return nil, &cmdError{op: errmsg.OpOpenDatabase, err: err}
	}

	mode := hitMode
	if mode == "" {
		mode = cfg.Popularity.TrackHits
	}
	hm, err := catalog.ParseHitMode(mode)
	if err != nil {
		return nil, &cmdError{op: errmsg.OpLoadConfig, err: err}
	}

	conn, err := db.Open(path)
	if err != nil {
		return nil, &cmdError{op: errmsg.OpOpenDatabase, context: path, err: err}
	}
	logger.Debug("database opened", zap.String("path", path), zap.Stringer("hits", hm))

	return &session{
		db:  conn,
		cat: catalog.New(conn, catalog.WithLogger(logger), catalog.WithHitMode(hm)),
		out: report.New(cmd.OutOrStdout(), cfg.GetFormat()),
	}, nil
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg.Database != "" {
		return cfg.Database, nil
	}
	return db.DefaultPath()
}

// withSession opens a session, runs fn with the command context and
// closes the database.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
