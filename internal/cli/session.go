package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ledgerstore/internal/config"
	"github.com/roach88/ledgerstore/internal/entrystore"
	"github.com/roach88/ledgerstore/internal/identity"
	"github.com/roach88/ledgerstore/internal/ir"
	"github.com/roach88/ledgerstore/internal/store"
)

// Error codes reported by commands in addition to the entry store codes.
const (
	ErrCodeConfig        = "CONFIG_ERROR"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeNoDatabase    = "NO_DATABASE"
	ErrCodeInvalidRecord = "INVALID_RECORD"
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeGeneric       = "ERROR"
)

// openMode says whether a command may create a missing database.
type openMode int

const (
	// openExisting fails when the database file is absent.
	openExisting openMode = iota
	// openCreate creates the database on first use.
	openCreate
)

// session is an open database with its entry store and local agent.
type session struct {
	cfg       config.Config
	store     *store.Store
	entries   *entrystore.Store
	agent     *identity.Agent
	formatter *OutputFormatter
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Diagnostics go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadConfig reads the config file if one was given and applies flag
// overrides on top of it.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	return cfg, nil
}

// openSession loads config, configures logging, opens the database and
// resolves the local agent. Only openCreate may create the database file.
func openSession(opts *RootOptions, cmd *cobra.Command, mode openMode) (*session, error) {
	f := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	logLevel := cfg.SlogLevel()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	ctx := commandContext(cmd)

	slog.Debug("opening database", "path", cfg.Database)
	open := store.OpenExisting
	if mode == openCreate {
		open = store.Open
	}
	st, err := open(cfg.Database)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, f.fail(ExitCommandError, ErrCodeNoDatabase, "database not found", err)
	}
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeStorage, "failed to open database", err)
	}

	agent, err := identity.Resolve(ctx, st, cfg.AgentSeed)
	if err != nil {
		st.Close()
		return nil, f.fail(ExitCommandError, ErrCodeConfig, "failed to resolve agent", err)
	}

	es, err := entrystore.New(ctx, st, entrystore.Config{Identity: agent})
	if err != nil {
		st.Close()
		return nil, f.fail(ExitFailure, ErrCodeStorage, "failed to open entry store", err)
	}

	return &session{
		cfg:       cfg,
		store:     st,
		entries:   es,
		agent:     agent,
		formatter: f,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// fail reports err in the configured format and returns it as an ExitError.
func (f *OutputFormatter) fail(exitCode int, code, message string, err error) error {
	detail := message
	if err != nil {
		detail = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, detail, nil)
	return WrapExitError(exitCode, message, err)
}

// failOperation maps an entry store error onto an error code and exit code.
func (f *OutputFormatter) failOperation(message string, err error) error {
	var esErr *entrystore.Error
	if !errors.As(err, &esErr) {
		return f.fail(ExitFailure, ErrCodeStorage, message, err)
	}

	exitCode := ExitFailure
	switch esErr.Code {
	case entrystore.ErrCodeInvalidAddress, entrystore.ErrCodeEncoding, entrystore.ErrCodeInvalidStatus:
		exitCode = ExitCommandError
	}
	return f.fail(exitCode, string(esErr.Code), message, err)
}

// parseAddressArg validates a positional address argument.
func (f *OutputFormatter) parseAddressArg(arg string) (ir.Address, error) {
	addr, err := ir.ParseAddress(arg)
	if err != nil {
		return "", f.fail(ExitCommandError, string(entrystore.ErrCodeInvalidAddress), "invalid address", err)
	}
	return addr, nil
}

// parseRecordFlag decodes a --record JSON object.
func (f *OutputFormatter) parseRecordFlag(raw string) (ir.IRObject, error) {
	record, err := ir.ParseRecord([]byte(raw))
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeInvalidRecord, "invalid --record JSON", err)
	}
	return record, nil
}
