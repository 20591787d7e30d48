package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist-go/internal/config"
	"github.com/nibzard/todolist-go/internal/hooks"
	"github.com/nibzard/todolist-go/internal/logging"
	"github.com/nibzard/todolist-go/internal/storage"
	"github.com/nibzard/todolist-go/internal/todo"
)

// sessionOptions controls which listeners a session attaches.
type sessionOptions struct {
	// record enables the action journal when the config allows it.
	record bool
	// hookOutput receives hook stdout and stderr. Nil uses the process streams.
	hookOutput io.Writer
}

// session bundles a store with the resources it was built from.
type session struct {
	cfg     *config.Config
	logger  *log.Logger
	kv      storage.KV
	repo    *todo.Repository
	store   *todo.Store
	journal *logging.Journal
}

// openSession opens storage, loads the list and wires the journal and hook listeners.
func openSession(ctx context.Context, cfg *config.Config, opts sessionOptions) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewConsoleFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	repo, kv, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: logger, kv: kv, repo: repo}
	storeOpts := []todo.StoreOption{todo.WithLogger(logger)}

	if opts.record && cfg.Journal {
		journal, err := logging.OpenJournal(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			logger.Warn("Journal disabled", "err", err)
		} else {
			s.journal = journal
			logger.Debug("Recording journal", "path", journal.LogPath)
			storeOpts = append(storeOpts, todo.WithListener(journal.Listener()))
		}
	}

	if cfg.HookCommand != "" {
		hookOpts := hooks.Options{
			Command: cfg.HookCommand,
			WorkDir: cfg.ProjectRoot,
			Stdout:  opts.hookOutput,
			Stderr:  opts.hookOutput,
		}
		storeOpts = append(storeOpts, todo.WithListener(hooks.Listener(hookOpts, logger)))
	}

	s.store = todo.NewStore(ctx, repo, storeOpts...)
	return s, nil
}

// openRepository opens the configured backend and wraps it in a repository.
func openRepository(ctx context.Context, cfg *config.Config) (*todo.Repository, storage.KV, error) {
	codec, err := todo.CodecFor(cfg.Encoding)
	if err != nil {
		return nil, nil, err
	}
	validator, err := todo.NewValidator(cfg.SchemaFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading schema: %w", err)
	}
	kv, err := storage.Open(ctx, storage.Options{
		Backend: cfg.Backend,
		Dir:     cfg.DataDir,
		Ext:     codec.Ext(),
		DSN:     cfg.DSN,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}
	return &todo.Repository{
		KV:        kv,
		Key:       cfg.StorageKey,
		Codec:     codec,
		Validator: validator,
	}, kv, nil
}

// Close flushes the journal and releases storage. A journal write failure is
// logged and returned.
func (s *session) Close() error {
	var firstErr error
	if s.journal != nil {
		if err := s.journal.Err(); err != nil {
			s.logger.Warn("Journal incomplete", "path", s.journal.LogPath, "err", err)
			firstErr = fmt.Errorf("writing journal: %w", err)
		}
		if err := s.journal.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.kv != nil {
		if err := s.kv.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
