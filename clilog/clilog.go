package clilog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/vk/clitoolgo/signature"
)

// Manager owns a tool's logging sinks. The zero value is not usable; create
// one with NewManager. A nil console writer means os.Stderr.
type Manager struct {
	mu       sync.Mutex
	console  io.Writer
	attached bool
	logger   *slog.Logger
	files    []*os.File
}

// NewManager creates a Manager whose console sink writes to w, or to
// os.Stderr when w is nil.
func NewManager(w io.Writer) *Manager {
	if w == nil {
		w = os.Stderr
	}
	return &Manager{console: w}
}

// defaultManager is the process-wide manager used by tools that are not
// given their own.
var defaultManager = NewManager(nil)

// Default returns the process-default Manager.
func Default() *Manager {
	return defaultManager
}

// Signature declares the Manager's command-line-facing parameters, so its
// flags ride every tool's command line and its arguments are reconstructed
// from the same parsed map as the target function's.
func (m *Manager) Signature() *signature.Signature {
	return signature.New().
		Optional("logfile", "").
		Optional("logwrite", "").
		Optional("loglevel", "info").
		WithConverter("loglevel", levelText)
}

// levelText validates a severity token at parse time, so a bad level is a
// usage error rather than a failure after parsing. The raw text passes
// through; Configure resolves it to a slog level.
func levelText(text string) (any, error) {
	if _, err := parseLevel(text); err != nil {
		return nil, err
	}
	return text, nil
}

// Help maps the Manager's parameter names to their flag descriptions.
func (m *Manager) Help() map[string]string {
	return map[string]string{
		"logfile":  "log file path; the file is opened in append mode",
		"logwrite": "log file path; the file is opened in write mode",
		"loglevel": "minimum severity: debug, info, warn, or error",
	}
}

// Configure attaches the logging sinks: always the console sink, plus a file
// sink per non-empty path. It is idempotent; once sinks are attached,
// further calls are no-ops until Shutdown detaches them.
func (m *Manager) Configure(logfile, logwrite, loglevel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attached {
		return nil
	}

	level, err := parseLevel(loglevel)
	if err != nil {
		return err
	}

	handlers := []slog.Handler{newSinkHandler(m.console, level, false)}

	if logfile != "" {
		f, err := os.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file '%s': %w", logfile, err)
		}
		m.files = append(m.files, f)
		handlers = append(handlers, newSinkHandler(f, level, true))
	}

	if logwrite != "" {
		f, err := os.OpenFile(logwrite, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file '%s': %w", logwrite, err)
		}
		m.files = append(m.files, f)
		handlers = append(handlers, newSinkHandler(f, level, true))
	}

	m.logger = slog.New(&fanoutHandler{handlers: handlers})
	m.attached = true
	return nil
}

// Logger returns the manager's logger. Before Configure has attached any
// sinks it returns a console-only logger at the default level, so callers
// can always log.
func (m *Manager) Logger() *slog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.logger == nil {
		return slog.New(newSinkHandler(m.console, slog.LevelInfo, false))
	}
	return m.logger
}

// Shutdown flushes and closes the file sinks and detaches the manager, so a
// later Configure attaches fresh sinks instead of logging into closed files.
// It is safe to call when nothing was attached, and safe to call more than
// once.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, f := range m.files {
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.files = nil
	m.logger = nil
	m.attached = false
	return firstErr
}

// parseLevel maps a severity name to its slog level. Numeric severities from
// the classic 10/20/30/40 scale are accepted as aliases.
func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug", "10":
		return slog.LevelDebug, nil
	case "info", "20", "":
		return slog.LevelInfo, nil
	case "warn", "warning", "30":
		return slog.LevelWarn, nil
	case "error", "40":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid loglevel '%s': must be 'debug', 'info', 'warn', or 'error'", name)
}
