package logging

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Configures the default slog logger. Log records always go to stderr so that
// generated output written to stdout stays clean; if logFile is not empty the
// records are also duplicated to that file.
func Init(level slog.Level, logFile string) error {
	options := &slog.HandlerOptions{
		Level: level,
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, options),
	}

	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return err
		}

		handlers = append(handlers, slog.NewJSONHandler(f, options))
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
	return nil
}
