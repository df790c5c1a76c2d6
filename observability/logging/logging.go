package logging

import (
	"log"
	"log/slog"
	"os"
	"strings"
)

const levelEnv = "AGORA_LOG_LEVEL"

// Setup installs the process-wide structured logger and returns it. Dev
// environments log human-readable text; everything else emits JSON lines
// tagged with the service name and environment. The minimum level can be
// overridden through AGORA_LOG_LEVEL.
func Setup(service, env string) *slog.Logger {
	env = strings.TrimSpace(env)
	opts := &slog.HandlerOptions{Level: levelFromEnv()}

	var handler slog.Handler
	if env == "" || env == "dev" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(slog.String("service", strings.TrimSpace(service)))
	if env != "" {
		logger = logger.With(slog.String("env", env))
	}
	slog.SetDefault(logger)

	// Route the standard library logger through the same handler so
	// dependencies that still use log.Printf stay structured.
	bridge := slog.NewLogLogger(handler, slog.LevelInfo)
	bridge.SetFlags(0)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(levelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
