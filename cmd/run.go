package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/egotutor/internal/app"
	"github.com/abhisek/egotutor/internal/audio"
	"github.com/abhisek/egotutor/internal/llm"
	"github.com/abhisek/egotutor/internal/profile"
	"github.com/abhisek/egotutor/internal/screens/classroom"
	"github.com/abhisek/egotutor/internal/store"
	"github.com/abhisek/egotutor/internal/tts"
	"github.com/abhisek/egotutor/internal/tutor"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	log := newLogger()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	provider, err := llm.NewProviderFromEnv(ctx, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "AI provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY (or OPENAI_API_KEY / ANTHROPIC_API_KEY) to chat with the tutor.")
		return err
	}

	opts := app.Options{
		Store:      st,
		Tutor:      tutor.NewService(provider),
		SpeakerFor: speakerFactory(cmd, log),
		Logger:     log,
	}

	return app.Run(opts)
}

// speakerFactory builds per-learner speech pipelines. Speech is
// optional: when the configured provider cannot synthesize audio the
// classroom simply runs silently.
func speakerFactory(cmd *cobra.Command, log *slog.Logger) func(g profile.Gender) classroom.Speaker {
	cfg, err := llm.ResolveConfig()
	if err != nil {
		return nil
	}

	player := audio.NewPlayer(tts.SampleRate)

	return func(g profile.Gender) classroom.Speaker {
		synth, err := tts.New(cmd.Context(), cfg, g)
		if err != nil {
			log.Warn("speech unavailable", "error", err)
			return nil
		}
		return tts.NewSpeaker(synth, player)
	}
}

// newLogger writes structured JSON logs to a file so the TUI stays
// clean. Logging is best effort: if the file cannot be opened the logs
// are discarded.
func newLogger() *slog.Logger {
	path := os.Getenv("EGOTUTOR_LOG")
	if path == "" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return slog.New(slog.NewJSONHandler(f, nil))
}
