package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeanpaul/notewise/internal/assistant"
	"github.com/jeanpaul/notewise/internal/config"
	"github.com/jeanpaul/notewise/internal/llm"
	"github.com/jeanpaul/notewise/internal/notes"
	"github.com/jeanpaul/notewise/internal/tui"
)

var (
	cfgFile      string
	notesDirFlag string
	remoteFlag   bool
	apiKeyFlag   string
	modelFlag    string
	verbose      bool

	logger  = zap.NewNop()
	cfg     *config.Config
	cfgUsed string
)

var rootCmd = &cobra.Command{
	Use:   "notewise",
	Short: "A personal knowledge-base assistant backed by a local or remote LLM",
	Long: `notewise files new notes into your notes folder, answers questions about
them and summarizes recurring themes. It talks to a local model server
(Ollama) by default, or to an OpenAI-compatible API with --remote.

Run without a subcommand to start the interactive shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cmd.Name() == "version" {
			return nil
		}
		cfg, cfgUsed, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger.Debug("configuration loaded",
			zap.String("file", cfgUsed),
			zap.String("service", cfg.Service),
			zap.String("notes_dir", cfg.NotesDir))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runShell,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.config/notewise/config.yaml)")
	pf.StringVar(&notesDirFlag, "notes-dir", "", "notes folder (overrides notes_dir)")
	pf.BoolVar(&remoteFlag, "remote", false, "use the remote OpenAI-compatible API")
	pf.StringVar(&apiKeyFlag, "api-key", "", "API key for the remote backend (or set "+llm.APIKeyEnv+")")
	pf.StringVar(&modelFlag, "model", "", "model name (overrides model)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func backendRequest() llm.Request {
	return llm.Request{Remote: remoteFlag, APIKey: apiKeyFlag, Model: modelFlag}
}

// selectBackend builds the client for the current flags and configuration.
func selectBackend() (llm.Selection, error) {
	sel, err := llm.NewSelector(cfg, logger).Select(backendRequest())
	if err != nil {
		return sel, err
	}
	if sel.CorrectedFrom != "" {
		fmt.Fprintln(os.Stderr, tui.WarnStyle.Render(fmt.Sprintf("%q only runs locally; using %s.", sel.CorrectedFrom, sel.Remote.Backend().Model)))
	}
	return sel, nil
}

func newStore() *notes.Store {
	dir := cfg.NotesDir
	if notesDirFlag != "" {
		dir = notesDirFlag
	}
	return notes.NewStore(dir, cfg.Extensions, logger)
}

func newAssistant() (*assistant.Assistant, error) {
	sel, err := selectBackend()
	if err != nil {
		return nil, err
	}
	return assistant.New(sel.Client(), newStore(), logger), nil
}
