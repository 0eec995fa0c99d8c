// MythOS: symbolic inner-landscape MCP server
//
// Exposes the MythOS psychic state, landforms, rituals and journal to any
// MCP-capable AI tool over stdio. State persists in a local SQLite file.
//
// Usage:
//
//	mythos serve [--config path]   # Start MCP server (stdio transport)
//	mythos reset --yes             # Erase all persisted state
//	mythos version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/mythos/internal/config"
	"github.com/HendryAvila/mythos/internal/kvstore"
	"github.com/HendryAvila/mythos/internal/logging"
	mythos "github.com/HendryAvila/mythos/internal/server"
)

var (
	configPath string
	confirm    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mythos",
	Short: "MythOS: symbolic inner-landscape MCP server",
	Long: `MythOS keeps a drifting psychic state, an archetypal landscape,
elemental rituals and a reflective journal, and exposes them to AI tools
through the Model Context Protocol.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "mythos": {
        "command": "mythos",
        "args": ["serve"]
      }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase every persisted MythOS value",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm {
			return errors.New("reset erases all state; pass --yes to proceed")
		}
		return reset(cmd.ErrOrStderr())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mythos v%s\n", mythos.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default: $"+config.EnvConfigPath+")")
	resetCmd.Flags().BoolVar(&confirm, "yes", false, "confirm erasing all state")

	rootCmd.AddCommand(serveCmd, resetCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// reset clears the database itself. Unlike serve it never falls back to
// memory; an unopenable database is an error.
func reset(out io.Writer) error {
	if cfg.Storage.InMemory {
		return errors.New("storage.in_memory is set: there is no persisted state to reset")
	}
	db, err := kvstore.OpenSQLite(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer db.Close()

	store := kvstore.NewAdapter(db, kvstore.WithLogger(logger.Named("kvstore")))
	if failed := store.Clear(); failed > 0 {
		return fmt.Errorf("%d key(s) could not be removed from %s", failed, db.Path())
	}
	fmt.Fprintf(out, "MythOS state erased (%s).\n", db.Path())
	return nil
}

// serve runs the stdio transport until stdin closes or a signal arrives.
// Listen drains in-flight tool calls before returning, so the deferred
// cleanup never races a handler.
func serve(parent context.Context, in io.Reader, out io.Writer) error {
	s, cleanup, err := mythos.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(logger.Named("stdio")))

	logger.Info("serving", zap.String("version", mythos.Version))
	err = stdio.Listen(ctx, in, out)
	logger.Info("shutting down")
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving stdio: %w", err)
	}
	return nil
}
