// Package main is the entry point for the LLM usage dashboard. It loads
// configuration, starts the service manager and runs the Bubble Tea program
// or one of the headless subcommands.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/llm-dashboard-tui/internal/app"
	"github.com/j-veylop/llm-dashboard-tui/internal/config"
	"github.com/j-veylop/llm-dashboard-tui/internal/logger"
	"github.com/j-veylop/llm-dashboard-tui/internal/services"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/llm-dashboard-tui/internal/ui/tabs/records"
	"github.com/j-veylop/llm-dashboard-tui/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "llmdash",
		Short:         "Terminal dashboard for LLM token usage and cost",
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "read configuration from this .env file")

	root.AddCommand(newSummaryCommand(&envFile))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	})
	return root
}

func loadConfig(envFile string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if envFile != "" {
		cfg, err = config.LoadFile(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupLogging sends log output to the configured file, or discards it when
// the file cannot be opened.
func setupLogging(cfg *config.Config) io.Closer {
	closer, err := logger.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; logging disabled\n", err)
		logger.SetOutput(io.Discard, cfg.LogLevel)
		return io.NopCloser(nil)
	}
	return closer
}

// runTUI wires the service manager, tabs and root model and blocks until the
// program exits.
func runTUI(cfg *config.Config) error {
	logCloser := setupLogging(cfg)
	defer logCloser.Close()

	logger.Info("Starting", "version", version.GetVersion(), "api", cfg.APIBaseURL)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)
	defer model.Close()

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state, model.GetCommands()),
		records.New(state),
		info.New(state, svcManager.Config),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	logger.Info("Exiting")
	return nil
}
