// Package cli provides the yonerge command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
	"github.com/custodia-labs/yonerge/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	configPath string
	verbose    bool
)

// SettingsLoader builds the settings service for a config directory.
// An empty path selects the default location.
type SettingsLoader func(configDir string) (driving.SettingsService, error)

// EngineOptions tunes how a command builds its engine.
type EngineOptions struct {
	// SkipInitialIngest opens the index without ingesting the PDF directory.
	SkipInitialIngest bool
}

// EngineFactory builds and initialises an engine from settings.
// Callers own the engine and must shut it down.
type EngineFactory func(ctx context.Context, settings *domain.AppSettings, opts EngineOptions) (driving.Engine, error)

// Dependencies are the composition hooks the binary installs before Execute.
type Dependencies struct {
	Settings SettingsLoader
	Engine   EngineFactory
}

var (
	settingsLoader  SettingsLoader
	engineFactory   EngineFactory
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "yonerge",
	Short: "Ask questions about Bozok University student regulations",
	Long: `yonerge indexes a directory of university regulation PDFs and answers
questions from them with a generative model, citing the documents used.

Answers are grounded: when the regulations do not cover a question the
assistant says so instead of guessing.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config directory holding config.toml (default ~/.yonerge)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
}

// SetDependencies installs the settings loader and engine factory.
func SetDependencies(deps Dependencies) {
	settingsLoader = deps.Settings
	engineFactory = deps.Engine
}

// SetVersion sets the version reported by `yonerge version`.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadSettings resolves the settings service once per invocation.
func loadSettings(_ *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if settingsLoader == nil {
		return nil
	}
	svc, err := settingsLoader(configPath)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	settingsService = svc
	return nil
}

// currentSettings returns the resolved settings.
func currentSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	return settingsService.Get()
}

// openEngine resolves settings, applies overrides and builds an engine.
func openEngine(ctx context.Context, opts EngineOptions, override func(*domain.AppSettings)) (driving.Engine, *domain.AppSettings, error) {
	if engineFactory == nil {
		return nil, nil, errors.New("engine not configured")
	}
	settings, err := currentSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if override != nil {
		override(settings)
	}
	engine, err := engineFactory(ctx, settings, opts)
	if err != nil {
		return nil, nil, err
	}
	return engine, settings, nil
}

// shutdown releases an engine, logging failures.
func shutdown(ctx context.Context, engine driving.Engine) {
	if err := engine.Shutdown(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("shutdown: %v", err)
	}
}
