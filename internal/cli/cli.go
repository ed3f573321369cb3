// Package cli implements the varlayout command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/varlayout/internal/config"
	"github.com/matzehuels/varlayout/pkg/buildinfo"
	"github.com/matzehuels/varlayout/pkg/pipeline"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "varlayout"

	// layoutSuffix replaces the input extension of the default output file.
	layoutSuffix = ".layout.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "varlayout lays out variant tracks for genome and protein views",
		Long: `varlayout groups variant records (point mutations, fusions, structural
variants, copy-number and terminal-loss events) into position groups and
type groups ready to be drawn as a lollipop-style track over a genomic or
protein view.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/varlayout/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.modesCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			c.Logger.Debug("no config directory", "err", err)
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// newOrchestrator creates an orchestrator preferring mode, or the configured
// default when mode is empty.
func (c *CLI) newOrchestrator(mode string) (*pipeline.Orchestrator, error) {
	if mode == "" {
		mode = c.cfg.View.Mode
	}
	m, err := viewmode.Parse(mode)
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Options{DefaultMode: m, Logger: c.Logger})
}
