// Package cli provides the ragent command-line interface.
// It is a driving adapter: commands translate flags into calls on
// driving ports supplied by the entry point through SetBackend.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
	"github.com/custodia-labs/ragent/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var verbose bool

// errNoBackend is returned when a command runs before SetBackend.
var errNoBackend = errors.New("ragent is not configured")

// Backend opens the services commands need. Services that hold resources
// come with a close function the command calls when done.
type Backend interface {
	// Settings returns the settings service backed by config.toml.
	Settings() driving.SettingsService

	// Status returns the diagnostics service.
	Status() (driving.StatusService, error)

	// OpenIngest builds the ingestion pipeline over the writable store.
	OpenIngest(ctx context.Context) (driving.IngestService, func() error, error)

	// OpenAsk builds the answer pipeline. topK <= 0 uses the configured value.
	OpenAsk(ctx context.Context, topK int) (driving.AskService, func() error, error)

	// Watch reports batches of changed supported files in dir.
	Watch(ctx context.Context, dir string) (<-chan []string, error)

	// DocumentsDir is the configured documents directory.
	DocumentsDir() string

	// SaveKey stores a provider credential in the .env file.
	SaveKey(provider domain.AIProvider, key string) error

	// WritePrompts writes missing default prompt files and returns their paths.
	WritePrompts() ([]string, error)
}

var backend Backend

// SetBackend sets the services used by all commands.
func SetBackend(b Backend) {
	backend = b
}

var rootCmd = &cobra.Command{
	Use:   "ragent",
	Short: "Ask questions about your local documents",
	Long: `ragent indexes local text, Markdown and PDF files into a vector store
and answers questions with an LLM, grounded on the most relevant chunks.

Typical use:
  ragent ingest --dir data
  ragent ask "What does the report say about revenue?"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// requireBackend returns the configured backend or errNoBackend.
func requireBackend() (Backend, error) {
	if backend == nil {
		return nil, errNoBackend
	}
	return backend, nil
}

// closeQuietly runs a close function, logging rather than returning its error.
func closeQuietly(closeFn func() error) {
	if closeFn == nil {
		return
	}
	if err := closeFn(); err != nil {
		logger.Warn("close: %v", err)
	}
}
