package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragent/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
	"github.com/custodia-labs/ragent/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions in an interactive terminal UI",
	Long: `Launch an interactive session. Each question goes through the same
pipeline as 'ragent ask'; earlier questions are not sent to the LLM.

Controls:
  Enter   - Ask
  Tab     - Show the sources of the last answer
  Ctrl+S  - Status
  F1      - Help
  Esc     - Back
  Ctrl+C  - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	b, err := requireBackend()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ask, closeFn, err := b.OpenAsk(ctx, 0)
	if err != nil {
		return err
	}
	defer closeQuietly(closeFn)

	// The status view is optional; the chat works without it.
	var status driving.StatusService
	if svc, err := b.Status(); err != nil {
		logger.Debug("status view disabled: %v", err)
	} else {
		status = svc
	}

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	app, err := tui.NewApp(tui.NewPorts(ask, status))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
