package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml, and store provider API
keys in the .env file.

Keys use dotted names such as chunking.size or llm.provider. Run
'ragent settings keys' to list them.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Validate and persist one setting. The whole configuration is checked
before saving, so chunking.overlap must stay below chunking.size.

Changing embedding.provider also resets embedding.model to that provider's
default unless embedding.model is set explicitly.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider>",
	Short: "Store a provider API key in .env",
	Long: `Prompt for an API key without echoing it and store it in the .env file
under the provider's variable (for example GROQ_API_KEY). Variables already
exported in the shell take precedence over the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSetKey,
}

var settingsInitPromptsCmd = &cobra.Command{
	Use:   "init-prompts",
	Short: "Write the default prompt files for editing",
	Args:  cobra.NoArgs,
	RunE:  runSettingsInitPrompts,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsInitPromptsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}
	svc := b.Settings()

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")
	fmt.Fprintf(out, "(%s)\n\n", svc.ConfigPath())

	fmt.Fprintln(out, "[Documents]")
	fmt.Fprintf(out, "  Directory: %s\n\n", settings.Documents.Dir)

	fmt.Fprintln(out, "[Store]")
	fmt.Fprintf(out, "  Backend: %s\n", settings.Store.Backend)
	if settings.Store.Backend == domain.StoreBackendWeaviate {
		fmt.Fprintf(out, "  Endpoint: %s://%s\n", settings.Store.WeaviateScheme, settings.Store.WeaviateHost)
		fmt.Fprintf(out, "  Class: %s\n\n", settings.Store.WeaviateClass)
	} else {
		fmt.Fprintf(out, "  Directory: %s\n\n", settings.Store.Dir)
	}

	fmt.Fprintln(out, "[Chunking]")
	fmt.Fprintf(out, "  Size: %d\n", settings.Chunking.Size)
	fmt.Fprintf(out, "  Overlap: %d\n\n", settings.Chunking.Overlap)

	fmt.Fprintln(out, "[Retrieval]")
	fmt.Fprintf(out, "  Top K: %d\n\n", settings.Retrieval.TopK)

	fmt.Fprintln(out, "[Embedding]")
	fmt.Fprintf(out, "  Provider: %s\n", settings.Embedding.Provider.Description())
	fmt.Fprintf(out, "  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		fmt.Fprintf(out, "  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Dimensions > 0 {
		fmt.Fprintf(out, "  Dimensions: %d\n", settings.Embedding.Dimensions)
	}
	printRateLimit(out, settings.Embedding.RequestsPerMinute)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[LLM]")
	fmt.Fprintf(out, "  Provider: %s\n", settings.LLM.Provider.Description())
	fmt.Fprintf(out, "  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		fmt.Fprintf(out, "  Base URL: %s\n", settings.LLM.BaseURL)
	}
	fmt.Fprintf(out, "  Timeout: %ds\n", settings.LLM.TimeoutSeconds)
	printRateLimit(out, settings.LLM.RequestsPerMinute)

	return nil
}

func printRateLimit(out io.Writer, rpm int) {
	if rpm > 0 {
		fmt.Fprintf(out, "  Rate limit: %d requests/minute\n", rpm)
	}
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}
	if err := b.Settings().Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}
	if err := b.Settings().Reset(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reset %s to its default\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}
	for _, key := range b.Settings().Keys() {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}

	provider := domain.AIProvider(strings.ToLower(args[0]))
	if !provider.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownProvider, args[0])
	}
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%w: %s does not use an API key", domain.ErrInvalidSetting, provider)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Enter %s API key: ", provider.Description())
	key := readSecret(cmd.InOrStdin())
	fmt.Fprintln(out)

	if key == "" {
		return errors.New("no key entered")
	}
	if prefix := provider.KeyPrefix(); prefix != "" && !strings.HasPrefix(key, prefix) {
		fmt.Fprintf(out, "Warning: %s keys usually start with %q\n", provider, prefix)
	}

	if err := b.SaveKey(provider, key); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}
	fmt.Fprintf(out, "Saved %s key %s\n", provider, maskAPIKey(key))
	return nil
}

func runSettingsInitPrompts(cmd *cobra.Command, _ []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}
	written, err := b.WritePrompts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(written) == 0 {
		fmt.Fprintln(out, "Prompt files already exist.")
		return nil
	}
	for _, path := range written {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}

// readSecret reads a line without echo when in is the terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
