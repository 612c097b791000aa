package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

var statusCheck bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show providers, credentials and index statistics",
	Long: `Prints the configured embedding and LLM providers, whether the LLM API key
is present and looks right, and where the vector store lives with its entry
count and dimensionality.

No LLM call is made unless --check is given, which pings both providers.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusCheck, "check", false, "ping the embedding and LLM providers")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}
	svc, err := b.Status()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := svc.Status(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printStatus(out, st)

	if !statusCheck {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "[Connectivity]")
	embeddingErr, llmErr := svc.CheckConnectivity(ctx)
	printCheck(out, "Embedding", embeddingErr)
	printCheck(out, "LLM", llmErr)
	if embeddingErr != nil {
		return embeddingErr
	}
	return llmErr
}

func printStatus(out io.Writer, st *domain.Status) {
	s := st.Settings

	fmt.Fprintln(out, "[Providers]")
	fmt.Fprintf(out, "  Embedding: %s (%s)\n", s.Embedding.Provider.Description(), s.Embedding.Model)
	fmt.Fprintf(out, "  LLM:       %s (%s)\n", s.LLM.Provider.Description(), s.LLM.Model)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Credential]")
	c := st.Credential
	switch {
	case !c.Required:
		fmt.Fprintf(out, "  %s: not required\n", c.Provider)
	case c.Present:
		fmt.Fprintf(out, "  %s: %s\n", c.Provider, c.Masked)
	default:
		fmt.Fprintf(out, "  %s: (not set)\n", c.Provider)
	}
	if c.Warning != "" {
		fmt.Fprintf(out, "  Warning: %s\n", c.Warning)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Vector Store]")
	fmt.Fprintf(out, "  Backend:    %s\n", st.Store.Backend)
	fmt.Fprintf(out, "  Location:   %s\n", st.Store.Location)
	if !st.Store.Exists {
		fmt.Fprintln(out, "  Entries:    0 (not built yet, run 'ragent ingest')")
		return
	}
	fmt.Fprintf(out, "  Entries:    %d\n", st.Store.Entries)
	fmt.Fprintf(out, "  Dimensions: %d\n", st.Store.Dimensions)
	if st.Store.Model != "" {
		fmt.Fprintf(out, "  Model:      %s\n", st.Store.Model)
	}
}

func printCheck(out io.Writer, label string, err error) {
	if err != nil {
		fmt.Fprintf(out, "  %-10s FAIL: %v\n", label+":", err)
		return
	}
	fmt.Fprintf(out, "  %-10s OK\n", label+":")
}
