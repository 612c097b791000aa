package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

var (
	askTopK    int
	askSources bool
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the indexed documents",
	Long: `Embeds the question, retrieves the most similar chunks from the vector
store and asks the configured LLM to answer using only those chunks.

The answer is printed to stdout unmodified. Use --sources to also list the
chunks it was based on.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from settings)")
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "list the chunks used as context")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer and sources as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeFn, err := b.OpenAsk(ctx, askTopK)
	if err != nil {
		return err
	}
	defer closeQuietly(closeFn)

	answer, err := svc.Answer(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if askJSON {
		return outputAnswerJSON(out, answer)
	}

	fmt.Fprintln(out, answer.Text)
	if askSources {
		fmt.Fprintln(out)
		printSources(out, answer.Sources)
	}
	return nil
}

type sourceJSON struct {
	Path       string  `json:"path"`
	Page       int     `json:"page,omitempty"`
	StartIndex int     `json:"start_index"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

type answerJSON struct {
	Answer  string       `json:"answer"`
	Sources []sourceJSON `json:"sources"`
}

func outputAnswerJSON(out io.Writer, answer *domain.Answer) error {
	payload := answerJSON{Answer: answer.Text, Sources: make([]sourceJSON, 0, len(answer.Sources))}
	for _, s := range answer.Sources {
		payload.Sources = append(payload.Sources, sourceJSON{
			Path:       s.Chunk.Metadata.SourcePath,
			Page:       s.Chunk.Metadata.Page,
			StartIndex: s.Chunk.StartIndex,
			Score:      s.Score,
			Text:       s.Chunk.Text,
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func printSources(out io.Writer, sources []domain.ScoredChunk) {
	if len(sources) == 0 {
		fmt.Fprintln(out, "Sources: none (the index is empty)")
		return
	}

	fmt.Fprintln(out, "Sources:")
	for i, s := range sources {
		location := s.Chunk.Metadata.SourcePath
		if s.Chunk.Metadata.Page > 0 {
			location = fmt.Sprintf("%s, page %d", location, s.Chunk.Metadata.Page)
		}
		fmt.Fprintf(out, "  [%d] %s (offset %d, score %.3f)\n", i+1, location, s.Chunk.StartIndex, s.Score)
	}
}
