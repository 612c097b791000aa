package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
	"github.com/custodia-labs/ragent/internal/logger"
)

var (
	ingestDir   string
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index documents into the vector store",
	Long: `Loads every .txt, .md, .markdown and .pdf file in the documents directory,
splits it into overlapping chunks, embeds the chunks and adds them to the
vector store. The directory is not searched recursively.

The store is additive: ingesting the same files twice stores them twice.

With --watch, ragent keeps running and ingests files as they are created
or modified.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "documents directory (default from settings)")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep running and ingest changed files")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	b, err := requireBackend()
	if err != nil {
		return err
	}

	dir := ingestDir
	if dir == "" {
		dir = b.DocumentsDir()
	}

	ctx := cmd.Context()
	svc, closeFn, err := b.OpenIngest(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(closeFn)

	out := cmd.OutOrStdout()
	report, err := svc.Ingest(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", dir, err)
	}
	printReport(out, dir, report)

	if !ingestWatch {
		return nil
	}
	return watchAndIngest(ctx, out, b, svc, dir)
}

func watchAndIngest(ctx context.Context, out io.Writer, b Backend, svc driving.IngestService, dir string) error {
	changes, err := b.Watch(ctx, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Watching %s for changes (ctrl+c to stop)...\n", dir)

	for paths := range changes {
		report, err := svc.IngestFiles(ctx, paths)
		if err != nil {
			// Keep watching: the next write may fix the file.
			logger.Warn("ingest %d changed files: %v", len(paths), err)
			fmt.Fprintf(out, "Failed to ingest %d changed files: %v\n", len(paths), err)
			continue
		}
		fmt.Fprintf(out, "Ingested %d chunks from %d changed files\n", report.Chunks, report.Files)
	}
	return nil
}

func printReport(out io.Writer, dir string, report *domain.IngestReport) {
	if report == nil || report.Documents == 0 {
		fmt.Fprintf(out, "No documents found in %s\n", dir)
		return
	}
	fmt.Fprintf(out, "Ingested %d chunks from %d files (%d documents) into %s\n",
		report.Chunks, report.Files, report.Documents, report.Store)
}
