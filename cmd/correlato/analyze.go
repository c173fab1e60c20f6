package correlato

import (
	"fmt"

	"github.com/soundprediction/correlato/pkg/output"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze INPUT OUTPUT",
	Short: "Discover relationships between the nodes of a JSON file",
	Long: `Analyze reads a JSON array of {"id", "content"} nodes from INPUT and writes
the similar, keyword, causal and hierarchical relationship sets to OUTPUT.

The output format is taken from --format or output.format, otherwise inferred
from the OUTPUT extension (.json, .yaml, .yml). A path ending in a slash is
written as a directory of Parquet files.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	addAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().String("format", "", "output format (json, yaml, parquet)")
	analyzeCmd.Flags().Bool("repair", false, "attempt to repair malformed input JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]

	s, err := newSession(cmd, "analyze")
	if err != nil {
		return err
	}
	defer s.Close()

	// Resolve the format before doing any work so a bad flag fails fast.
	if _, err := output.ParseFormat(s.cfg.Output.Format, outputPath); err != nil {
		return s.fail("Invalid output format", err)
	}

	raw, err := output.ReadNodes(inputPath, s.cfg.Input.Repair)
	if err != nil {
		return s.fail("Failed to read input", err)
	}
	s.logger.InfoContext(s.ctx, "Loaded nodes", "path", inputPath, "count", len(raw))

	noProgress, _ := cmd.Flags().GetBool("no-progress")
	analyzer, emb, err := s.buildAnalyzer(!noProgress)
	if err != nil {
		return s.fail("Failed to initialize analyzer", err)
	}
	defer closeQuietly(s.logger, "embedder", emb)

	result, err := analyzer.Analyze(s.ctx, raw)
	if err != nil {
		return s.fail("Analysis failed", err)
	}

	if err := output.Write(outputPath, s.cfg.Output.Format, result); err != nil {
		return s.fail("Failed to write output", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d relationships to %s\n", result.Total(), outputPath)
	return nil
}
