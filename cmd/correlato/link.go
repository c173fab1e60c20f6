package correlato

import (
	"context"
	"fmt"
	"time"

	"github.com/soundprediction/correlato"
	"github.com/soundprediction/correlato/pkg/driver"
	"github.com/soundprediction/correlato/pkg/linker"
	"github.com/soundprediction/correlato/pkg/output"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Analyze nodes stored in Neo4j and merge the relationships back",
	Long: `Link reads the id and content properties of every node with the configured
label, runs the analysis and merges SIMILAR_TO, KEYWORD_OVERLAP, causal and
PART_OF relationships between the nodes.

Connection settings come from the database section, the NEO4J_* environment
variables or the flags below. Use --output to also keep the result file.`,
	Args: cobra.NoArgs,
	RunE: runLink,
}

func init() {
	addAnalysisFlags(linkCmd)
	linkCmd.Flags().String("db-uri", "", "Neo4j URI")
	linkCmd.Flags().String("db-username", "", "Neo4j username")
	linkCmd.Flags().String("db-password", "", "Neo4j password")
	linkCmd.Flags().String("db-database", "", "Neo4j database name")
	linkCmd.Flags().String("label", "", "label of the nodes to analyze")
	linkCmd.Flags().String("output", "", "also write the result to this path")
	linkCmd.Flags().String("format", "", "format of --output (json, yaml, parquet)")
}

func runLink(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, "link")
	if err != nil {
		return err
	}
	defer s.Close()

	db := s.cfg.Database
	graph, err := driver.NewNeo4jDriver(db.URI, db.Username, db.Password, db.Database)
	if err != nil {
		return s.fail("Failed to create graph driver", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := graph.Close(ctx); err != nil {
			s.logger.Warn("Failed to close graph driver", "error", err)
		}
	}()

	labeled, err := graph.WithLabel(db.Label)
	if err != nil {
		return s.fail("Invalid node label", err)
	}
	if err := labeled.VerifyConnectivity(s.ctx); err != nil {
		return s.fail("Failed to connect to Neo4j", err)
	}

	raw, err := labeled.LoadNodes(s.ctx, db.Label)
	if err != nil {
		return s.fail("Failed to load nodes", fmt.Errorf("%w: %w", correlato.ErrInputUnreadable, err))
	}
	nodes := correlato.FilterNodes(raw)
	s.logger.InfoContext(s.ctx, "Loaded nodes", "label", db.Label, "count", len(raw), "valid", len(nodes))

	noProgress, _ := cmd.Flags().GetBool("no-progress")
	analyzer, emb, err := s.buildAnalyzer(!noProgress)
	if err != nil {
		return s.fail("Failed to initialize analyzer", err)
	}
	defer closeQuietly(s.logger, "embedder", emb)

	result, err := analyzer.AnalyzeNodes(s.ctx, nodes)
	if err != nil {
		return s.fail("Analysis failed", err)
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := output.Write(path, s.cfg.Output.Format, result); err != nil {
			return s.fail("Failed to write output", err)
		}
	}

	stats, err := linker.New(labeled, s.logger).Link(s.ctx, nodes, result)
	if err != nil {
		return s.fail("Linking failed", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d of %d relationships (%d failed, %d unresolved)\n",
		stats.Merged, stats.Planned, stats.Failed, stats.Unresolved)
	return nil
}
