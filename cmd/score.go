package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/logger"
	"github.com/dike950121/upwork-radar/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score jobs from a JSON file without calling the marketplace",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("file", "f", "", "a JSON file with jobs to score (required)")
	scoreCmd.Flags().BoolP("breakdown", "b", false, "include per-factor sub-scores in the output")
	scoreCmd.MarkFlagRequired("file")
}

type scoredJob struct {
	ExternalID string             `json:"external_id"`
	Title      string             `json:"title"`
	Score      float64            `json:"score"`
	Category   string             `json:"category"`
	Breakdown  *scoring.Breakdown `json:"breakdown,omitempty"`
}

// score runs the heuristic pipeline over a jobs file. The remote adapter is
// intentionally not wired here: the command exists to inspect the
// deterministic path.
func score(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	path := cmd.Flag("file").Value.String()
	jobs, err := job.FromFile(path)
	if err != nil {
		zlog.Fatal("loading jobs file", zap.String("file", path), zap.Error(err))
	}

	withBreakdown := cmd.Flag("breakdown").Value.String() == "true"
	orchestrator := scoring.NewOrchestrator(nil, zlog)

	results := make([]scoredJob, 0, jobs.Len())
	for _, j := range jobs.Items {
		j.SetScore(orchestrator.ScoreJob(ctx, j))
		j.Category = orchestrator.CategorizeJob(ctx, j)

		result := scoredJob{
			ExternalID: j.ExternalID,
			Title:      j.Title,
			Score:      j.Score,
			Category:   j.Category,
		}
		if withBreakdown {
			breakdown := orchestrator.Breakdown(j)
			result.Breakdown = &breakdown
		}
		results = append(results, result)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		zlog.Fatal("encoding results", zap.Error(err))
	}
}
