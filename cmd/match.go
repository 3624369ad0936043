package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dike950121/upwork-radar/internal/job"
	"github.com/dike950121/upwork-radar/internal/matching"
	"github.com/dike950121/upwork-radar/internal/scoring"
	"github.com/dike950121/upwork-radar/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const matchListLimit = 20

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find the best-fit profile for a stored job",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("job", "i", "", "external id of the job to match. When unset, pick interactively.")
}

type matchOutput struct {
	Job       string            `json:"job"`
	Profile   string            `json:"profile"`
	Score     float64           `json:"score"`
	Reasoning string            `json:"reasoning,omitempty"`
	Factors   *matching.Factors `json:"factors,omitempty"`
}

func match(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, config, st := bootstrap(ctx)
	defer st.Close()

	profiles, err := st.Profiles(ctx)
	if err != nil {
		zlog.Fatal("listing profiles", zap.Error(err))
	}
	if profiles.Len() == 0 {
		zlog.Fatal("no profiles stored", zap.String("hint", "add one with the 'profiles add' command"))
	}

	target, err := pickJob(ctx, cmd, st)
	if err != nil {
		zlog.Fatal("selecting a job", zap.Error(err))
	}

	scorer, err := buildScorer(ctx, config.AI, zlog)
	if err != nil {
		zlog.Debug("matching without remote adapter", zap.Error(err))
		scorer = nil
	}

	orchestrator := scoring.NewOrchestrator(scorer, zlog)
	result := orchestrator.MatchProfiles(ctx, target, profiles)

	output := matchOutput{Job: target.ExternalID, Score: result.Score, Reasoning: result.Reasoning}
	if result.Profile != nil {
		output.Profile = result.Profile.Name
		factors := matching.Score(target, result.Profile)
		output.Factors = &factors
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		zlog.Fatal("encoding match result", zap.Error(err))
	}
}

func pickJob(ctx context.Context, cmd *cobra.Command, st store.Store) (*job.Job, error) {
	if id := strings.TrimSpace(cmd.Flag("job").Value.String()); id != "" {
		return st.JobByExternalID(ctx, id)
	}

	jobs, err := st.Jobs(ctx, store.JobFilters{Limit: matchListLimit})
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	if jobs.Len() == 0 {
		return nil, fmt.Errorf("no jobs stored yet, run the monitor first")
	}

	items := make([]string, 0, jobs.Len())
	for _, j := range jobs.Items {
		items = append(items, fmt.Sprintf("%s %.1f / %s / %s", j.ExternalID, j.Score, j.Category, j.Title))
	}

	prompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: items,
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	id := strings.Split(selected, " ")[0]
	picked := jobs.FindByExternalID(id)
	if picked == nil {
		return nil, fmt.Errorf("there is no such job id %s", id)
	}
	return picked, nil
}
