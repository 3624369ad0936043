package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dike950121/upwork-radar/internal/profile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List stored freelancer profiles",
	Run: func(cmd *cobra.Command, _ []string) {
		listProfiles()
	},
}

var profilesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a profile from a JSON file",
	Run: func(cmd *cobra.Command, _ []string) {
		addProfile(cmd)
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile by name",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		deleteProfile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesAddCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)

	profilesAddCmd.Flags().StringP("file", "f", "", "a JSON file with the profile (required)")
	profilesAddCmd.MarkFlagRequired("file")
}

func listProfiles() {
	ctx := context.Background()

	zlog, _, st := bootstrap(ctx)
	defer st.Close()

	profiles, err := st.Profiles(ctx)
	if err != nil {
		zlog.Fatal("listing profiles", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profiles.Items); err != nil {
		zlog.Fatal("encoding profiles", zap.Error(err))
	}
}

func addProfile(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, _, st := bootstrap(ctx)
	defer st.Close()

	path := cmd.Flag("file").Value.String()
	loaded, err := profileFromFile(path)
	if err != nil {
		zlog.Fatal("loading profile file", zap.String("file", path), zap.Error(err))
	}

	if err := st.CreateProfile(ctx, loaded); err != nil {
		zlog.Fatal("creating profile", zap.Error(err))
	}

	zlog.Info("profile created", zap.String("name", loaded.Name))
}

func deleteProfile(name string) {
	ctx := context.Background()

	zlog, _, st := bootstrap(ctx)
	defer st.Close()

	if err := st.DeleteProfile(ctx, name); err != nil {
		zlog.Fatal("deleting profile", zap.Error(err))
	}

	zlog.Info("profile deleted", zap.String("name", name))
}

func profileFromFile(path string) (*profile.Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var loaded profile.Profile
	if err := json.NewDecoder(file).Decode(&loaded); err != nil {
		return nil, fmt.Errorf("decoding profile file %q: %w", path, err)
	}
	return &loaded, nil
}
