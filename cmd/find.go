package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rosterbot/internal/blizzard"
	"rosterbot/internal/roster"
)

var findRegion, findRealm, findGuild string

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Match a name against the live roster of a guild",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		region := findRegion
		if region == "" {
			region = cfg.Blizzard.Region
		}
		id := roster.Identity{Region: region, Realm: blizzard.Slug(findRealm), Guild: blizzard.Slug(findGuild)}

		entries, err := blizzard.NewClient(cfg.Blizzard).FetchRoster(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("%s: %w", roster.OperatorMessage(err), err)
		}

		name := strings.Join(args, " ")
		keys, rank, ok := roster.ResolveCharacter(name, roster.NewRoster(entries))
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No character in %s matches %q\n", id, name)
			return nil
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rank %d\n", rank)
		return nil
	},
}

func init() {
	findCmd.Flags().StringVar(&findRegion, "region", "", "region of the guild, defaults to blizzard.region")
	findCmd.Flags().StringVar(&findRealm, "realm", "", "realm of the guild")
	findCmd.Flags().StringVar(&findGuild, "guild", "", "name of the guild")
	_ = findCmd.MarkFlagRequired("realm")
	_ = findCmd.MarkFlagRequired("guild")
	RootCmd.AddCommand(findCmd)
}
