package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rosterbot/internal/blizzard"
	"rosterbot/internal/bot"
	"rosterbot/internal/database"
	"rosterbot/internal/roster"
)

var reconcileGuilds []string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation pass for the given Discord guilds",
	Long: `Runs a single reconciliation pass for each --guild and posts any changes
to its log channel, without connecting to the gateway.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(reconcileGuilds) == 0 {
			return fmt.Errorf("at least one --guild is required")
		}
		cfg, err := setup()
		if err != nil {
			return err
		}

		store, err := database.Open(cfg.Database, cfg.Blizzard.Region)
		if err != nil {
			return err
		}
		session, err := bot.NewSession(cfg.Discord)
		if err != nil {
			return err
		}
		opts, err := cfg.Reconcile.Options()
		if err != nil {
			return err
		}
		emitter := bot.NewNotificationEmitter(session, store, bot.NewMembers(session), cfg.Discord.MessagesPerSecond)
		reconciler := roster.NewReconciler(blizzard.NewClient(cfg.Blizzard), store, emitter, opts...)

		failed := 0
		for _, guildID := range reconcileGuilds {
			result, err := reconciler.Reconcile(cmd.Context(), guildID)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\t%s\t%v\n", guildID, result.Outcome, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tadded=%d changed=%d removed=%d batches=%d failed=%d\n",
				result.GuildID, result.Outcome,
				len(result.Diff.Added), len(result.Diff.Changed), len(result.Diff.Removed),
				result.BatchesSent, result.BatchesFailed)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d passes failed", failed, len(reconcileGuilds))
		}
		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringSliceVar(&reconcileGuilds, "guild", nil, "Discord guild id, repeatable")
	RootCmd.AddCommand(reconcileCmd)
}
