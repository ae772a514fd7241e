package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"rosterbot/internal/blizzard"
	"rosterbot/internal/bot"
	"rosterbot/internal/database"
	"rosterbot/internal/metrics"
	"rosterbot/internal/roster"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Connect to Discord and start reconciling rosters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		store, err := database.Open(cfg.Database, cfg.Blizzard.Region)
		if err != nil {
			return err
		}
		client := blizzard.NewClient(cfg.Blizzard)
		recorder := metrics.NewRecorder()

		session, err := bot.NewSession(cfg.Discord)
		if err != nil {
			return err
		}
		members := bot.NewMembers(session)
		emitter := bot.NewNotificationEmitter(session, store, members, cfg.Discord.MessagesPerSecond)

		opts, err := cfg.Reconcile.Options()
		if err != nil {
			return err
		}
		opts = append(opts, roster.WithMetrics(recorder), roster.WithTracer(otel.Tracer("rosterbot/roster")))
		reconciler := roster.NewReconciler(client, store, emitter, opts...)
		resolver := roster.NewResolver(client, store, members)

		discord := bot.New(cfg.Discord, session, store, reconciler, resolver)
		if err := discord.Open(); err != nil {
			return err
		}
		defer discord.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := metrics.NewServer(cfg.Metrics, recorder)
		if srv != nil {
			go func() {
				log.Info().Str("address", srv.Addr).Msg("Serving metrics")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("Metrics server failed")
				}
			}()
		}

		scheduler := roster.NewScheduler(reconciler, discord, cfg.Reconcile.Interval)
		scheduler.Run(ctx)

		log.Info().Msg("Shutting down")
		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
