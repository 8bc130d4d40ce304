package main

import (
	"context"
	"crypto/rsa"
	"sync"

	"github.com/pershin-daniil/followups/internal/rest"
	"github.com/pershin-daniil/followups/internal/telegram"
	"github.com/pershin-daniil/followups/pkg/notifier"
	"github.com/pershin-daniil/followups/pkg/service"
	"github.com/pershin-daniil/followups/pkg/worker"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	tele "gopkg.in/telebot.v3"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			var key *rsa.PublicKey
			if cfg.JWTPublicKeyPath != "" {
				if key, err = rest.LoadPublicKey(cfg.JWTPublicKeyPath); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			d, err := newDeps(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer d.Close()
			if err = d.store.Migrate(migrate.Up); err != nil {
				return err
			}

			var notify service.Notifier = notifier.New(log)
			var bot *tele.Bot
			if cfg.TgToken != "" {
				if bot, err = telegram.NewBot(cfg.TgToken); err != nil {
					return err
				}
				if cfg.TgChatID != 0 {
					notify = telegram.NewNotifier(log, bot, cfg.TgChatID)
				}
			}

			app := service.NewScheduleService(log, d.store, d.scheduler, notify, cfg.CalendarID)
			var wg sync.WaitGroup
			if bot != nil {
				tg := telegram.New(log, bot, app)
				wg.Add(1)
				go func() {
					defer wg.Done()
					tg.Run(ctx)
				}()
			}

			reminders := worker.New(log, d.store, notify, worker.Settings{
				Interval: cfg.ReminderInterval,
				Lead:     cfg.ReminderLead,
				Location: cfg.Location(),
			})
			wg.Add(1)
			go func() {
				defer wg.Done()
				reminders.Run(ctx)
			}()

			server := rest.NewServer(log, app, cfg.Address, version, key)
			err = server.Run(ctx)
			cancel()
			wg.Wait()
			if err != nil {
				return err
			}
			log.Info("Server stopped")
			return nil
		},
	}
}
