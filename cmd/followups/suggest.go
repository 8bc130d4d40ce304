package main

import (
	"encoding/json"

	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/pershin-daniil/followups/pkg/notifier"
	"github.com/pershin-daniil/followups/pkg/service"
	"github.com/spf13/cobra"
)

func suggestCmd() *cobra.Command {
	var (
		meetingID string
		token     string
		auto      bool
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Run one scheduling pass for a meeting and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			d, err := newDeps(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer d.Close()

			app := service.NewScheduleService(log, d.store, d.scheduler, notifier.New(log), cfg.CalendarID)
			result := app.Schedule(ctx, models.CalendarAccess{AccessToken: token}, meetingID, nil, auto)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&meetingID, "meeting", "", "id of the meeting whose action items are scheduled")
	cmd.Flags().StringVar(&token, "token", "", "Google Calendar OAuth access token")
	cmd.Flags().BoolVar(&auto, "auto", false, "book high-confidence suggestions")
	_ = cmd.MarkFlagRequired("meeting")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
