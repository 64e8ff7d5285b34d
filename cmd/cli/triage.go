package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inboxintel/internal/triage/usecase"
)

func newTriageCmd() *cobra.Command {
	var clearDB bool

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Run one triage pass over unread email",
		Long: `Fetch unread messages, skip the ones already stored, classify the new
ones with the configured LLM provider, persist the results and print a
summary ordered by urgency. With --clear-db, delete all persisted state
and exit without running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if clearDB {
				if err := app.repo.ClearAll(); err != nil {
					return err
				}
				fmt.Println("Database cleared.")
				return nil
			}

			pipeline, err := app.buildPipeline(context.Background())
			if err != nil {
				return err
			}

			processed, err := pipeline.ProcessEmails(context.Background())
			if err != nil {
				return err
			}

			usecase.WriteReport(os.Stdout, processed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearDB, "clear-db", false, "delete all persisted emails, tasks and runs, then exit")
	return cmd
}
