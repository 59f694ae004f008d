// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"context"

	"github.com/coreason-ai/publisher/pkg/foundry"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the status of a draft and its release candidate",
	Long: `Report the status of a quality system draft and, when --mr-id is given,
of the associated merge request.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := mustLogger()
		foundryClient := foundry.New(config.Foundry.URL, config.Foundry.Token, foundry.Logger(l))
		draftStatus, err := foundryClient.DraftStatus(ctx, publisherFlags.release.draftID)
		if err != nil {
			wrapFatalln("draft status", err)
			return
		}
		infoLogger.Printf("draft %s: %s", publisherFlags.release.draftID, draftStatus)
		if publisherFlags.release.mrID != 0 {
			mrStatus, err := newGitLab(l).MergeRequestStatus(ctx, publisherFlags.release.mrID)
			if err != nil {
				wrapFatalln("merge request status", err)
				return
			}
			infoLogger.Printf("merge request %d: %s", publisherFlags.release.mrID, mrStatus)
		}
	},
}

func init() {
	requireFlags(statusCmd,
		addDraftIDFlag(statusCmd),
	)
	addMRIDFlag(statusCmd)

	rootCmd.AddCommand(statusCmd)
}
