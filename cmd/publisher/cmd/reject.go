// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"context"

	"github.com/coreason-ai/publisher/pkg/model"

	"github.com/spf13/cobra"
)

var rejectCmd = &cobra.Command{
	Use:   "reject",
	Short: "Request changes on a release candidate",
	Long: `Request changes on a release candidate.

The reason is recorded as a comment on the merge request and the quality
system draft is reopened for edits. The merge request itself stays open so
the proposer can push a fixed candidate.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := mustLogger()
		orchestrator, err := newOrchestrator(ctx, l)
		if err != nil {
			wrapFatalln("assemble release workflow", err)
			return
		}
		err = orchestrator.Reject(ctx, model.RejectRequest{
			MergeRequestID: publisherFlags.release.mrID,
			DraftID:        publisherFlags.release.draftID,
			Reason:         publisherFlags.release.reason,
		})
		if err != nil {
			wrapFatalln("reject release", err)
			return
		}
		infoLogger.Printf("changes requested on merge request %d", publisherFlags.release.mrID)
	},
}

func init() {
	requireFlags(rejectCmd,
		addMRIDFlag(rejectCmd),
		addDraftIDFlag(rejectCmd),
		addReasonFlag(rejectCmd),
	)

	rootCmd.AddCommand(rejectCmd)
}
