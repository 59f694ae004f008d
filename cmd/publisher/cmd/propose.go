// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"context"

	"github.com/coreason-ai/publisher/pkg/model"

	"github.com/spf13/cobra"
)

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Propose a new release of the agent workspace",
	Long: `Propose a new release of the agent workspace.

The workspace is bundled, signed and pushed on a candidate branch, a merge
request is opened for review and the quality system draft is submitted. The
printed signature is what the reviewer later presents to finalize the release.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := mustLogger()
		initMetrics()
		defer flushMetrics()
		identity, err := principal()
		if err != nil {
			wrapFatalln("resolve identity", err)
			return
		}
		orchestrator, err := newOrchestrator(ctx, l)
		if err != nil {
			wrapFatalln("assemble release workflow", err)
			return
		}
		result, err := orchestrator.Propose(ctx, identity, model.ProposeRequest{
			ProjectID:   publisherFlags.release.projectID,
			DraftID:     publisherFlags.release.draftID,
			Bump:        model.BumpKind(publisherFlags.release.bump),
			Description: publisherFlags.release.description,
		})
		if err != nil {
			wrapFatalln("propose release", err)
			return
		}
		infoLogger.Printf("proposed %s on branch %s", result.Version, result.Branch)
		infoLogger.Printf("merge request: %d", result.MergeRequestID)
		infoLogger.Printf("signature: %s", result.Signature)
	},
}

func init() {
	requireFlags(proposeCmd,
		addProjectIDFlag(proposeCmd),
		addDraftIDFlag(proposeCmd),
		addBumpFlag(proposeCmd),
	)
	addDescriptionFlag(proposeCmd)
	addUserIDFlag(proposeCmd)
	addUserEmailFlag(proposeCmd)

	rootCmd.AddCommand(proposeCmd)
}
