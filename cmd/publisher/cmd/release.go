// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"context"

	"github.com/coreason-ai/publisher/pkg/model"

	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Finalize a reviewed release candidate",
	Long: `Finalize a reviewed release candidate.

The workspace is verified against the presented signature, the merge request
is merged, the release tag is created and the quality system draft is
approved. Nothing is merged when the verification fails.`,
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
		result, err := orchestrator.Finalize(ctx, identity, model.FinalizeRequest{
			MergeRequestID: publisherFlags.release.mrID,
			Signature:      publisherFlags.release.signature,
		})
		if err != nil {
			wrapFatalln("finalize release", err)
			return
		}
		infoLogger.Printf("released %s (merge request %d)", result.Version, result.MergeRequestID)
	},
}

func init() {
	requireFlags(releaseCmd,
		addMRIDFlag(releaseCmd),
		addSignatureFlag(releaseCmd),
	)
	addUserIDFlag(releaseCmd)
	addUserEmailFlag(releaseCmd)

	rootCmd.AddCommand(releaseCmd)
}
