// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"context"

	"github.com/coreason-ai/publisher/pkg/lfs"

	"github.com/spf13/cobra"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Bundle the agent workspace without proposing a release",
	Long: `Bundle the agent workspace without proposing a release.

Oversized files are offloaded to the artifact store and replaced by pointer
records, model weights are colocated under the distilled directory, large
file tracking is configured and the review documents are generated. Useful
to inspect what a proposal would commit.

The review documents need the assay evidence in place, so run this after an
assay report has been persisted to the workspace.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := mustLogger()
		tracker := lfs.New(lfs.Logger(l))
		bnd, err := newBundler(ctx, tracker, l)
		if err != nil {
			wrapFatalln("assemble bundler", err)
			return
		}
		if err := bnd.Bundle(ctx, publisherFlags.root.workspace); err != nil {
			wrapFatalln("bundle workspace", err)
			return
		}
		infoLogger.Printf("bundled workspace %s", publisherFlags.root.workspace)
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
}
