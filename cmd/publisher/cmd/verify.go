// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the agent workspace against a signature",
	Long: `Verify the agent workspace against a signature.

Recomputes the workspace fingerprint and compares it with the presented
signature. Exits non-zero when they differ, so this can gate scripts.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := mustLogger()
		initMetrics()
		defer flushMetrics()
		sgn, err := newSigner(ctx, l)
		if err != nil {
			wrapFatalln("assemble signer", err)
			return
		}
		ok, err := sgn.Verify(publisherFlags.root.workspace, publisherFlags.release.signature)
		if err != nil {
			wrapFatalln("verify workspace", err)
			return
		}
		if !ok {
			wrapFatalWithCodef(1, "signature mismatch: the workspace does not match %s",
				publisherFlags.release.signature)
			return
		}
		infoLogger.Println("signature verified")
	},
}

func init() {
	requireFlags(verifyCmd,
		addSignatureFlag(verifyCmd),
	)

	rootCmd.AddCommand(verifyCmd)
}
