// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign the agent workspace",
	Long: `Sign the agent workspace.

Prints the electronic signature of the workspace content: a digest over every
file in the bundle, bound to the acting identity by the audit record.`,
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
		sgn, err := newSigner(ctx, l)
		if err != nil {
			wrapFatalln("assemble signer", err)
			return
		}
		signature, err := sgn.Sign(publisherFlags.root.workspace, identity)
		if err != nil {
			wrapFatalln("sign workspace", err)
			return
		}
		infoLogger.Println(signature)
	},
}

func init() {
	addUserIDFlag(signCmd)
	addUserEmailFlag(signCmd)

	rootCmd.AddCommand(signCmd)
}
