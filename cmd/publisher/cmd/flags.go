// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type flagsT struct {
	release struct {
		projectID   string
		draftID     string
		bump        string
		description string
		mrID        int
		signature   string
		reason      string
	}
	identity struct {
		userID    string
		userEmail string
	}
	web struct {
		port int
	}
	root struct {
		workspace string
		credFile  string
		logLevel  string
		metrics   bool
	}
}

var publisherFlags = flagsT{}

func addProjectIDFlag(cmd *cobra.Command) string {
	projectID := "project-id"
	cmd.Flags().StringVar(&publisherFlags.release.projectID, projectID, "",
		"The hosting provider project holding the agent workspace")
	return projectID
}

func addDraftIDFlag(cmd *cobra.Command) string {
	draftID := "draft-id"
	cmd.Flags().StringVar(&publisherFlags.release.draftID, draftID, "",
		"The quality system draft tracking this release")
	return draftID
}

func addBumpFlag(cmd *cobra.Command) string {
	bump := "bump"
	cmd.Flags().StringVar(&publisherFlags.release.bump, bump, "",
		"The version bump to apply: major, minor or patch")
	return bump
}

func addDescriptionFlag(cmd *cobra.Command) string {
	description := "description"
	cmd.Flags().StringVar(&publisherFlags.release.description, description, "",
		"A description of the changes carried by this release")
	return description
}

func addMRIDFlag(cmd *cobra.Command) string {
	mrID := "mr-id"
	cmd.Flags().IntVar(&publisherFlags.release.mrID, mrID, 0,
		"The merge request id of the release candidate")
	return mrID
}

func addSignatureFlag(cmd *cobra.Command) string {
	signature := "signature"
	cmd.Flags().StringVar(&publisherFlags.release.signature, signature, "",
		"The electronic signature produced when the candidate was reviewed")
	return signature
}

func addReasonFlag(cmd *cobra.Command) string {
	reason := "reason"
	cmd.Flags().StringVar(&publisherFlags.release.reason, reason, "",
		"The reason changes are requested")
	return reason
}

func addUserIDFlag(cmd *cobra.Command) string {
	userID := "user-id"
	cmd.Flags().StringVar(&publisherFlags.identity.userID, userID, "",
		"The id of the acting user. Overrides the identity from the credential file")
	return userID
}

func addUserEmailFlag(cmd *cobra.Command) string {
	userEmail := "user-email"
	cmd.Flags().StringVar(&publisherFlags.identity.userEmail, userEmail, "",
		"The email of the acting user")
	return userEmail
}

func addWebPortFlag(cmd *cobra.Command) string {
	webPort := "port"
	cmd.Flags().IntVar(&publisherFlags.web.port, webPort, 0,
		"Port number for the web server")
	return webPort
}

func addWorkspaceFlag(cmd *cobra.Command) string {
	workspace := "workspace"
	cmd.PersistentFlags().StringVar(&publisherFlags.root.workspace, workspace, "",
		"The path to the agent workspace (defaults to the current directory)")
	return workspace
}

func addCredentialFileFlag(cmd *cobra.Command) string {
	credFile := "credential"
	cmd.PersistentFlags().StringVar(&publisherFlags.root.credFile, credFile, "",
		"The file holding the identity credential")
	return credFile
}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&publisherFlags.root.logLevel, logLevel, "",
		"The log level: info, debug or none")
	return logLevel
}

func addMetricsFlag(cmd *cobra.Command) string {
	metrics := "metrics"
	cmd.PersistentFlags().BoolVar(&publisherFlags.root.metrics, metrics, false,
		"Enable metrics collection")
	return metrics
}

// requireFlags sets a flag (local to the command or inherited) as required
func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		err := cmd.MarkFlagRequired(flag)
		if err != nil {
			err = cmd.MarkPersistentFlagRequired(flag)
		}
		if err != nil {
			wrapFatalln(fmt.Sprintf("error attempting to mark the required flag %q", flag), err)
			return
		}
	}
}
