// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "publisher",
	Short: "Publisher manages regulated releases of AI agent artifacts",
	Long: `Publisher drives the release workflow for AI agent workspaces: it bundles
the workspace into a reviewable artifact, signs it, opens a release candidate
on the hosting provider and keeps the quality system in sync at every step.

Every release action carries an electronic signature and an audit trail, so
that a reviewer can later reconstruct who proposed, approved or rejected a
given artifact and against which evidence.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	addWorkspaceFlag(rootCmd)
	addCredentialFileFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addMetricsFlag(rootCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("workspace", ".")
	viper.SetDefault("auth", "static")
	viper.SetDefault("storage", "localfs")
	viper.SetDefault("branch", "main")
	viper.SetDefault("loglevel", "info")
	if os.Getenv("PUBLISHER_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("PUBLISHER_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.publisher")
		viper.AddConfigPath("/etc/publisher")
		viper.SetConfigName("publisher")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setPublisherParams(&publisherFlags)
	if config.Credential != "" && config.Storage == backendGCS {
		// The GCS client honors this variable. Set it from the config file so
		// a stale value from the calling shell cannot point at the wrong project.
		_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", config.Credential)
	}
}
