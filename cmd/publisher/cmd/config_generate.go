// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/spf13/cobra"
)

var configGen = &cobra.Command{
	Use:   "generate",
	Short: "Generate a config",
	Long:  "Generate a config skeleton for publisher. Config file will be placed in $HOME/.publisher/publisher.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		usr, err := user.Current()
		if usr == nil || err != nil {
			wrapFatalln("could not get home directory for user", err)
			return
		}
		skeleton := CLIConfig{
			Workspace:  publisherFlags.root.workspace,
			Credential: publisherFlags.root.credFile,
			Auth:       authStatic,
			Storage:    backendLocalFS,
			Bucket:     filepath.Join(usr.HomeDir, ".publisher", "artifacts"),
			Branch:     "main",
			LogLevel:   "info",
			Assay:      serviceConfig{URL: "https://assay.example.com"},
			Foundry:    serviceConfig{URL: "https://foundry.example.com"},
			Gitlab:     gitlabConfig{URL: "https://gitlab.example.com/api/v4"},
		}
		o, err := yaml.Marshal(skeleton)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		_ = os.Mkdir(filepath.Join(usr.HomeDir, ".publisher"), 0777)
		err = ioutil.WriteFile(filepath.Join(usr.HomeDir, ".publisher", "publisher.yaml"), o, 0666)
		if err != nil {
			wrapFatalln("write config file", err)
			return
		}
		infoLogger.Println("wrote", filepath.Join(usr.HomeDir, ".publisher", "publisher.yaml"))
	},
}

func init() {
	configCmd.AddCommand(configGen)
}
