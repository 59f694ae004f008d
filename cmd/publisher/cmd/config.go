// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// supported artifact storage backends
const (
	backendLocalFS = "localfs"
	backendGCS     = "gcs"
	backendS3      = "s3"
)

// supported identity backends
const (
	authStatic = "static"
	authGoogle = "google"
)

type serviceConfig struct {
	URL   string `json:"url" yaml:"url"`
	Token string `json:"token" yaml:"token"`
}

type gitlabConfig struct {
	URL     string `json:"url" yaml:"url"`
	Token   string `json:"token" yaml:"token"`
	Project string `json:"project" yaml:"project"`
}

type thresholdsConfig struct {
	// both in MiB
	Offload  int64 `json:"offload" yaml:"offload"`
	Tracking int64 `json:"tracking" yaml:"tracking"`
}

type webConfig struct {
	Port  int    `json:"port" yaml:"port"`
	Token string `json:"token" yaml:"token"`
}

type metricsConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// keep field names aligned with the serialized names, viper matches on them
	Workspace  string           `json:"workspace" yaml:"workspace"`
	Credential string           `json:"credential" yaml:"credential"` // identity credential file
	Auth       string           `json:"auth" yaml:"auth"`             // static|google
	Storage    string           `json:"storage" yaml:"storage"`       // localfs|gcs|s3
	Bucket     string           `json:"bucket" yaml:"bucket"`         // bucket (or directory for localfs)
	Branch     string           `json:"branch" yaml:"branch"`         // release target branch
	LogLevel   string           `json:"loglevel" yaml:"loglevel"`
	Assay      serviceConfig    `json:"assay" yaml:"assay"`
	Foundry    serviceConfig    `json:"foundry" yaml:"foundry"`
	Gitlab     gitlabConfig     `json:"gitlab" yaml:"gitlab"`
	Thresholds thresholdsConfig `json:"thresholds" yaml:"thresholds"`
	Web        webConfig        `json:"web" yaml:"web"`
	Metrics    metricsConfig    `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// setPublisherParams fills in flags left unset from the config file.
func (c *CLIConfig) setPublisherParams(flags *flagsT) {
	if flags.root.workspace == "" {
		flags.root.workspace = c.Workspace
	}
	if flags.root.credFile == "" {
		flags.root.credFile = c.Credential
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.LogLevel
	}
	if flags.web.port == 0 {
		flags.web.port = c.Web.Port
	}
}

// configCmd groups configuration related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the publisher config",
	Long: `Commands to manage the publisher CLI config.

Configuration for publisher is the common set of values that do not change
across runs: collaborator endpoints, the artifact storage backend and the
identity credential file.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
