// Copyright © 2025 CoReason, Inc.

package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreason-ai/publisher/pkg/lfs"
	"github.com/coreason-ai/publisher/pkg/web"

	"github.com/spf13/cobra"
)

var webSrv = &cobra.Command{
	Use:   "web",
	Short: "Webserver",
	Long:  "A webserver process exposing the release workflow over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		infoLogger.Println("begin webserver")
		ctx := context.Background()
		l := mustLogger()
		orchestrator, err := newOrchestrator(ctx, l)
		if err != nil {
			wrapFatalln("assemble release workflow", err)
			return
		}
		opts := []web.Option{
			web.Logger(l),
			web.Health(lfs.New(lfs.Logger(l)), newGitLab(l), publisherFlags.root.workspace),
		}
		if publisherFlags.root.credFile != "" || authBackend() == authGoogle {
			backend, err := newAuthorizer()
			if err != nil {
				wrapFatalln("select identity backend", err)
				return
			}
			opts = append(opts, web.Auth(backend, publisherFlags.root.credFile))
		}
		if config.Web.Token != "" {
			opts = append(opts, web.APIToken(config.Web.Token))
		}
		s := web.NewServer(orchestrator, opts...)
		r := web.InitRouter(s)
		infoLogger.Printf("serving on %d...", publisherFlags.web.port)
		err = http.ListenAndServe(fmt.Sprintf(":%d", publisherFlags.web.port), r)
		if err != nil {
			wrapFatalln("server listen error", err)
			return
		}
	},
}

func init() {
	addWebPortFlag(webSrv)

	rootCmd.AddCommand(webSrv)
}
