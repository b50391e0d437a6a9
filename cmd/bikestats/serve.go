package main

import (
	"bikestats/ui"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if port == "" {
				port = c.Config.Server.Port
			}
			gin.SetMode(c.Config.Server.GinMode)

			server, err := ui.NewServer(c.Service, c.Logger)
			if err != nil {
				return err
			}
			return server.Start(cmd.Context(), ":"+port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port; overrides PORT")
	return cmd
}
