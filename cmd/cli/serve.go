package main

import (
	"gotreat/internal/api"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			if port == "" {
				port = c.Config.Server.Port
			}
			server := api.NewServer(c.Simulator, c.CaseStudies, c.Config.Simulation)
			return server.ListenAndServe(ctx, ":"+port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default from PORT)")

	return cmd
}
