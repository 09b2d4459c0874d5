package main

import (
	"os"
	"strconv"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/wire"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server with the game API, the live feed and the
static front end. Fails at startup when no AI API key is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				if err := os.Setenv("SERVER_PORT", strconv.Itoa(port)); err != nil {
					return err
				}
			}

			app, cleanup, err := wire.InitializeApp(wire.ConfigPath(opts.configPath))
			if err != nil {
				return err
			}
			defer cleanup()

			return app.Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "Server port (overrides SERVER_PORT)")
	return cmd
}
