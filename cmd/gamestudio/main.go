// Command gamestudio serves the game studio API and manages stored games.
//
// @title        Gemini Game Studio API
// @version      1.0
// @description  Generate single-file HTML games from prompts and iterate on them.
// @BasePath     /
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = getVersion()

// getVersion returns the module version from build info
func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	envFile    string
}

// loadEnv reads the dotenv file. A missing default file is not an error.
func (o *rootOptions) loadEnv(explicit bool) error {
	if o.envFile == "" {
		return nil
	}
	err := godotenv.Load(o.envFile)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", o.envFile, err)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gamestudio",
		Short: "Gemini Game Studio - generate and iterate on browser games",
		Long: `Gemini Game Studio turns natural-language descriptions into
single-file HTML games and refines them with further prompts.

Configuration comes from an optional YAML file and the environment
(SERVER_PORT, STORE_DRIVER, STORE_PATH, AI_PROVIDER, API_KEY, ...).
A .env file in the working directory is loaded first.

Example:
  gamestudio serve --config config/config.example.yaml
  gamestudio games list
  gamestudio games show 1718000000000-3f2a9c1b7e4d --code > snake.html
  STORE_DRIVER=sqlite gamestudio games import games.json`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadEnv(cmd.Flags().Changed("env-file"))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Dotenv file loaded before the configuration")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newGamesCmd(opts))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
