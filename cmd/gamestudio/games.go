package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/store"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/wire"
	"github.com/spf13/cobra"
)

// withStore opens the configured store for the duration of fn.
func withStore(opts *rootOptions, fn func(ctx context.Context, rt *wire.StoreRuntime) error) error {
	rt, cleanup, err := wire.InitializeStore(wire.ConfigPath(opts.configPath))
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(context.Background(), rt)
}

func newGamesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Inspect and manage stored games",
		Long: `Work directly on the configured game store without starting the
server. No AI API key is needed.`,
	}

	cmd.AddCommand(newGamesListCmd(opts))
	cmd.AddCommand(newGamesShowCmd(opts))
	cmd.AddCommand(newGamesDeleteCmd(opts))
	cmd.AddCommand(newGamesImportCmd(opts))
	return cmd
}

func newGamesListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(ctx context.Context, rt *wire.StoreRuntime) error {
				games, err := rt.Store.List(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), games)
				}
				return writeTable(cmd.OutOrStdout(), games)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full records as JSON")
	return cmd
}

func newGamesShowCmd(opts *rootOptions) *cobra.Command {
	var codeOnly bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one game",
		Example: `  gamestudio games show 1718000000000-3f2a9c1b7e4d
  gamestudio games show 1718000000000-3f2a9c1b7e4d --code > game.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(ctx context.Context, rt *wire.StoreRuntime) error {
				rec, err := rt.Store.Get(ctx, args[0])
				if err != nil {
					return describe(args[0], err)
				}
				if codeOnly {
					_, err := io.WriteString(cmd.OutOrStdout(), rec.Code)
					return err
				}
				return writeJSON(cmd.OutOrStdout(), rec)
			})
		},
	}

	cmd.Flags().BoolVar(&codeOnly, "code", false, "Print only the HTML document")
	return cmd
}

func newGamesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(ctx context.Context, rt *wire.StoreRuntime) error {
				if err := rt.Store.Delete(ctx, args[0]); err != nil {
					return describe(args[0], err)
				}
				rt.Logger.Info().Str("id", args[0]).Msg("Game deleted")
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newGamesImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <games.json>",
		Short: "Copy a JSON games file into the configured store",
		Long: `Copy every record of a JSON games file into the configured store,
keeping ids and versions. Use it to move an existing games.json into
SQLite or Redis.`,
		Example: `  STORE_DRIVER=sqlite STORE_PATH=games.db gamestudio games import games.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(ctx context.Context, rt *wire.StoreRuntime) error {
				if fs, ok := rt.Store.(*store.FileStore); ok && fs.Path() == args[0] {
					return fmt.Errorf("%s is already the configured store", args[0])
				}
				dst, ok := rt.Store.(store.Restorer)
				if !ok {
					return fmt.Errorf("store driver %q does not support import", rt.Config.Store.Driver)
				}
				n, err := store.ImportFile(ctx, dst, args[0], rt.Logger)
				if err != nil {
					return err
				}
				rt.Logger.Info().Int("count", n).Str("source", args[0]).Msg("Games imported")
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d games\n", n)
				return nil
			})
		},
	}
}

func describe(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("game %s not found", id)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, games []store.GameRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tVERSION\tUPDATED")
	for _, g := range games {
		updated := "-"
		if !g.UpdatedAt.IsZero() {
			updated = g.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", g.ID, g.Title, g.Version, updated)
	}
	return tw.Flush()
}
