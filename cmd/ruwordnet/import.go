package main

import (
	"fmt"

	"github.com/japaniel/ruwordnet/pkg/db"
	"github.com/japaniel/ruwordnet/pkg/wordnet"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a dump into the database if it is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			download, _ := cmd.Flags().GetBool("download")
			if download {
				if err := wordnet.EnsureDump(ctx, a.cfg.DumpPath, a.cfg.DumpURL, a.logger); err != nil {
					return err
				}
			}

			store, err := db.Open(a.cfg.DBPath, a.storeOptions())
			if err != nil {
				return err
			}
			defer store.Close()

			wn, err := wordnet.New(ctx, store, a.cfg.DumpPath, wordnet.Options{
				WithLemmas: a.cfg.WithLemmas,
				Logger:     a.logger,
			})
			if err != nil {
				return err
			}

			if wn.Imported() {
				fmt.Fprintf(out, "Imported %s into %s\n", a.cfg.DumpPath, a.cfg.DBPath)
			} else {
				fmt.Fprintf(out, "Database %s already populated, nothing to import\n", a.cfg.DBPath)
			}

			counts, err := store.Counts(ctx)
			if err != nil {
				return err
			}
			printCounts(out, counts)
			return nil
		},
	}
	cmd.Flags().String("db", "", "Path to SQLite database")
	cmd.Flags().String("dump", "", "Path to the RuWordNet XML dump directory")
	cmd.Flags().String("url", "", "Archive URL used with --download")
	cmd.Flags().Bool("download", false, "Download the dump first if it is missing")
	cmd.Flags().Bool("with-lemmas", false, "Also import the lemmas of senses nested in synsets")
	cmd.Flags().Bool("foreign-keys", false, "Enforce foreign keys between senses, relations and synsets")
	cmd.Flags().Int("batch-size", 0, "Rows per INSERT statement")
	return cmd
}

func newDownloadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download and unpack a dump archive unless the dump is already present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wordnet.EnsureDump(cmd.Context(), a.cfg.DumpPath, a.cfg.DumpURL, a.logger); err != nil {
				return err
			}
			files, err := wordnet.FindFiles(a.cfg.DumpPath)
			if err != nil {
				return err
			}
			for _, f := range files.All() {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().String("dump", "", "Path to the RuWordNet XML dump directory")
	cmd.Flags().String("url", "", "Archive URL (.tar.gz)")
	return cmd
}
