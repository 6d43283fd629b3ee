package main

import (
	"context"
	"fmt"

	"github.com/japaniel/ruwordnet/pkg/db"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print row counts of the database",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *db.Store) error {
			counts, err := s.Counts(cmd.Context())
			if err != nil {
				return err
			}
			printCounts(cmd.OutOrStdout(), counts)
			return nil
		}),
	}
	cmd.Flags().String("db", "", "Path to SQLite database")
	return cmd
}

func newSynsetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synset ID",
		Short: "Show a synset and its senses",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *db.Store) error {
			ctx := cmd.Context()
			syn, err := s.Synset(ctx, args[0])
			if err != nil {
				return err
			}
			senses, err := s.Senses(ctx, syn.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%s\n", syn.ID, syn.Name)
			for _, sn := range senses {
				fmt.Fprintf(out, "  %s\t%s\n", sn.ID, sn.Name)
			}
			return nil
		}),
	}
	cmd.Flags().String("db", "", "Path to SQLite database")
	return cmd
}

// newRelativesCmd builds a command listing synsets related to the given one.
func newRelativesCmd(a *app, use, short string, query func(*db.Store, context.Context, string) ([]db.Synset, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *db.Store) error {
			related, err := query(s, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, syn := range related {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", syn.ID, syn.Name)
			}
			return nil
		}),
	}
	cmd.Flags().String("db", "", "Path to SQLite database")
	return cmd
}
