package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"zooapi/internal/core"
	"zooapi/pkg/domain"
)

type queryFlags struct {
	traits  []string
	diet    string
	species string
	name    string
}

func newQueryCmd(root *rootFlags) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the animals matching the given filters as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, root, flags)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&flags.traits, "personality-trait", nil, "required trait (repeatable)")
	f.StringVar(&flags.diet, "diet", "", "exact diet")
	f.StringVar(&flags.species, "species", "", "exact species")
	f.StringVar(&flags.name, "name", "", "exact name")
	return cmd
}

func runQuery(cmd *cobra.Command, root *rootFlags, flags *queryFlags) error {
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	store, err := core.OpenPersistentStore(cmd.Context(), cfg.StorageConfig())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	q := domain.Query{Diet: flags.diet, Species: flags.species, Name: flags.name}
	if cmd.Flags().Changed("personality-trait") {
		q.HasTraits = true
		q.PersonalityTraits = flags.traits
	}
	matches, err := core.FilterByQuery(cmd.Context(), q, store.ListAnimals())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(matches)
}
