package main

import (
	"Foodgram-Backend/pkg/ingredient"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type serviceOpener func(configPath string) (ingredient.IngredientService, error)

func newRootCommand(open serviceOpener) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "importer",
		Short:         "Load ingredient and tag reference data from CSV files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the yaml config file")

	root.AddCommand(
		newImportCommand("ingredients", "Import ingredients from \"name,measurement_unit\" rows", &configPath, open,
			ingredient.IngredientService.ImportIngredients),
		newImportCommand("tags", "Import tags from \"name,color,slug\" rows", &configPath, open,
			ingredient.IngredientService.ImportTags),
	)
	return root
}

type importFunc func(ingredient.IngredientService, context.Context, io.Reader) (int64, error)

func newImportCommand(use, short string, configPath *string, open serviceOpener, run importFunc) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return errors.Wrapf(err, "open %s", file)
			}
			defer f.Close()

			service, err := open(*configPath)
			if err != nil {
				return err
			}
			created, err := run(service, cmd.Context(), f)
			if err != nil {
				return errors.Wrapf(err, "import %s", use)
			}
			cmd.Printf("%s: %d created\n", use, created)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
