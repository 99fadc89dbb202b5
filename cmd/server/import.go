package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foodiebot/backend/internal/infrastructure/catalogfile"
	"github.com/foodiebot/backend/internal/infrastructure/sqlite"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a products.json catalog into the database",
	Long:  "Import inserts every product from the file whose product_id is not already stored. Re-running it is safe.",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "products.json", "catalog file to import")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	products, err := catalogfile.DecodeFile(importFile)
	if err != nil {
		return err
	}

	result, err := catalogfile.NewImporter(sqlite.NewProductRepository(a.db), a.logger).Import(cmd.Context(), products)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products into %s (%d already present)\n",
		result.Inserted, a.cfg.Database.Path, result.Skipped)
	return nil
}
