package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gofhir/fhirmodel/pkg/logger"
	"github.com/gofhir/fhirmodel/pkg/schema"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <structuredefinition.json>...",
		Short: "Convert R4 StructureDefinitions into shape declarations",
		Long: `Reads R4 StructureDefinition JSON files and prints the shape declarations
derived from their snapshots, in the YAML catalog format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var all []*schema.Declaration
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				decls, err := schema.DecodeStructureDefinition(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				logger.Debug("%s: %d declarations", path, len(decls))
				all = append(all, decls...)
			}
			return schema.EncodeYAML(cmd.OutOrStdout(), all...)
		},
	}
}
