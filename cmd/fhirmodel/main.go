// Package main implements the fhirmodel CLI: it lists the declared shapes,
// converts StructureDefinitions into shape declarations and builds, encodes
// and checks sample documents.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gofhir/fhirmodel"
	"github.com/gofhir/fhirmodel/pkg/logger"
)

const version = "0.1.0"

type rootFlags struct {
	verbose bool
	noColor bool
	fhir    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "fhirmodel",
		Short:         "Inspect and exercise the typed FHIR object model",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.noColor {
				color.NoColor = true
			}
			level := logger.LevelWarn
			if flags.verbose {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.New(cmd.ErrOrStderr(), level))
			if _, ok := fhirmodel.ParseVersion(flags.fhir); !ok {
				return fmt.Errorf("unsupported FHIR version %q", flags.fhir)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&flags.fhir, "fhir", "R4", "FHIR version (R4, R4B, R5 or a release number)")

	root.AddCommand(
		newShapesCmd(),
		newInspectCmd(),
		newSampleCmd(flags),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
