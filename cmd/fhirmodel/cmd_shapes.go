package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gofhir/fhirmodel/pkg/datatype"
	"github.com/gofhir/fhirmodel/pkg/resource"
	"github.com/gofhir/fhirmodel/pkg/schema"
)

// The shape packages register their catalogs with schema.Default when
// loaded.
var _, _ = datatype.Declarations, resource.Declarations

func newShapesCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "shapes [type...]",
		Short: "List the declared shapes, or print the declarations of the given types",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return printDeclarations(cmd, args)
			}
			return listShapes(cmd, schema.Kind(kind))
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list shapes of this kind (primitive, complex, backbone, resource)")
	return cmd
}

func listShapes(cmd *cobra.Command, kind schema.Kind) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tKIND\tFIELDS\tCONSTRAINTS")
	for _, name := range schema.Default.Types() {
		d := schema.Default.MustGet(name)
		if kind != "" && d.Kind != kind {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", d.Type, d.Kind, len(d.Fields), len(d.Constraints))
	}
	return tw.Flush()
}

func printDeclarations(cmd *cobra.Command, types []string) error {
	decls := make([]*schema.Declaration, 0, len(types))
	for _, t := range types {
		d, ok := schema.Default.Get(t)
		if !ok {
			return fmt.Errorf("unknown type %q", t)
		}
		decls = append(decls, d)
	}
	return schema.EncodeYAML(cmd.OutOrStdout(), decls...)
}
