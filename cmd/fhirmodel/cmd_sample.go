package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gofhir/fhirmodel"
	"github.com/gofhir/fhirmodel/pkg/encode"
	"github.com/gofhir/fhirmodel/pkg/issue"
	"github.com/gofhir/fhirmodel/pkg/resource"
	"github.com/gofhir/fhirmodel/pkg/terminology"
	"github.com/gofhir/fhirmodel/pkg/walk"
)

type sampleFlags struct {
	format string
	check  bool
	strict bool
}

func newSampleCmd(root *rootFlags) *cobra.Command {
	flags := &sampleFlags{}
	cmd := &cobra.Command{
		Use:       "sample [" + strings.Join(sampleNames, "|") + "]",
		Short:     "Build a sample document, print it and optionally check it",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: sampleNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "claim"
			if len(args) == 1 {
				name = args[0]
			}
			return runSample(cmd, root, flags, name)
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "output format (json, yaml, paths)")
	cmd.Flags().BoolVar(&flags.check, "check", false, "check references, bindings and invariants")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "report warnings as errors (implies --check)")
	return cmd
}

func runSample(cmd *cobra.Command, root *rootFlags, flags *sampleFlags, name string) error {
	samples, err := buildSamples()
	if err != nil {
		printResult(cmd.ErrOrStderr(), "build", issue.FromError(err), 0)
		return fmt.Errorf("build samples: %w", err)
	}
	doc, ok := samples.documents()[name]
	if !ok {
		return fmt.Errorf("unknown sample %q (want one of %s)", name, strings.Join(sampleNames, ", "))
	}

	out := cmd.OutOrStdout()
	if err := writeDocument(out, doc, flags.format); err != nil {
		return err
	}
	if !flags.check && !flags.strict {
		return nil
	}

	store, err := samples.store()
	if err != nil {
		return err
	}
	version, _ := fhirmodel.ParseVersion(root.fhir)
	opts := []fhirmodel.Option{
		fhirmodel.WithVersion(version),
		fhirmodel.WithTerminology(terminology.NewStore()),
		fhirmodel.WithResolver(store),
		fhirmodel.WithStrictMode(flags.strict),
	}
	start := time.Now()
	result, err := fhirmodel.NewChecker(opts...).Check(context.Background(), doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printResult(out, fmt.Sprintf("%s/%s", doc.TypeName(), doc.ResourceBase().ID()), result, time.Since(start))
	if result.HasErrors() {
		return fmt.Errorf("%s is invalid", name)
	}
	return nil
}

func writeDocument(w io.Writer, doc resource.Resource, format string) error {
	switch format {
	case "json":
		data, err := encode.JSONIndent(doc, "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := encode.YAML(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "paths":
		for _, p := range walk.Paths(doc) {
			if _, err := fmt.Fprintln(w, p); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printResult(w io.Writer, name string, result *issue.Result, duration time.Duration) {
	status := color.GreenString("VALID")
	if result.HasErrors() {
		status = color.RedString("INVALID")
	}

	fmt.Fprintf(w, "== %s ==\n", name)
	fmt.Fprintf(w, "Status: %s\n", status)
	fmt.Fprintf(w, "Errors: %d, Warnings: %d, Info: %d\n", result.ErrorCount(), result.WarningCount(), result.InfoCount())
	if result.Stats != nil {
		fmt.Fprintf(w, "Nodes: %d, References: %d\n", result.Stats.NodesChecked, result.Stats.ReferencesResolved)
	}
	fmt.Fprintf(w, "Duration: %s\n", duration.Round(time.Microsecond))

	if len(result.Issues) == 0 {
		return
	}
	fmt.Fprintln(w, "\nIssues:")
	for _, is := range result.Issues {
		location := ""
		if len(is.Expression) > 0 {
			location = " @ " + strings.Join(is.Expression, ", ")
		}
		fmt.Fprintf(w, "  %s [%s] %s%s\n", severityIcon(is.Severity), is.Code, is.Diagnostics, location)
	}
}

func severityIcon(s issue.Severity) string {
	switch s {
	case issue.SeverityFatal, issue.SeverityError:
		return color.RedString("ERROR")
	case issue.SeverityWarning:
		return color.YellowString("WARN ")
	case issue.SeverityInformation:
		return color.CyanString("INFO ")
	default:
		return "     "
	}
}
