package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/output"
	"github.com/willibrandon/propman/cmd/propman/project"
)

type sheetShowOptions struct {
	format string
}

// NewSheetShowCommand creates the "sheet show" command
func NewSheetShowCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	opts := &sheetShowOptions{}

	cmd := &cobra.Command{
		Use:               "show NAME",
		Short:             "Show the fields of a property sheet",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSheetNames(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheetShow(cmd, console, flags, args[0], project.Fields, opts.format)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "console", "Output format: console or json")

	return cmd
}

func runSheetShow(cmd *cobra.Command, console *output.Console, flags *config.Settings, name string, fields []project.Field, format string) error {
	start := time.Now()
	if err := validateFormat(format); err != nil {
		return err
	}

	s, err := openSession(cmd.Context(), console, flags, "")
	if err != nil {
		return err
	}
	sheet, err := s.mgr.LoadSheet(cmd.Context(), s.state, name)
	if err != nil {
		return err
	}

	if format == "json" {
		result := output.NewSheetFieldsOutput(name, sheet.Path, start)
		for _, f := range fields {
			result.Fields = append(result.Fields, output.FieldEntry{Name: f.String(), Element: f.ElementPath(), Values: sheet.List(f)})
		}
		return output.WriteJSON(console.Out(), result)
	}

	printSheetFields(console, sheet, fields)
	return nil
}

func printSheetFields(console *output.Console, sheet *project.PropertySheet, fields []project.Field) {
	for i, f := range fields {
		if i > 0 {
			console.Println()
		}
		console.Header("%s (%s)", f.Title(), f.String())
		for _, v := range sheet.List(f) {
			console.Printf("  %s\n", v)
		}
	}
}
