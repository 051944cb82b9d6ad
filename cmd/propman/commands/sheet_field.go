package commands

import (
	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/manager"
	"github.com/willibrandon/propman/cmd/propman/output"
	"github.com/willibrandon/propman/cmd/propman/project"
)

const fieldHelp = `FIELD is one of:
  include   ClCompile/AdditionalIncludeDirectories
  libdir    Link/AdditionalLibraryDirectories
  libdep    Link/AdditionalDependencies
  define    ClCompile/PreprocessorDefinitions`

// NewFieldCommand creates the parent "sheet field" command
func NewFieldCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "List and edit the fields of a property sheet",
		Long:  "List and edit the semicolon-separated fields of a property sheet.\n\n" + fieldHelp,
	}

	cmd.AddCommand(newFieldListCommand(console, flags))
	cmd.AddCommand(newFieldEditCommand(console, flags, manager.Insert))
	cmd.AddCommand(newFieldEditCommand(console, flags, manager.Remove))

	return cmd
}

func newFieldListCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list NAME [FIELD]",
		Short: "List the entries of one or all fields",
		Long:  "List the entries of one or all fields of a property sheet.\n\n" + fieldHelp,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := project.Fields
			if len(args) == 2 {
				f, err := project.ParseField(args[1])
				if err != nil {
					return err
				}
				fields = []project.Field{f}
			}
			return runSheetShow(cmd, console, flags, args[0], fields, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "console", "Output format: console or json")

	return cmd
}

func newFieldEditCommand(console *output.Console, flags *config.Settings, op manager.FieldOp) *cobra.Command {
	use, short := "add NAME FIELD VALUE...", "Prepend values to a field"
	if op == manager.Remove {
		use, short = "remove NAME FIELD VALUE...", "Remove values from a field"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". Values are applied in the order given.\n\n" + fieldHelp,
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := project.ParseField(args[1])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), console, flags, "")
			if err != nil {
				return err
			}
			for _, value := range args[2:] {
				intent := manager.EditField{Sheet: args[0], Field: field, Op: op, Value: value}
				if err := s.execute(cmd.Context(), console, intent); err != nil {
					return err
				}
			}
			return nil
		},
	}

	return cmd
}
