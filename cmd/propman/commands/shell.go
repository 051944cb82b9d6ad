package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/manager"
	"github.com/willibrandon/propman/cmd/propman/output"
	"github.com/willibrandon/propman/cmd/propman/project"
	"github.com/willibrandon/propman/observability"
)

type shellOptions struct {
	metricsAddr string
}

// NewShellCommand creates the "shell" command
func NewShellCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	opts := &shellOptions{}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long: `Start an interactive session on the project. The session keeps the selected
configuration and sheet directory between commands and completes sheet names,
configurations and fields with TAB. Type "help" for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunShell(cmd, console, flags, opts.metricsAddr)
		},
	}

	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the shell runs (e.g. localhost:9464)")

	return cmd
}

// RunShell opens a session and runs the interactive loop until exit or end of input.
func RunShell(cmd *cobra.Command, console *output.Console, flags *config.Settings, metricsAddr string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, console, flags, "")
	if err != nil {
		return err
	}

	sh := newShell(ctx, console, s)

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := observability.StartMetricsServer(srv, sh.health); err != nil {
				console.Warning("metrics server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		console.Info("Serving metrics at http://%s/metrics and health at http://%s/health", metricsAddr, metricsAddr)
	}

	in := cmd.InOrStdin()
	f, isFile := in.(*os.File)
	interactive := isFile && term.IsTerminal(int(f.Fd()))

	if !interactive {
		return sh.runLines(in)
	}

	sh.ask = func(question string) bool {
		return isYes(prompt.Input(question+" [y/N]: ", func(prompt.Document) []prompt.Suggest { return nil }))
	}
	sh.printSummary()

	p := prompt.New(
		sh.executor,
		sh.completer,
		prompt.OptionTitle("propman"),
		prompt.OptionLivePrefix(sh.livePrefix),
		prompt.OptionPrefixTextColor(prompt.Blue),
		prompt.OptionInputTextColor(prompt.DefaultColor),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && sh.exited
		}),
	)
	p.Run()
	return nil
}

// shell interprets one line at a time against a session.
type shell struct {
	ctx     context.Context
	console *output.Console
	session *session
	ask     func(question string) bool
	exited  bool

	// targets is read by the health endpoint's goroutines
	targets atomic.Pointer[healthTargets]
	health  *observability.HealthChecker
}

type healthTargets struct {
	project  string
	sheetDir string
}

type shellCommand struct {
	name  string
	args  string
	short string
}

var shellCommands = []shellCommand{
	{"list", "", "List active and inactive sheets"},
	{"status", "", "Show every configuration with its active sheets"},
	{"configs", "", "List configurations"},
	{"config", "NAME", "Select a configuration"},
	{"dir", "PATH", "Use another property sheet directory"},
	{"refresh", "", "Rescan the property sheet directory"},
	{"activate", "NAME", "Import a sheet into the selected configuration"},
	{"deactivate", "NAME", "Remove a sheet from the selected configuration"},
	{"new", "NAME", "Create an empty sheet"},
	{"copy", "SOURCE [TARGET]", "Copy a sheet"},
	{"delete", "NAME", "Delete a sheet file"},
	{"show", "NAME", "Show the fields of a sheet"},
	{"add", "NAME FIELD VALUE", "Prepend a value to a sheet field"},
	{"remove", "NAME FIELD VALUE", "Remove a value from a sheet field"},
	{"health", "", "Check the project file and sheet directory"},
	{"help", "", "Show this help"},
	{"exit", "", "Leave the shell"},
}

func newShell(ctx context.Context, console *output.Console, s *session) *shell {
	if ctx == nil {
		ctx = context.Background()
	}
	sh := &shell{
		ctx:     ctx,
		console: console,
		session: s,
		ask:     func(string) bool { return false },
	}
	sh.publish()
	sh.health = sh.healthChecker()
	return sh
}

// publish snapshots the paths the health checks report on.
func (sh *shell) publish() {
	sh.targets.Store(&healthTargets{
		project:  sh.session.state.ProjectPath,
		sheetDir: sh.session.state.SheetDir,
	})
}

func (sh *shell) healthChecker() *observability.HealthChecker {
	health := observability.NewHealthChecker()
	health.Register(observability.ProjectFileHealthCheck("project", func() string {
		return sh.targets.Load().project
	}))
	health.Register(observability.SheetDirHealthCheck("sheets", func() string {
		return sh.targets.Load().sheetDir
	}, 5*time.Second))
	return health
}

// runLines reads commands from a non-terminal input. Confirmation answers
// are read from the same input.
func (sh *shell) runLines(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	sh.ask = func(question string) bool {
		_, _ = fmt.Fprintf(sh.console.Err(), "%s [y/N]: ", question)
		if !scanner.Scan() {
			return false
		}
		return isYes(scanner.Text())
	}
	for !sh.exited && scanner.Scan() {
		sh.executor(scanner.Text())
	}
	return scanner.Err()
}

func (sh *shell) livePrefix() (string, bool) {
	state := sh.session.state
	return fmt.Sprintf("propman [%s]> ", displayOr(state.Configuration, "no project")), true
}

func (sh *shell) printSummary() {
	state := sh.session.state
	sh.console.Info("Project: %s", displayOr(state.ProjectPath, "(none)"))
	sh.console.Info("Property sheets: %s", state.SheetDir)
	sh.console.Info("%s. Type \"help\" for commands.", state.Status)
}

// executor runs one input line. Errors are reported on the console, never returned.
func (sh *shell) executor(line string) {
	words, err := splitWords(line)
	if err != nil {
		sh.console.Error("%v", err)
		return
	}
	if len(words) == 0 {
		return
	}
	if err := sh.dispatch(words[0], words[1:]); err != nil {
		sh.console.Error("%v", err)
	}
	sh.publish()
}

// splitWords splits a shell line on whitespace. Single or double quotes group
// a word that contains spaces. Backslashes, '|' and ';' are ordinary characters
// because Windows paths, configurations and MSBuild lists use them.
func splitWords(line string) ([]string, error) {
	var (
		words  []string
		word   strings.Builder
		quote  rune
		inWord bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inWord {
		words = append(words, word.String())
	}
	return words, nil
}

// quoteWord quotes s when splitWords would otherwise break it apart.
func quoteWord(s string) string {
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return `"` + s + `"`
	}
	return s
}

func (sh *shell) dispatch(name string, args []string) error {
	s := sh.session

	switch name {
	case "exit", "quit":
		sh.exited = true
		return nil
	case "help", "?":
		sh.printHelp()
		return nil
	case "list", "ls":
		sh.printSheets()
		return nil
	case "health":
		sh.printHealth()
		return nil
	case "status":
		if err := s.requireProject(); err != nil {
			return err
		}
		sh.console.Print(renderStatus(s.state))
		return nil
	case "configs":
		for _, c := range s.state.Configurations {
			if c == s.state.Configuration {
				sh.console.Printf("* %s\n", c)
			} else {
				sh.console.Printf("  %s\n", c)
			}
		}
		return nil
	case "config":
		if len(args) == 0 {
			return errors.New("usage: config NAME")
		}
		state, err := s.mgr.SelectConfiguration(sh.ctx, s.state, strings.Join(args, " "))
		if err != nil {
			return err
		}
		s.state = state
		sh.printSheets()
		return nil
	case "dir":
		if len(args) == 0 {
			return errors.New("usage: dir PATH")
		}
		state, err := s.mgr.SetSheetDir(sh.ctx, s.state, strings.Join(args, " "))
		s.state = state
		if err != nil {
			return err
		}
		sh.printSheets()
		return nil
	case "refresh":
		state, err := s.mgr.Refresh(sh.ctx, s.state)
		s.state = state
		if err != nil {
			return err
		}
		sh.printSheets()
		return nil
	case "activate", "deactivate", "new", "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s NAME", name)
		}
		return sh.simpleIntent(name, args[0])
	case "copy":
		if len(args) < 1 || len(args) > 2 {
			return errors.New("usage: copy SOURCE [TARGET]")
		}
		target := args[0] + "_copy"
		if len(args) == 2 {
			target = args[1]
		}
		return s.execute(sh.ctx, sh.console, manager.CopySheet{Source: args[0], Target: target})
	case "show":
		if len(args) != 1 {
			return errors.New("usage: show NAME")
		}
		sheet, err := s.mgr.LoadSheet(sh.ctx, s.state, args[0])
		if err != nil {
			return err
		}
		printSheetFields(sh.console, sheet, project.Fields)
		return nil
	case "add", "remove":
		if len(args) < 3 {
			return fmt.Errorf("usage: %s NAME FIELD VALUE", name)
		}
		field, err := project.ParseField(args[1])
		if err != nil {
			return err
		}
		op := manager.Insert
		if name == "remove" {
			op = manager.Remove
		}
		value := strings.Join(args[2:], " ")
		return s.execute(sh.ctx, sh.console, manager.EditField{Sheet: args[0], Field: field, Op: op, Value: value})
	default:
		return fmt.Errorf("unknown command %q, type \"help\" for commands", name)
	}
}

func (sh *shell) simpleIntent(name, sheet string) error {
	s := sh.session
	var intent manager.Intent
	switch name {
	case "activate":
		intent = manager.Activate{Name: sheet}
	case "deactivate":
		intent = manager.Deactivate{Name: sheet}
	case "new":
		intent = manager.CreateSheet{Name: sheet}
	case "delete":
		if _, ok := s.state.Sheet(sheet); !ok {
			return fmt.Errorf("%w: %s", manager.ErrSheetNotFound, sheet)
		}
		if !sh.ask(fmt.Sprintf("Delete property sheet %s? Other projects using it may break.", sheet)) {
			sh.console.Info("Nothing deleted.")
			return nil
		}
		intent = manager.DeleteSheet{Name: sheet}
	}
	return s.execute(sh.ctx, sh.console, intent)
}

func (sh *shell) printSheets() {
	state := sh.session.state
	if !state.HasProject() {
		sh.console.Warning("%s", state.Status)
	}
	sh.console.Header("Active (%s)", displayOr(state.Configuration, "no configuration"))
	for _, sheet := range state.ActiveSheets() {
		sh.console.Sheet(sheet.Name, true)
	}
	sh.console.Header("Inactive")
	for _, sheet := range state.InactiveSheets() {
		sh.console.Sheet(sheet.Name, false)
	}
}

func (sh *shell) printHealth() {
	results := sh.health.Check(sh.ctx)
	sh.console.Printf("Overall: %s\n", observability.OverallStatus(results))
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		result := results[name]
		sh.console.Printf("  %-8s %-10s %s\n", name, result.Status, result.Message)
	}
}

func (sh *shell) printHelp() {
	for _, c := range shellCommands {
		usage := strings.TrimSpace(c.name + " " + c.args)
		sh.console.Printf("  %-28s %s\n", usage, c.short)
	}
	sh.console.Println()
	sh.console.Println(fieldHelp)
}

// completer suggests commands for the first word and sheet names,
// configurations, fields or field values for the arguments.
func (sh *shell) completer(d prompt.Document) []prompt.Suggest {
	return sh.suggest(d.TextBeforeCursor())
}

func (sh *shell) suggest(text string) []prompt.Suggest {
	words := strings.Fields(text)
	current := ""
	if len(words) > 0 && !strings.HasSuffix(text, " ") {
		current = words[len(words)-1]
		words = words[:len(words)-1]
	}

	var candidates []prompt.Suggest
	if len(words) == 0 {
		for _, c := range shellCommands {
			candidates = append(candidates, prompt.Suggest{Text: c.name, Description: c.short})
		}
		return prompt.FilterHasPrefix(candidates, current, true)
	}

	state := sh.session.state
	switch cmd := words[0]; {
	case len(words) == 1 && cmd == "config":
		for _, c := range state.Configurations {
			candidates = append(candidates, prompt.Suggest{Text: quoteWord(c)})
		}
	case len(words) == 1 && cmd == "activate":
		candidates = sheetSuggestions(state.InactiveSheets())
	case len(words) == 1 && cmd == "deactivate":
		candidates = sheetSuggestions(state.ActiveSheets())
	case len(words) == 1 && (cmd == "copy" || cmd == "delete" || cmd == "show" || cmd == "add" || cmd == "remove"):
		candidates = sheetSuggestions(state.Sheets)
	case len(words) == 2 && (cmd == "add" || cmd == "remove"):
		for _, f := range project.Fields {
			candidates = append(candidates, prompt.Suggest{Text: f.String(), Description: f.Title()})
		}
	case len(words) == 3 && cmd == "remove":
		candidates = sh.valueSuggestions(words[1], words[2])
	}
	return prompt.FilterHasPrefix(candidates, current, true)
}

func sheetSuggestions(sheets []manager.Sheet) []prompt.Suggest {
	suggestions := make([]prompt.Suggest, 0, len(sheets))
	for _, sheet := range sheets {
		description := "inactive"
		if sheet.Active {
			description = "active"
		}
		suggestions = append(suggestions, prompt.Suggest{Text: quoteWord(sheet.Name), Description: description})
	}
	return suggestions
}

func (sh *shell) valueSuggestions(sheetName, fieldName string) []prompt.Suggest {
	field, err := project.ParseField(fieldName)
	if err != nil {
		return nil
	}
	sheet, err := sh.session.mgr.LoadSheet(sh.ctx, sh.session.state, sheetName)
	if err != nil {
		return nil
	}
	var suggestions []prompt.Suggest
	for _, v := range sheet.List(field) {
		if v != "" {
			suggestions = append(suggestions, prompt.Suggest{Text: v})
		}
	}
	return suggestions
}
