// Command docmark processes DOCX templates marked with a markup style.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/benjaminschreck/go-docmark/pkg/docmark"
)

const version = "0.1.0"

// Globals holds the flags shared by every command.
type Globals struct {
	Config   string `name:"config" short:"c" help:"HCL settings file" type:"existingfile"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error, off)"`
	LogFile  string `name:"log-file" help:"Also write JSON log records to this file" type:"path"`

	logFile io.Closer
}

// cli defines the command-line interface for docmark.
type cli struct {
	Globals

	Process ProcessCmd `cmd:"" help:"Process a template and write the result"`
	Inspect InspectCmd `cmd:"" help:"List the instructions found in a template"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// CLI holds the parsed command line.
var CLI cli

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name("docmark"),
		kong.Description("docmark - DOCX template processor driven by a markup style"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}
}

// setup builds the engine and the variables from the settings file,
// the environment and the command line, in increasing priority.
func (g *Globals) setup(set map[string]string) (*docmark.Engine, docmark.Variables, error) {
	config := docmark.GetGlobalConfig()
	vars := docmark.Variables{}

	if g.Config != "" {
		fc, err := docmark.LoadConfigFile(g.Config)
		if err != nil {
			return nil, nil, err
		}
		if err := fc.Apply(config); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", g.Config, err)
		}
		for k, v := range fc.Variables {
			vars[k] = v
		}
	}
	for k, v := range set {
		vars[strings.TrimSpace(k)] = v
	}

	if g.LogLevel != "" {
		config.LogLevel = g.LogLevel
	}
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	docmark.SetGlobalConfig(config)

	logger := docmark.GetLogger()
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		g.logFile = f
		logger = logger.Tee(f)
		docmark.SetLogger(logger)
	}

	engine := docmark.NewWithOptions(
		docmark.WithConfig(config),
		docmark.WithLogger(logger),
	)
	return engine, vars, nil
}

func (g *Globals) close() {
	if g.logFile != nil {
		g.logFile.Close()
	}
}

// ProcessCmd substitutes variables, marks table cells and expands repeat
// blocks.
type ProcessCmd struct {
	Input  string            `arg:"" help:"Template DOCX file" type:"existingfile"`
	Output string            `arg:"" help:"Output DOCX file" type:"path"`
	Set    map[string]string `short:"s" help:"Variable values as key=value pairs"`
}

func (c *ProcessCmd) Run(g *Globals) error {
	engine, vars, err := g.setup(c.Set)
	if err != nil {
		return err
	}

	report, err := engine.ProcessDocument(c.Input, c.Output, vars)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%s)\n", report.OutputPath, humanize.Bytes(uint64(report.Size)))
	fmt.Printf("  blake3:      %s\n", report.Digest)
	fmt.Printf("  substituted: %d\n", report.VariablesSubstituted)
	fmt.Printf("  cells:       %d\n", report.CellsMarked)
	fmt.Printf("  blocks:      %d (%d paragraphs inserted)\n", report.BlocksExpanded, report.ParagraphsInserted)
	if keys := report.UnresolvedKeys(); len(keys) > 0 {
		fmt.Printf("  unresolved:  %s\n", strings.Join(keys, ", "))
	}
	return nil
}

// InspectCmd reports the instructions of a template without changing it.
type InspectCmd struct {
	Input string            `arg:"" help:"Template DOCX file" type:"existingfile"`
	Set   map[string]string `short:"s" help:"Variable values to check against, as key=value pairs"`
}

func (c *InspectCmd) Run(g *Globals) error {
	engine, vars, err := g.setup(c.Set)
	if err != nil {
		return err
	}

	doc, err := docmark.Load(c.Input)
	if err != nil {
		return err
	}

	// Unknown variables are only reported when values were supplied.
	if len(vars) == 0 {
		vars = nil
	}
	result := engine.Inspect(doc, vars)

	fmt.Printf("%s (revision %s)\n", c.Input, result.TemplateRevision)
	for _, ref := range result.Instructions {
		fmt.Printf("  %-10s %-14s %-24q %s\n", ref.Level, ref.Kind, ref.Raw, ref.Location)
	}
	for _, issue := range result.Issues {
		fmt.Printf("%s: %s: %s (%s)\n", issue.Severity, issue.Code, issue.Message, issue.Location)
	}

	if !result.Valid() {
		return fmt.Errorf("%d error(s) found", result.ErrorCount())
	}
	return nil
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("docmark version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI, parserOptions()...)
	err := ctx.Run(&CLI.Globals)
	CLI.Globals.close()
	ctx.FatalIfErrorf(err)
}
