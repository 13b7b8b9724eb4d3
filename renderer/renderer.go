package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/sethvargo/go-envconfig"

	"github.com/pomlkit/poml/logging"
)

// DefaultCommand is the renderer executable looked up on PATH when neither
// the Command option nor the POML_CLI environment variable names one.
const DefaultCommand = "poml"

// Args captures the renderer's command line contract.
type Args struct {
	InputFile      string   // -f, required
	OutputFile     string   // -o, required
	Chat           bool     // --chat true|false, always passed
	ContextFile    string   // --context-file, optional
	StylesheetFile string   // --stylesheet-file, optional
	TraceDir       string   // --traceDir, optional
	Extra          []string // trailing flags, passed verbatim, always last
}

// List assembles the argument vector in the renderer's expected order.
func (a Args) List() []string {
	args := []string{"-f", a.InputFile, "-o", a.OutputFile}
	if a.ContextFile != "" {
		args = append(args, "--context-file", a.ContextFile)
	}
	if a.StylesheetFile != "" {
		args = append(args, "--stylesheet-file", a.StylesheetFile)
	}
	if a.Chat {
		args = append(args, "--chat", "true")
	} else {
		args = append(args, "--chat", "false")
	}
	if a.TraceDir != "" {
		args = append(args, "--traceDir", a.TraceDir)
	}
	return append(args, a.Extra...)
}

// ExitError reports a renderer run that completed with a non-zero exit
// status. Stdout and Stderr carry the captured streams for diagnosis; they
// are never parsed.
type ExitError struct {
	Code   int
	Stdout string
	Stderr string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("renderer exited with code %d", e.Code)
}

// Runner executes one renderer invocation. Implementations block until the
// process completes; context cancellation terminates it.
type Runner interface {
	Run(ctx context.Context, args Args) error
}

type envSettings struct {
	// Command overrides the renderer executable path.
	Command string `env:"POML_CLI"`
}

// Options configure the CLI runner.
type Options struct {
	// Command is the renderer invocation, e.g. {"poml"} or
	// {"node", "/opt/poml/cli.js"}. Resolution order: this option, the
	// POML_CLI environment variable, then DefaultCommand on PATH.
	Command []string
	// Logger receives captured renderer output. Defaults to NoOpLogger.
	Logger logging.Logger
	// Lookuper overrides the environment source (tests).
	Lookuper envconfig.Lookuper
}

// CLI invokes the renderer executable as a subprocess.
type CLI struct {
	command []string
	logger  logging.Logger
}

var _ Runner = (*CLI)(nil)

// NewCLI creates a CLI runner with optional overrides.
func NewCLI(optFns ...func(o *Options)) *CLI {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		Lookuper: envconfig.OsLookuper(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	command := opts.Command
	if len(command) == 0 {
		var env envSettings
		if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
			Target:   &env,
			Lookuper: opts.Lookuper,
		}); err != nil {
			opts.Logger.Warn("failed to read renderer environment", "error", err)
		}
		if env.Command != "" {
			command = []string{env.Command}
		} else {
			command = []string{DefaultCommand}
		}
	}

	return &CLI{command: command, logger: opts.Logger}
}

// Run executes the renderer and waits for completion. A non-zero exit status
// is returned as *ExitError; anything the process wrote to stdout or stderr
// is logged but not interpreted.
func (c *CLI) Run(ctx context.Context, args Args) error {
	argv := make([]string, 0, len(c.command)-1+len(args.List()))
	argv = append(argv, c.command[1:]...)
	argv = append(argv, args.List()...)

	cmd := exec.CommandContext(ctx, c.command[0], argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("invoking renderer", "command", c.command[0], "args", argv)
	err := cmd.Run()

	if stdout.Len() > 0 {
		c.logger.Debug("renderer stdout", "output", stdout.String())
	}
	if stderr.Len() > 0 {
		c.logger.Debug("renderer stderr", "output", stderr.String())
	}

	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Code:   exitErr.ExitCode(),
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
	}
	return fmt.Errorf("running renderer %q: %w", c.command[0], err)
}
