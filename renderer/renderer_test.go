package renderer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomlkit/poml/internal/testutil"
)

func TestArgs_List(t *testing.T) {
	args := Args{
		InputFile:      "in.poml",
		OutputFile:     "out.json",
		Chat:           true,
		ContextFile:    "ctx.json",
		StylesheetFile: "style.json",
		TraceDir:       "/tmp/run",
		Extra:          []string{"--prettyPrint", "--strict"},
	}
	assert.Equal(t, []string{
		"-f", "in.poml", "-o", "out.json",
		"--context-file", "ctx.json",
		"--stylesheet-file", "style.json",
		"--chat", "true",
		"--traceDir", "/tmp/run",
		"--prettyPrint", "--strict",
	}, args.List())
}

func TestArgs_List_Minimal(t *testing.T) {
	args := Args{InputFile: "in.poml", OutputFile: "out.json"}
	assert.Equal(t, []string{"-f", "in.poml", "-o", "out.json", "--chat", "false"}, args.List())
}

func TestCLI_Run_WritesOutput(t *testing.T) {
	script := testutil.FakeRenderer(t, `[{"speaker":"human","content":"hi"}]`)
	cli := NewCLI(func(o *Options) { o.Command = []string{script} })

	out := filepath.Join(t.TempDir(), "out.json")
	err := cli.Run(context.Background(), Args{InputFile: script, OutputFile: out, Chat: true})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"speaker":"human","content":"hi"}]`, string(data))
}

func TestCLI_Run_NonZeroExit(t *testing.T) {
	script := testutil.FailingRenderer(t, 2, "boom")
	cli := NewCLI(func(o *Options) { o.Command = []string{script} })

	err := cli.Run(context.Background(), Args{InputFile: "in", OutputFile: "out"})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Stderr, "boom")
}

func TestCLI_Run_MissingExecutable(t *testing.T) {
	cli := NewCLI(func(o *Options) {
		o.Command = []string{filepath.Join(t.TempDir(), "does-not-exist")}
	})
	err := cli.Run(context.Background(), Args{InputFile: "in", OutputFile: "out"})
	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr), "startup failure is not an ExitError")
}

func TestNewCLI_EnvironmentCommand(t *testing.T) {
	cli := NewCLI(func(o *Options) {
		o.Lookuper = envconfig.MapLookuper(map[string]string{"POML_CLI": "/opt/poml/cli"})
	})
	assert.Equal(t, []string{"/opt/poml/cli"}, cli.command)

	cli = NewCLI(func(o *Options) {
		o.Lookuper = envconfig.MapLookuper(nil)
	})
	assert.Equal(t, []string{DefaultCommand}, cli.command)
}
