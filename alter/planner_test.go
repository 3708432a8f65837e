package alter

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagesteps/common"
	"imagesteps/config"
)

type call struct {
	name string
	args []string
}

type recordingExecutor struct {
	calls  []call
	output []byte
	err    error
}

func (r *recordingExecutor) Execute(ctx context.Context, name string, args []string) ([]byte, error) {
	r.calls = append(r.calls, call{name: name, args: append([]string(nil), args...)})
	return r.output, r.err
}

func TestPlannerAlterInvokesTool(t *testing.T) {
	rec := &recordingExecutor{}
	p := NewPlanner("", rec)

	err := p.Alter(context.Background(), "/tmp/source", common.Attributes{
		{Key: "Width", Value: "100"}, {Key: "Height", Value: "100"}, {Key: "Resize Method", Value: "Crop"}, {Key: "Gravity", Value: "S"}, {Key: "Format", Value: "jpg"},
	})
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "mogrify", rec.calls[0].name)
	assert.Equal(t, []string{
		"-thumbnail", "100x100^", "-extent", "100x100", "-gravity", "South",
		"-format", "jpg",
		"/tmp/source",
	}, rec.calls[0].args)
}

func TestPlannerAlterPlanErrorSkipsTool(t *testing.T) {
	rec := &recordingExecutor{}
	p := NewPlanner("mogrify", rec)

	err := p.Alter(context.Background(), "/tmp/source", common.Attributes{{Key: "Quality", Value: "80"}})
	require.ErrorIs(t, err, ErrUnhandledAttributes)
	assert.Empty(t, rec.calls)
}

func TestPlannerAlterToolFailure(t *testing.T) {
	rec := &recordingExecutor{output: []byte("mogrify: unable to open image"), err: errors.New("exit status 1")}
	p := NewPlanner("mogrify", rec)

	err := p.Alter(context.Background(), "/tmp/missing", common.Attributes{{Key: "Width", Value: "1"}})
	require.ErrorIs(t, err, ErrExternalTool)

	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "mogrify", terr.Tool)
	assert.Equal(t, []string{"-resize", "1x", "/tmp/missing"}, terr.Args)
	assert.Contains(t, terr.Error(), "unable to open image")
}

func TestNewPlannerFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tool.Binary = "gm-mogrify"
	cfg.Tool.Timeout = time.Second

	p := NewPlannerFromConfig(cfg)
	assert.Equal(t, "gm-mogrify", p.Tool())
	assert.Equal(t, ExecRunner{Timeout: time.Second}, p.exec)
}

func TestExecRunnerPassesArgumentsVerbatim(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell script")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fake-mogrify")
	out := filepath.Join(dir, "args")
	content := "#!/bin/sh\nfor a in \"$@\"; do echo \"$a\" >> " + out + "; done\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0755))

	p := NewPlanner(script, ExecRunner{})
	err := p.Alter(context.Background(), "a b;rm -rf c.png", common.Attributes{{Key: "Format", Value: "png"}})
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "-format\npng\na b;rm -rf c.png\n", string(got))
}

func TestExecRunnerReportsFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	p := NewPlanner("false", ExecRunner{})
	err := p.Alter(context.Background(), "x.png", nil)
	assert.ErrorIs(t, err, ErrExternalTool)
}
