package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"canlog/v2/config"
	"canlog/v2/rawlog"
)

func writeRawLog(t *testing.T, dir, name string, frames ...*rawlog.Frame) string {
	t.Helper()
	var buf bytes.Buffer
	for _, f := range frames {
		buf.Write(rawlog.EncodeFrame(f))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestApplyPositional(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		inputSet   bool
		outputSet  bool
		wantInput  string
		wantOutput string
	}{
		{name: "none", wantOutput: "log.csv"},
		{name: "input only", args: []string{"raw.bin"}, wantInput: "raw.bin", wantOutput: "log.csv"},
		{name: "input and output", args: []string{"raw.bin", "out.csv", "ignored"}, wantInput: "raw.bin", wantOutput: "out.csv"},
		{name: "input flag given", args: []string{"out.csv"}, inputSet: true, wantInput: "flag.bin", wantOutput: "out.csv"},
		{name: "both flags given", args: []string{"x", "y"}, inputSet: true, outputSet: true, wantInput: "flag.bin", wantOutput: "flag.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Output: "log.csv"}
			if tt.inputSet {
				cfg.Input = "flag.bin"
			}
			if tt.outputSet {
				cfg.Output = "flag.csv"
			}
			applyPositional(cfg, tt.args, tt.inputSet, tt.outputSet)
			require.Equal(t, tt.wantInput, cfg.Input)
			require.Equal(t, tt.wantOutput, cfg.Output)
		})
	}
}

func TestRootCmdParsesLog(t *testing.T) {
	dir := t.TempDir()
	in := writeRawLog(t, dir, "raw.bin",
		&rawlog.Frame{Tag: rawlog.TagCAN1Standard, Timestamp: 100, ID: 0x123, Speed: 50, Data: []byte{0xaa, 0xbb}},
		&rawlog.Frame{Tag: rawlog.TagCAN2Extended, Timestamp: 200, ID: 0x18daf110, Speed: 500000},
	)
	// trailing partial header
	fh, err := os.OpenFile(in, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = fh.Write([]byte{21, 0, 0})
	require.NoError(t, err)
	require.NoError(t, fh.Close())

	out := filepath.Join(dir, "parsed.csv")
	_, stderr, err := runCmd(t, "-f", in, "-o", out, "--summary")
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, ""+
		"100, CAN1, Standard, 50, 0x123, 2, 0xaa, 0xbb\n"+
		"200, CAN2, Extended, 500000, 0x18daf110, 0\n",
		string(got))
	require.Contains(t, stderr, "Capture Summary")
	require.Contains(t, stderr, "truncated record")
}

func TestRootCmdPositionalCBOR(t *testing.T) {
	dir := t.TempDir()
	in := writeRawLog(t, dir, "raw.bin",
		&rawlog.Frame{Tag: 0x07, Timestamp: 1, ID: 0x7df, Speed: 500000, Data: []byte{2, 1, 0}},
	)
	out := filepath.Join(dir, "parsed.cbor")

	_, _, err := runCmd(t, "--format", "cbor", in, out)
	require.NoError(t, err)

	fh, err := os.Open(out)
	require.NoError(t, err)
	defer fh.Close()
	frames, err := rawlog.ReadCBORFrames(fh)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, rawlog.Unknown, frames[0].Interface)
	require.Equal(t, []byte{2, 1, 0}, frames[0].Data)
}

func TestRootCmdErrors(t *testing.T) {
	t.Setenv(config.EnvPrefix+"INPUT", "")
	os.Unsetenv(config.EnvPrefix + "INPUT")

	_, _, err := runCmd(t)
	require.ErrorIs(t, err, errNoInput)

	_, _, err = runCmd(t, "-f", filepath.Join(t.TempDir(), "missing.bin"))
	require.ErrorIs(t, err, os.ErrNotExist)

	in := writeRawLog(t, t.TempDir(), "raw.bin")
	_, _, err = runCmd(t, "-f", in, "--format", "xml")
	require.Error(t, err)
}

func TestCompareCmd(t *testing.T) {
	dir := t.TempDir()
	frame := func(id uint32) *rawlog.Frame {
		return &rawlog.Frame{Tag: rawlog.TagCAN1Standard, ID: id}
	}
	a := writeRawLog(t, dir, "a.bin", frame(0x100), frame(0x200))
	b := writeRawLog(t, dir, "b.bin", frame(0x100), frame(0x300))

	stdout, _, err := runCmd(t, "compare", a, b)
	require.NoError(t, err)
	require.Contains(t, stdout, "IDs common to ALL logs (1)")
	require.Contains(t, stdout, "Total distinct IDs: 3")

	_, _, err = runCmd(t, "compare", a)
	require.Error(t, err)
}
