package main

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/gaussblur/internal/config"
)

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 15), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeJPEG(t, "input.jpg")

	out, err := run(t)
	require.NoError(t, err)
	assert.Equal(t, doneMessage+"\n", out)

	f, err := os.Open(filepath.Join(dir, "output.jpg"))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Width)
	assert.Equal(t, 16, cfg.Height)
}

func TestRunExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.jpg")
	out := filepath.Join(dir, "photo-blurred.png")
	writeJPEG(t, in)

	stdout, err := run(t, in, out)
	require.NoError(t, err)
	assert.Equal(t, doneMessage+"\n", stdout)
	assert.FileExists(t, out)
}

func TestRunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jpg")
	out := filepath.Join(dir, "out.jpg")
	writeJPEG(t, in)

	cfg := config.Default()
	cfg.Workers = 2
	cfg.Border = "replicate"
	cfg.JPEGQuality = 80
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, config.Write(cfg, cfgPath))

	stdout, err := run(t, "--config", cfgPath, "--debug", in, out)
	require.NoError(t, err)
	assert.Equal(t, doneMessage+"\n", stdout)
	assert.FileExists(t, out)
}

func TestRunMissingInput(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, err := run(t)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, stdout)
	assert.NoFileExists(t, "output.jpg")
}

func TestRunRejectsExtraArgs(t *testing.T) {
	stdout, err := run(t, "a.jpg", "b.jpg", "c.jpg")
	require.Error(t, err)
	assert.NotContains(t, stdout, doneMessage)
}

func TestRunMissingExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jpg")
	writeJPEG(t, in)

	stdout, err := run(t, "--config", filepath.Join(dir, "absent.yaml"), in, filepath.Join(dir, "out.jpg"))
	require.Error(t, err)
	assert.Empty(t, stdout)
}
