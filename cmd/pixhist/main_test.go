package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pixhist/config"
	"github.com/gogpu/pixhist/replay"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.EnvCodec, config.EnvReplayMode, config.EnvDigestPath,
		config.EnvFrameDelayMS, config.EnvCacheEntries, config.EnvLogLevel,
	} {
		t.Setenv(k, "")
	}
}

// writePNG writes a w x h image filled with c.
func writePNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestHash(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 2, 2, color.NRGBA{R: 255, A: 255})

	out, _, err := execute(t, "hash", a)
	require.NoError(t, err)

	// Frames are hashed in BGRA order.
	want := replay.Sum(bytes.Repeat([]byte{0, 0, 255, 255}, 4))
	assert.Equal(t, want.String()+"  "+a+"\n", out)
}

func TestRecordThenVerify(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 3, 3, color.NRGBA{R: 10, A: 255})
	b := writePNG(t, dir, "b.png", 3, 3, color.NRGBA{G: 20, A: 255})
	digest := filepath.Join(dir, "run.digest")

	out, _, err := execute(t, "record", digest, a, a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded 2 distinct hashes from 3 frames")

	hashes, err := replay.LoadDigests(digest)
	require.NoError(t, err)
	assert.Len(t, hashes, 2)

	out, _, err = execute(t, "verify", digest, a, a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "verified 3 frames")
	kinds := make([]string, 0, 3)
	for line := range strings.Lines(out) {
		if f := strings.Fields(line); len(f) > 0 {
			kinds = append(kinds, f[0])
		}
	}
	assert.Equal(t, []string{"okay", "stale", "okay", "verified"}, kinds)
}

func TestVerifyFailure(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 2, 1, color.NRGBA{R: 1, A: 255})
	b := writePNG(t, dir, "b.png", 2, 1, color.NRGBA{R: 2, A: 255})
	digest := filepath.Join(dir, "run.digest")

	_, _, err := execute(t, "record", digest, a)
	require.NoError(t, err)

	out, _, err := execute(t, "verify", digest, b, a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errVerifyFailed))
	assert.Contains(t, out, "failure")
	assert.Contains(t, out, "eof")
}

func TestDigestFromSettings(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 1, 1, color.NRGBA{B: 9, A: 255})
	digest := filepath.Join(dir, "env.digest")
	t.Setenv(config.EnvDigestPath, digest)

	_, _, err := execute(t, "record", "-", a)
	require.NoError(t, err)
	_, err = os.Stat(digest)
	require.NoError(t, err)

	_, _, err = execute(t, "verify", "-", a)
	require.NoError(t, err)
}

func TestExport(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	strip := writePNG(t, dir, "strip.png", 6, 2, color.NRGBA{R: 200, G: 100, A: 255})
	out := filepath.Join(dir, "anim.gif")

	stdout, _, err := execute(t, "export", strip, "--frames", "3", "--delay", "250", "--out", out, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 3 frames (12 pixels)")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	require.Len(t, g.Image, 3)
	assert.Equal(t, []int{25, 25, 25}, g.Delay)
	assert.Equal(t, image.Rect(0, 0, 2, 2), g.Image[0].Bounds())
}

func TestExportDefaultDelay(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvFrameDelayMS, "40")
	dir := t.TempDir()
	strip := writePNG(t, dir, "strip.png", 4, 1, color.NRGBA{A: 255})
	out := filepath.Join(dir, "anim.gif")

	_, _, err := execute(t, "export", strip, "--frames", "2", "--out", out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4}, g.Delay)
}

func TestExportBadFrameCount(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	strip := writePNG(t, dir, "strip.png", 5, 1, color.NRGBA{A: 255})

	_, _, err := execute(t, "export", strip, "--frames", "2", "--out", filepath.Join(dir, "x.gif"))
	assert.ErrorContains(t, err, "not a multiple")
}

func TestBadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvCodec, "lz4")
	_, _, err := execute(t, "hash", "whatever.png")
	assert.Error(t, err)

	clearEnv(t)
	_, _, err = execute(t, "--log-level", "shout", "hash", "whatever.png")
	assert.Error(t, err)
}

func TestRunExitCodes(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, exitError, run([]string{"hash", filepath.Join(t.TempDir(), "missing.png")}))
	assert.Equal(t, exitError, run([]string{"nope"}))
}

func TestHashFollowsReplayMode(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 2, 2, color.NRGBA{R: 5, A: 255})
	b := writePNG(t, dir, "b.png", 2, 2, color.NRGBA{G: 5, A: 255})
	digest := filepath.Join(dir, "session.digest")
	t.Setenv(config.EnvDigestPath, digest)

	t.Setenv(config.EnvReplayMode, "record")
	out, _, err := execute(t, "hash", a, a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded 2 distinct hashes from 3 frames")

	t.Setenv(config.EnvReplayMode, "verify")
	out, _, err = execute(t, "hash", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "verified 2 frames")

	_, _, err = execute(t, "hash", b, a)
	assert.ErrorIs(t, err, errVerifyFailed)

	t.Setenv(config.EnvReplayMode, "off")
	out, _, err = execute(t, "hash", a)
	require.NoError(t, err)
	assert.Contains(t, out, "  "+a)
}

func TestHashReplayModeNeedsDigest(t *testing.T) {
	clearEnv(t)
	a := writePNG(t, t.TempDir(), "a.png", 1, 1, color.NRGBA{A: 255})
	t.Setenv(config.EnvReplayMode, "verify")

	_, _, err := execute(t, "hash", a)
	assert.ErrorContains(t, err, "needs digest_path")
}
