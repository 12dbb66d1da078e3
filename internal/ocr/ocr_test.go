package ocr

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Text(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func writeImage(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recibo.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeEngine{name: "Paddle"})
	require.NotNil(t, r.Get("paddle"))
	assert.NotNil(t, r.Get("PADDLE"))
	assert.Nil(t, r.Get("easyocr"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeEngine{name: "x"})
	assert.Panics(t, func() { r.Register(&fakeEngine{name: "X"}) })
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeEngine{name: "b"})
	r.Register(&fakeEngine{name: "a"})
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry("por")
	assert.NotNil(t, r.Get("tesseract"))
}

func TestRegistry_ChainUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Chain([]string{"nope"}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown OCR engine")
}

func TestRegistry_AvailableSkipsMissingBinaries(t *testing.T) {
	r := NewRegistry()
	r.Register(&Command{Label: "ghost", Path: "/nonexistent/ocr-binary"})
	r.Register(&fakeEngine{name: "inline"})
	assert.Equal(t, []string{"inline"}, r.Available())
}

func TestChain_FirstSuccessWins(t *testing.T) {
	broken := &fakeEngine{name: "paddle", err: errors.New("not installed")}
	good := &fakeEngine{name: "easyocr", text: "TOTAL 10,00"}
	unused := &fakeEngine{name: "tesseract", text: "never"}

	c := NewChain(nil, broken, good, unused)
	text, err := c.Text(context.Background(), "img.png")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL 10,00", text)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 0, unused.calls)
	assert.Equal(t, "chain(paddle,easyocr,tesseract)", c.Name())
}

func TestChain_AllFail(t *testing.T) {
	first := errors.New("first down")
	c := NewChain(nil,
		&fakeEngine{name: "a", err: first},
		&fakeEngine{name: "b", err: errors.New("second down")},
	)
	_, err := c.Text(context.Background(), "img.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEngine)
	assert.ErrorIs(t, err, first)
	assert.Contains(t, err.Error(), "second down")
}

func TestChain_Empty(t *testing.T) {
	_, err := NewChain(nil).Text(context.Background(), "img.png")
	assert.ErrorIs(t, err, ErrNoEngine)
}

func TestChain_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &fakeEngine{name: "a", text: "x"}
	_, err := NewChain(nil, e).Text(ctx, "img.png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, e.calls)
}

func TestCommand_RunsProgram(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	path := writeImage(t, "Recibo\nTotal 12,34\n")
	c := &Command{Label: "cat", Path: "cat"}
	text, err := c.Text(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Recibo\nTotal 12,34\n", text)
}

func TestCommand_MissingImage(t *testing.T) {
	c := &Command{Label: "cat", Path: "cat"}
	_, err := c.Text(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTesseract_MissingBinary(t *testing.T) {
	path := writeImage(t, "x")
	tess := &Tesseract{Path: "/nonexistent/tesseract"}
	_, err := tess.Text(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
	assert.Equal(t, "/nonexistent/tesseract", tess.Binary())
}

func TestTextFile(t *testing.T) {
	path := writeImage(t, "Comprovante")
	text, err := TextFile{}.Text(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Comprovante", text)

	_, err = TextFile{}.Text(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
