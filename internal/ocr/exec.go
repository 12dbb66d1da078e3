package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Tesseract runs the tesseract CLI and reads its text from stdout.
type Tesseract struct {
	Path string // binary, "tesseract" when empty
	Lang string // "por" when empty
	PSM  int    // page segmentation mode, tesseract's default when zero
}

// Name returns "tesseract".
func (t *Tesseract) Name() string { return "tesseract" }

// Binary returns the executable used.
func (t *Tesseract) Binary() string {
	if t.Path != "" {
		return t.Path
	}
	return "tesseract"
}

// Text runs tesseract on imagePath.
func (t *Tesseract) Text(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	lang := t.Lang
	if lang == "" {
		lang = "por"
	}
	args := []string{imagePath, "stdout", "-l", lang}
	if t.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.PSM))
	}
	return run(ctx, t.Binary(), args)
}

// Command runs an arbitrary OCR program (a PaddleOCR or EasyOCR wrapper script,
// say) whose stdout is the recognized text. The image path is appended to Args.
type Command struct {
	Label string
	Path  string
	Args  []string
}

// Name returns the configured label.
func (c *Command) Name() string { return c.Label }

// Binary returns the executable used.
func (c *Command) Binary() string { return c.Path }

// Text runs the command on imagePath.
func (c *Command) Text(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	args := append(append([]string{}, c.Args...), imagePath)
	return run(ctx, c.Path, args)
}

func run(ctx context.Context, bin string, args []string) (string, error) {
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("%s not available: %w", bin, err)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %s: %w", bin, strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

// TextFile treats a plain text file as already-recognized OCR output. It lets
// receipts be replayed from saved transcripts.
type TextFile struct{}

// Name returns "text".
func (TextFile) Name() string { return "text" }

// Text returns the file's contents.
func (TextFile) Text(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(data), nil
}
