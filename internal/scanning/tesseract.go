package scanning

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		slog.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	} else {
		slog.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// Tesseract implements the Scanner interface by shelling out to the
// tesseract binary. The observed receipts mix English and Indonesian, so
// both language packs are requested by default.
type Tesseract struct {
	binary    string
	languages string
	runner    Runner
}

// NewTesseract creates a tesseract-backed scanner. binary defaults to
// "tesseract" on PATH; languages defaults to "eng+ind".
func NewTesseract(binary, languages string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if languages == "" {
		languages = "eng+ind"
	}
	return &Tesseract{binary: binary, languages: languages, runner: execRunner{}}
}

// NewTesseractWithRunner creates a tesseract scanner with a custom command
// runner for testing.
func NewTesseractWithRunner(binary, languages string, runner Runner) *Tesseract {
	t := NewTesseract(binary, languages)
	t.runner = runner
	return t
}

// Scan recognizes the receipt text with tesseract and returns the
// transcript.
func (t *Tesseract) Scan(imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	finalImageData, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return "", err
	}

	// tesseract reads stdin with "-" but not reliably across versions;
	// a temp file keeps the invocation portable.
	tmp, err := os.CreateTemp("", "bukukas-scan-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(finalImageData); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp image: %w", err)
	}

	stdout, stderr, err := t.runner.Run(ctx, t.binary,
		filepath.Clean(tmp.Name()), "stdout", "-l", t.languages, "--psm", "4")
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w (stderr: %s)", err, truncate(string(stderr), 512))
	}

	return string(stdout), nil
}

// Close is a no-op; the binary holds no persistent state.
func (t *Tesseract) Close() error {
	return nil
}
