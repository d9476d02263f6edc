package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// TesseractConfig controls how the tesseract binary is invoked.
type TesseractConfig struct {
	Binary    string // path or name of the tesseract executable
	Language  string // -l
	OEM       int    // --oem
	PSM       int    // --psm
	UploadDir string // where uploaded images are written before recognition
}

// DefaultTesseractConfig matches the settings receipts were tuned with.
func DefaultTesseractConfig() TesseractConfig {
	return TesseractConfig{
		Binary:   "tesseract",
		Language: "eng",
		OEM:      1,
		PSM:      3,
	}
}

// Tesseract runs the tesseract CLI against a temporary copy of the image.
type Tesseract struct {
	cfg TesseractConfig
}

// NewTesseract creates a tesseract recognizer.
func NewTesseract(cfg TesseractConfig) *Tesseract {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Tesseract{cfg: cfg}
}

// Args returns the command line used for imagePath.
func (t *Tesseract) Args(imagePath string) []string {
	return []string{
		imagePath, "stdout",
		"-l", t.cfg.Language,
		"--oem", strconv.Itoa(t.cfg.OEM),
		"--psm", strconv.Itoa(t.cfg.PSM),
	}
}

// Recognize writes image to the upload dir and returns tesseract's stdout.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}

	if t.cfg.UploadDir != "" {
		if err := os.MkdirAll(t.cfg.UploadDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create upload dir: %w", err)
		}
	}

	f, err := os.CreateTemp(t.cfg.UploadDir, "receipt-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if _, err := f.Write(image); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.cfg.Binary, t.Args(f.Name())...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	return stdout.String(), nil
}
