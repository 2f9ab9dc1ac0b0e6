package bankparser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// TextExtractor turns a PDF statement into plain text. The production
// implementation shells out to pdftotext; tests inject canned text.
type TextExtractor interface {
	Extract(r io.Reader) (string, error)
}

// PdftotextExtractor extracts text with the pdftotext command-line tool,
// which must be on PATH. Layout mode keeps the statement columns aligned so
// the line regex can find them.
type PdftotextExtractor struct{}

func NewPdftotextExtractor() *PdftotextExtractor {
	return &PdftotextExtractor{}
}

func (e *PdftotextExtractor) Extract(r io.Reader) (string, error) {
	dir, err := os.MkdirTemp("", "movimientos-pdf-")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	pdfPath := filepath.Join(dir, "statement.pdf")
	txtPath := filepath.Join(dir, "statement.txt")

	f, err := os.Create(pdfPath)
	if err != nil {
		return "", fmt.Errorf("creating temp pdf: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp pdf: %w", err)
	}

	if err := exec.Command("pdftotext", "-layout", pdfPath, txtPath).Run(); err != nil {
		return "", fmt.Errorf("running pdftotext: %w", err)
	}

	out, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("reading extracted text: %w", err)
	}
	return string(out), nil
}

// MockExtractor returns canned text for tests.
type MockExtractor struct {
	Text string
	Err  error
}

func (e *MockExtractor) Extract(io.Reader) (string, error) {
	return e.Text, e.Err
}
