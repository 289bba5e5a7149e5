// Package ingest turns documentation files into titled sections.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/liliang-cn/docassist/internal/domain"
)

// IsSupported reports whether a file name has a learnable extension
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range domain.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Load reads the text content of a documentation file
func Load(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case domain.ExtPDF:
		return loadPDF(path)
	case domain.ExtMarkdown, domain.ExtText, domain.ExtRST:
		return loadText(path)
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
}

func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return normalizeText(strings.ToValidUTF8(string(data), "�")), nil
}

func loadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return normalizeText(b.String()), nil
}

func normalizeText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
