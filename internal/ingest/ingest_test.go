package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/liliang-cn/docassist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Part
	}{
		{
			name:    "markdown headings",
			content: "# Guide\nWelcome.\n\n## Install\nRun make.\n### Notes\n",
			want: []Part{
				{Title: "Guide", Content: "Welcome."},
				{Title: "Install", Content: "Run make."},
				{Title: "Notes", Content: ""},
			},
		},
		{
			name:    "text before first heading",
			content: "Preamble line.\n\n## Usage\nCall it.",
			want: []Part{
				{Title: "Introduction", Content: "Preamble line."},
				{Title: "Usage", Content: "Call it."},
			},
		},
		{
			name:    "hash without space is not a heading",
			content: "#hashtag text\n\nsecond paragraph here",
			want: []Part{
				{Title: "Section 1: #hashtag text...", Content: "#hashtag text"},
				{Title: "Section 2: second paragraph here...", Content: "second paragraph here"},
			},
		},
		{
			name:    "paragraph titles use five words",
			content: "one two three four five six seven\n  \nlast",
			want: []Part{
				{Title: "Section 1: one two three four five...", Content: "one two three four five six seven"},
				{Title: "Section 2: last...", Content: "last"},
			},
		},
		{
			name:    "blank content",
			content: " \n\t",
			want:    []Part{{Title: "Document complet", Content: " \n\t"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.content))
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("guide.md"))
	assert.True(t, IsSupported("NOTES.TXT"))
	assert.True(t, IsSupported("manual.pdf"))
	assert.True(t, IsSupported("index.rst"))
	assert.False(t, IsSupported("image.png"))
	assert.False(t, IsSupported("Makefile"))
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title  \r\nbody\xff\r\n"), 0644))

	content, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\nbody�\n", content)
}

func TestLoadPDF(t *testing.T) {
	content, err := Load(filepath.Join("testdata", "manual.pdf"))
	require.NoError(t, err)
	assert.Contains(t, content, "Installation du serveur avec docker compose")
	assert.Contains(t, content, "Configuration du proxy inverse nginx")

	// Pages are separated by a blank line, so each one becomes a paragraph
	parts := Split(content)
	require.Len(t, parts, 2)
	assert.Equal(t, "Section 1: Installation du serveur avec docker...", parts[0].Title)
	assert.Contains(t, parts[0].Content, "Installation du serveur")
	assert.Equal(t, "Section 2: Configuration du proxy inverse nginx...", parts[1].Title)
	assert.Contains(t, parts[1].Content, "proxy inverse")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("picture.png")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
