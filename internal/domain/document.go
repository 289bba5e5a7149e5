package domain

import "time"

// Supported documentation file extensions
const (
	ExtMarkdown = ".md"
	ExtText     = ".txt"
	ExtPDF      = ".pdf"
	ExtRST      = ".rst"
)

// SupportedExtensions lists the file extensions learned on reload
var SupportedExtensions = []string{ExtMarkdown, ExtText, ExtPDF, ExtRST}

// Document is a learned documentation file
type Document struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}

// Section is a titled part of a document, the unit of search
type Section struct {
	ID          int64  `json:"id"`
	DocumentID  int64  `json:"document_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ContentHash string `json:"content_hash"`
}

// SearchResult is a section matched by a keyword search
type SearchResult struct {
	SectionID int64  `json:"section_id"`
	Filename  string `json:"filename"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Relevance int    `json:"relevance"`
}

// SectionTitle is a section title together with its document, used for summaries
type SectionTitle struct {
	DocumentID int64
	Title      string
}
