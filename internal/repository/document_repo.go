package repository

import (
	"database/sql"
	"time"

	"github.com/liliang-cn/docassist/internal/domain"
)

// DocumentRepository handles document persistence
type DocumentRepository struct {
	db Querier
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db.DB}
}

// WithTx returns a repository running its statements in tx
func (r *DocumentRepository) WithTx(tx *sql.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// Exists reports whether a document with this path was already learned
func (r *DocumentRepository) Exists(filePath string) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM documents WHERE file_path = ?`, filePath).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create stores a document and fills in its ID
func (r *DocumentRepository) Create(doc *domain.Document) error {
	doc.CreatedAt = time.Now()

	res, err := r.db.Exec(`
		INSERT OR REPLACE INTO documents (filename, file_path, created_at)
		VALUES (?, ?, ?)
	`, doc.Filename, doc.FilePath, doc.CreatedAt)
	if err != nil {
		return err
	}

	doc.ID, err = res.LastInsertId()
	return err
}

// Count returns the number of stored documents
func (r *DocumentRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}
