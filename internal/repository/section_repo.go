package repository

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/liliang-cn/docassist/internal/domain"
)

// SectionRepository handles section persistence and keyword search
type SectionRepository struct {
	db Querier
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db *DB) *SectionRepository {
	return &SectionRepository{db: db.DB}
}

// WithTx returns a repository running its statements in tx
func (r *SectionRepository) WithTx(tx *sql.Tx) *SectionRepository {
	return &SectionRepository{db: tx}
}

// ContentHash returns the hash used to deduplicate section contents
func ContentHash(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Create stores a section unless a section with the same content exists.
// It reports whether the section was stored.
func (r *SectionRepository) Create(section *domain.Section) (bool, error) {
	section.ContentHash = ContentHash(section.Content)

	var one int
	err := r.db.QueryRow(`SELECT 1 FROM sections WHERE content_hash = ?`, section.ContentHash).Scan(&one)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	res, err := r.db.Exec(`
		INSERT INTO sections (document_id, title, content, content_hash)
		VALUES (?, ?, ?, ?)
	`, section.DocumentID, section.Title, section.Content, section.ContentHash)
	if err != nil {
		return false, err
	}

	section.ID, err = res.LastInsertId()
	return err == nil, err
}

// Count returns the total number of sections
func (r *SectionRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sections`).Scan(&count)
	return count, err
}

// CountDocuments returns the number of documents that own at least one section
func (r *SectionRepository) CountDocuments() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(DISTINCT document_id) FROM sections`).Scan(&count)
	return count, err
}

// Titles returns every distinct section title ordered by document
func (r *SectionRepository) Titles() ([]domain.SectionTitle, error) {
	rows, err := r.db.Query(`
		SELECT document_id, title FROM sections
		GROUP BY document_id, title
		ORDER BY document_id ASC, MIN(id) ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []domain.SectionTitle
	for rows.Next() {
		var t domain.SectionTitle
		if err := rows.Scan(&t.DocumentID, &t.Title); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}

	return titles, rows.Err()
}

// Search finds sections whose title or content contains the given words.
// Relevance is the number of words a section matched; ties keep the order
// in which sections were first found. At most limit results are returned.
func (r *SectionRepository) Search(words []string, limit int) ([]domain.SearchResult, error) {
	var ordered []*domain.SearchResult
	byID := make(map[int64]*domain.SearchResult)

	for _, word := range words {
		pattern := "%" + strings.ToLower(word) + "%"
		rows, err := r.db.Query(`
			SELECT s.id, d.filename, s.title, s.content
			FROM sections s
			JOIN documents d ON s.document_id = d.id
			WHERE lower(s.content) LIKE ? OR lower(s.title) LIKE ?
			ORDER BY s.id ASC
		`, pattern, pattern)
		if err != nil {
			return nil, err
		}

		for rows.Next() {
			var res domain.SearchResult
			if err := rows.Scan(&res.SectionID, &res.Filename, &res.Title, &res.Content); err != nil {
				rows.Close()
				return nil, err
			}
			if existing, ok := byID[res.SectionID]; ok {
				existing.Relevance++
				continue
			}
			res.Relevance = 1
			byID[res.SectionID] = &res
			ordered = append(ordered, &res)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Relevance > ordered[j].Relevance
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	results := make([]domain.SearchResult, len(ordered))
	for i, res := range ordered {
		results[i] = *res
	}
	return results, nil
}
