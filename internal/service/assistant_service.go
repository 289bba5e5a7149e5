package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/liliang-cn/docassist/internal/config"
	"github.com/liliang-cn/docassist/internal/domain"
	"github.com/liliang-cn/docassist/internal/ingest"
	"github.com/liliang-cn/docassist/internal/llm"
	"github.com/liliang-cn/docassist/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// NotFoundAnswer is returned when no section matches the question
	NotFoundAnswer = "Je n'ai pas trouvé d'information pertinente dans la documentation apprise."
	// EmptyKnowledgeAnswer is returned for knowledge questions before anything was learned
	EmptyKnowledgeAnswer = "Je n'ai encore appris aucune information. Aucun document n'a été traité."

	systemPrompt = "Tu es un assistant expert en documentation technique. " +
		"Tu ne dois répondre qu'en utilisant les fichiers fournis en documentation. " +
		"Réponds uniquement en utilisant le contexte fourni. " +
		"Si tu ne trouves pas l'information dans le contexte, dis-le clairement."
)

// knowledgePatterns mark questions about what the assistant has learned
var knowledgePatterns = []string{
	"qu'as-tu appris", "que sais-tu", "quelles informations",
	"quelles connaissances", "qu'avez-vous appris", "que contient",
	"connaissance", "apprises", "documentation disponible",
	"quelles données", "base de connaissances", "résumé des",
	"documentation chargée", "documents chargés",
}

// AssistantService learns the documentation folder and answers questions about it
type AssistantService struct {
	cfg          *config.Config
	db           *repository.DB
	documentRepo *repository.DocumentRepository
	sectionRepo  *repository.SectionRepository
	llm          llm.Client
	logger       *zap.Logger

	reloads singleflight.Group
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	cfg *config.Config,
	db *repository.DB,
	documentRepo *repository.DocumentRepository,
	sectionRepo *repository.SectionRepository,
	llmClient llm.Client,
	logger *zap.Logger,
) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantService{
		cfg:          cfg,
		db:           db,
		documentRepo: documentRepo,
		sectionRepo:  sectionRepo,
		llm:          llmClient,
		logger:       logger,
	}
}

// Reload forgets every learned section and learns the documentation folder again.
// Concurrent calls share a single run. The run is detached from the caller's
// cancellation and commits only once the whole folder was learned, so the
// previous index stays in place when it fails.
func (s *AssistantService) Reload(ctx context.Context) (*domain.ReloadResult, error) {
	v, err, shared := s.reloads.Do("reload", func() (interface{}, error) {
		return s.reload(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Reload shared with a concurrent caller")
	}
	return v.(*domain.ReloadResult), nil
}

func (s *AssistantService) reload(ctx context.Context) (*domain.ReloadResult, error) {
	var result domain.ReloadResult
	var stored int

	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := repository.Clear(tx); err != nil {
			return err
		}

		documents := s.documentRepo.WithTx(tx)
		sections := s.sectionRepo.WithTx(tx)

		docs, err := s.learnFolder(s.cfg.Documents.Path, documents, sections)
		if err != nil {
			return err
		}

		count, err := sections.Count()
		if err != nil {
			return fmt.Errorf("failed to count sections: %w", err)
		}
		if stored, err = documents.Count(); err != nil {
			return fmt.Errorf("failed to count documents: %w", err)
		}

		result = domain.ReloadResult{DocumentsCount: docs, SectionsCount: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Documentation reloaded",
		zap.String("path", s.cfg.Documents.Path),
		zap.Int("documents", result.DocumentsCount),
		zap.Int("stored_documents", stored),
		zap.Int("sections", result.SectionsCount),
	)

	return &result, nil
}

func (s *AssistantService) learnFolder(dir string, documents *repository.DocumentRepository, sections *repository.SectionRepository) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create documentation folder: %w", err)
		}
		s.logger.Info("Documentation folder created", zap.String("path", dir))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list documentation folder: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !ingest.IsSupported(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		learned, err := s.learnDocument(path, documents, sections)
		if err != nil {
			s.logger.Error("Failed to learn document", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		if learned {
			count++
		}
	}

	return count, nil
}

// learnDocument stores a document and its sections. It reports whether at
// least one new section was stored.
func (s *AssistantService) learnDocument(path string, documents *repository.DocumentRepository, sections *repository.SectionRepository) (bool, error) {
	exists, err := documents.Exists(path)
	if err != nil {
		return false, err
	}
	if exists {
		s.logger.Debug("Document already learned", zap.String("path", path))
		return false, nil
	}

	content, err := ingest.Load(path)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(content) == "" {
		return false, domain.ErrEmptyDocument
	}

	doc := &domain.Document{Filename: filepath.Base(path), FilePath: path}
	if err := documents.Create(doc); err != nil {
		return false, fmt.Errorf("failed to store document: %w", err)
	}

	parts := ingest.Split(content)
	stored := 0
	for _, part := range parts {
		ok, err := sections.Create(&domain.Section{
			DocumentID: doc.ID,
			Title:      part.Title,
			Content:    part.Content,
		})
		if err != nil {
			return false, fmt.Errorf("failed to store section %q: %w", part.Title, err)
		}
		if ok {
			stored++
		}
	}

	s.logger.Debug("Document learned",
		zap.String("file", doc.Filename),
		zap.Int("sections", len(parts)),
		zap.Int("stored", stored),
	)

	return stored > 0, nil
}

// Ask answers a question from the learned documentation
func (s *AssistantService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.ErrEmptyQuestion
	}

	if IsKnowledgeQuestion(question) {
		return s.KnowledgeSummary()
	}

	results, err := s.sectionRepo.Search(s.keywords(question), s.cfg.Search.Limit)
	if err != nil {
		return "", fmt.Errorf("failed to search sections: %w", err)
	}
	if len(results) == 0 {
		return NotFoundAnswer, nil
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("--- %s ---\n%s", r.Title, r.Content)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(
			"CONTEXTE:\n%s\n\nQUESTION: %s\n\nUtilise uniquement le contexte ci-dessus pour répondre à la question.",
			strings.Join(blocks, "\n\n"), question,
		)},
	}

	answer, err := s.llm.Generate(ctx, messages)
	if err != nil {
		s.logger.Error("Failed to generate answer", zap.Error(err))
		return fmt.Sprintf("Erreur lors de la génération de la réponse: %v", err), nil
	}

	return answer, nil
}

// SectionsCount returns how many sections are available for questions
func (s *AssistantService) SectionsCount(ctx context.Context) (int, error) {
	count, err := s.sectionRepo.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count sections: %w", err)
	}
	return count, nil
}

// KnowledgeSummary lists what has been learned, grouped by document
func (s *AssistantService) KnowledgeSummary() (string, error) {
	sections, err := s.sectionRepo.Count()
	if err != nil {
		return "", fmt.Errorf("failed to count sections: %w", err)
	}
	if sections == 0 {
		return EmptyKnowledgeAnswer, nil
	}

	docs, err := s.sectionRepo.CountDocuments()
	if err != nil {
		return "", fmt.Errorf("failed to count documents: %w", err)
	}

	titles, err := s.sectionRepo.Titles()
	if err != nil {
		return "", fmt.Errorf("failed to list section titles: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "J'ai appris %d sections provenant de %d documents différents:\n\n", sections, docs)

	var current int64 = -1
	for _, t := range titles {
		if t.DocumentID != current {
			fmt.Fprintf(&b, "\n📄 Document %d:\n", t.DocumentID)
			current = t.DocumentID
		}
		fmt.Fprintf(&b, "- %s\n", t.Title)
	}

	return b.String(), nil
}

func (s *AssistantService) keywords(question string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		if utf8.RuneCountInString(w) < s.cfg.Search.MinWordLength {
			continue
		}
		words = append(words, w)
	}
	return words
}

// IsKnowledgeQuestion reports whether a question asks about the learned documentation itself
func IsKnowledgeQuestion(question string) bool {
	q := strings.ToLower(question)
	for _, pattern := range knowledgePatterns {
		if strings.Contains(q, pattern) {
			return true
		}
	}
	return false
}
