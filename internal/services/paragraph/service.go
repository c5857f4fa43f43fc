package paragraph

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/typeracehq/typerace/internal/dependencies/random"
	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/storage"
)

// Service provides race paragraphs
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new paragraph Service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger.With(slog.String("component", "paragraph")),
	}
}

// Random returns a uniformly random paragraph from the store
func (s *Service) Random(ctx context.Context) (*model.Paragraph, error) {
	ids, err := s.storage.ParagraphIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, model.ErrNoParagraphs
	}

	// Stable order so selection is reproducible with a seeded source
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return s.storage.GetParagraph(ctx, ids[s.random.Intn(len(ids))])
}

// Get retrieves a paragraph by ID
func (s *Service) Get(ctx context.Context, id model.ParagraphID) (*model.Paragraph, error) {
	return s.storage.GetParagraph(ctx, id)
}

// LoadFromFile seeds the store with paragraphs from a text file, one
// paragraph per non-empty line. Returns the number loaded.
func (s *Service) LoadFromFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		count++
		p := &model.Paragraph{
			ID:      model.ParagraphID(fmt.Sprintf("p%03d", count)),
			Content: line,
		}
		if err := s.storage.SaveParagraph(ctx, p); err != nil {
			return count, err
		}
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}

	s.logger.Info("paragraphs loaded", slog.String("path", path), slog.Int("count", count))
	return count, nil
}
