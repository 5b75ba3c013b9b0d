// Package ragstore provides an embedded, persistence-optional vector store
// workers can use for retrieval-augmented tasks: a thin wrapper around
// chromem-go exposed both as a direct API and as a retrieve_context Tool.
package ragstore

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
)

// Result is one retrieved document.
type Result struct {
	ID       string
	Content  string
	Score    float32
	Metadata map[string]string
}

// Config configures a Store.
type Config struct {
	// PersistPath, if non-empty, gob-persists the database to this file
	// across restarts. Empty means in-memory only.
	PersistPath string
	// Compress gzip-compresses the persisted file.
	Compress bool
	// EmbeddingFunc generates a vector for a piece of text. Defaults to a
	// deterministic local hashing embedding requiring no external service.
	EmbeddingFunc chromem.EmbeddingFunc
}

func (c *Config) setDefaults() {
	if c.EmbeddingFunc == nil {
		c.EmbeddingFunc = hashingEmbeddingFunc
	}
}

// Store is a collection-keyed embedded vector store.
type Store struct {
	db            *chromem.DB
	embeddingFunc chromem.EmbeddingFunc
	persistPath   string
	compress      bool

	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

// New opens (or creates) a Store. If cfg.PersistPath names an existing
// file, its contents are loaded; otherwise a fresh in-memory database is
// created.
func New(cfg Config) (*Store, error) {
	cfg.setDefaults()

	db := chromem.NewDB()
	if cfg.PersistPath != "" {
		if _, err := os.Stat(cfg.PersistPath); err == nil {
			loaded, err := chromem.NewPersistentDB(cfg.PersistPath, cfg.Compress)
			if err != nil {
				return nil, fmt.Errorf("ragstore: failed to load %s: %w", cfg.PersistPath, err)
			}
			db = loaded
		}
	}

	return &Store{
		db:            db,
		embeddingFunc: cfg.EmbeddingFunc,
		persistPath:   cfg.PersistPath,
		compress:      cfg.Compress,
		collections:   make(map[string]*chromem.Collection),
	}, nil
}

func (s *Store) collection(name string) (*chromem.Collection, error) {
	s.mu.RLock()
	if c, ok := s.collections[name]; ok {
		s.mu.RUnlock()
		return c, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return c, nil
	}

	c, err := s.db.GetOrCreateCollection(name, nil, s.embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("ragstore: get/create collection %q: %w", name, err)
	}
	s.collections[name] = c
	return c, nil
}

// AddDocument embeds and stores one document under collection.
func (s *Store) AddDocument(ctx context.Context, collection, id, content string, metadata map[string]string) error {
	c, err := s.collection(collection)
	if err != nil {
		return err
	}
	doc := chromem.Document{ID: id, Content: content, Metadata: metadata}
	if err := c.AddDocuments(ctx, []chromem.Document{doc}, runtime.NumCPU()); err != nil {
		return fmt.Errorf("ragstore: add document %q: %w", id, err)
	}
	return s.persist()
}

// Query returns the topK documents in collection most similar to query.
func (s *Store) Query(ctx context.Context, collection, query string, topK int) ([]Result, error) {
	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	n := c.Count()
	if n == 0 {
		return nil, nil
	}
	if topK > n {
		topK = n
	}

	docs, err := c.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("ragstore: query: %w", err)
	}

	out := make([]Result, len(docs))
	for i, d := range docs {
		out[i] = Result{ID: d.ID, Content: d.Content, Score: d.Similarity, Metadata: d.Metadata}
	}
	return out, nil
}

// persist saves the database to PersistPath if configured.
func (s *Store) persist() error {
	if s.persistPath == "" {
		return nil
	}
	//nolint:staticcheck // Export is chromem-go's current persistence API.
	if err := s.db.Export(s.persistPath, s.compress, ""); err != nil {
		return fmt.Errorf("ragstore: persist: %w", err)
	}
	return nil
}
