// Package content stores the bilingual site copy as a single settings
// document, Firestore-first with a local JSON file fallback. The document
// is treated as opaque: the rendering layer owns its shape.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cloud.google.com/go/firestore"

	"github.com/portfolio-site/portfolio-backend/internal/common"
)

const (
	settingsCollection = "settings"
	contentDocument    = "site-content"
)

type Store struct {
	client *firestore.Client // nil in local mode
	path   string
	mu     sync.Mutex
	log    *common.Logger
}

func NewStore(client *firestore.Client, dataDir string, log *common.Logger) *Store {
	return &Store{
		client: client,
		path:   filepath.Join(dataDir, "site-content.json"),
		log:    log,
	}
}

func (s *Store) Get(ctx context.Context) (map[string]any, error) {
	if s.client != nil {
		doc, err := s.client.Collection(settingsCollection).Doc(contentDocument).Get(ctx)
		if err == nil && doc.Exists() {
			return doc.Data(), nil
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("site content unavailable on primary, using local copy")
		}
	}
	return s.local()
}

func (s *Store) Update(ctx context.Context, content map[string]any) error {
	if s.client != nil {
		_, err := s.client.Collection(settingsCollection).Doc(contentDocument).Set(ctx, content)
		if err == nil {
			if werr := s.writeLocal(content); werr != nil {
				s.log.Warn().Err(werr).Msg("local site content write-through failed")
			}
			return nil
		}
		s.log.Warn().Err(err).Msg("primary site content update failed, writing local copy")
	}
	return s.writeLocal(content)
}

func (s *Store) local() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read site content: %w", err)
	}

	var content map[string]any
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("decode site content: %w", err)
	}
	return content, nil
}

func (s *Store) writeLocal(content map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("encode site content: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write site content: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace site content: %w", err)
	}
	return nil
}
