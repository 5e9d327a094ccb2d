package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/studydash/studydash/internal/models"
	"github.com/studydash/studydash/pkg/apperr"
)

// document is the persisted store schema: one record per student with
// the whole program graph nested inside.
type document struct {
	Student *models.Student `json:"student"`
}

// JSONStore persists the record graph to a single JSON file. Saving is
// a deterministic function of the graph — the same graph always yields
// byte-identical output — and writes go through a temp file plus rename
// so no failure path leaves a truncated store behind.
type JSONStore struct {
	path   string
	logger *zap.Logger
}

// New builds a store for the given file path.
func New(path string, logger *zap.Logger) *JSONStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStore{path: path, logger: logger}
}

// Path exposes the underlying store location.
func (s *JSONStore) Path() string {
	return s.path
}

// Save serializes the full graph. The graph is validated first so an
// invalid in-memory state can never reach disk.
func (s *JSONStore) Save(student *models.Student) error {
	if student == nil {
		return apperr.Clone(apperr.ErrValidation, "nothing to save")
	}
	if err := validateGraph(student); err != nil {
		return err
	}

	data, err := json.MarshalIndent(document{Student: student}, "", "  ")
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal.Code, "encode store")
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Wrap(err, apperr.ErrInternal.Code, "prepare store directory")
	}

	tmp, err := os.CreateTemp(dir, ".record-*.json")
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal.Code, "create temp store file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperr.Wrap(err, apperr.ErrInternal.Code, "write store file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperr.Wrap(err, apperr.ErrInternal.Code, "close store file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return apperr.Wrap(err, apperr.ErrInternal.Code, "replace store file")
	}

	s.logger.Debug("store saved", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}

// Load reads the store back into a graph. An absent file is not an
// error: it returns (nil, nil) to signal "no existing dataset". Any
// schema or invariant violation aborts the load with a malformed-store
// error naming the offending path, never a partial graph.
func (s *JSONStore) Load() (*models.Student, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, "read store file")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrMalformedStore.Code, fmt.Sprintf("decode store %s", s.path))
	}
	if doc.Student == nil {
		return nil, apperr.At(apperr.ErrMalformedStore, "student")
	}
	if err := validateGraph(doc.Student); err != nil {
		return nil, err
	}

	s.logger.Debug("store loaded", zap.String("path", s.path))
	return doc.Student, nil
}
