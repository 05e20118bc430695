// Package checkpoint persists the fittest genome of a run: as JSON and SVG
// files for humans, and in a Store for resumable history.
package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/zerr"

	"github.com/gogpu/lisa/evolve"
)

// File permissions for written checkpoints.
const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

// Record is one saved fittest individual.
type Record struct {
	RunID      string            `json:"run_id"`
	Generation int               `json:"generation"`
	Fitness    float64           `json:"fitness"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Individual evolve.Individual `json:"individual"`
	SavedAt    time.Time         `json:"saved_at"`
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// FromResult builds a record for a simulation result.
func FromResult(runID string, width, height int, res evolve.Result) Record {
	return Record{
		RunID:      runID,
		Generation: res.Generation,
		Fitness:    res.Fitness,
		Width:      width,
		Height:     height,
		Individual: res.Individual.Clone(),
		SavedAt:    time.Now().UTC(),
	}
}

// Validate checks the fields a resumed run depends on.
func (r Record) Validate() error {
	if _, err := uuid.Parse(r.RunID); err != nil {
		return zerr.With(zerr.Wrap(ErrInvalidRecord, "run id"), "run_id", r.RunID)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return zerr.With(zerr.With(zerr.Wrap(ErrInvalidRecord, "dimensions"), "width", r.Width), "height", r.Height)
	}
	return nil
}

// SVG renders the record's genome at its saved dimensions.
func (r Record) SVG() string {
	return r.Individual.Shapes.SVG(r.Width, r.Height)
}

// SaveFile writes r to path as indented JSON, creating parent directories.
func SaveFile(path string, r Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal checkpoint")
	}
	return writeFile(path, data)
}

// LoadFile reads a record written by SaveFile.
func LoadFile(path string) (Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Record{}, zerr.With(zerr.Wrap(err, "failed to read checkpoint"), "path", path)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, zerr.With(zerr.Wrap(err, "failed to unmarshal checkpoint"), "path", path)
	}
	if err := r.Validate(); err != nil {
		return Record{}, zerr.With(err, "path", path)
	}
	return r, nil
}

// WriteSVG writes the record's SVG rendering to path.
func WriteSVG(path string, r Record) error {
	return writeFile(path, []byte(r.SVG()))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create checkpoint directory"), "path", path)
	}
	if err := os.WriteFile(path, data, FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write checkpoint"), "path", path)
	}
	return nil
}
