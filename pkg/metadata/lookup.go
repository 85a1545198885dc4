// Package metadata looks up descriptive fields for a specimen in a local
// reference table.
package metadata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/menta2k/slide-uploader/pkg/types"
)

// Column layout of the reference export. The table has no header row;
// columns are addressed by position.
const (
	colPrimarySite = 1
	colDiseaseType = 3
	colProjectName = 4
	colCancerType  = 7
	colMatchKey    = 8
)

// Store reads reference rows from a CSV file on disk. Each lookup scans
// the file from the top; the pipeline performs at most one lookup per run,
// so nothing is cached.
type Store struct {
	path string
}

// NewStore returns a store backed by the given reference file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Lookup returns the first row whose match key equals id. A missing row is
// reported as (nil, nil) — absence is a valid terminal state, not an error.
func (s *Store) Lookup(id string) (*types.ReferenceRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open reference table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read reference table: %w", err)
		}
		if len(rec) <= colMatchKey {
			continue
		}
		if rec[colMatchKey] == id {
			return &types.ReferenceRow{
				PrimarySite: rec[colPrimarySite],
				DiseaseType: rec[colDiseaseType],
				ProjectName: rec[colProjectName],
				CancerType:  rec[colCancerType],
			}, nil
		}
	}
}
