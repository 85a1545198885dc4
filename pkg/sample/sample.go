// Package sample derives slide identity from the download path layout.
package sample

import (
	"fmt"
	"strings"
)

// Sample identifies one slide. The identity is parsed from the path the
// slide was downloaded to rather than queried from the data portal.
type Sample struct {
	GeneralCancer string
	GDCID         string
	TCGAFullID    string
	TCGAID        string
}

// ParsePath parses a slide path of the form
// <general_cancer>/<site_id>/.../<specimen_id>.<ext>. The specimen id must
// have at least three hyphen-delimited parts; the first three form the
// short id used to match the reference table.
func ParsePath(slidePath string) (*Sample, error) {
	parts := strings.Split(slidePath, "/")
	if len(parts) < 4 {
		return nil, fmt.Errorf("slide path %q has %d segments, want at least 4", slidePath, len(parts))
	}

	fullID := parts[len(parts)-1]
	if i := strings.Index(fullID, "."); i >= 0 {
		fullID = fullID[:i]
	}
	tcga := strings.Split(fullID, "-")
	if len(tcga) < 3 {
		return nil, fmt.Errorf("specimen id %q has %d hyphen parts, want at least 3", fullID, len(tcga))
	}

	return &Sample{
		GeneralCancer: parts[0],
		GDCID:         parts[1],
		TCGAFullID:    fullID,
		TCGAID:        strings.Join(tcga[:3], "-"),
	}, nil
}

// Metadata flattens the identity into the key/value bag attached to the upload.
func (s *Sample) Metadata() map[string]string {
	return map[string]string{
		"general_cancer": s.GeneralCancer,
		"gdc_id":         s.GDCID,
		"tcga_full_id":   s.TCGAFullID,
		"tcga_id":        s.TCGAID,
	}
}
