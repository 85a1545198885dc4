// Package labels assembles the concept list attached to an uploaded slide.
package labels

import (
	"strings"

	"github.com/menta2k/slide-uploader/pkg/sample"
	"github.com/menta2k/slide-uploader/pkg/types"
)

// MaxLabelLen caps each reference-derived label at the catalog's concept
// id length limit.
const MaxLabelLen = 31

// Build returns the concepts for one sample: the general cancer label,
// followed by each semicolon-split token of the reference row's primary
// site, project name, and cancer type fields, in that order. Disease type
// is carried in the row but never labeled. Repeated tokens across fields
// are kept as-is. Every concept is asserted with confidence 1.0.
func Build(s *sample.Sample, row *types.ReferenceRow) []types.Concept {
	concepts := []types.Concept{{ID: s.GeneralCancer, Value: 1.0}}
	if row == nil {
		return concepts
	}

	for _, field := range []string{row.PrimarySite, row.ProjectName, row.CancerType} {
		for _, token := range strings.Split(field, ";") {
			concepts = append(concepts, types.Concept{ID: normalize(token), Value: 1.0})
		}
	}
	return concepts
}

// normalize truncates a token to MaxLabelLen and replaces spaces with
// underscores, matching how the catalog keys its concept ids.
func normalize(token string) string {
	if runes := []rune(token); len(runes) > MaxLabelLen {
		token = string(runes[:MaxLabelLen])
	}
	return strings.ReplaceAll(token, " ", "_")
}
