package types

// Concept is one classification label attached to an uploaded image.
// Value is the confidence assigned to the label; this pipeline always
// asserts its labels with full confidence.
type Concept struct {
	ID    string  `json:"id"`
	Value float32 `json:"value"`
}

// ReferenceRow holds the descriptive fields of one reference-table row.
// Fields may carry semicolon-delimited multi-values.
type ReferenceRow struct {
	PrimarySite string `json:"primary_site"`
	DiseaseType string `json:"project_disease_type"`
	ProjectName string `json:"project_name"`
	CancerType  string `json:"tcga_cancer_type"`
}

// UploadRequest carries one scaled image plus its labels and metadata
// to the catalog service.
type UploadRequest struct {
	ImageBytes []byte
	Concepts   []Concept
	Metadata   map[string]string
}

// UploadResult reports the service's verdict on one upload.
type UploadResult struct {
	Success     bool
	Code        int32
	Description string
	Details     string
}
