package run

import (
	"patternstudy/domain/core"
)

// Counts records how many rows each lifecycle stage saw and kept, so a
// manifest alone is enough to audit an exclusion dispute.
type Counts struct {
	RawRows       int `json:"raw_rows"`       // data rows in the export, artifacts removed
	Excluded      int `json:"excluded"`       // respondents dropped by the exclusion list
	Respondents   int `json:"respondents"`    // respondents surviving exclusion
	Observations  int `json:"observations"`   // long-format rows written
	DroppedCells  int `json:"dropped_cells"`  // cells skipped for missing/non-numeric tendency
	UnknownLabels int `json:"unknown_labels"` // condition values no alias matched
}

// Manifest is the truth source for one analysis run: input fingerprints,
// stage counts, and identity. It is written before any summary artifact so
// every output can be traced back to the exact inputs that produced it.
type Manifest struct {
	RunID          core.RunID     `json:"run_id"`
	SurveyPath     string         `json:"survey_path"`
	SurveyHash     core.Hash      `json:"survey_hash"`
	ExclusionsPath string         `json:"exclusions_path,omitempty"`
	ExclusionsHash core.Hash      `json:"exclusions_hash,omitempty"`
	Counts         Counts         `json:"counts"`
	CodeVersion    string         `json:"code_version"`
	CreatedAt      core.Timestamp `json:"created_at"`
}

// NewManifest creates a manifest for a run over the given inputs.
func NewManifest(surveyPath string, surveyHash core.Hash, exclusionsPath string, exclusionsHash core.Hash, codeVersion string) *Manifest {
	return &Manifest{
		RunID:          core.RunID(core.NewID()),
		SurveyPath:     surveyPath,
		SurveyHash:     surveyHash,
		ExclusionsPath: exclusionsPath,
		ExclusionsHash: exclusionsHash,
		CodeVersion:    codeVersion,
		CreatedAt:      core.Now(),
	}
}

// Validate checks the manifest is complete enough to anchor a run.
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("manifest", "run_id cannot be empty")
	}
	if m.SurveyPath == "" {
		return core.NewValidationError("manifest", "survey_path cannot be empty")
	}
	if m.SurveyHash.IsEmpty() {
		return core.NewValidationError("manifest", "survey_hash cannot be empty")
	}
	return nil
}
