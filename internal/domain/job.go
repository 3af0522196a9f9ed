package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Job ingestion sources
const (
	JobSourceManual = "manual"
	JobSourcePaste  = "paste"
)

// Maturity bounds for the 7-level AI maturity framework. Level 0 means the
// job has never been analyzed.
const (
	MaturityUnset = 0
	MaturityMin   = 1
	MaturityMax   = 7
)

// Job represents one employment opportunity. A Job is created together with
// its owning Application and never outlives it.
type Job struct {
	ID              string        `json:"id"`
	CompanyName     string        `json:"company_name"`
	JobTitle        string        `json:"job_title"`
	JobDescription  string        `json:"job_description"`
	ApplicationLink *string       `json:"application_link,omitempty"`
	Source          string        `json:"source"` // manual | paste
	RawInput        *string       `json:"raw_input,omitempty"`
	MaturityLevel   int           `json:"ai_maturity_level"` // 0 = unset, 1-7 = assessed
	Intelligence    *Intelligence `json:"intelligence,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Intelligence is the strategic analysis derived from a job description.
// It is a value object: re-analysis replaces it wholesale together with the
// Job's maturity level, never field by field.
type Intelligence struct {
	CoreProductFocus                string `json:"core_product_focus"`
	MaturityStage                   int    `json:"maturity_stage"` // 1-7
	StrategicOpportunityGap         string `json:"strategic_opportunity_gap"`
	CompetitivePositioning          string `json:"competitive_positioning"`
	HiddenTransformationOpportunity string `json:"hidden_transformation_opportunity"`
}

// ParsedJob is the structured output of the text extraction capability.
// It is a preview shape only and is never persisted directly.
type ParsedJob struct {
	CompanyName     string  `json:"company_name"`
	JobTitle        string  `json:"job_title"`
	JobDescription  string  `json:"job_description"`
	ApplicationLink *string `json:"application_link,omitempty"`
}

// TextExtractor turns raw pasted text into structured job fields. It is
// best-effort: unparseable input yields placeholder defaults, not an error.
type TextExtractor interface {
	Extract(ctx context.Context, rawInput string) (*ParsedJob, error)
}

// IntelligenceAnalyzer derives an Intelligence record from a job description.
// Implementations must return all five fields with MaturityStage in [1,7].
type IntelligenceAnalyzer interface {
	Analyze(ctx context.Context, jobDescription string) (*Intelligence, error)
}

// ArtifactGenerator produces the two long-form artifacts. Both methods are
// pure from the pipeline's perspective: they never write to the store.
type ArtifactGenerator interface {
	GenerateCoverLetter(ctx context.Context, job *Job, profile *Profile, intel *Intelligence) (string, error)
	GeneratePRD(ctx context.Context, job *Job, profile *Profile, intel *Intelligence) (string, error)
}
