package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Persisted workflow states (monotonic forward in the happy path:
// draft → pending_review → submitted; UpdateStatus may force it backward)
const (
	WorkflowDraft         = "draft"
	WorkflowPendingReview = "pending_review"
	WorkflowSubmitted     = "submitted"
)

// Persisted outcomes. Any outcome other than none implies the workflow
// state is submitted.
const (
	OutcomeNone      = "none"
	OutcomeInterview = "interview"
	OutcomeRejected  = "rejected"
	OutcomeOffer     = "offer"
)

// Application represents one user's pursuit of one Job. It owns the two
// generated artifacts and the persisted lifecycle facts from which the
// display status is derived.
type Application struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	JobID     string    `json:"job_id"`
	Workflow  string    `json:"workflow"` // draft | pending_review | submitted
	Outcome   string    `json:"outcome"`  // none | interview | rejected | offer
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Loaded relations (always populated by owner-scoped reads)
	Job         *Job         `json:"job,omitempty"`
	CoverLetter *CoverLetter `json:"cover_letter,omitempty"`
	Prd         *Prd         `json:"prd,omitempty"`
}

// CoverLetter is a generated artifact, at most one per Application.
// WordCount is recomputed from Content on every write. EditedAt is set only
// by manual edits so the UI can distinguish generated from human-edited text.
type CoverLetter struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	Content       string     `json:"content"`
	WordCount     int        `json:"word_count"`
	GeneratedAt   time.Time  `json:"generated_at"`
	EditedAt      *time.Time `json:"edited_at,omitempty"`
}

// Prd is the strategic PRD artifact (Markdown), at most one per Application.
type Prd struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	Content       string     `json:"content"`
	GeneratedAt   time.Time  `json:"generated_at"`
	EditedAt      *time.Time `json:"edited_at,omitempty"`
}

// ApplicationView is the flattened read shape returned by every application
// endpoint. Status is derived on each read, never stored.
type ApplicationView struct {
	ID              string    `json:"id"`
	CompanyName     string    `json:"company_name"`
	JobTitle        string    `json:"job_title"`
	JobDescription  string    `json:"job_description"`
	ApplicationLink string    `json:"application_link"`
	Status          string    `json:"status"`
	MaturityLevel   int       `json:"ai_maturity_level"`
	Intelligence    string    `json:"parsed_intelligence"` // JSON-encoded Intelligence, "{}" when unset
	CoverLetter     string    `json:"cover_letter"`
	PrdContent      string    `json:"prd_content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewApplicationView flattens an Application (with loaded relations) into
// the wire shape, recomputing the derived display status.
func NewApplicationView(app *Application) *ApplicationView {
	view := &ApplicationView{
		ID:           app.ID,
		Status:       DeriveStatus(app),
		Intelligence: "{}",
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
	}
	if app.Job != nil {
		view.CompanyName = app.Job.CompanyName
		view.JobTitle = app.Job.JobTitle
		view.JobDescription = app.Job.JobDescription
		view.MaturityLevel = app.Job.MaturityLevel
		if app.Job.ApplicationLink != nil {
			view.ApplicationLink = *app.Job.ApplicationLink
		}
		if app.Job.Intelligence != nil {
			if raw, err := json.Marshal(app.Job.Intelligence); err == nil {
				view.Intelligence = string(raw)
			}
		}
	}
	if app.CoverLetter != nil {
		view.CoverLetter = app.CoverLetter.Content
	}
	if app.Prd != nil {
		view.PrdContent = app.Prd.Content
	}
	return view
}

// IngestInput carries the fields accepted by Ingest. Structured fields take
// precedence; when they are absent RawInput is routed through extraction.
type IngestInput struct {
	CompanyName     string
	JobTitle        string
	JobDescription  string
	ApplicationLink string
	RawInput        string
}

// ApplicationUpdate is the explicit partial-update shape for PATCH. Each
// field is optional and independently applied; nil means untouched.
type ApplicationUpdate struct {
	Status        *string
	MaturityLevel *int
	Intelligence  *Intelligence
	CoverLetter   *string
	PrdContent    *string
}

// ApplicationRepository defines owner-scoped data access for applications
// and their jobs and artifacts. Multi-record writes are all-or-nothing.
type ApplicationRepository interface {
	// CreateWithJob inserts the job and its application in one transaction.
	CreateWithJob(ctx context.Context, app *Application, job *Job) error
	GetByIDForUser(ctx context.Context, id, userID string) (*Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	// ReplaceIntelligence overwrites the job's intelligence record and
	// maturity level together.
	ReplaceIntelligence(ctx context.Context, jobID string, intel *Intelligence) error
	SetMaturityLevel(ctx context.Context, jobID string, level int) error
	// SaveArtifacts upserts both artifacts and moves the application to
	// pending_review in one transaction.
	SaveArtifacts(ctx context.Context, applicationID, coverLetter string, wordCount int, prd string) error
	UpsertCoverLetter(ctx context.Context, applicationID, content string, wordCount int) error
	UpsertPrd(ctx context.Context, applicationID, content string) error
	UpdateState(ctx context.Context, id, workflow, outcome string) error
	// DeleteWithJob removes the application and its job together.
	DeleteWithJob(ctx context.Context, id, jobID string) error
}

// ApplicationUsecase is the job-intelligence pipeline. Every operation is
// scoped to the authenticated user; foreign ids surface as not-found.
type ApplicationUsecase interface {
	Parse(ctx context.Context, rawInput string) (*ParsedJob, error)
	Ingest(ctx context.Context, userID string, in IngestInput) (*ApplicationView, error)
	List(ctx context.Context, userID string) ([]*ApplicationView, error)
	Get(ctx context.Context, userID, id string) (*ApplicationView, error)
	Update(ctx context.Context, userID, id string, in ApplicationUpdate) (*ApplicationView, error)
	Delete(ctx context.Context, userID, id string) error
	Analyze(ctx context.Context, userID, id string) (*Intelligence, error)
	GenerateArtifacts(ctx context.Context, userID, id string) (*ApplicationView, error)
}
