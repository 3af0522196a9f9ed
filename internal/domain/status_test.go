package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func appWith(workflow, outcome string, hasIntel, hasArtifacts bool) *Application {
	app := &Application{
		Workflow: workflow,
		Outcome:  outcome,
		Job:      &Job{},
	}
	if hasIntel {
		app.Job.Intelligence = &Intelligence{MaturityStage: 3}
	}
	if hasArtifacts {
		app.CoverLetter = &CoverLetter{Content: "letter"}
		app.Prd = &Prd{Content: "prd"}
	}
	return app
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name         string
		workflow     string
		outcome      string
		hasIntel     bool
		hasArtifacts bool
		want         string
	}{
		{"fresh ingestion", WorkflowDraft, OutcomeNone, false, false, StatusIngested},
		{"intelligence only", WorkflowDraft, OutcomeNone, true, false, StatusParsed},
		{"both artifacts", WorkflowDraft, OutcomeNone, true, true, StatusReady},
		{"artifacts without intelligence", WorkflowDraft, OutcomeNone, false, true, StatusReady},
		{"pending review with artifacts", WorkflowPendingReview, OutcomeNone, true, true, StatusReady},
		{"submitted beats artifacts", WorkflowSubmitted, OutcomeNone, true, true, StatusApplied},
		{"submitted without artifacts", WorkflowSubmitted, OutcomeNone, false, false, StatusApplied},
		{"interview outcome", WorkflowSubmitted, OutcomeInterview, true, true, StatusInterview},
		{"rejected outcome", WorkflowSubmitted, OutcomeRejected, false, false, StatusRejected},
		{"offer beats everything", WorkflowSubmitted, OutcomeOffer, true, true, StatusOffer},
		{"offer regardless of artifacts", WorkflowDraft, OutcomeOffer, false, false, StatusOffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := appWith(tt.workflow, tt.outcome, tt.hasIntel, tt.hasArtifacts)
			assert.Equal(t, tt.want, DeriveStatus(app))
		})
	}
}

func TestDeriveStatusWithoutJob(t *testing.T) {
	// A missing job relation must not panic; it simply cannot be parsed
	app := &Application{Workflow: WorkflowDraft, Outcome: OutcomeNone}
	assert.Equal(t, StatusIngested, DeriveStatus(app))
}

func TestMapRequestedStatus(t *testing.T) {
	tests := []struct {
		requested    string
		wantWorkflow string
		wantOutcome  string
	}{
		{StatusIngested, WorkflowDraft, OutcomeNone},
		{StatusParsed, WorkflowDraft, OutcomeNone},
		{"generating", WorkflowDraft, OutcomeNone},
		{StatusReady, WorkflowPendingReview, OutcomeNone},
		{StatusApplied, WorkflowSubmitted, OutcomeNone},
		{StatusInterview, WorkflowSubmitted, OutcomeInterview},
		{StatusRejected, WorkflowSubmitted, OutcomeRejected},
		{StatusOffer, WorkflowSubmitted, OutcomeOffer},
	}

	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			workflow, outcome, ok := MapRequestedStatus(tt.requested)
			assert.True(t, ok)
			assert.Equal(t, tt.wantWorkflow, workflow)
			assert.Equal(t, tt.wantOutcome, outcome)
		})
	}

	t.Run("unrecognized values are not an error", func(t *testing.T) {
		_, _, ok := MapRequestedStatus("archived")
		assert.False(t, ok)
	})
}

func TestNewApplicationView(t *testing.T) {
	link := "https://acme.example/apply"
	app := appWith(WorkflowDraft, OutcomeNone, true, true)
	app.ID = "app-1"
	app.Job.CompanyName = "Acme"
	app.Job.JobTitle = "PM"
	app.Job.JobDescription = "Build things"
	app.Job.ApplicationLink = &link
	app.Job.MaturityLevel = 3

	view := NewApplicationView(app)

	assert.Equal(t, "app-1", view.ID)
	assert.Equal(t, "Acme", view.CompanyName)
	assert.Equal(t, "PM", view.JobTitle)
	assert.Equal(t, "Build things", view.JobDescription)
	assert.Equal(t, link, view.ApplicationLink)
	assert.Equal(t, StatusReady, view.Status)
	assert.Equal(t, 3, view.MaturityLevel)
	assert.Contains(t, view.Intelligence, "maturity_stage")
	assert.Equal(t, "letter", view.CoverLetter)
	assert.Equal(t, "prd", view.PrdContent)
}

func TestNewApplicationViewDefaults(t *testing.T) {
	view := NewApplicationView(appWith(WorkflowDraft, OutcomeNone, false, false))

	assert.Equal(t, StatusIngested, view.Status)
	assert.Equal(t, "{}", view.Intelligence)
	assert.Empty(t, view.CoverLetter)
	assert.Empty(t, view.PrdContent)
}
