package domain

// Derived display statuses, most specific first.
const (
	StatusOffer     = "offer"
	StatusRejected  = "rejected"
	StatusInterview = "interview"
	StatusApplied   = "applied"
	StatusReady     = "ready"
	StatusParsed    = "parsed"
	StatusIngested  = "ingested"
)

// DeriveStatus computes the display status from stored facts. It is a pure
// function and the single place this precedence lives:
// outcome > applied > ready (both artifacts) > parsed (intelligence) > ingested.
func DeriveStatus(app *Application) string {
	switch app.Outcome {
	case OutcomeOffer:
		return StatusOffer
	case OutcomeRejected:
		return StatusRejected
	case OutcomeInterview:
		return StatusInterview
	}
	if app.Workflow == WorkflowSubmitted {
		return StatusApplied
	}
	if app.CoverLetter != nil && app.Prd != nil {
		return StatusReady
	}
	if app.Job != nil && app.Job.Intelligence != nil {
		return StatusParsed
	}
	return StatusIngested
}

// statusStateTable maps a requested display status onto the persisted
// (workflow, outcome) pair.
var statusStateTable = map[string]struct{ workflow, outcome string }{
	StatusIngested:  {WorkflowDraft, OutcomeNone},
	StatusParsed:    {WorkflowDraft, OutcomeNone},
	"generating":    {WorkflowDraft, OutcomeNone},
	StatusReady:     {WorkflowPendingReview, OutcomeNone},
	StatusApplied:   {WorkflowSubmitted, OutcomeNone},
	StatusInterview: {WorkflowSubmitted, OutcomeInterview},
	StatusRejected:  {WorkflowSubmitted, OutcomeRejected},
	StatusOffer:     {WorkflowSubmitted, OutcomeOffer},
}

// MapRequestedStatus resolves a requested display status to the persisted
// pair. Unrecognized values return ok=false and callers must leave both
// fields unchanged: display status is informational and must never block
// other edits carried in the same request.
func MapRequestedStatus(requested string) (workflow, outcome string, ok bool) {
	entry, ok := statusStateTable[requested]
	if !ok {
		return "", "", false
	}
	return entry.workflow, entry.outcome, true
}
