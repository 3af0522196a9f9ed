package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"careeros-backend/internal/domain"
	"careeros-backend/pkg/apperror"
	"careeros-backend/pkg/logger"
)

type applicationUsecase struct {
	appRepo     domain.ApplicationRepository
	profileRepo domain.ProfileRepository
	extractor   domain.TextExtractor
	analyzer    domain.IntelligenceAnalyzer
	generator   domain.ArtifactGenerator
	llmTimeout  time.Duration
}

// NewApplicationUsecase creates the pipeline usecase. The three capability
// collaborators are injected so tests can substitute fakes.
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	profileRepo domain.ProfileRepository,
	extractor domain.TextExtractor,
	analyzer domain.IntelligenceAnalyzer,
	generator domain.ArtifactGenerator,
	llmTimeout time.Duration,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:     appRepo,
		profileRepo: profileRepo,
		extractor:   extractor,
		analyzer:    analyzer,
		generator:   generator,
		llmTimeout:  llmTimeout,
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// Parse previews extraction without persisting anything, so the caller can
// review and edit the structured fields before Ingest.
func (uc *applicationUsecase) Parse(ctx context.Context, rawInput string) (*domain.ParsedJob, error) {
	if strings.TrimSpace(rawInput) == "" {
		return nil, apperror.BadRequest("raw_input is required")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.llmTimeout)
	defer cancel()

	parsed, err := uc.extractor.Extract(ctx, rawInput)
	if err != nil {
		logger.Log.Error("job extraction failed", "error", err)
		return nil, apperror.Upstream("Failed to parse job posting", err)
	}
	return parsed, nil
}

// Ingest creates a Job and its Application as one atomic pair. Structured
// fields are used as-is; when absent, raw input is routed through extraction.
func (uc *applicationUsecase) Ingest(ctx context.Context, userID string, in domain.IngestInput) (*domain.ApplicationView, error) {
	companyName := strings.TrimSpace(in.CompanyName)
	jobTitle := strings.TrimSpace(in.JobTitle)
	jobDescription := strings.TrimSpace(in.JobDescription)

	if companyName == "" && jobTitle == "" && jobDescription == "" && strings.TrimSpace(in.RawInput) != "" {
		parsed, err := uc.Parse(ctx, in.RawInput)
		if err != nil {
			return nil, err
		}
		companyName = parsed.CompanyName
		jobTitle = parsed.JobTitle
		jobDescription = parsed.JobDescription
		if parsed.ApplicationLink != nil && in.ApplicationLink == "" {
			in.ApplicationLink = *parsed.ApplicationLink
		}
	}

	if companyName == "" || jobTitle == "" || jobDescription == "" {
		return nil, apperror.BadRequest("company_name, job_title, and job_description are required")
	}

	job := &domain.Job{
		CompanyName:    companyName,
		JobTitle:       jobTitle,
		JobDescription: jobDescription,
		Source:         domain.JobSourceManual,
	}
	if link := strings.TrimSpace(in.ApplicationLink); link != "" {
		job.ApplicationLink = &link
	}
	if raw := in.RawInput; raw != "" {
		job.Source = domain.JobSourcePaste
		job.RawInput = &raw
	}

	app := &domain.Application{
		UserID:   userID,
		Workflow: domain.WorkflowDraft,
		Outcome:  domain.OutcomeNone,
	}

	if err := uc.appRepo.CreateWithJob(ctx, app, job); err != nil {
		return nil, apperror.Internal(err)
	}

	return domain.NewApplicationView(app), nil
}

// List returns all of the user's applications with derived statuses.
func (uc *applicationUsecase) List(ctx context.Context, userID string) ([]*domain.ApplicationView, error) {
	apps, err := uc.appRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	views := make([]*domain.ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, domain.NewApplicationView(&apps[i]))
	}
	return views, nil
}

// Get returns one application, owner-scoped.
func (uc *applicationUsecase) Get(ctx context.Context, userID, id string) (*domain.ApplicationView, error) {
	app, err := uc.appRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}
	return domain.NewApplicationView(app), nil
}

// Analyze runs the intelligence analyzer on the job description and
// replaces the stored record and maturity level together. Re-running
// overwrites wholesale, never merges.
func (uc *applicationUsecase) Analyze(ctx context.Context, userID, id string) (*domain.Intelligence, error) {
	app, err := uc.appRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}

	return uc.analyzeJob(ctx, app.Job)
}

func (uc *applicationUsecase) analyzeJob(ctx context.Context, job *domain.Job) (*domain.Intelligence, error) {
	if strings.TrimSpace(job.JobDescription) == "" {
		return nil, apperror.BadRequest("Job description is empty")
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.llmTimeout)
	defer cancel()

	intel, err := uc.analyzer.Analyze(callCtx, job.JobDescription)
	if err != nil {
		logger.Log.Error("job analysis failed", "job_id", job.ID, "error", err)
		return nil, apperror.Upstream("Failed to analyze job description", err)
	}

	if err := uc.appRepo.ReplaceIntelligence(ctx, job.ID, intel); err != nil {
		return nil, apperror.Internal(err)
	}

	job.Intelligence = intel
	job.MaturityLevel = intel.MaturityStage
	return intel, nil
}

// GenerateArtifacts runs the full sequence: profile precondition, fresh
// analysis, concurrent cover-letter and PRD generation, then all-or-nothing
// persistence. A failure anywhere leaves the application's prior artifacts
// and workflow state untouched, so retry is always safe.
func (uc *applicationUsecase) GenerateArtifacts(ctx context.Context, userID, id string) (*domain.ApplicationView, error) {
	app, err := uc.appRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil || strings.TrimSpace(profile.CVText) == "" {
		return nil, apperror.UnprocessableEntity("Please complete your profile before generating documents")
	}

	// Analysis always re-runs so generation reflects the current
	// description, and it is persisted before either generation starts.
	intel, err := uc.analyzeJob(ctx, app.Job)
	if err != nil {
		return nil, err
	}

	// Both generations share one deadline and run independently: the first
	// failure does not cancel the sibling, but nothing is written unless
	// both succeed.
	genCtx, cancel := context.WithTimeout(ctx, uc.llmTimeout)
	defer cancel()

	var (
		wg        sync.WaitGroup
		letter    string
		letterErr error
		prd       string
		prdErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		letter, letterErr = uc.generator.GenerateCoverLetter(genCtx, app.Job, profile, intel)
	}()
	go func() {
		defer wg.Done()
		prd, prdErr = uc.generator.GeneratePRD(genCtx, app.Job, profile, intel)
	}()
	wg.Wait()

	if err := errors.Join(letterErr, prdErr); err != nil {
		logger.Log.Error("artifact generation failed", "application_id", app.ID, "error", err)
		return nil, apperror.Upstream("Failed to generate documents", err)
	}

	if err := uc.appRepo.SaveArtifacts(ctx, app.ID, letter, wordCount(letter), prd); err != nil {
		return nil, apperror.Internal(err)
	}

	updated, err := uc.appRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewApplicationView(updated), nil
}

// Update applies an explicit partial update. Each field is independent; an
// unrecognized status value is ignored so it never blocks artifact edits
// carried in the same request.
func (uc *applicationUsecase) Update(ctx context.Context, userID, id string, in domain.ApplicationUpdate) (*domain.ApplicationView, error) {
	app, err := uc.appRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperror.NotFound("Application not found")
	}

	switch {
	case in.Intelligence != nil:
		if in.Intelligence.MaturityStage < domain.MaturityMin || in.Intelligence.MaturityStage > domain.MaturityMax {
			return nil, apperror.BadRequest("maturity_stage must be between 1 and 7")
		}
		if err := uc.appRepo.ReplaceIntelligence(ctx, app.JobID, in.Intelligence); err != nil {
			return nil, apperror.Internal(err)
		}
	case in.MaturityLevel != nil:
		if *in.MaturityLevel < domain.MaturityMin || *in.MaturityLevel > domain.MaturityMax {
			return nil, apperror.BadRequest("ai_maturity_level must be between 1 and 7")
		}
		if err := uc.appRepo.SetMaturityLevel(ctx, app.JobID, *in.MaturityLevel); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	if in.Status != nil {
		if workflow, outcome, ok := domain.MapRequestedStatus(*in.Status); ok {
			if err := uc.appRepo.UpdateState(ctx, app.ID, workflow, outcome); err != nil {
				return nil, apperror.Internal(err)
			}
		}
	}

	if in.CoverLetter != nil {
		if err := uc.appRepo.UpsertCoverLetter(ctx, app.ID, *in.CoverLetter, wordCount(*in.CoverLetter)); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	if in.PrdContent != nil {
		if err := uc.appRepo.UpsertPrd(ctx, app.ID, *in.PrdContent); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	updated, err := uc.appRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewApplicationView(updated), nil
}

// Delete removes the application and its job together.
func (uc *applicationUsecase) Delete(ctx context.Context, userID, id string) error {
	app, err := uc.appRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return apperror.NotFound("Application not found")
	}

	if err := uc.appRepo.DeleteWithJob(ctx, app.ID, app.JobID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
