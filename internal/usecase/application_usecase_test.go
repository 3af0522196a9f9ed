package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"careeros-backend/internal/domain"
	"careeros-backend/internal/usecase"
	"careeros-backend/pkg/apperror"
	"careeros-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) CreateWithJob(ctx context.Context, app *domain.Application, job *domain.Job) error {
	return m.Called(ctx, app, job).Error(0)
}

func (m *MockApplicationRepo) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Application, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ReplaceIntelligence(ctx context.Context, jobID string, intel *domain.Intelligence) error {
	return m.Called(ctx, jobID, intel).Error(0)
}

func (m *MockApplicationRepo) SetMaturityLevel(ctx context.Context, jobID string, level int) error {
	return m.Called(ctx, jobID, level).Error(0)
}

func (m *MockApplicationRepo) SaveArtifacts(ctx context.Context, applicationID, coverLetter string, wordCount int, prd string) error {
	return m.Called(ctx, applicationID, coverLetter, wordCount, prd).Error(0)
}

func (m *MockApplicationRepo) UpsertCoverLetter(ctx context.Context, applicationID, content string, wordCount int) error {
	return m.Called(ctx, applicationID, content, wordCount).Error(0)
}

func (m *MockApplicationRepo) UpsertPrd(ctx context.Context, applicationID, content string) error {
	return m.Called(ctx, applicationID, content).Error(0)
}

func (m *MockApplicationRepo) UpdateState(ctx context.Context, id, workflow, outcome string) error {
	return m.Called(ctx, id, workflow, outcome).Error(0)
}

func (m *MockApplicationRepo) DeleteWithJob(ctx context.Context, id, jobID string) error {
	return m.Called(ctx, id, jobID).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

// Mock Capabilities

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, rawInput string) (*domain.ParsedJob, error) {
	args := m.Called(ctx, rawInput)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedJob), args.Error(1)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, jobDescription string) (*domain.Intelligence, error) {
	args := m.Called(ctx, jobDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Intelligence), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateCoverLetter(ctx context.Context, job *domain.Job, profile *domain.Profile, intel *domain.Intelligence) (string, error) {
	args := m.Called(ctx, job, profile, intel)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) GeneratePRD(ctx context.Context, job *domain.Job, profile *domain.Profile, intel *domain.Intelligence) (string, error) {
	args := m.Called(ctx, job, profile, intel)
	return args.String(0), args.Error(1)
}

type pipelineMocks struct {
	appRepo     *MockApplicationRepo
	profileRepo *MockProfileRepo
	extractor   *MockExtractor
	analyzer    *MockAnalyzer
	generator   *MockGenerator
}

func newPipeline() (domain.ApplicationUsecase, *pipelineMocks) {
	m := &pipelineMocks{
		appRepo:     new(MockApplicationRepo),
		profileRepo: new(MockProfileRepo),
		extractor:   new(MockExtractor),
		analyzer:    new(MockAnalyzer),
		generator:   new(MockGenerator),
	}
	uc := usecase.NewApplicationUsecase(m.appRepo, m.profileRepo, m.extractor, m.analyzer, m.generator, time.Second)
	return uc, m
}

func sampleApp() *domain.Application {
	return &domain.Application{
		ID:       "app-1",
		UserID:   "user-1",
		JobID:    "job-1",
		Workflow: domain.WorkflowDraft,
		Outcome:  domain.OutcomeNone,
		Job: &domain.Job{
			ID:             "job-1",
			CompanyName:    "Acme",
			JobTitle:       "PM",
			JobDescription: "We need an AI product manager to own our recommendation engine",
		},
	}
}

func sampleIntel() *domain.Intelligence {
	return &domain.Intelligence{
		CoreProductFocus:                "recommendation engine",
		MaturityStage:                   3,
		StrategicOpportunityGap:         "gap",
		CompetitivePositioning:          "position",
		HiddenTransformationOpportunity: "opportunity",
	}
}

func assertAppError(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestParse(t *testing.T) {
	t.Run("empty raw input is rejected without calling extraction", func(t *testing.T) {
		uc, m := newPipeline()

		_, err := uc.Parse(context.Background(), "   ")
		assertAppError(t, err, http.StatusBadRequest)
		m.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	})

	t.Run("returns extraction preview without persisting", func(t *testing.T) {
		uc, m := newPipeline()
		m.extractor.On("Extract", mock.Anything, "hiring text").Return(&domain.ParsedJob{
			CompanyName:    "Acme",
			JobTitle:       "PM",
			JobDescription: "Build things",
		}, nil)

		parsed, err := uc.Parse(context.Background(), "hiring text")
		require.NoError(t, err)
		assert.Equal(t, "Acme", parsed.CompanyName)
		m.appRepo.AssertNotCalled(t, "CreateWithJob", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("extraction failure surfaces as retryable upstream error", func(t *testing.T) {
		uc, m := newPipeline()
		m.extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("model unavailable"))

		_, err := uc.Parse(context.Background(), "hiring text")
		assertAppError(t, err, http.StatusBadGateway)
	})
}

func TestIngest(t *testing.T) {
	t.Run("structured fields round-trip with status ingested", func(t *testing.T) {
		uc, m := newPipeline()
		m.appRepo.On("CreateWithJob", mock.Anything, mock.AnythingOfType("*domain.Application"), mock.AnythingOfType("*domain.Job")).
			Return(nil).
			Run(func(args mock.Arguments) {
				app := args.Get(1).(*domain.Application)
				job := args.Get(2).(*domain.Job)
				app.ID = "app-1"
				job.ID = "job-1"
				app.JobID = job.ID
				app.Job = job
			})

		view, err := uc.Ingest(context.Background(), "user-1", domain.IngestInput{
			CompanyName:    "Acme",
			JobTitle:       "PM",
			JobDescription: "Build things",
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme", view.CompanyName)
		assert.Equal(t, "PM", view.JobTitle)
		assert.Equal(t, "Build things", view.JobDescription)
		assert.Equal(t, domain.StatusIngested, view.Status)
		m.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	})

	t.Run("raw input routes through extraction and keeps the paste source", func(t *testing.T) {
		uc, m := newPipeline()
		m.extractor.On("Extract", mock.Anything, "pasted posting").Return(&domain.ParsedJob{
			CompanyName:    "Acme",
			JobTitle:       "PM",
			JobDescription: "Build things",
		}, nil)
		m.appRepo.On("CreateWithJob", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Job")).
			Return(nil).
			Run(func(args mock.Arguments) {
				app := args.Get(1).(*domain.Application)
				job := args.Get(2).(*domain.Job)
				assert.Equal(t, domain.JobSourcePaste, job.Source)
				require.NotNil(t, job.RawInput)
				assert.Equal(t, "pasted posting", *job.RawInput)
				app.Job = job
			})

		_, err := uc.Ingest(context.Background(), "user-1", domain.IngestInput{RawInput: "pasted posting"})
		require.NoError(t, err)
	})

	t.Run("missing required fields are rejected before any write", func(t *testing.T) {
		uc, m := newPipeline()

		_, err := uc.Ingest(context.Background(), "user-1", domain.IngestInput{CompanyName: "Acme"})
		assertAppError(t, err, http.StatusBadRequest)
		m.appRepo.AssertNotCalled(t, "CreateWithJob", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store fault propagates without a view", func(t *testing.T) {
		uc, m := newPipeline()
		m.appRepo.On("CreateWithJob", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := uc.Ingest(context.Background(), "user-1", domain.IngestInput{
			CompanyName:    "Acme",
			JobTitle:       "PM",
			JobDescription: "Build things",
		})
		assertAppError(t, err, http.StatusInternalServerError)
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("replaces intelligence and maturity together", func(t *testing.T) {
		uc, m := newPipeline()
		intel := sampleIntel()
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(intel, nil)
		m.appRepo.On("ReplaceIntelligence", mock.Anything, "job-1", intel).Return(nil)

		got, err := uc.Analyze(context.Background(), "user-1", "app-1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.MaturityStage)
		m.appRepo.AssertCalled(t, "ReplaceIntelligence", mock.Anything, "job-1", intel)
	})

	t.Run("second run overwrites, never merges", func(t *testing.T) {
		uc, m := newPipeline()
		first := sampleIntel()
		second := sampleIntel()
		second.CoreProductFocus = "search ranking"
		second.MaturityStage = 5

		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(first, nil).Once()
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(second, nil).Once()
		m.appRepo.On("ReplaceIntelligence", mock.Anything, "job-1", first).Return(nil).Once()
		m.appRepo.On("ReplaceIntelligence", mock.Anything, "job-1", second).Return(nil).Once()

		_, err := uc.Analyze(context.Background(), "user-1", "app-1")
		require.NoError(t, err)
		got, err := uc.Analyze(context.Background(), "user-1", "app-1")
		require.NoError(t, err)

		assert.Equal(t, "search ranking", got.CoreProductFocus)
		assert.Equal(t, 5, got.MaturityStage)
		m.appRepo.AssertNumberOfCalls(t, "ReplaceIntelligence", 2)
	})

	t.Run("empty description is a validation error", func(t *testing.T) {
		uc, m := newPipeline()
		app := sampleApp()
		app.Job.JobDescription = "  "
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(app, nil)

		_, err := uc.Analyze(context.Background(), "user-1", "app-1")
		assertAppError(t, err, http.StatusBadRequest)
		m.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	})
}

func TestGenerateArtifacts(t *testing.T) {
	profile := &domain.Profile{UserID: "user-1", Name: "Jo", CVText: "experienced PM"}

	t.Run("missing CV text is a user-actionable precondition", func(t *testing.T) {
		uc, m := newPipeline()
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.profileRepo.On("GetByUserID", mock.Anything, "user-1").Return(&domain.Profile{UserID: "user-1"}, nil)

		_, err := uc.GenerateArtifacts(context.Background(), "user-1", "app-1")
		assertAppError(t, err, http.StatusUnprocessableEntity)
		m.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
		m.generator.AssertNotCalled(t, "GenerateCoverLetter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("one failed generation persists nothing", func(t *testing.T) {
		uc, m := newPipeline()
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.profileRepo.On("GetByUserID", mock.Anything, "user-1").Return(profile, nil)
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(sampleIntel(), nil)
		m.appRepo.On("ReplaceIntelligence", mock.Anything, "job-1", mock.Anything).Return(nil)
		m.generator.On("GenerateCoverLetter", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("Dear team", nil)
		m.generator.On("GeneratePRD", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("model overloaded"))

		_, err := uc.GenerateArtifacts(context.Background(), "user-1", "app-1")
		assertAppError(t, err, http.StatusBadGateway)
		m.appRepo.AssertNotCalled(t, "SaveArtifacts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("analysis failure stops generation entirely", func(t *testing.T) {
		uc, m := newPipeline()
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.profileRepo.On("GetByUserID", mock.Anything, "user-1").Return(profile, nil)
		m.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		_, err := uc.GenerateArtifacts(context.Background(), "user-1", "app-1")
		assertAppError(t, err, http.StatusBadGateway)
		m.generator.AssertNotCalled(t, "GenerateCoverLetter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.generator.AssertNotCalled(t, "GeneratePRD", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success persists both artifacts and moves to pending review", func(t *testing.T) {
		uc, m := newPipeline()
		intel := sampleIntel()
		app := sampleApp()

		generated := sampleApp()
		generated.Workflow = domain.WorkflowPendingReview
		generated.Job.Intelligence = intel
		generated.Job.MaturityLevel = intel.MaturityStage
		now := time.Now()
		generated.CoverLetter = &domain.CoverLetter{Content: "Dear Acme team", WordCount: 3, GeneratedAt: now}
		generated.Prd = &domain.Prd{Content: "# Executive Summary", GeneratedAt: now}

		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(app, nil).Once()
		m.profileRepo.On("GetByUserID", mock.Anything, "user-1").Return(profile, nil)
		m.analyzer.On("Analyze", mock.Anything, app.Job.JobDescription).Return(intel, nil)
		m.appRepo.On("ReplaceIntelligence", mock.Anything, "job-1", intel).Return(nil)
		m.generator.On("GenerateCoverLetter", mock.Anything, mock.Anything, profile, intel).Return("Dear Acme team", nil)
		m.generator.On("GeneratePRD", mock.Anything, mock.Anything, profile, intel).Return("# Executive Summary", nil)
		m.appRepo.On("SaveArtifacts", mock.Anything, "app-1", "Dear Acme team", 3, "# Executive Summary").Return(nil)
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(generated, nil).Once()

		view, err := uc.GenerateArtifacts(context.Background(), "user-1", "app-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusReady, view.Status)
		assert.Equal(t, "Dear Acme team", view.CoverLetter)
		assert.Equal(t, "# Executive Summary", view.PrdContent)
		assert.Equal(t, 3, view.MaturityLevel)
	})
}

func TestUpdate(t *testing.T) {
	status := func(s string) *string { return &s }

	t.Run("offer maps to submitted regardless of artifacts", func(t *testing.T) {
		uc, m := newPipeline()
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.appRepo.On("UpdateState", mock.Anything, "app-1", domain.WorkflowSubmitted, domain.OutcomeOffer).Return(nil)

		_, err := uc.Update(context.Background(), "user-1", "app-1", domain.ApplicationUpdate{Status: status("offer")})
		require.NoError(t, err)
		m.appRepo.AssertCalled(t, "UpdateState", mock.Anything, "app-1", domain.WorkflowSubmitted, domain.OutcomeOffer)
	})

	t.Run("unknown status is a no-op, not an error", func(t *testing.T) {
		uc, m := newPipeline()
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)

		_, err := uc.Update(context.Background(), "user-1", "app-1", domain.ApplicationUpdate{Status: status("archived")})
		require.NoError(t, err)
		m.appRepo.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status does not block artifact edit in the same call", func(t *testing.T) {
		uc, m := newPipeline()
		text := "one two three four"
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.appRepo.On("UpsertCoverLetter", mock.Anything, "app-1", text, 4).Return(nil)

		_, err := uc.Update(context.Background(), "user-1", "app-1", domain.ApplicationUpdate{
			Status:      status("archived"),
			CoverLetter: &text,
		})
		require.NoError(t, err)
		m.appRepo.AssertCalled(t, "UpsertCoverLetter", mock.Anything, "app-1", text, 4)
	})

	t.Run("cover letter edit recomputes word count", func(t *testing.T) {
		uc, m := newPipeline()
		text := "short and  spaced   text"
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.appRepo.On("UpsertCoverLetter", mock.Anything, "app-1", text, 4).Return(nil)

		_, err := uc.Update(context.Background(), "user-1", "app-1", domain.ApplicationUpdate{CoverLetter: &text})
		require.NoError(t, err)
	})

	t.Run("out-of-range maturity level is rejected", func(t *testing.T) {
		uc, m := newPipeline()
		level := 9
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)

		_, err := uc.Update(context.Background(), "user-1", "app-1", domain.ApplicationUpdate{MaturityLevel: &level})
		assertAppError(t, err, http.StatusBadRequest)
		m.appRepo.AssertNotCalled(t, "SetMaturityLevel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("manual intelligence replaces wholesale", func(t *testing.T) {
		uc, m := newPipeline()
		intel := sampleIntel()
		m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
		m.appRepo.On("ReplaceIntelligence", mock.Anything, "job-1", intel).Return(nil)

		_, err := uc.Update(context.Background(), "user-1", "app-1", domain.ApplicationUpdate{Intelligence: intel})
		require.NoError(t, err)
	})
}

func TestOwnershipIsolation(t *testing.T) {
	// Foreign ids surface as not-found for every operation, never as a
	// permissions-specific error.
	uc, m := newPipeline()
	m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "intruder").Return(nil, domain.ErrNotFound)

	_, err := uc.Get(context.Background(), "intruder", "app-1")
	assertAppError(t, err, http.StatusNotFound)

	_, err = uc.Update(context.Background(), "intruder", "app-1", domain.ApplicationUpdate{})
	assertAppError(t, err, http.StatusNotFound)

	err = uc.Delete(context.Background(), "intruder", "app-1")
	assertAppError(t, err, http.StatusNotFound)

	_, err = uc.GenerateArtifacts(context.Background(), "intruder", "app-1")
	assertAppError(t, err, http.StatusNotFound)

	m.appRepo.AssertNotCalled(t, "DeleteWithJob", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	uc, m := newPipeline()
	m.appRepo.On("GetByIDForUser", mock.Anything, "app-1", "user-1").Return(sampleApp(), nil)
	m.appRepo.On("DeleteWithJob", mock.Anything, "app-1", "job-1").Return(nil)

	err := uc.Delete(context.Background(), "user-1", "app-1")
	require.NoError(t, err)
	m.appRepo.AssertCalled(t, "DeleteWithJob", mock.Anything, "app-1", "job-1")
}
