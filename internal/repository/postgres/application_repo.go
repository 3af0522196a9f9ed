package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"careeros-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// CreateWithJob inserts the job and its owning application in a single
// transaction so a store fault can never leave an orphan job behind.
func (r *applicationRepo) CreateWithJob(ctx context.Context, app *domain.Application, job *domain.Job) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	job.ID = uuid.NewString()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Source == "" {
		job.Source = domain.JobSourceManual
	}

	var intelRaw []byte
	if job.Intelligence != nil {
		intelRaw, err = json.Marshal(job.Intelligence)
		if err != nil {
			return err
		}
	}

	jobQuery := `
		INSERT INTO jobs (id, company_name, job_title, job_description, application_link, source, raw_input, maturity_level, intelligence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, jobQuery,
		job.ID,
		job.CompanyName,
		job.JobTitle,
		job.JobDescription,
		job.ApplicationLink,
		job.Source,
		job.RawInput,
		job.MaturityLevel,
		intelRaw,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return err
	}

	app.ID = uuid.NewString()
	app.JobID = job.ID
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Workflow == "" {
		app.Workflow = domain.WorkflowDraft
	}
	if app.Outcome == "" {
		app.Outcome = domain.OutcomeNone
	}

	appQuery := `
		INSERT INTO applications (id, user_id, job_id, workflow, outcome, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.Exec(ctx, appQuery,
		app.ID,
		app.UserID,
		app.JobID,
		app.Workflow,
		app.Outcome,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return err
	}

	app.Job = job
	return tx.Commit(ctx)
}

const applicationSelect = `
	SELECT
		a.id, a.user_id, a.job_id, a.workflow, a.outcome, a.created_at, a.updated_at,
		j.company_name, j.job_title, j.job_description, j.application_link, j.source, j.raw_input,
		j.maturity_level, j.intelligence, j.created_at, j.updated_at,
		cl.id, cl.content, cl.word_count, cl.generated_at, cl.edited_at,
		p.id, p.content, p.generated_at, p.edited_at
	FROM applications a
	JOIN jobs j ON a.job_id = j.id
	LEFT JOIN cover_letters cl ON cl.application_id = a.id
	LEFT JOIN prds p ON p.application_id = a.id`

// scanApplication scans one joined row into an Application with its job and
// any artifacts attached.
func scanApplication(row pgx.Row) (*domain.Application, error) {
	var (
		app      domain.Application
		job      domain.Job
		intelRaw []byte

		clID        *string
		clContent   *string
		clWordCount *int
		clGenAt     *time.Time
		clEditedAt  *time.Time

		prdID       *string
		prdContent  *string
		prdGenAt    *time.Time
		prdEditedAt *time.Time
	)

	err := row.Scan(
		&app.ID, &app.UserID, &app.JobID, &app.Workflow, &app.Outcome, &app.CreatedAt, &app.UpdatedAt,
		&job.CompanyName, &job.JobTitle, &job.JobDescription, &job.ApplicationLink, &job.Source, &job.RawInput,
		&job.MaturityLevel, &intelRaw, &job.CreatedAt, &job.UpdatedAt,
		&clID, &clContent, &clWordCount, &clGenAt, &clEditedAt,
		&prdID, &prdContent, &prdGenAt, &prdEditedAt,
	)
	if err != nil {
		return nil, err
	}

	job.ID = app.JobID
	if len(intelRaw) > 0 {
		var intel domain.Intelligence
		if err := json.Unmarshal(intelRaw, &intel); err != nil {
			return nil, err
		}
		job.Intelligence = &intel
	}
	app.Job = &job

	if clID != nil {
		app.CoverLetter = &domain.CoverLetter{
			ID:            *clID,
			ApplicationID: app.ID,
			Content:       *clContent,
			WordCount:     *clWordCount,
			GeneratedAt:   *clGenAt,
			EditedAt:      clEditedAt,
		}
	}
	if prdID != nil {
		app.Prd = &domain.Prd{
			ID:            *prdID,
			ApplicationID: app.ID,
			Content:       *prdContent,
			GeneratedAt:   *prdGenAt,
			EditedAt:      prdEditedAt,
		}
	}

	return &app, nil
}

// GetByIDForUser retrieves an application with its job and artifacts,
// scoped to the owning user.
func (r *applicationRepo) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Application, error) {
	query := applicationSelect + `
	WHERE a.id = $1 AND a.user_id = $2`

	app, err := scanApplication(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListByUser retrieves all applications for a user, newest first.
func (r *applicationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	query := applicationSelect + `
	WHERE a.user_id = $1
	ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *app)
	}
	return applications, rows.Err()
}

// ReplaceIntelligence overwrites the job's intelligence record and maturity
// level in one statement so the pair is always consistent.
func (r *applicationRepo) ReplaceIntelligence(ctx context.Context, jobID string, intel *domain.Intelligence) error {
	intelRaw, err := json.Marshal(intel)
	if err != nil {
		return err
	}

	query := `
		UPDATE jobs
		SET intelligence = $2, maturity_level = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, jobID, intelRaw, intel.MaturityStage, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetMaturityLevel updates the maturity level alone (manual PATCH path).
func (r *applicationRepo) SetMaturityLevel(ctx context.Context, jobID string, level int) error {
	query := `UPDATE jobs SET maturity_level = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, jobID, level, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveArtifacts upserts both generated artifacts and moves the application
// to pending_review in one transaction. Generation resets edited_at: the
// stored text is machine-produced again.
func (r *applicationRepo) SaveArtifacts(ctx context.Context, applicationID, coverLetter string, wordCount int, prd string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	clQuery := `
		INSERT INTO cover_letters (id, application_id, content, word_count, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (application_id)
		DO UPDATE SET content = $3, word_count = $4, generated_at = $5, edited_at = NULL`

	if _, err := tx.Exec(ctx, clQuery, uuid.NewString(), applicationID, coverLetter, wordCount, now); err != nil {
		return err
	}

	prdQuery := `
		INSERT INTO prds (id, application_id, content, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (application_id)
		DO UPDATE SET content = $3, generated_at = $4, edited_at = NULL`

	if _, err := tx.Exec(ctx, prdQuery, uuid.NewString(), applicationID, prd, now); err != nil {
		return err
	}

	stateQuery := `UPDATE applications SET workflow = $2, updated_at = $3 WHERE id = $1`
	if _, err := tx.Exec(ctx, stateQuery, applicationID, domain.WorkflowPendingReview, now); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpsertCoverLetter writes a manual cover-letter edit, stamping edited_at.
func (r *applicationRepo) UpsertCoverLetter(ctx context.Context, applicationID, content string, wordCount int) error {
	now := time.Now()
	query := `
		INSERT INTO cover_letters (id, application_id, content, word_count, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (application_id)
		DO UPDATE SET content = $3, word_count = $4, edited_at = $5`

	_, err := r.db.Exec(ctx, query, uuid.NewString(), applicationID, content, wordCount, now)
	return err
}

// UpsertPrd writes a manual PRD edit, stamping edited_at.
func (r *applicationRepo) UpsertPrd(ctx context.Context, applicationID, content string) error {
	now := time.Now()
	query := `
		INSERT INTO prds (id, application_id, content, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (application_id)
		DO UPDATE SET content = $3, edited_at = $4`

	_, err := r.db.Exec(ctx, query, uuid.NewString(), applicationID, content, now)
	return err
}

// UpdateState sets the persisted workflow/outcome pair.
func (r *applicationRepo) UpdateState(ctx context.Context, id, workflow, outcome string) error {
	query := `UPDATE applications SET workflow = $2, outcome = $3, updated_at = $4 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, workflow, outcome, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteWithJob removes the application and its job together. Artifacts
// cascade from the application via foreign keys.
func (r *applicationRepo) DeleteWithJob(ctx context.Context, id, jobID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, jobID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
