package v1

import (
	"net/http"

	"careeros-backend/internal/delivery/http/middleware"
	"careeros-backend/internal/delivery/http/response"
	"careeros-backend/internal/domain"
	"careeros-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewJobHandler registers the job-application pipeline routes. The two
// LLM-backed endpoints carry a per-user rate limit.
func NewJobHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase, llmLimit middleware.RateLimitConfig) {
	handler := &JobHandler{applicationUC: applicationUC}

	jobs := r.Group("/jobs")
	{
		jobs.POST("/parse", middleware.RateLimitMiddleware(llmLimit), handler.Parse)
		jobs.GET("", handler.List)
		jobs.POST("", handler.Create)
		jobs.GET("/:id", handler.Get)
		jobs.PATCH("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
		jobs.POST("/:id/analyze", middleware.RateLimitMiddleware(llmLimit), handler.Analyze)
		jobs.POST("/:id/generate", middleware.RateLimitMiddleware(llmLimit), handler.Generate)
	}
}

// ParseJobRequest is the request payload for extraction preview
type ParseJobRequest struct {
	RawInput string `json:"raw_input" binding:"required"`
}

// CreateJobRequest is the request payload for ingestion. Either the three
// structured fields or raw_input must be supplied.
type CreateJobRequest struct {
	CompanyName     string `json:"company_name"`
	JobTitle        string `json:"job_title"`
	JobDescription  string `json:"job_description"`
	ApplicationLink string `json:"application_link"`
	RawInput        string `json:"raw_input"`
}

// UpdateJobRequest is the explicit partial-update payload. Absent fields
// are left untouched.
type UpdateJobRequest struct {
	Status        *string              `json:"status"`
	MaturityLevel *int                 `json:"ai_maturity_level"`
	Intelligence  *domain.Intelligence `json:"parsed_intelligence"`
	CoverLetter   *string              `json:"cover_letter"`
	PrdContent    *string              `json:"prd_content"`
}

// Parse godoc
// @Summary      Preview job extraction
// @Description  Extract structured job fields from pasted text without persisting anything
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      ParseJobRequest  true  "Raw pasted text"
// @Success      200   {object}  response.Response{data=domain.ParsedJob}
// @Failure      400   {object}  response.Response
// @Failure      502   {object}  response.Response
// @Router       /jobs/parse [post]
// @Security     BearerAuth
func (h *JobHandler) Parse(c *gin.Context) {
	var req ParseJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("raw_input (string) is required"))
		return
	}

	parsed, err := h.applicationUC.Parse(c.Request.Context(), req.RawInput)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job posting parsed", parsed)
}

// List godoc
// @Summary      List applications
// @Description  Get all of the caller's applications with derived status, newest first
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ApplicationView}
// @Failure      401  {object}  response.Response
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	views, err := h.applicationUC.List(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", views)
}

// Create godoc
// @Summary      Ingest a job
// @Description  Create a Job and its Application atomically from structured fields or raw text
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      CreateJobRequest  true  "Job fields or raw input"
// @Success      201   {object}  response.Response{data=domain.ApplicationView}
// @Failure      400   {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	view, err := h.applicationUC.Ingest(c.Request.Context(), userID, domain.IngestInput{
		CompanyName:     req.CompanyName,
		JobTitle:        req.JobTitle,
		JobDescription:  req.JobDescription,
		ApplicationLink: req.ApplicationLink,
		RawInput:        req.RawInput,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application created", view)
}

// Get godoc
// @Summary      Get one application
// @Tags         jobs
// @Produce      json
// @Param        id  path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.ApplicationView}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) Get(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	view, err := h.applicationUC.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application retrieved", view)
}

// Update godoc
// @Summary      Update an application
// @Description  Partial update: display status, maturity level, intelligence record, or artifact text
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Application ID"
// @Param        body  body      UpdateJobRequest  true  "Fields to update"
// @Success      200   {object}  response.Response{data=domain.ApplicationView}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /jobs/{id} [patch]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	view, err := h.applicationUC.Update(c.Request.Context(), userID, c.Param("id"), domain.ApplicationUpdate{
		Status:        req.Status,
		MaturityLevel: req.MaturityLevel,
		Intelligence:  req.Intelligence,
		CoverLetter:   req.CoverLetter,
		PrdContent:    req.PrdContent,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application updated", view)
}

// Delete godoc
// @Summary      Delete an application
// @Description  Remove the application and its job together
// @Tags         jobs
// @Produce      json
// @Param        id  path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.applicationUC.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application deleted", nil)
}

// Analyze godoc
// @Summary      Analyze a job description
// @Description  Run strategic analysis on the job and replace its stored intelligence record
// @Tags         jobs
// @Produce      json
// @Param        id  path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Intelligence}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /jobs/{id}/analyze [post]
// @Security     BearerAuth
func (h *JobHandler) Analyze(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	intel, err := h.applicationUC.Analyze(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job analyzed", intel)
}

// Generate godoc
// @Summary      Generate artifacts
// @Description  Re-analyze the job and generate the cover letter and PRD together
// @Tags         jobs
// @Produce      json
// @Param        id  path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.ApplicationView}
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /jobs/{id}/generate [post]
// @Security     BearerAuth
func (h *JobHandler) Generate(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	view, err := h.applicationUC.GenerateArtifacts(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Documents generated", view)
}
