package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/startin-app/startin/internal/api/metrics"
	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// JobHandler handles job postings and applications.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

type postJobRequest struct {
	Title        string    `json:"title"        validate:"required"`
	Type         string    `json:"type"         validate:"required"`
	Salary       string    `json:"salary"       validate:"required"`
	Description  string    `json:"description"  validate:"required"`
	Requirements string    `json:"requirements" validate:"required"`
	EndDate      time.Time `json:"end_date"     validate:"required"`
}

type updateApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=shortlisted accepted rejected"`
}

type jobListResponse struct {
	Jobs  []*domain.Job `json:"jobs"`
	Count int           `json:"count"`
}

// Post handles POST /v1/jobs (company only). The owning company comes from
// the token claims.
//
// @Summary      Post a new job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postJobRequest  true  "Job details"
// @Success      201   {object}  domain.Job
// @Failure      400   {object}  errorResponse
// @Router       /v1/jobs [post]
func (h *JobHandler) Post(c echo.Context) error {
	_, identityID, universityID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req postJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.service.PostJob(c.Request().Context(), ports.PostJobInput{
		Title:        req.Title,
		Type:         req.Type,
		Salary:       req.Salary,
		Description:  req.Description,
		Requirements: req.Requirements,
		EndDate:      req.EndDate,
		CompanyID:    identityID,
		UniversityID: universityID,
	})
	if err != nil {
		return err
	}

	metrics.JobsPostedTotal.Inc()
	return c.JSON(http.StatusCreated, job)
}

// List handles GET /v1/jobs: all postings in the caller's university.
//
// @Summary      List jobs in the caller's university
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  jobListResponse
// @Router       /v1/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	_, _, universityID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	jobs, err := h.service.ListUniversityJobs(c.Request().Context(), universityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobListResponse{Jobs: jobs, Count: len(jobs)})
}

// ListMine handles GET /v1/companies/jobs: the caller's own postings.
//
// @Summary      List the caller's job postings
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  jobListResponse
// @Router       /v1/companies/jobs [get]
func (h *JobHandler) ListMine(c echo.Context) error {
	_, identityID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	jobs, err := h.service.ListCompanyJobs(c.Request().Context(), identityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobListResponse{Jobs: jobs, Count: len(jobs)})
}

// Get handles GET /v1/jobs/:id. Postings are visible only inside their
// university.
//
// @Summary      Get a job by ID
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  domain.Job
// @Failure      404  {object}  errorResponse
// @Router       /v1/jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	_, _, universityID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	job, err := h.service.GetJob(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if job.UniversityID != universityID {
		return domain.ErrJobNotFound
	}
	return c.JSON(http.StatusOK, job)
}

// Close handles DELETE /v1/jobs/:id (owning company only).
//
// @Summary      Close a job posting
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/jobs/{id} [delete]
func (h *JobHandler) Close(c echo.Context) error {
	_, identityID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.CloseJob(c.Request().Context(), id, identityID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "job closed"})
}

// Apply handles POST /v1/jobs/:id/apply (student only).
//
// @Summary      Apply to a job
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Job ID"
// @Success      201  {object}  domain.Application
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/jobs/{id}/apply [post]
func (h *JobHandler) Apply(c echo.Context) error {
	_, identityID, universityID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	app, err := h.service.Apply(c.Request().Context(), id, identityID, universityID)
	if err != nil {
		return err
	}

	metrics.ApplicationsTotal.WithLabelValues(string(app.Status)).Inc()
	return c.JSON(http.StatusCreated, app)
}

// Applicants handles GET /v1/jobs/:id/applications (owning company only).
//
// @Summary      List applications for a job
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Job ID"
// @Success      200  {array}   domain.Application
// @Failure      403  {object}  errorResponse
// @Router       /v1/jobs/{id}/applications [get]
func (h *JobHandler) Applicants(c echo.Context) error {
	_, identityID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	apps, err := h.service.ListJobApplications(c.Request().Context(), id, identityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// MyApplications handles GET /v1/students/applications.
//
// @Summary      List the caller's applications with job details
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.ApplicationDetail
// @Router       /v1/students/applications [get]
func (h *JobHandler) MyApplications(c echo.Context) error {
	_, identityID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	details, err := h.service.ListStudentApplications(c.Request().Context(), identityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// UpdateApplication handles PATCH /v1/applications/:id (owning company only).
//
// @Summary      Move an application through its status state machine
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Application ID"
// @Param        body  body      updateApplicationRequest  true  "New status"
// @Success      200   {object}  messageResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/applications/{id} [patch]
func (h *JobHandler) UpdateApplication(c echo.Context) error {
	_, identityID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req updateApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status := domain.ApplicationStatus(req.Status)
	if err := h.service.UpdateApplicationStatus(c.Request().Context(), id, identityID, status); err != nil {
		return err
	}

	metrics.ApplicationsTotal.WithLabelValues(string(status)).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "application updated"})
}

func parseID(c echo.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
	}
	return id, nil
}
