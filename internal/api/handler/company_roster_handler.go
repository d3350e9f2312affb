package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/startin-app/startin/internal/core/ports"
)

// CompanyRosterHandler handles the admin-side company invitations: the
// roster of companies allowed to sign up with a passkey.
type CompanyRosterHandler struct {
	service ports.CompanyRosterService
}

func NewCompanyRosterHandler(service ports.CompanyRosterService) *CompanyRosterHandler {
	return &CompanyRosterHandler{service: service}
}

type addCompanyRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Passkey string `json:"passkey" validate:"required,min=6"`
}

type rosterEntryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type listCompaniesResponse struct {
	Companies []ports.RosterCompany `json:"companies"`
	Count     int                   `json:"count"`
}

// List handles GET /v1/admin/companies. Each entry carries a registered flag;
// passkeys are never echoed back.
//
// @Summary      List rostered companies
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listCompaniesResponse
// @Router       /v1/admin/companies [get]
func (h *CompanyRosterHandler) List(c echo.Context) error {
	companies, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listCompaniesResponse{Companies: companies, Count: len(companies)})
}

// Add handles POST /v1/admin/companies: a single manual invitation.
//
// @Summary      Invite a company to the roster
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addCompanyRequest  true  "Company invitation"
// @Success      201   {object}  rosterEntryResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/admin/companies [post]
func (h *CompanyRosterHandler) Add(c echo.Context) error {
	var req addCompanyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.service.Add(c.Request().Context(), ports.AddRosterEntryInput{
		Name:    req.Name,
		Email:   req.Email,
		Passkey: req.Passkey,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, rosterEntryResponse{ID: entry.ID, Name: entry.Name, Email: entry.Email})
}

// Upload handles POST /v1/admin/companies/upload: a multipart CSV with
// companyName/email/passkey columns.
//
// @Summary      Import the company roster from CSV
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  ports.ImportReport
// @Failure      400   {object}  errorResponse
// @Router       /v1/admin/companies/upload [post]
func (h *CompanyRosterHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file provided")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer f.Close()

	report, err := h.service.ImportCSV(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, report)
}

// Delete handles DELETE /v1/admin/companies/:id, revoking the invitation.
//
// @Summary      Remove a company from the roster
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Roster entry ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/companies/{id} [delete]
func (h *CompanyRosterHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid roster entry id")
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "company removed from roster"})
}
