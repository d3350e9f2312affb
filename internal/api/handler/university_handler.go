package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/startin-app/startin/internal/core/ports"
)

// UniversityHandler handles tenant selection and the admin-side roster
// management.
type UniversityHandler struct {
	service ports.UniversityService
}

func NewUniversityHandler(service ports.UniversityService) *UniversityHandler {
	return &UniversityHandler{service: service}
}

type verifyPasskeyRequest struct {
	Passkey string `json:"passkey" validate:"required"`
}

type universityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"university_name"`
}

type listUniversitiesResponse struct {
	Universities []universityResponse `json:"universities"`
	Count        int                  `json:"count"`
}

// VerifyPasskey handles POST /v1/universities/verify-passkey. This is the
// scope-selection call made once per browser session before any auth flow.
//
// @Summary      Resolve a passkey to its university
// @Tags         universities
// @Accept       json
// @Produce      json
// @Param        body  body      verifyPasskeyRequest  true  "Passkey"
// @Success      200   {object}  universityResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/universities/verify-passkey [post]
func (h *UniversityHandler) VerifyPasskey(c echo.Context) error {
	var req verifyPasskeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	uni, err := h.service.VerifyPasskey(c.Request().Context(), req.Passkey)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, universityResponse{ID: uni.ID, Name: uni.Name})
}

// List handles GET /v1/admin/universities. Passkeys are never echoed back.
//
// @Summary      List universities
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUniversitiesResponse
// @Router       /v1/admin/universities [get]
func (h *UniversityHandler) List(c echo.Context) error {
	universities, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]universityResponse, 0, len(universities))
	for _, uni := range universities {
		out = append(out, universityResponse{ID: uni.ID, Name: uni.Name})
	}
	return c.JSON(http.StatusOK, listUniversitiesResponse{Universities: out, Count: len(out)})
}

// Upload handles POST /v1/admin/universities/upload: a multipart CSV with
// universityName/passkey columns.
//
// @Summary      Import the university roster from CSV
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  ports.ImportReport
// @Failure      400   {object}  errorResponse
// @Router       /v1/admin/universities/upload [post]
func (h *UniversityHandler) Upload(c echo.Context) error {
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

// Delete handles DELETE /v1/admin/universities/:id, removing the tenant and
// every record scoped to it.
//
// @Summary      Delete a university and all scoped records
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "University ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/universities/{id} [delete]
func (h *UniversityHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid university id")
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "university and all scoped records deleted"})
}
