package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// ProfileHandler handles onboarding profiles and the post-login
// profile-existence check.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type studentProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	About    string `json:"about"`
	Skills   string `json:"skills"`
	Github   string `json:"github"`
	Linkedin string `json:"linkedin"`
	Resume   string `json:"resume"`
}

type companyProfileRequest struct {
	Name     string `json:"name"     validate:"required"`
	Website  string `json:"website"  validate:"required"`
	Location string `json:"location" validate:"required"`
	About    string `json:"about"    validate:"required"`
}

type profileExistsResponse struct {
	HasProfile bool `json:"has_profile"`
}

// SaveStudent handles PUT /v1/students/profile. Identity comes from the token,
// never from the request body.
//
// @Summary      Create or update the caller's student profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      studentProfileRequest  true  "Profile fields"
// @Success      200   {object}  messageResponse
// @Router       /v1/students/profile [put]
func (h *ProfileHandler) SaveStudent(c echo.Context) error {
	_, identityID, universityID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req studentProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.service.SaveStudentProfile(c.Request().Context(), &domain.StudentProfile{
		StudentID:    identityID,
		FullName:     req.FullName,
		About:        req.About,
		Skills:       req.Skills,
		Github:       req.Github,
		Linkedin:     req.Linkedin,
		Resume:       req.Resume,
		UniversityID: universityID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "profile saved"})
}

// GetStudent handles GET /v1/students/profile.
//
// @Summary      Fetch the caller's student profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.StudentProfile
// @Failure      404  {object}  errorResponse
// @Router       /v1/students/profile [get]
func (h *ProfileHandler) GetStudent(c echo.Context) error {
	_, identityID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	profile, err := h.service.GetStudentProfile(c.Request().Context(), identityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// SaveCompany handles PUT /v1/companies/profile.
//
// @Summary      Create or update the caller's company profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyProfileRequest  true  "Profile fields"
// @Success      200   {object}  messageResponse
// @Router       /v1/companies/profile [put]
func (h *ProfileHandler) SaveCompany(c echo.Context) error {
	_, identityID, universityID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req companyProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.service.SaveCompanyProfile(c.Request().Context(), &domain.CompanyProfile{
		CompanyID:    identityID,
		Name:         req.Name,
		Website:      req.Website,
		Location:     req.Location,
		About:        req.About,
		UniversityID: universityID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "profile saved"})
}

// GetCompany handles GET /v1/companies/profile.
//
// @Summary      Fetch the caller's company profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.CompanyProfile
// @Failure      404  {object}  errorResponse
// @Router       /v1/companies/profile [get]
func (h *ProfileHandler) GetCompany(c echo.Context) error {
	_, identityID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	profile, err := h.service.GetCompanyProfile(c.Request().Context(), identityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Exists handles GET /v1/{students|companies}/profile/exists — the post-login
// check that routes a fresh session to the dashboard or to profile setup.
//
// @Summary      Report whether the caller completed onboarding
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileExistsResponse
// @Router       /v1/students/profile/exists [get]
func (h *ProfileHandler) Exists(c echo.Context) error {
	role, identityID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	has, err := h.service.HasProfile(c.Request().Context(), role, identityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileExistsResponse{HasProfile: has})
}
