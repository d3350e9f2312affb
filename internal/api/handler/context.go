package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/startin-app/startin/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - students and companies need a non-zero identity ID and university scope;
//     without them the JWT is structurally valid but operationally unusable.
func ctxClaims(c echo.Context) (role domain.Role, identityID, universityID int64, err error) {
	roleStr, _ := c.Get("role").(string)
	if roleStr == "" {
		return "", 0, 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role = domain.Role(roleStr)

	identityID, _ = c.Get("identity_id").(int64)
	universityID, _ = c.Get("university_id").(int64)

	if role != domain.RoleAdmin && (identityID == 0 || universityID == 0) {
		return "", 0, 0, echo.NewHTTPError(http.StatusUnauthorized, "token missing tenant identity")
	}

	return role, identityID, universityID, nil
}
