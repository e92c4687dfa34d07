package middleware

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the user has the required role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := caller(c)
		if !ok {
			return
		}

		if role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions", map[string]interface{}{
				"required_role": requiredRole,
				"user_role":     role,
				"user_id":       userID,
			}))
			return
		}

		c.Next()
	}
}

// RequireOwnerOrAdmin lets admins through unconditionally. Other callers pass
// only when the path parameter param names their own employee ID and the
// method is a read, PUT or PATCH.
func RequireOwnerOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := caller(c)
		if !ok {
			return
		}
		if role == models.RoleAdmin {
			c.Next()
			return
		}

		ownerID, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil || uint(ownerID) != userID || !ownerMethod(c.Request.Method) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Only the owner or an admin can access this resource"))
			return
		}

		c.Next()
	}
}

func ownerMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// caller reads what Authenticate stored, aborting with 401 when it is missing
func caller(c *gin.Context) (uint, string, bool) {
	userID := c.GetUint(ContextUserID)
	role := c.GetString(ContextUserRole)
	if userID == 0 || role == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
		return 0, "", false
	}
	return userID, role, true
}
