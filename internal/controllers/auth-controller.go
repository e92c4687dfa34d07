package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-canteen-api/internal/auth"
	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	employees services.EmployeeService
	issuer    *auth.TokenIssuer
}

func NewAuthController(employees services.EmployeeService, issuer *auth.TokenIssuer) *AuthController {
	return &AuthController{
		employees: employees,
		issuer:    issuer,
	}
}

// Login godoc
// @Summary Log in with username and password
// @Description Returns a Bearer access token for the employee
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body object{username=string,password=string} true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Router /api/v1/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	employee, err := ac.employees.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logrus.WithField("username", req.Username).Debug("Login failed")
		respondError(c, err)
		return
	}

	tokenString, err := ac.issuer.Issue(employee)
	if err != nil {
		logrus.WithError(err).Error("Failed to sign access token")
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "token_generation_failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": tokenString,
		"token_type":   "Bearer",
		"expires_in":   int(ac.issuer.TTL().Seconds()),
		"employee": gin.H{
			"id":       employee.ID,
			"username": employee.Username,
			"name":     employee.Name,
			"role":     employee.Role(),
		},
	})
}
