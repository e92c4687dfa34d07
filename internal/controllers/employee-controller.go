package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-canteen-api/internal/middleware"
	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
)

// EmployeeRequest is the body of an employee creation
type EmployeeRequest struct {
	Username     string   `json:"username" binding:"required,max=150"`
	Password     string   `json:"password" binding:"required,min=6"`
	Email        string   `json:"email" binding:"omitempty,email"`
	Name         string   `json:"name" binding:"max=100"`
	Salary       float64  `json:"salary" binding:"gte=0"`
	Position     string   `json:"position" binding:"max=100"`
	Address      string   `json:"address" binding:"max=100"`
	IsStaff      bool     `json:"is_staff"`
	PhoneNumbers []string `json:"phone_numbers" binding:"dive,required,max=32"`
}

// EmployeePatchRequest is the body of a partial employee update. Passwords
// cannot be changed here.
type EmployeePatchRequest struct {
	Username     *string   `json:"username" binding:"omitempty,max=150"`
	Email        *string   `json:"email" binding:"omitempty,email"`
	Name         *string   `json:"name" binding:"omitempty,max=100"`
	Salary       *float64  `json:"salary" binding:"omitempty,gte=0"`
	Position     *string   `json:"position" binding:"omitempty,max=100"`
	Address      *string   `json:"address" binding:"omitempty,max=100"`
	IsStaff      *bool     `json:"is_staff"`
	PhoneNumbers *[]string `json:"phone_numbers" binding:"omitempty,dive,required,max=32"`
}

// EmployeeReplaceRequest is the body of a full employee update. Omitted fields
// are cleared and phone numbers are replaced. Passwords cannot be changed here.
type EmployeeReplaceRequest struct {
	Username     string   `json:"username" binding:"required,max=150"`
	Email        string   `json:"email" binding:"omitempty,email"`
	Name         string   `json:"name" binding:"max=100"`
	Salary       float64  `json:"salary" binding:"gte=0"`
	Position     string   `json:"position" binding:"max=100"`
	Address      string   `json:"address" binding:"max=100"`
	IsStaff      bool     `json:"is_staff"`
	PhoneNumbers []string `json:"phone_numbers" binding:"dive,required,max=32"`
}

type EmployeeController struct {
	employees services.EmployeeService
	orders    services.OrderService
}

func NewEmployeeController(employees services.EmployeeService, orders services.OrderService) *EmployeeController {
	return &EmployeeController{employees: employees, orders: orders}
}

// ListEmployees godoc
// @Summary List employees
// @Tags employees
// @Produce json
// @Success 200 {array} models.Employee
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/employees [get]
func (ec *EmployeeController) ListEmployees(c *gin.Context) {
	employees, err := ec.employees.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// CreateEmployee godoc
// @Summary Create an employee
// @Description Create an employee with optional phone numbers. The password is stored as a bcrypt hash.
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body EmployeeRequest true "Employee"
// @Success 201 {object} models.Employee
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/employees [post]
func (ec *EmployeeController) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	employee := models.Employee{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Name:     req.Name,
		Salary:   req.Salary,
		Position: req.Position,
		Address:  req.Address,
		IsStaff:  req.IsStaff,
	}
	for _, number := range req.PhoneNumbers {
		employee.PhoneNumbers = append(employee.PhoneNumbers, models.PhoneNumber{Number: number})
	}

	created, err := ec.employees.CreateEmployee(c.Request.Context(), employee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetEmployee godoc
// @Summary Get an employee
// @Tags employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} models.Employee
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/employees/{id} [get]
func (ec *EmployeeController) GetEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	employee, err := ec.employees.GetEmployee(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee godoc
// @Summary Partially update an employee
// @Description A supplied phone_numbers list replaces the employee's numbers
// @Tags employees
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param employee body EmployeePatchRequest true "Fields to change"
// @Success 200 {object} models.Employee
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/employees/{id} [patch]
func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req EmployeePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if !canGrantStaff(c, req.IsStaff) {
		return
	}

	employee, err := ec.employees.UpdateEmployee(c.Request.Context(), id, services.EmployeePatch{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		Salary:       req.Salary,
		Position:     req.Position,
		Address:      req.Address,
		IsStaff:      req.IsStaff,
		PhoneNumbers: req.PhoneNumbers,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// ReplaceEmployee godoc
// @Summary Replace an employee
// @Description Omitted fields are cleared and phone_numbers replaces the employee's numbers. The password is kept.
// @Tags employees
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param employee body EmployeeReplaceRequest true "Employee"
// @Success 200 {object} models.Employee
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/employees/{id} [put]
func (ec *EmployeeController) ReplaceEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req EmployeeReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if !canGrantStaff(c, &req.IsStaff) {
		return
	}

	phones := req.PhoneNumbers
	if phones == nil {
		phones = []string{}
	}
	employee, err := ec.employees.UpdateEmployee(c.Request.Context(), id, services.EmployeePatch{
		Username:     &req.Username,
		Email:        &req.Email,
		Name:         &req.Name,
		Salary:       &req.Salary,
		Position:     &req.Position,
		Address:      &req.Address,
		IsStaff:      &req.IsStaff,
		PhoneNumbers: &phones,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee godoc
// @Summary Delete an employee
// @Description Deletes the employee with their phone numbers, orders, deliveries and OAuth clients
// @Tags employees
// @Param id path int true "Employee ID"
// @Success 204
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/employees/{id} [delete]
func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ec.employees.DeleteEmployee(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEmployeeOrders godoc
// @Summary List an employee's orders
// @Tags employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {array} models.Order
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/employees/{id}/orders [get]
func (ec *EmployeeController) ListEmployeeOrders(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	orders, err := ec.orders.ListOrdersByEmployee(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// canGrantStaff writes a 403 when a non-admin caller asks for staff status
func canGrantStaff(c *gin.Context, isStaff *bool) bool {
	if isStaff == nil || !*isStaff || c.GetString(middleware.ContextUserRole) == models.RoleAdmin {
		return true
	}
	c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Only admins can grant staff status"))
	return false
}
