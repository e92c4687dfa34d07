package server

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-canteen-api/internal/auth"
	"github.com/franciscosanchezn/gin-canteen-api/internal/controllers"
	"github.com/franciscosanchezn/gin-canteen-api/internal/middleware"
	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies are the services the HTTP layer is built from
type Dependencies struct {
	DB          *gorm.DB
	Publisher   services.EventPublisher
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
	Logger      *logrus.Logger
}

// NewRouter wires services, controllers and middleware into a gin engine
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	employeeService := services.NewEmployeeService(deps.DB)
	orderService := services.NewOrderService(deps.DB, deps.Publisher)

	mealController := controllers.NewMealController(services.NewMealService(deps.DB))
	employeeController := controllers.NewEmployeeController(employeeService, orderService)
	phoneController := controllers.NewPhoneNumberController(services.NewPhoneNumberService(deps.DB))
	orderController := controllers.NewOrderController(orderService)
	deliveryController := controllers.NewDeliveryController(services.NewDeliveryService(deps.DB, deps.Publisher))
	clientController := controllers.NewClientController(services.NewClientService(deps.DB))
	authController := controllers.NewAuthController(employeeService, auth.NewTokenIssuer(deps.JWTSecret, deps.TokenTTL))
	oauthService := auth.NewOAuthService(deps.DB, deps.JWTSecret, deps.TokenTTL)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(deps.Logger), middleware.CORS(deps.CORSOrigins))

	router.GET("/health", healthCheckHandler)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authController.Login)
		v1.POST("/oauth/token", oauthService.HandleToken)

		// Everything below requires a Bearer token
		protected := v1.Group("")
		protected.Use(middleware.Authenticate([]byte(deps.JWTSecret)))
		adminOnly := middleware.RequireRole(models.RoleAdmin)
		ownerOrAdmin := middleware.RequireOwnerOrAdmin("id")

		clients := protected.Group("/clients")
		{
			clients.GET("", clientController.ListClients)
			clients.POST("", clientController.CreateClient)
			clients.DELETE("/:id", clientController.DeleteClient)
		}

		meals := protected.Group("/meals")
		{
			meals.GET("", mealController.GetAllMeals)
			meals.GET("/:id", mealController.GetMealByID)
			meals.POST("", adminOnly, mealController.CreateMeal)
			meals.PUT("/:id", adminOnly, mealController.UpdateMeal)
			meals.PATCH("/:id", adminOnly, mealController.PatchMeal)
		}

		employees := protected.Group("/employees")
		{
			employees.GET("", adminOnly, employeeController.ListEmployees)
			employees.POST("", adminOnly, employeeController.CreateEmployee)
			employees.GET("/:id", ownerOrAdmin, employeeController.GetEmployee)
			employees.PUT("/:id", ownerOrAdmin, employeeController.ReplaceEmployee)
			employees.PATCH("/:id", ownerOrAdmin, employeeController.UpdateEmployee)
			employees.DELETE("/:id", ownerOrAdmin, employeeController.DeleteEmployee)
			employees.GET("/:id/orders", ownerOrAdmin, employeeController.ListEmployeeOrders)
		}

		phones := protected.Group("/phones")
		{
			phones.GET("", phoneController.ListPhoneNumbers)
			phones.POST("", phoneController.CreatePhoneNumber)
			phones.GET("/:id", phoneController.GetPhoneNumber)
			phones.PUT("/:id", phoneController.UpdatePhoneNumber)
			phones.PATCH("/:id", phoneController.PatchPhoneNumber)
			phones.DELETE("/:id", phoneController.DeletePhoneNumber)
		}

		orders := protected.Group("/orders")
		{
			orders.GET("", orderController.ListOrders)
			orders.POST("", orderController.PlaceOrder)
			orders.GET("/:id", orderController.GetOrder)
			orders.PATCH("/:id", orderController.UpdateOrder)
			orders.PUT("/:id", orderController.ReplaceOrder)
			orders.DELETE("/:id", orderController.DeleteOrder)
		}

		deliveries := protected.Group("/deliveries")
		{
			deliveries.GET("", deliveryController.ListDeliveries)
			deliveries.POST("", deliveryController.CreateDelivery)
			deliveries.GET("/:id", deliveryController.GetDelivery)
			deliveries.PUT("/:id", deliveryController.UpdateDelivery)
			deliveries.PATCH("/:id", deliveryController.UpdateDelivery)
			deliveries.DELETE("/:id", deliveryController.DeleteDelivery)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-canteen-api",
	})
}
