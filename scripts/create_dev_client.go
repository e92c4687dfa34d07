package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/gin-canteen-api/internal/config"
	"github.com/franciscosanchezn/gin-canteen-api/internal/database"
	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Parse command line flags
	role := flag.String("role", models.RoleAdmin, "Employee role (admin or user)")
	flag.Parse()
	if *role != models.RoleAdmin && *role != models.RoleUser {
		log.Fatalf("Unknown role %q", *role)
	}

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	db, err := database.InitDatabase(conf.Database())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Determine client credentials based on role
	var clientID, clientSecret string
	if *role == models.RoleUser {
		clientID = "user-client"
		clientSecret = "user-secret-123"
	} else {
		clientID = "dev-client"
		clientSecret = "dev-secret-123"
	}

	// Check if client already exists
	var existing models.OAuthClient
	if err := db.Where("id = ?", clientID).First(&existing).Error; err == nil {
		fmt.Printf("Development client already exists for role '%s'!\n", *role)
		fmt.Printf("Client ID: %s\n", clientID)
		fmt.Printf("Client Secret: %s\n", clientSecret)
		return
	}

	employeeID := getEmployeeIDForRole(db, *role)
	if employeeID == 0 {
		log.Fatal("Failed to get employee for role:", *role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash secret:", err)
	}

	client := models.OAuthClient{
		ID:         clientID,
		Secret:     string(hash),
		Name:       fmt.Sprintf("Development %s Client", *role),
		Domain:     "http://localhost",
		EmployeeID: employeeID,
		Scopes:     "read write",
		GrantTypes: "client_credentials",
	}

	if err := db.Create(&client).Error; err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("✓ Development OAuth client created for role '%s'!\n", *role)
	fmt.Printf("Client ID: %s\n", clientID)
	fmt.Printf("Client Secret: %s\n", clientSecret)
	fmt.Printf("Employee ID: %d\n", employeeID)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:%d/api/v1/oauth/token \\\n", conf.Port)
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", clientID)
	fmt.Printf("  -d 'client_secret=%s'\n", clientSecret)
}

// getEmployeeIDForRole gets or creates a development employee with the specified role
func getEmployeeIDForRole(db *gorm.DB, role string) uint {
	var employee models.Employee
	username := fmt.Sprintf("dev-%s", role)

	if err := db.Where("username = ?", username).First(&employee).Error; err == nil {
		fmt.Printf("Found existing employee: %s (ID: %d, Role: %s)\n", employee.Username, employee.ID, employee.Role())
		return employee.ID
	}

	employee = models.Employee{
		Username: username,
		Name:     fmt.Sprintf("Development %s", role),
		Email:    fmt.Sprintf("%s@canteen.local", username),
		Password: username,
		IsStaff:  role == models.RoleAdmin,
	}
	if err := employee.HashPassword(); err != nil {
		log.Printf("Failed to hash password: %v", err)
		return 0
	}

	if err := db.Create(&employee).Error; err != nil {
		log.Printf("Failed to create employee: %v", err)
		return 0
	}

	fmt.Printf("Created new employee: %s (ID: %d, Role: %s)\n", employee.Username, employee.ID, employee.Role())
	return employee.ID
}
