package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AccessTokenGenerator generates JWT access tokens acting for the employee
// that owns the OAuth client
type AccessTokenGenerator struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	DB           *gorm.DB // Database connection to fetch the employee's role
}

// NewAccessTokenGenerator creates a new JWT access token generator
func NewAccessTokenGenerator(key []byte, method jwt.SigningMethod, db *gorm.DB) *AccessTokenGenerator {
	return &AccessTokenGenerator{
		SignedKey:    key,
		SignedMethod: method,
		DB:           db,
	}
}

// Token generates a JWT access token with custom claims
// This method is called by the OAuth2 library to generate access tokens
func (g *AccessTokenGenerator) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	// For client_credentials GenerateBasic.UserID is empty, so the owner comes from the client
	userID := data.UserID
	if userID == "" {
		userID = data.Client.GetUserID()
	}
	if userID == "" {
		return "", "", fmt.Errorf("cannot generate token: client %s has no owning employee", data.Client.GetID())
	}

	// The role is read from the database on every issue so a demoted
	// employee's clients lose admin rights with the next token
	role, err := g.employeeRole(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch employee role: %w", err)
	}

	claims := accessClaims(userID, role, data.TokenInfo.GetAccessCreateAt(), data.TokenInfo.GetAccessExpiresIn())
	claims["aud"] = data.Client.GetID()
	if data.TokenInfo.GetScope() != "" {
		claims["scope"] = data.TokenInfo.GetScope()
	}

	token := jwt.NewWithClaims(g.SignedMethod, claims)
	access, err := token.SignedString(g.SignedKey)
	if err != nil {
		return "", "", err
	}

	refresh := ""
	if isGenRefresh {
		refreshClaims := jwt.MapClaims{
			"id":  data.TokenInfo.GetAccess(),
			"exp": data.TokenInfo.GetRefreshCreateAt().Add(data.TokenInfo.GetRefreshExpiresIn()).Unix(),
		}
		t := jwt.NewWithClaims(g.SignedMethod, refreshClaims)
		refresh, err = t.SignedString(g.SignedKey)
		if err != nil {
			return "", "", err
		}
	}

	return access, refresh, nil
}

func (g *AccessTokenGenerator) employeeRole(ctx context.Context, userIDStr string) (string, error) {
	employeeID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid employee ID format: %w", err)
	}

	var employee models.Employee
	if err := g.DB.WithContext(ctx).Select("id", "is_staff").First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("employee with ID %d not found", employeeID)
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return employee.Role(), nil
}
