package models

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// OAuthClient is an API client owned by an employee. Tokens issued to it act
// on behalf of that employee.
type OAuthClient struct {
	ID         string    `json:"client_id" gorm:"primaryKey"`
	Secret     string    `json:"-" gorm:"not null"`
	Name       string    `json:"name"`
	Domain     string    `json:"domain"`
	EmployeeID uint      `json:"employee_id" gorm:"index"`
	Scopes     string    `json:"scopes"`      // Space-separated list of allowed scopes
	GrantTypes string    `json:"grant_types"` // Space-separated list, only "client_credentials" is served
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

func (c *OAuthClient) GetID() string     { return c.ID }
func (c *OAuthClient) GetSecret() string { return c.Secret }
func (c *OAuthClient) GetDomain() string { return c.Domain }
func (c *OAuthClient) IsPublic() bool    { return false }

func (c *OAuthClient) GetUserID() string {
	if c.EmployeeID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(c.EmployeeID), 10)
}

// VerifyPassword checks a plain secret against the stored bcrypt hash.
func (c *OAuthClient) VerifyPassword(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(secret)) == nil
}
