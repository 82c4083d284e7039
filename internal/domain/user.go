package domain

import "github.com/golang-jwt/jwt/v5"

// Claims são as informações do operador autenticado extraídas do token
type Claims struct {
	UserID     int    `json:"user_id"`
	UserRoleID int    `json:"role_id"`
	ClientID   string `json:"client_id"`
	jwt.RegisteredClaims
}
