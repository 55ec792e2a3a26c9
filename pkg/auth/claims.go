package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID uuid.UUID
	Email   string
	Role    enums.AdminRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to back-office clients.
type AccessTokenClaims struct {
	AdminID uuid.UUID       `json:"admin_id"`
	Email   string          `json:"email"`
	Role    enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
