package admins

import (
	"time"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/db/models"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

// LoginRequest is the back-office login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the minted access token and account summary.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Admin       View   `json:"admin"`
}

// CreateInput captures a new back-office account.
type CreateInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// UpdateInput captures changes to an existing account. A nil password
// leaves the stored hash untouched.
type UpdateInput struct {
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role"`
}

// View is the serialized shape of a back-office account.
type View struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	Role        enums.AdminRole `json:"role"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewView maps an admin model to its API shape.
func NewView(admin *models.AdminUser) View {
	return View{
		ID:          admin.ID,
		Email:       admin.Email,
		Role:        admin.Role,
		LastLoginAt: admin.LastLoginAt,
		CreatedAt:   admin.CreatedAt,
	}
}
