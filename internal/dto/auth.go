package dto

// RegisterRequest defines the signup payload. The first signup creates the
// company with its display currency and makes the creator its admin.
type RegisterRequest struct {
	Name                string `json:"name" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	Password            string `json:"password" binding:"required,min=8"`
	CompanyName         string `json:"companyName" binding:"required"`
	CompanyCurrencyCode string `json:"companyCurrencyCode" binding:"required,iso4217"`
}

// LoginRequest defines the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
