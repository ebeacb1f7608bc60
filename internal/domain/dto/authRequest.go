package dto

import "github.com/shopspring/decimal"

// swagger:model
type AuthRequest struct {
	Email    string `json:"email" binding:"required" example:"johndoe@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// swagger:model
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// swagger:model
type AuthResponse struct {
	UserID       string          `json:"user_id"`
	Email        string          `json:"email"`
	Balance      decimal.Decimal `json:"balance"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
}

// swagger:model
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
