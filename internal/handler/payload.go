package handler

import "time"

type RegisterRequest struct {
	Username     string `json:"username"      validate:"required"`
	Email        string `json:"email"         validate:"required,email"`
	Password     string `json:"password"      validate:"required,min=8"`
	ReferralCode string `json:"referral_code"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ReferredUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ReferralResponse struct {
	ID           string               `json:"id"`
	Status       string               `json:"status"`
	DateReferred time.Time            `json:"date_referred"`
	ReferredUser ReferredUserResponse `json:"referredUser"`
}

type ReferralStatsResponse struct {
	TotalReferrals      int64 `json:"totalReferrals"`
	SuccessfulReferrals int64 `json:"successfulReferrals"`
}

type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
