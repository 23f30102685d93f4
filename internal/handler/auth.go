package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/langerprakhar/referral-service/internal/config"
	"github.com/langerprakhar/referral-service/internal/usecase"
)

// sessionCookieName is the cookie carrying the session token.
const sessionCookieName = "token"

// sessionCookieMaxAge matches the token TTL (1 hour).
const sessionCookieMaxAge = 3600

// AuthHandler serves registration, login and password-reset initiation.
type AuthHandler struct {
	logger       *zerolog.Logger
	authUsecase  usecase.AuthUsecase
	resetUsecase usecase.PasswordResetUsecase
	cfg          *config.Config
	validate     *validator.Validate
	trans        ut.Translator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	logger *zerolog.Logger,
	authUsecase usecase.AuthUsecase,
	resetUsecase usecase.PasswordResetUsecase,
	cfg *config.Config,
) *AuthHandler {
	validate, trans := newValidator()

	return &AuthHandler{
		logger:       logger,
		authUsecase:  authUsecase,
		resetUsecase: resetUsecase,
		cfg:          cfg,
		validate:     validate,
		trans:        trans,
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err, h.trans))
		return
	}

	_, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingFields):
			writeMessage(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, usecase.ErrInvalidEmail):
			writeMessage(w, http.StatusBadRequest, "Invalid email format")
		case errors.Is(err, usecase.ErrPasswordTooShort):
			writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		case errors.Is(err, usecase.ErrInvalidReferralCode):
			writeMessage(w, http.StatusBadRequest, "Invalid referral code")
		case errors.Is(err, usecase.ErrEmailTaken):
			writeMessage(w, http.StatusConflict, "Email already in use")
		case errors.Is(err, usecase.ErrUsernameTaken):
			writeMessage(w, http.StatusConflict, "Username already in use")
		case errors.Is(err, usecase.ErrAccountExists):
			writeMessage(w, http.StatusConflict, "Email or username already in use")
		default:
			h.logger.Error().Err(err).Msg("registration failed")
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err, h.trans))
		return
	}

	token, _, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}

		h.logger.Error().Err(err).Msg("login failed")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, LoginResponse{Message: "Login successful", Token: token})
}

// ForgotPassword handles POST /api/forgot-password. The response is identical
// whether or not the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err, h.trans))
		return
	}

	if err := h.resetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error().Err(err).Msg("password reset request failed")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeMessage(w, http.StatusOK, "If an account exists, a password reset email has been sent.")
}
