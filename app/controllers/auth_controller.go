package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ansokolov/CourseFox/app/repository"
	"github.com/ansokolov/CourseFox/internal/pkg/auth"
	"github.com/ansokolov/CourseFox/internal/pkg/env"
	"github.com/ansokolov/CourseFox/internal/pkg/telegram"
	"github.com/ansokolov/CourseFox/internal/pkg/token"
	"github.com/ansokolov/CourseFox/internal/pkg/usercontext"
)

var authService *auth.Service

// InitializeAuthController wires the auth service with the global
// repositories and the process-wide secrets. Called once by the router.
func InitializeAuthController(issuer *token.Issuer) {
	repos := repository.GetGlobalRepositories()
	authService = auth.NewService(repos.User, repos.Subscription, issuer, env.GetEnv("BOT_TOKEN", ""))
}

type authRequest struct {
	InitData string `json:"init_data"`
}

// HandleTelegramAuth verifies the mini app login payload and issues a
// session credential: POST /api/auth
func HandleTelegramAuth(c *fiber.Ctx) error {
	var req authRequest
	if err := c.BodyParser(&req); err != nil || req.InitData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no_init_data", "message": "init_data is required"})
	}

	res, err := authService.Authenticate(req.InitData)
	if err != nil {
		switch {
		case errors.Is(err, telegram.ErrMissingHash),
			errors.Is(err, telegram.ErrBadSignature),
			errors.Is(err, telegram.ErrMalformedUser):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "bad_signature", "message": "Login payload could not be verified"})
		case errors.Is(err, auth.ErrNoSubscription):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no_subscription", "profile": res.Profile})
		default:
			log.Printf("authentication failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Authentication failed"})
		}
	}

	return c.JSON(res)
}

// HandleMe returns the profile for the authenticated session: GET /api/me
func HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "no_token", "message": "login required"})
	}

	profile, err := authService.Profile(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Valid credential for a user that no longer exists.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "bad_token", "message": "Unknown session subject"})
		}
		log.Printf("profile lookup failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profile"})
	}

	return c.JSON(profile)
}
