package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ansokolov/CourseFox/app/models"
	"github.com/ansokolov/CourseFox/app/repository"
	"github.com/ansokolov/CourseFox/internal/pkg/database"
	"github.com/ansokolov/CourseFox/internal/pkg/usercontext"
)

type rateRequest struct {
	Rate int `json:"rate"`
}

// HandleToggleLike flips the caller's like on a video: POST /api/videos/:id/like
func HandleToggleLike(c *fiber.Ctx) error {
	video, fail := resolveVideo(c)
	if video == nil {
		return fail
	}

	db := database.GetDB()
	if db == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Database unavailable"})
	}

	liked, err := models.ToggleVideoLike(db, usercontext.GetUserID(c), video.ID)
	if err != nil {
		log.Printf("like toggle failed for video %d: %v", video.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save reaction"})
	}

	return c.JSON(fiber.Map{"liked": liked})
}

// HandleRateVideo stores the caller's 1-5 rating: POST /api/videos/:id/rate
func HandleRateVideo(c *fiber.Ctx) error {
	video, fail := resolveVideo(c)
	if video == nil {
		return fail
	}

	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "rate is required"})
	}
	rating := clampRating(req.Rate)

	db := database.GetDB()
	if db == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Database unavailable"})
	}

	if err := models.SetVideoRating(db, usercontext.GetUserID(c), video.ID, rating); err != nil {
		log.Printf("rating failed for video %d: %v", video.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save rating"})
	}

	return c.JSON(fiber.Map{"rating": rating})
}

// resolveVideo parses :id and loads the video; on failure the first return
// is nil and the second carries the already-written error response.
func resolveVideo(c *fiber.Ctx) (*models.Video, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid video id"})
	}

	video, err := repository.GetGlobalFactory().GetVideoRepository().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Video not found"})
		}
		log.Printf("video lookup failed: %v", err)
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load video"})
	}

	return video, nil
}

func clampRating(rate int) int {
	if rate < 1 {
		return 1
	}
	if rate > 5 {
		return 5
	}
	return rate
}
