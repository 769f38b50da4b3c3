package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ansokolov/CourseFox/app/repository"
	"github.com/ansokolov/CourseFox/internal/pkg/cache"
	"github.com/ansokolov/CourseFox/internal/pkg/usercontext"
)

const (
	defaultPageSize   = 50
	maxPageSize       = 100
	moduleCacheTTL    = 60 * time.Second
	moduleCachePrefix = "modules"
)

// HandleListModules returns the paginated course module list: GET /api/modules
func HandleListModules(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", defaultPageSize)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	cacheKey := fmt.Sprintf("%s:%d:%d", moduleCachePrefix, offset, limit)
	if cached, err := cache.Get(cacheKey); err == nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	repo := repository.GetGlobalFactory().GetModuleRepository()
	modules, err := repo.List(offset, limit)
	if err != nil {
		log.Printf("module listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load modules"})
	}
	total, err := repo.Count()
	if err != nil {
		log.Printf("module count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load modules"})
	}

	response := fiber.Map{
		"modules": modules,
		"total":   total,
		"offset":  offset,
		"limit":   limit,
	}

	if body, err := json.Marshal(response); err == nil {
		if err := cache.Set(cacheKey, body, moduleCacheTTL); err != nil && !errors.Is(err, cache.ErrUnavailable) {
			log.Printf("failed to cache module listing: %v", err)
		}
	}

	return c.JSON(response)
}

// HandleListModuleVideos returns the videos of a module in playback order:
// GET /api/modules/:id/videos. Free modules are public; everything else
// needs a valid session.
func HandleListModuleVideos(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid module id"})
	}

	repos := repository.GetGlobalFactory()
	module, err := repos.GetModuleRepository().GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Module not found"})
		}
		log.Printf("module lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load module"})
	}

	if !module.IsFree && !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "no_token", "message": "login required"})
	}

	videos, err := repos.GetVideoRepository().ListByModuleID(module.ID)
	if err != nil {
		log.Printf("video listing failed for module %d: %v", module.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load videos"})
	}

	return c.JSON(fiber.Map{"videos": videos})
}
