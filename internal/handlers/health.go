package handlers

import (
	"vaultpay/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewHealthHandler(db *gorm.DB, cache *cache.CacheService) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "connected"
	redisStatus := "connected"

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
		status = fiber.StatusServiceUnavailable
	}
	if err := h.cache.HealthCheck(c.Context()); err != nil {
		redisStatus = "unavailable"
		status = fiber.StatusServiceUnavailable
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overall,
		"version": "1.0.0",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
