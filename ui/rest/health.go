package rest

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/onlyWebstar/travel-bot/config"
	"github.com/onlyWebstar/travel-bot/pkg/utils"
	"gorm.io/gorm"
)

type Health struct {
	DB        *gorm.DB
	StartedAt time.Time
}

func InitRestHealth(app fiber.Router, db *gorm.DB) Health {
	handler := Health{DB: db, StartedAt: time.Now()}
	app.Get("/health", handler.GetStatus)

	return handler
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	dbStatus := "ok"
	if sqlDB, err := h.DB.DB(); err != nil {
		dbStatus = err.Error()
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = err.Error()
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Health status retrieved",
		Results: fiber.Map{
			"version":  config.AppVersion,
			"database": dbStatus,
			"started":  humanize.Time(h.StartedAt),
			"uptime":   time.Since(h.StartedAt).Round(time.Second).String(),
		},
	})
}
