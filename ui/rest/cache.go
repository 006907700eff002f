package rest

import (
	"github.com/gofiber/fiber/v2"
	domainCache "github.com/onlyWebstar/travel-bot/domains/cache"
	"github.com/onlyWebstar/travel-bot/pkg/utils"
)

type Cache struct {
	Service domainCache.ICacheUsecase
}

func InitRestCache(app fiber.Router, service domainCache.ICacheUsecase) Cache {
	rest := Cache{Service: service}
	app.Get("/cache/stats", rest.GetStats)
	app.Post("/cache/invalidate", rest.Invalidate)
	app.Post("/cache/cleanup", rest.Cleanup)

	return rest
}

func (handler *Cache) GetStats(c *fiber.Ctx) error {
	stats, err := handler.Service.Stats(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: stats,
	})
}

func (handler *Cache) Invalidate(c *fiber.Ctx) error {
	var request struct {
		Provider string `json:"provider"`
		Key      string `json:"key"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	removed, err := handler.Service.Invalidate(c.UserContext(), request.Provider, request.Key)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache invalidated",
		Results: fiber.Map{"removed": removed},
	})
}

func (handler *Cache) Cleanup(c *fiber.Ctx) error {
	removed, err := handler.Service.SweepExpired(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Expired cache entries removed",
		Results: fiber.Map{"removed": removed},
	})
}
