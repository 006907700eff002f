package rest

import (
	"github.com/gofiber/fiber/v2"
	domainNLP "github.com/onlyWebstar/travel-bot/domains/nlp"
	"github.com/onlyWebstar/travel-bot/pkg/utils"
)

type NLP struct {
	Service domainNLP.INLPUsecase
}

func InitRestNLP(app fiber.Router, service domainNLP.INLPUsecase) NLP {
	rest := NLP{Service: service}
	app.Post("/nlp/extract", rest.Extract)
	app.Get("/nlp/resolve", rest.Resolve)
	app.Get("/nlp/validate", rest.Validate)

	return rest
}

func (handler *NLP) Extract(c *fiber.Ctx) error {
	var request struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	result := handler.Service.Extract(request.Text)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Message processed",
		Results: result,
	})
}

func (handler *NLP) Resolve(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "query parameter q is required",
		})
	}

	result := handler.Service.Resolve(query)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Destination resolved",
		Results: result,
	})
}

func (handler *NLP) Validate(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "query parameter q is required",
		})
	}

	ok, code, suggestion := handler.Service.Validate(query)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Destination validated",
		Results: fiber.Map{
			"valid":        ok,
			"airport_code": code,
			"suggestion":   suggestion,
		},
	})
}
