package rest

import (
	"github.com/gofiber/fiber/v2"
	domainChat "github.com/onlyWebstar/travel-bot/domains/chat"
	"github.com/onlyWebstar/travel-bot/pkg/utils"
	"github.com/onlyWebstar/travel-bot/validations"
)

type Chat struct {
	Service domainChat.IChatUsecase
}

func InitRestChat(app fiber.Router, service domainChat.IChatUsecase) Chat {
	rest := Chat{Service: service}
	app.Post("/chat/message", rest.HandleMessage)

	return rest
}

func (handler *Chat) HandleMessage(c *fiber.Ctx) error {
	var request domainChat.MessageRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	utils.PanicIfNeeded(validations.ValidateChatMessage(c.UserContext(), request))

	response, err := handler.Service.HandleMessage(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Message handled",
		Results: response,
	})
}
