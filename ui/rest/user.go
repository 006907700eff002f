package rest

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	domainUser "github.com/onlyWebstar/travel-bot/domains/user"
	"github.com/onlyWebstar/travel-bot/pkg/utils"
)

type User struct {
	Service domainUser.IUserUsecase
}

func InitRestUser(app fiber.Router, service domainUser.IUserUsecase) User {
	rest := User{Service: service}
	app.Get("/users/:id/preferences", rest.GetPreferences)
	app.Get("/users/:id/learning", rest.GetLearning)
	app.Get("/users/:id/session", rest.GetSession)

	return rest
}

func parseUserID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func (handler *User) GetPreferences(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid user id",
		})
	}

	prefs, err := handler.Service.GetPreferences(c.UserContext(), userID)
	if errors.Is(err, domainUser.ErrUserNotFound) {
		return c.Status(404).JSON(utils.ResponseData{
			Status:  404,
			Code:    "NOT_FOUND_ERROR",
			Message: "No preferences stored for user",
		})
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Preferences retrieved",
		Results: prefs,
	})
}

func (handler *User) GetLearning(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid user id",
		})
	}

	analysis, err := handler.Service.LearningSummary(c.UserContext(), userID)
	utils.PanicIfNeeded(err)

	if analysis == nil {
		return c.JSON(utils.ResponseData{
			Status:  200,
			Code:    "SUCCESS",
			Message: "Not enough search history yet",
		})
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Learning summary retrieved",
		Results: analysis,
	})
}

func (handler *User) GetSession(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "invalid user id",
		})
	}

	session, err := handler.Service.GetActiveSession(c.UserContext(), userID)
	if errors.Is(err, domainUser.ErrSessionNotFound) {
		return c.Status(404).JSON(utils.ResponseData{
			Status:  404,
			Code:    "NOT_FOUND_ERROR",
			Message: "No active session for user",
		})
	}
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Active session retrieved",
		Results: session,
	})
}
