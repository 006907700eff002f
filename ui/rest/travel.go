package rest

import (
	"github.com/gofiber/fiber/v2"
	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
	"github.com/onlyWebstar/travel-bot/pkg/utils"
	"github.com/onlyWebstar/travel-bot/validations"
)

type Travel struct {
	Service domainTravel.ITravelUsecase
}

func InitRestTravel(app fiber.Router, service domainTravel.ITravelUsecase) Travel {
	rest := Travel{Service: service}
	app.Get("/flights/search", rest.SearchFlights)
	app.Get("/hotels/search", rest.SearchHotels)
	app.Get("/airports/resolve", rest.ResolveAirport)

	return rest
}

func (handler *Travel) SearchFlights(c *fiber.Ctx) error {
	var request domainTravel.FlightSearchRequest
	if err := c.QueryParser(&request); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	utils.PanicIfNeeded(validations.ValidateFlightSearch(c.UserContext(), request))

	flights, err := handler.Service.SearchFlights(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	links := handler.Service.FlightBookingLinks(request)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Flight search completed",
		Results: fiber.Map{
			"flights":       flights,
			"booking_links": links,
		},
	})
}

func (handler *Travel) SearchHotels(c *fiber.Ctx) error {
	var request domainTravel.HotelSearchRequest
	if err := c.QueryParser(&request); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}

	utils.PanicIfNeeded(validations.ValidateHotelSearch(c.UserContext(), request))

	hotels, err := handler.Service.SearchHotels(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	links := handler.Service.HotelBookingLinks(request)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Hotel search completed",
		Results: fiber.Map{
			"hotels":        hotels,
			"booking_links": links,
		},
	})
}

func (handler *Travel) ResolveAirport(c *fiber.Ctx) error {
	city := c.Query("city")
	if city == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "query parameter city is required",
		})
	}

	code := handler.Service.AirportCode(c.UserContext(), city)
	if code == "" {
		return c.Status(404).JSON(utils.ResponseData{
			Status:  404,
			Code:    "NOT_FOUND_ERROR",
			Message: "No airport code found for city",
		})
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Airport code resolved",
		Results: fiber.Map{"city": city, "airport_code": code},
	})
}
