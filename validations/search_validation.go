package validations

import (
	"context"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainChat "github.com/onlyWebstar/travel-bot/domains/chat"
	domainTravel "github.com/onlyWebstar/travel-bot/domains/travel"
	pkgError "github.com/onlyWebstar/travel-bot/pkg/error"
)

var (
	isoDateRule     = validation.Match(regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)).Error("must be YYYY-MM-DD")
	airportCodeRule = validation.Match(regexp.MustCompile(`^[A-Z]{3}$`)).Error("must be a 3-letter IATA code")
)

func ValidateFlightSearch(ctx context.Context, request domainTravel.FlightSearchRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.OriginCode, validation.Required, airportCodeRule),
		validation.Field(&request.DestinationCode, validation.Required, airportCodeRule),
		validation.Field(&request.Date, validation.Required, isoDateRule),
		validation.Field(&request.Adults, validation.Min(0), validation.Max(9)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateHotelSearch(ctx context.Context, request domainTravel.HotelSearchRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.City, validation.Required, validation.Length(2, 100)),
		validation.Field(&request.CheckIn, validation.Required, isoDateRule),
		validation.Field(&request.CheckOut, validation.Required, isoDateRule),
		validation.Field(&request.Guests, validation.Min(0), validation.Max(20)),
		validation.Field(&request.Rooms, validation.Min(0), validation.Max(10)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateChatMessage(ctx context.Context, request domainChat.MessageRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.UserID, validation.Required),
		validation.Field(&request.Text, validation.Required, validation.Length(1, 1000)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
