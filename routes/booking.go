package routes

import (
	"time"

	"localstay-server/models"
	"localstay-server/services"
	"localstay-server/storage"
	"localstay-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateBookingInput struct {
	StayID   uint   `json:"stay_id" validate:"required"`
	CheckIn  string `json:"check_in" validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
	Guests   int    `json:"guests" validate:"required,gte=1"`
}

type BookingActionInput struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

// CreateBooking handles POST /bookings/ — a traveler files a REQUESTED
// booking. Overlapping REQUESTED holds from other travelers are allowed;
// only an ACCEPTED hold blocks the request.
func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	checkIn, err := time.Parse(models.DateLayout, input.CheckIn)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "validation_error", "check_in must be a YYYY-MM-DD date", ctx)
		return
	}
	checkOut, err := time.Parse(models.DateLayout, input.CheckOut)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "validation_error", "check_out must be a YYYY-MM-DD date", ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	booking, svcErr := services.NewBookingEngine(storage.DB).Request(ctx.Request().Context(), actor, services.BookingRequestInput{
		StayID:   input.StayID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   input.Guests,
	})
	if svcErr != nil {
		utils.HandleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(booking)
}

// GetMyBookings handles GET /bookings/my-bookings (traveler-scoped).
func GetMyBookings(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)
	bookings, err := services.NewBookingEngine(storage.DB).ListForTraveler(actor)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(bookings)
}

// GetOwnerRequests handles GET /bookings/owner-requests — every booking
// against the host's stays, joined with the traveler's contact fields.
func GetOwnerRequests(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)
	bookings, err := services.NewBookingEngine(storage.DB).ListForHost(actor)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(bookings)
}

// HandleBookingAction handles POST /bookings/{id}/action. Accept re-checks
// availability and auto-rejects overlapping REQUESTED siblings atomically;
// on a conflict the booking stays REQUESTED and the host may retry or
// reject.
func HandleBookingAction(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "bad_request", "Invalid booking ID", ctx)
		return
	}

	var input BookingActionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	booking, svcErr := services.NewBookingEngine(storage.DB).Act(ctx.Request().Context(), actor, id, input.Action)
	if svcErr != nil {
		utils.HandleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(booking)
}
