package routes

import (
	"localstay-server/services"
	"localstay-server/storage"
	"localstay-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateStayInput struct {
	Name          string   `json:"name" validate:"required,max=256"`
	Location      string   `json:"location" validate:"required,max=256"`
	Description   string   `json:"description"`
	PricePerNight int      `json:"price_per_night" validate:"required"`
	ImageURL      string   `json:"image_url"`
	Images        []string `json:"images" validate:"required,min=1"`
	Facilities    []string `json:"facilities"`
	MaxGuests     int      `json:"max_guests" validate:"min=0"`
}

type UpdateStayInput struct {
	Name          *string  `json:"name"`
	Location      *string  `json:"location"`
	Description   *string  `json:"description"`
	PricePerNight *int     `json:"price_per_night"`
	ImageURL      *string  `json:"image_url"`
	Images        []string `json:"images"`
	Facilities    []string `json:"facilities"`
	MaxGuests     *int     `json:"max_guests"`
}

// GetStays handles GET /stays/ — the public feed. Supports ?location=
// substring filtering and skip/limit paging.
func GetStays(ctx iris.Context) {
	filter := services.StayFilter{
		Location: ctx.URLParamDefault("location", ""),
		Skip:     ctx.URLParamIntDefault("skip", 0),
		Limit:    ctx.URLParamIntDefault("limit", 100),
	}

	stays, err := services.NewStayService(storage.DB).List(filter)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(stays)
}

// GetStay handles GET /stays/{id}.
func GetStay(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "bad_request", "Invalid stay ID", ctx)
		return
	}

	stay, svcErr := services.NewStayService(storage.DB).Get(id)
	if svcErr != nil {
		utils.HandleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(stay)
}

// CreateStay handles POST /stays/ (verified hosts only).
func CreateStay(ctx iris.Context) {
	var input CreateStayInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	stay, err := services.NewStayService(storage.DB).Create(actor, services.CreateStayInput{
		Name:          input.Name,
		Location:      input.Location,
		Description:   input.Description,
		PricePerNight: input.PricePerNight,
		ImageURL:      input.ImageURL,
		Images:        input.Images,
		Facilities:    input.Facilities,
		MaxGuests:     input.MaxGuests,
	})
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(stay)
}

// UpdateStay handles PUT /stays/{id} (owning host only).
func UpdateStay(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "bad_request", "Invalid stay ID", ctx)
		return
	}

	var input UpdateStayInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	stay, svcErr := services.NewStayService(storage.DB).Update(actor, id, services.UpdateStayInput{
		Name:          input.Name,
		Location:      input.Location,
		Description:   input.Description,
		PricePerNight: input.PricePerNight,
		ImageURL:      input.ImageURL,
		Images:        input.Images,
		Facilities:    input.Facilities,
		MaxGuests:     input.MaxGuests,
	})
	if svcErr != nil {
		utils.HandleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(stay)
}

// DeleteStay handles DELETE /stays/{id}. The stay and every booking
// referencing it disappear together (or not at all). Admins may delete any
// stay.
func DeleteStay(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "bad_request", "Invalid stay ID", ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	if svcErr := services.NewStayService(storage.DB).Delete(ctx.Request().Context(), actor, id); svcErr != nil {
		utils.HandleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(iris.Map{"message": "Stay deleted successfully"})
}

// GetMyStays handles GET /stays/owner/my-stays — the explicit host-scoped
// listing, so clients never have to filter the public feed themselves.
func GetMyStays(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)
	stays, err := services.NewStayService(storage.DB).ListForHost(actor)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(stays)
}
