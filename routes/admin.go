package routes

import (
	"localstay-server/services"
	"localstay-server/storage"
	"localstay-server/utils"

	"github.com/kataras/iris/v12"
)

// VerifyOwner handles POST /admin/verify-owner/{id}. Idempotent.
func VerifyOwner(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "bad_request", "Invalid owner ID", ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	host, svcErr := services.NewHostService(storage.DB).Verify(actor, id)
	if svcErr != nil {
		utils.HandleServiceError(svcErr, ctx)
		return
	}

	utils.Audit(ctx, "host.verify", "user", host.ID, nil, host)
	ctx.JSON(iris.Map{"message": "Owner " + host.Name + " is now verified"})
}

// ToggleOwnerStatus handles POST /admin/toggle-status/{id} — flips a host
// between verified and banned. Banned hosts' stays drop out of the public
// feed; their existing ACCEPTED bookings are left alone.
func ToggleOwnerStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "bad_request", "Invalid owner ID", ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)
	host, svcErr := services.NewHostService(storage.DB).ToggleStatus(actor, id)
	if svcErr != nil {
		utils.HandleServiceError(svcErr, ctx)
		return
	}

	utils.Audit(ctx, "host.toggle_status", "user", host.ID, nil, host)
	ctx.JSON(iris.Map{"message": "Owner is now " + host.VerificationStatus, "verification_status": host.VerificationStatus})
}

// GetUnverifiedOwners handles GET /admin/unverified-owners.
func GetUnverifiedOwners(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)
	hosts, err := services.NewHostService(storage.DB).ListUnverified(actor)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(hosts)
}

// GetAllOwners handles GET /admin/all-owners.
func GetAllOwners(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)
	hosts, err := services.NewHostService(storage.DB).ListHosts(actor)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(hosts)
}

// GetAllUsers handles GET /admin/all-users (travelers).
func GetAllUsers(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)
	travelers, err := services.NewHostService(storage.DB).ListTravelers(actor)
	if err != nil {
		utils.HandleServiceError(err, ctx)
		return
	}
	ctx.JSON(travelers)
}
