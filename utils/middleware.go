package utils

import (
	"localstay-server/models"
	"localstay-server/services"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// ActorFromContext rebuilds the services.Actor from the verified access
// token. It returns a zero actor when no token was presented.
func ActorFromContext(ctx iris.Context) services.Actor {
	tok := jwt.Get(ctx)
	if tok == nil {
		return services.Actor{}
	}
	claims, ok := tok.(*AccessToken)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{ID: claims.ID, Role: claims.Role}
}

// HostOnlyMiddleware rejects requests whose token does not carry the host
// role. The engines re-check ownership; this is the cheap outer gate.
func HostOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != models.RoleHost {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"detail": "host access required"})
		return
	}
	ctx.Next()
}

// TravelerOnlyMiddleware rejects requests whose token does not carry the
// traveler role.
func TravelerOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != models.RoleTraveler {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"detail": "traveler access required"})
		return
	}
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester has the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != models.RoleAdmin {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"detail": "admin access required"})
		return
	}
	ctx.Next()
}
