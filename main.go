package main

import (
	"fmt"
	"log"
	"os"

	"localstay-server/routes"
	"localstay-server/storage"
	"localstay-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	auth := app.Party("/auth")
	{
		auth.Post("/{role:string}/signup", routes.Signup)
		auth.Post("/{role:string}/login", routes.Login)
	}

	stays := app.Party("/stays")
	{
		stays.Get("/", routes.GetStays)
		stays.Get("/{id:uint}", routes.GetStay)
		stays.Post("/", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.CreateStay)
		stays.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.UpdateStay)
		stays.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteStay)
		stays.Get("/owner/my-stays", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.GetMyStays)
	}

	bookings := app.Party("/bookings")
	{
		bookings.Post("/", accessTokenVerifierMiddleware, utils.TravelerOnlyMiddleware, routes.CreateBooking)
		bookings.Get("/my-bookings", accessTokenVerifierMiddleware, routes.GetMyBookings)
		bookings.Get("/owner-requests", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.GetOwnerRequests)
		bookings.Post("/{id:uint}/action", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.HandleBookingAction)
	}

	admin := app.Party("/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Post("/verify-owner/{id:uint}", routes.VerifyOwner)
		admin.Post("/toggle-status/{id:uint}", routes.ToggleOwnerStatus)
		admin.Get("/unverified-owners", routes.GetUnverifiedOwners)
		admin.Get("/all-owners", routes.GetAllOwners)
		admin.Get("/all-users", routes.GetAllUsers)
	}

	notifications := app.Party("/notifications", accessTokenVerifierMiddleware)
	{
		notifications.Get("/", routes.GetNotifications)
		notifications.Post("/{id:uint}/read", routes.MarkNotificationRead)
	}

	app.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := ":" + port

	fmt.Println("Starting server on", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
