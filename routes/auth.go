package routes

import (
	"strings"

	"localstay-server/models"
	"localstay-server/storage"
	"localstay-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupInput struct {
	Name        string `json:"name" validate:"required,max=256"`
	Email       string `json:"email" validate:"required,max=256,email"`
	Password    string `json:"password" validate:"required,min=8,max=256"`
	PhoneNumber string `json:"phone_number"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup handles POST /auth/{role}/signup. Travelers are active
// immediately; hosts start unverified and wait for an admin. There is no
// admin signup.
func Signup(ctx iris.Context) {
	role := ctx.Params().Get("role")
	if role != models.RoleTraveler && role != models.RoleHost {
		utils.CreateError(iris.StatusNotFound, "not_found", "Unknown signup role", ctx)
		return
	}

	var input SignupInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(input.Email)

	var existing models.User
	err := storage.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		utils.CreateError(iris.StatusBadRequest, "email_taken", "Email already registered", ctx)
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.CreateInternalServerError(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user := models.User{
		Name:               input.Name,
		Email:              email,
		PhoneNumber:        input.PhoneNumber,
		Password:           hashedPassword,
		Role:               role,
		VerificationStatus: models.VerificationUnverified,
	}

	if err := storage.DB.Create(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnToken(user, ctx)
}

// Login handles POST /auth/{role}/login. The account's role must match the
// path, so a traveler token can never be minted through the host door.
func Login(ctx iris.Context) {
	role := ctx.Params().Get("role")

	var input LoginInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	errorMsg := "Incorrect email or password"

	var user models.User
	if err := storage.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.CreateError(iris.StatusUnauthorized, "credentials_error", errorMsg, ctx)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.CreateError(iris.StatusUnauthorized, "credentials_error", errorMsg, ctx)
		return
	}

	if user.Role != role {
		utils.CreateError(iris.StatusForbidden, "permission_denied", "Account does not have the "+role+" role", ctx)
		return
	}

	returnToken(user, ctx)
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func returnToken(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"access_token":  string(tokenPair.AccessToken),
		"refresh_token": string(tokenPair.RefreshToken),
		"token_type":    "bearer",
		"role":          user.Role,
	})
}
