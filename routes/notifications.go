package routes

import (
	"localstay-server/models"
	"localstay-server/storage"
	"localstay-server/utils"

	"github.com/kataras/iris/v12"
)

// GetNotifications handles GET /notifications — the caller's booking-event
// feed, newest first.
func GetNotifications(ctx iris.Context) {
	actor := utils.ActorFromContext(ctx)

	var notifications []models.Notification
	res := storage.DB.Where("user_id = ?", actor.ID).Order("created_at DESC").Limit(100).Find(&notifications)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(notifications)
}

// MarkNotificationRead handles POST /notifications/{id}/read.
func MarkNotificationRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "bad_request", "Invalid notification ID", ctx)
		return
	}

	actor := utils.ActorFromContext(ctx)

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, actor.ID).First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	notification.IsRead = true
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(notification)
}
