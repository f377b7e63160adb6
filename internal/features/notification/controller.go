package notification

import (
	"sourcevia/internal/middleware"
	"sourcevia/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	Service NotificationService
	Hub     *Hub
}

func NewNotificationController(service NotificationService, hub *Hub) *NotificationController {
	return &NotificationController{Service: service, Hub: hub}
}

// ListNotifications godoc
// @Summary List notifications for the calling user
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Success 200 {array} Notification
// @Router /api/notifications [get]
func (c *NotificationController) ListNotifications(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	items, err := c.Service.ListForUser(ctx.UserContext(), actor.ID, ctx.QueryBool("unread"))
	if err != nil {
		return err
	}
	return ctx.JSON(items)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string
// @Router /api/notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(ctx)
	if !ok {
		return fiber.ErrUnauthorized
	}
	if err := c.Service.MarkRead(ctx.UserContext(), ctx.Params("id"), actor.ID); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Notification marked read"})
}

// HandleWebSocket keeps the connection registered until the client goes
// away. Pushes happen from the hub; reads are only consumed to detect
// disconnects.
func (c *NotificationController) HandleWebSocket(conn *websocket.Conn) {
	claims, ok := conn.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		conn.Close()
		return
	}

	c.Hub.Register(claims.UserID, conn)
	defer c.Hub.Unregister(claims.UserID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
