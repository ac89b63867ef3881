package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/reelpay/pkg/errutil"
)

func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}

// errorResponse writes err as {"error", "code"} with the status of its kind.
func errorResponse(c *fiber.Ctx, err error) error {
	kind := errutil.KindOf(err)
	if kind == "" || kind == errutil.KindTransactionAborted {
		slog.Info(err.Error())
	}

	code := string(kind)
	if code == "" {
		code = "internal_error"
	}

	return c.Status(errutil.HTTPStatus(err)).JSON(fiber.Map{
		"error": errutil.Message(err),
		"code":  code,
	})
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errutil.Validation("invalid " + name)
	}
	return id, nil
}
