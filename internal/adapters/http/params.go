package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// pathID parses a positive integer path parameter. On failure the 400
// response has already been written and ok is false.
func pathID(c *fiber.Ctx, name string) (id int64, ok bool, err error) {
	id, perr := strconv.ParseInt(c.Params(name), 10, 64)
	if perr != nil || id <= 0 {
		return 0, false, errBadRequest(c, "invalid "+name)
	}
	return id, true, nil
}
