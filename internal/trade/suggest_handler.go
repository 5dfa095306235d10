package trade

import (
	"github.com/gofiber/fiber/v2"

	"purchase-sale-backend/internal/catalog"
)

type SuggestResponse struct {
	List    string   `json:"list"`
	Query   string   `json:"query"`
	Options []string `json:"options"`
}

// GET /api/suggest/:list?q=
func SuggestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		list := c.Params("list")
		options, ok := catalog.Options(list)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Unknown option list: "+list)
		}
		q := c.Query("q")
		return c.JSON(SuggestResponse{
			List:    list,
			Query:   q,
			Options: catalog.Filter(options, q),
		})
	}
}

// GET /api/suggest
func ListCatalogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"lists": catalog.Names()})
	}
}
