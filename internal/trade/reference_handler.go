package trade

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"purchase-sale-backend/internal/form"
	"purchase-sale-backend/internal/logger"
	"purchase-sale-backend/internal/models"
)

type SortRequest struct {
	Key string `json:"key"`
}

type ReferenceListResponse struct {
	Records []models.ReferenceRecord `json:"records"`
	Sort    form.SortState           `json:"sort"`
	Total   int                      `json:"total"` // archive size before filtering
}

func filterFromQuery(c *fiber.Ctx) form.ReferenceFilter {
	return form.ReferenceFilter{
		Type:   c.Query("type"),
		Party:  c.Query("party"),
		Status: c.Query("status"),
	}
}

func listReferences(ctl *form.Controller, f form.ReferenceFilter) ReferenceListResponse {
	return ReferenceListResponse{
		Records: ctl.References(f),
		Sort:    ctl.SortState(),
		Total:   ctl.ArchiveSize(),
	}
}

// GET /api/references?type=&party=&status=
func ListReferencesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		return c.JSON(listReferences(ctl, filterFromQuery(c)))
	}
}

// POST /api/references/sort
func SortReferencesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		var body SortRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if _, err := ctl.SortReferences(body.Key); err != nil {
			return respondError(c, err)
		}
		return c.JSON(listReferences(ctl, filterFromQuery(c)))
	}
}

// GET /api/references/export
func ExportReferencesHandler() fiber.Handler {
	log := logger.WithComponent("trade")
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		records := ctl.References(filterFromQuery(c))

		buf, err := WriteReferenceWorkbook(records)
		if err != nil {
			log.Error().Err(err).Msg("Reference export failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build the export file")
		}

		filename := fmt.Sprintf("references-%s.xlsx", time.Now().Format("20060102-150405"))
		c.Set(fiber.HeaderContentType, XLSXContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
