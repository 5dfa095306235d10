package trade

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"purchase-sale-backend/internal/auth"
	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/form"
	"purchase-sale-backend/internal/logger"
	"purchase-sale-backend/internal/models"
	"purchase-sale-backend/internal/session"
)

// -------------------------
// Request/Response Types
// -------------------------

type FieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

type SundryListRequest struct {
	Entries []models.SundryEntry `json:"entries"`
}

type KeyRequest struct {
	Key string `json:"key"`
}

type KeyResponse struct {
	Handled bool      `json:"handled"` // client suppresses the default action when true
	Form    form.View `json:"form"`
}

type ValidateResponse struct {
	Valid  bool             `json:"valid"`
	Errors billing.ErrorMap `json:"errors"`
}

type ReferenceResponse struct {
	Record models.ReferenceRecord `json:"record"`
	Form   form.View              `json:"form"`
}

// -------------------------
// Helpers
// -------------------------

func currentController(c *fiber.Ctx) (*form.Controller, error) {
	s, err := auth.CurrentSession(c)
	if err != nil {
		return nil, err
	}
	return s.Controller, nil
}

// statusFor maps a domain error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, billing.ErrValidationFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, billing.ErrUnknownField),
		errors.Is(err, billing.ErrReadOnlyField),
		errors.Is(err, billing.ErrInvalidValue),
		errors.Is(err, form.ErrInvalidSundry),
		errors.Is(err, form.ErrUnknownSortKey):
		return fiber.StatusBadRequest
	case errors.Is(err, form.ErrRowNotFound),
		errors.Is(err, form.ErrSundryIndex),
		errors.Is(err, session.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, form.ErrSundryDisabled):
		return fiber.StatusConflict
	case errors.Is(err, form.ErrPersistFailed):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// respondError writes a failed validation with its error map and turns
// every other domain error into a fiber.Error.
func respondError(c *fiber.Ctx, err error) error {
	var vf *billing.ValidationFailedError
	if errors.As(err, &vf) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Form has validation errors",
			"errors": vf.Errors,
		})
	}
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		return err
	}
	return fiber.NewError(status, err.Error())
}

func parseToggle(c *fiber.Ctx) (bool, error) {
	var body ToggleRequest
	if err := c.BodyParser(&body); err != nil {
		return false, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if body.Enabled == nil {
		return false, fiber.NewError(fiber.StatusBadRequest, "enabled is required")
	}
	return *body.Enabled, nil
}

func sundryIndex(c *fiber.Ctx) (int, error) {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid sundry index")
	}
	return idx, nil
}

// -------------------------
// Form
// -------------------------

// GET /api/form
func GetFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		return c.JSON(ctl.View())
	}
}

// PUT /api/form/header
func SetHeaderFieldHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		var body FieldRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := ctl.SetHeaderField(body.Field, body.Value); err != nil {
			return respondError(c, err)
		}
		return c.JSON(ctl.View())
	}
}

// PUT /api/form/tax
func ToggleTaxHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		enabled, err := parseToggle(c)
		if err != nil {
			return err
		}
		ctl.ToggleTax(enabled)
		return c.JSON(ctl.View())
	}
}

// POST /api/form/items
func AddRowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		ctl.AddRow()
		return c.Status(fiber.StatusCreated).JSON(ctl.View())
	}
}

// PUT /api/form/items/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		var body FieldRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := ctl.UpdateItem(c.Params("id"), body.Field, body.Value); err != nil {
			return respondError(c, err)
		}
		return c.JSON(ctl.View())
	}
}

// DELETE /api/form/items/:id
func DeleteRowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		if err := ctl.DeleteRow(c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(ctl.View())
	}
}

// POST /api/form/keys
func HandleKeyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		var body KeyRequest
		if err := c.BodyParser(&body); err != nil || body.Key == "" {
			return fiber.NewError(fiber.StatusBadRequest, "key is required")
		}
		handled := ctl.HandleKey(body.Key)
		return c.JSON(KeyResponse{Handled: handled, Form: ctl.View()})
	}
}

// -------------------------
// Sundry
// -------------------------

// PUT /api/form/sundry
func SetSundryEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		var body SundryListRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		ctl.SetSundryEntries(body.Entries)
		return c.JSON(ctl.View())
	}
}

// PUT /api/form/sundry/enabled
func SetSundryEnabledHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		enabled, err := parseToggle(c)
		if err != nil {
			return err
		}
		ctl.SetSundryEnabled(enabled)
		return c.JSON(ctl.View())
	}
}

// POST /api/form/sundry
func AddSundryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		var body models.SundryEntry
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := ctl.AddSundry(body); err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ctl.View())
	}
}

// PUT /api/form/sundry/:index
func UpdateSundryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		idx, err := sundryIndex(c)
		if err != nil {
			return err
		}
		var body models.SundryEntry
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := ctl.UpdateSundry(idx, body); err != nil {
			return respondError(c, err)
		}
		return c.JSON(ctl.View())
	}
}

// DELETE /api/form/sundry/:index
func DeleteSundryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		idx, err := sundryIndex(c)
		if err != nil {
			return err
		}
		if err := ctl.DeleteSundry(idx); err != nil {
			return respondError(c, err)
		}
		return c.JSON(ctl.View())
	}
}

// -------------------------
// Validate / save / reset
// -------------------------

// POST /api/form/validate
func ValidateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		errs := ctl.Validate()
		return c.JSON(ValidateResponse{Valid: errs.Valid(), Errors: errs})
	}
}

// POST /api/form/save
func SaveBillHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.CurrentSession(c)
		if err != nil {
			return err
		}
		if err := s.Controller.SaveBill(c.UserContext()); err != nil {
			log := logger.WithSession("trade", s.ID)
			log.Warn().Err(err).Msg("Bill not saved")
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"saved": true,
			"form":  s.Controller.View(),
		})
	}
}

// POST /api/form/reference
func SaveAsReferenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		rec, err := ctl.SaveAsReference()
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ReferenceResponse{Record: rec, Form: ctl.View()})
	}
}

// POST /api/form/reset
func ResetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := currentController(c)
		if err != nil {
			return err
		}
		ctl.Reset()
		return c.JSON(ctl.View())
	}
}
