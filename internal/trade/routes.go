package trade

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the form, reference and suggestion endpoints on a
// router that already runs the session middleware.
func RegisterRoutes(r fiber.Router) {
	// Form
	r.Get("/form", GetFormHandler())
	r.Put("/form/header", SetHeaderFieldHandler())
	r.Put("/form/tax", ToggleTaxHandler())
	r.Post("/form/items", AddRowHandler())
	r.Put("/form/items/:id", UpdateItemHandler())
	r.Delete("/form/items/:id", DeleteRowHandler())
	r.Post("/form/keys", HandleKeyHandler())

	// Sundry ("enabled" before ":index")
	r.Put("/form/sundry", SetSundryEntriesHandler())
	r.Put("/form/sundry/enabled", SetSundryEnabledHandler())
	r.Post("/form/sundry", AddSundryHandler())
	r.Put("/form/sundry/:index", UpdateSundryHandler())
	r.Delete("/form/sundry/:index", DeleteSundryHandler())

	r.Post("/form/validate", ValidateHandler())
	r.Post("/form/save", SaveBillHandler())
	r.Post("/form/reference", SaveAsReferenceHandler())
	r.Post("/form/reset", ResetHandler())

	// Reference archive
	r.Get("/references", ListReferencesHandler())
	r.Post("/references/sort", SortReferencesHandler())
	r.Get("/references/export", ExportReferencesHandler())

	// Autocomplete
	r.Get("/suggest", ListCatalogsHandler())
	r.Get("/suggest/:list", SuggestHandler())
}
