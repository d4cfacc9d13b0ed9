package ingest

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ortelius/vexmgt-backend/model"
)

// PostSBOM handles POST requests that run the ingestion pipeline for
// one product's SBOM
func PostSBOM(service *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.IngestRequest

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if req.ProductKey == "" || len(req.SBOM) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "product_key and sbom are required",
			})
		}

		result, err := service.ProcessSBOMIngestion(context.Background(), req)
		if err != nil {
			return c.Status(statusForError(err)).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(result)
	}
}

// statusForError maps the typed pipeline errors onto HTTP status codes
func statusForError(err error) int {
	var validation *model.ValidationError
	if errors.As(err, &validation) {
		return fiber.StatusBadRequest
	}
	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		return fiber.StatusNotFound
	}
	var authz *model.AuthorizationError
	if errors.As(err, &authz) {
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}
