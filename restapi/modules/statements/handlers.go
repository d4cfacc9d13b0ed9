// Package statements implements the REST API handlers for VEX statement
// operations.
package statements

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ortelius/vexmgt-backend/database"
	"github.com/ortelius/vexmgt-backend/internal/vex"
	"github.com/ortelius/vexmgt-backend/model"
)

// PatchStatement handles PATCH requests that apply one operator patch
// to one statement
func PatchStatement(store *vex.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.StatementUpdateRequest

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if req.Actor == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "actor is required",
			})
		}

		patch := model.StatementPatch{
			Status:        req.Status,
			Justification: req.Justification,
			Expiry:        req.Expiry,
		}

		statement, err := store.Update(context.Background(), req.Actor, c.Params("key"), patch)
		if err != nil {
			return c.Status(statusForError(err)).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(statement)
	}
}

// PostBulkUpdate handles POST requests that apply one patch to many
// statements. Unauthorized statements are dropped rather than failing
// the call, so the response may cover a subset of the requested keys.
func PostBulkUpdate(store *vex.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.BulkUpdateRequest

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if req.Actor == "" || len(req.StatementKeys) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "actor and statement_keys are required",
			})
		}

		patch := model.StatementPatch{
			Status:        req.Status,
			Justification: req.Justification,
			Expiry:        req.Expiry,
		}

		updated, err := store.BulkUpdate(context.Background(), req.Actor, req.StatementKeys, patch)
		if err != nil {
			return c.Status(statusForError(err)).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"requested": len(req.StatementKeys),
			"updated":   updated,
		})
	}
}

// GetStatements handles GET requests that list statements filtered by
// product, org, or status. When an actor is supplied the page is
// additionally scoped to the orgs that actor belongs to.
func GetStatements(store *vex.Store, users *database.UserRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		query := vex.StatementQuery{
			ProductKey: c.Query("product_key"),
			Org:        c.Query("org"),
			Status:     c.Query("status"),
			Limit:      queryInt(c, "limit", 0),
			Offset:     queryInt(c, "offset", 0),
		}

		if actor := c.Query("actor"); actor != "" {
			viewer, err := users.FindByUsername(ctx, actor)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": err.Error(),
				})
			}
			if viewer == nil || !viewer.IsActive {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"success": false,
					"message": "unknown actor " + actor,
				})
			}
			query.Viewer = viewer
		}

		page, err := store.Query(ctx, query)
		if err != nil {
			return c.Status(statusForError(err)).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(page)
	}
}

// GetAuditTrail handles GET requests for one statement's audit history
func GetAuditTrail(statements *database.StatementRepo, audit *database.AuditRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		key := c.Params("key")

		statement, err := statements.FindByKey(ctx, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		if statement == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "statement " + key + " not found",
			})
		}

		entries, err := audit.FindByStatement(ctx, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"statement_key": key,
			"entries":       entries,
		})
	}
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

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
