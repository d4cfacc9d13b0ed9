// Package products implements the REST API handlers for product
// registration and risk reporting.
package products

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ortelius/vexmgt-backend/database"
	"github.com/ortelius/vexmgt-backend/model"
	"github.com/ortelius/vexmgt-backend/util"
)

// PostProduct handles POST requests that register or update a product
func PostProduct(repo *database.ProductRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.Product

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if req.Name == "" || req.Org == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "name and org are required",
			})
		}

		product := model.NewProduct(req.Name, req.Org)
		product.Environment = req.Environment
		product.InternetFacing = req.InternetFacing
		product.SourceURL = req.SourceURL
		if req.Criticality != "" {
			product.Criticality = req.Criticality
		}
		if req.Key != "" {
			product.Key = req.Key
		} else {
			product.Key = util.SanitizeKey(req.Org + ":" + req.Name)
		}

		if err := repo.Save(context.Background(), product); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// GetProductRisk handles GET requests for a product's current risk and
// compliance scores
func GetProductRisk(repo *database.ProductRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("key")

		product, err := repo.FindByKey(context.Background(), key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		if product == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "product " + key + " not found",
			})
		}

		return c.JSON(model.ProductRiskResponse{
			ProductKey:      product.Key,
			RiskScore:       product.RiskScore,
			ComplianceScore: product.ComplianceScore,
			ComplianceGrade: product.ComplianceGrade,
		})
	}
}
