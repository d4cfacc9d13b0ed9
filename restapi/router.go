// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/ortelius/vexmgt-backend/database"
	"github.com/ortelius/vexmgt-backend/internal/vex"
	"github.com/ortelius/vexmgt-backend/restapi/modules/ingest"
	"github.com/ortelius/vexmgt-backend/restapi/modules/products"
	"github.com/ortelius/vexmgt-backend/restapi/modules/statements"
)

// Services carries the wired application services the handlers need
type Services struct {
	Ingest *ingest.Service
	Store  *vex.Store
}

// SetupRoutes configures all REST API routes and the GraphQL endpoint
func SetupRoutes(app *fiber.App, db database.DBConnection, schema graphql.Schema, svc Services) {
	productRepo := database.NewProductRepo(db)
	statementRepo := database.NewStatementRepo(db)
	auditRepo := database.NewAuditRepo(db)
	userRepo := database.NewUserRepo(db)

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Product registration and risk reporting
	api.Post("/products", products.PostProduct(productRepo))
	api.Get("/products/:key/risk", products.GetProductRisk(productRepo))

	// SBOM ingestion pipeline
	api.Post("/ingest", ingest.PostSBOM(svc.Ingest))

	// Statement lifecycle
	api.Get("/statements", statements.GetStatements(svc.Store, userRepo))
	api.Patch("/statements/:key", statements.PatchStatement(svc.Store))
	api.Post("/statements/bulk", statements.PostBulkUpdate(svc.Store))
	api.Get("/statements/:key/audit", statements.GetAuditTrail(statementRepo, auditRepo))

	log.Println("API routes initialized successfully")
}
