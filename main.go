// package main provides the entry point for the vexmgt-backend
// microservice, wiring the ingestion pipeline, the VEX statement store,
// the score recomputer, and the REST and GraphQL APIs.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/ortelius/vexmgt-backend/database"
	eventstatements "github.com/ortelius/vexmgt-backend/events/modules/statements"
	"github.com/ortelius/vexmgt-backend/internal/advisory"
	"github.com/ortelius/vexmgt-backend/internal/api"
	"github.com/ortelius/vexmgt-backend/internal/identity"
	"github.com/ortelius/vexmgt-backend/internal/kafka"
	"github.com/ortelius/vexmgt-backend/internal/reachability"
	"github.com/ortelius/vexmgt-backend/internal/scoring"
	"github.com/ortelius/vexmgt-backend/internal/signals"
	"github.com/ortelius/vexmgt-backend/internal/vex"
	"github.com/ortelius/vexmgt-backend/internal/workspace"
	"github.com/ortelius/vexmgt-backend/restapi"
	"github.com/ortelius/vexmgt-backend/restapi/modules/ingest"
	"github.com/ortelius/vexmgt-backend/util"
)

// fanoutPublisher delivers each statements-changed event to every
// configured subscriber. The in-process recomputer always runs; the
// Kafka producer is added when a broker is configured.
type fanoutPublisher struct {
	subscribers []vex.Publisher
}

func (f *fanoutPublisher) PublishStatementsChanged(ctx context.Context, productKey, org, action string, statementKeys []string) error {
	for _, sub := range f.subscribers {
		if err := sub.PublishStatementsChanged(ctx, productKey, org, action, statementKeys); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// Initialize database connection
	db := database.InitializeDatabase()

	logger := database.InitLogger().Sugar()
	defer logger.Sync() //nolint:errcheck

	// Repositories
	productRepo := database.NewProductRepo(db)
	statementRepo := database.NewStatementRepo(db)
	auditRepo := database.NewAuditRepo(db)
	vulnRepo := database.NewVulnerabilityRepo(db)
	userRepo := database.NewUserRepo(db)

	// Score recomputer subscribes to statement changes in-process
	recomputer := scoring.NewRecomputer(productRepo, statementRepo, vulnRepo, logger)

	publisher := &fanoutPublisher{subscribers: []vex.Publisher{recomputer}}
	if os.Getenv("KAFKA_BROKERS") != "" {
		producer := eventstatements.NewProducer(
			strings.Split(os.Getenv("KAFKA_BROKERS"), ","),
			eventstatements.TopicStatementsChanged,
		)
		defer producer.Close() //nolint:errcheck
		publisher.subscribers = append(publisher.subscribers, producer)

		if err := kafka.RunEventProcessor(context.Background(), recomputer); err != nil {
			log.Printf("WARNING: Kafka event processor not started: %v", err)
		}
	}

	// VEX statement store
	resolver := identity.NewDirectoryResolver(userRepo)
	store := vex.NewStore(statementRepo, auditRepo, resolver, publisher, logger)

	// Ingestion pipeline
	correlator := advisory.NewCorrelator(advisory.NewOSVSource(logger), vulnRepo, store, publisher, logger)

	rules, err := signals.LoadRules()
	if err != nil {
		log.Fatalf("Failed to load signal rules: %v", err)
	}
	detector := signals.NewDetector(rules, vulnRepo, store, logger)

	ingestService := ingest.NewService(
		productRepo,
		correlator,
		detector,
		workspace.NewProvider(logger),
		reachability.NewAnalyzer(logger),
		store,
		publisher,
		logger,
	)

	app := api.NewFiberApp(db, restapi.Services{
		Ingest: ingestService,
		Store:  store,
	})

	// Get port from environment or default to 3000
	port := util.GetEnvDefault("MS_PORT", "3000")

	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
