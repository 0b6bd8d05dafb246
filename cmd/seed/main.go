package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ritheshbalipersad/Document/internal/config"
	"github.com/ritheshbalipersad/Document/internal/domain/models"
	"github.com/ritheshbalipersad/Document/internal/domain/services"
	"github.com/ritheshbalipersad/Document/internal/repository/postgres"
	"github.com/ritheshbalipersad/Document/internal/service/audit"
	"github.com/ritheshbalipersad/Document/internal/service/folders"
)

// seed plants a small demo hierarchy through the engine itself, so every
// folder gets real derived paths, levels and stats.
func main() {
	clearData := flag.Bool("clear-data", false, "Delete all folders and documents before seeding")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *clearData {
		log.Fatalf("BLOCKED: cannot run --clear-data in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	if *clearData {
		for _, table := range []string{tables.Documents, tables.Folders} {
			if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				log.Fatalf("Failed to clear %s: %v", table, err)
			}
		}
		logger.Info("cleared existing data", "prefix", cfg.TablePrefix)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	limits, err := config.LoadEngineLimits()
	if err != nil {
		log.Fatalf("Failed to load engine limits: %v", err)
	}

	svc := folders.NewService(folderRepo, docRepo, txManager, audit.NewSlogSink(logger), limits, logger)
	seeder := models.Actor{ID: "seed", Role: models.RoleAdmin}

	tree := []struct {
		name     string
		parent   string // name of an earlier entry, "" = root
		isPublic bool
	}{
		{name: "Reports", isPublic: true},
		{name: "2024", parent: "Reports"},
		{name: "2025", parent: "Reports"},
		{name: "Archives"},
		{name: "Uploads", isPublic: true},
	}

	created := make(map[string]*models.Folder)
	for _, node := range tree {
		req := &services.CreateFolderRequest{Name: node.name, IsPublic: node.isPublic}
		if node.parent != "" {
			parent, ok := created[node.parent]
			if !ok {
				log.Fatalf("seed order error: parent %q not created yet", node.parent)
			}
			req.ParentID = &parent.ID
		}

		folder, err := svc.CreateFolder(ctx, seeder, req)
		if err != nil {
			log.Fatalf("Failed to create folder %q: %v", node.name, err)
		}
		created[node.name] = folder
		logger.Info("seeded folder", "name", folder.Name, "path", folder.Path)
	}

	// A few documents so stats have something to count.
	docs := []struct {
		name   string
		folder string
		size   int64
	}{
		{"q1-summary.pdf", "2024", 2048},
		{"q2-summary.pdf", "2024", 4096},
		{"roadmap.pdf", "2025", 1024},
	}

	for _, doc := range docs {
		folder := created[doc.folder]
		query := fmt.Sprintf(`
			INSERT INTO %s (id, folder_id, name, file_size, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
		`, tables.Documents)
		if _, err := pool.Exec(ctx, query, uuid.NewString(), folder.ID, doc.name, doc.size, time.Now()); err != nil {
			log.Fatalf("Failed to seed document %q: %v", doc.name, err)
		}
	}

	// Refresh derived stats for each seeded subtree.
	for _, name := range []string{"2024", "2025"} {
		if _, err := svc.GetStats(ctx, seeder, created[name].ID); err != nil {
			log.Fatalf("Failed to derive stats for %q: %v", name, err)
		}
	}

	logger.Info("seed complete", "folders", len(created), "documents", len(docs))
}
