package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/staffeo/camareros-api-go/pkg/ai"
	"github.com/staffeo/camareros-api-go/pkg/auth"
	"github.com/staffeo/camareros-api-go/pkg/config"
	"github.com/staffeo/camareros-api-go/pkg/database"
	"github.com/staffeo/camareros-api-go/pkg/handlers"
	"github.com/staffeo/camareros-api-go/pkg/logging"
	"github.com/staffeo/camareros-api-go/pkg/notify"
	"github.com/staffeo/camareros-api-go/pkg/suggest"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.FromEnv()

	logger, err := logging.InitLogger(os.Getenv("LOG_DIR"))
	if err != nil {
		log.Fatalf("could not init logger: %v", err)
	}
	defer logger.Sync()

	db := database.InitDB(cfg)
	_ = auth.EnsureAdminExists(db, cfg)

	// Ranking delegate: LLM when configured, deterministic rule
	// scorer otherwise.
	var ranker suggest.Ranker
	if cfg.OpenRouterAPIKey != "" {
		client := ai.NewClient(ai.Config{
			APIKey: cfg.OpenRouterAPIKey,
			Model:  cfg.OpenRouterModel,
			Logger: logger,
		})
		ranker = suggest.NewLLMRanker(client, logger)
		logger.Info("using LLM ranking delegate", zap.String("model", cfg.OpenRouterModel))
	} else {
		ranker = suggest.NewRuleScorer(logger)
		logger.Info("using deterministic rule scorer")
	}

	notifier := notify.New(db, logger, cfg)
	svc := suggest.NewService(db, suggest.NewFilter(cfg.RestHours), ranker, notifier, logger)
	h := handlers.NewHandler(db, logger, svc)

	r := gin.Default()
	handlers.Register(r, h)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
