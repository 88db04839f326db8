package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/staffeo/camareros-api-go/pkg/ai"
	"github.com/staffeo/camareros-api-go/pkg/auth"
	"github.com/staffeo/camareros-api-go/pkg/config"
	"github.com/staffeo/camareros-api-go/pkg/database"
	"github.com/staffeo/camareros-api-go/pkg/handlers"
	"github.com/staffeo/camareros-api-go/pkg/notify"
	"github.com/staffeo/camareros-api-go/pkg/suggest"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := config.FromEnv()

	// No log files in the serverless filesystem; stdout only.
	logger, _ := zap.NewProduction()

	db := database.InitDB(cfg)
	_ = auth.EnsureAdminExists(db, cfg)

	var ranker suggest.Ranker
	if cfg.OpenRouterAPIKey != "" {
		ranker = suggest.NewLLMRanker(ai.NewClient(ai.Config{
			APIKey: cfg.OpenRouterAPIKey,
			Model:  cfg.OpenRouterModel,
			Logger: logger,
		}), logger)
	} else {
		ranker = suggest.NewRuleScorer(logger)
	}

	svc := suggest.NewService(db, suggest.NewFilter(cfg.RestHours), ranker, notify.New(db, logger, cfg), logger)
	h := handlers.NewHandler(db, logger, svc)

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	handlers.Register(r, h)
}

// Handler is the serverless entrypoint
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
