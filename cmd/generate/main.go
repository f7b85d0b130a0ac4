// Command generate runs the quiz pipeline once for a single article URL and
// prints the stored quiz as JSON. Useful for smoke testing a model or
// populating a fresh database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"wikiquiz/internal/adapter"
	"wikiquiz/internal/adapter/extractor"
	"wikiquiz/internal/adapter/quizgen"
	"wikiquiz/internal/cache"
	"wikiquiz/internal/config"
	"wikiquiz/internal/database"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/dto"
	"wikiquiz/internal/logger"
	"wikiquiz/internal/repository"
	"wikiquiz/internal/service"
	"wikiquiz/internal/validation"

	"go.uber.org/zap"
)

func main() {
	articleURL := flag.String("url", "", "Wikipedia article URL to generate a quiz from")
	numQuestions := flag.Int("n", 0, "number of questions (0 uses the configured default)")
	flag.Parse()

	if *articleURL == "" {
		fmt.Fprintln(os.Stderr, "usage: generate -url <wikipedia-article-url> [-n questions]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger might not be initialized yet, so use fmt for this critical error
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	llm, err := quizgen.NewLLMClient(cfg.LLM)
	if err != nil {
		logger.Get().Fatal("Failed to create LLM client", zap.Error(err))
	}

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		logger.Get().Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	quizRepo := repository.NewQuizDatabaseAdapter(db)

	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Get().Fatal("Failed to initialize Redis Client", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		logger.Get().Warn("Redis cache is not configured. Running without cache.")
	}

	validator := validation.NewValidator()
	quizService := service.NewQuizService(
		quizRepo,
		extractor.NewWikipediaExtractor(cfg.Extractor),
		quizgen.NewGenerator(llm, validator, cfg.LLM),
		quizgen.NewTopicsService(llm, validator, cfg.LLM),
		service.NewArticleCacheService(cacheAdapter, cfg.Cache.ArticleTTL),
		cfg,
	)

	resp, err := quizService.GenerateQuizFromURL(context.Background(), &dto.GenerateQuizRequest{
		URL:          *articleURL,
		NumQuestions: *numQuestions,
	})
	if err != nil {
		logger.Get().Fatal("Quiz generation failed", zap.String("url", *articleURL), zap.Error(err))
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		logger.Get().Fatal("Failed to encode quiz", zap.Error(err))
	}
	fmt.Println(string(out))
}
