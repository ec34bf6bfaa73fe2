//go:build !cli
// +build !cli

package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"protrack.GO/api"
	_ "protrack.GO/api/graphql"
	_ "protrack.GO/api/iar"
	_ "protrack.GO/api/po"
	_ "protrack.GO/api/report"
	"protrack.GO/config"
	_ "protrack.GO/custom"
	repo "protrack.GO/model/repository/procurement"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()

	config.InitRedis()
	redisStatus := "Redis not configured, summary caching falls back to in-memory."
	if config.RedisClient != nil {
		err := config.RedisClient.Ping(config.RedisCtx()).Err()
		if err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil // Disable Redis if not reachable
			redisStatus = "Redis configured but not reachable, falling back to in-memory cache."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	// Check DB connection
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	// Fail fast when the inspection schema is missing: every IAR commit
	// would 500 anyway, so surface the remediation at startup.
	iarRepo, err := repo.NewIARRepository(db)
	if err != nil {
		log.Fatalf("repository init failed: %v", err)
	}
	if !iarRepo.HasSchema() {
		log.Fatal("inspection_records table is missing; run `protrack db:migrate` and restart")
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	if config.AppConfig.Metrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	apiGroup := e.Group("/api")
	api.ApplyModules(apiGroup, db)
	api.ApplyRoutes(e, db)

	// ASCII banner on start (random font each run)
	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}
	fig := figure.NewFigure("ProTrack ->", fonts[rand.Intn(len(fonts))], true)
	fig.Print()
	fmt.Println("Procurement tracking service")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
