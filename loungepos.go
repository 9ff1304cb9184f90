//go:build !cli

package main

import (
	"log"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/skandal1st/loungepos/api"
	_ "github.com/skandal1st/loungepos/api/catalog"
	_ "github.com/skandal1st/loungepos/api/floor"
	_ "github.com/skandal1st/loungepos/api/order"
	_ "github.com/skandal1st/loungepos/api/register"
	_ "github.com/skandal1st/loungepos/api/report"
	_ "github.com/skandal1st/loungepos/api/session"
	_ "github.com/skandal1st/loungepos/api/stock"
	"github.com/skandal1st/loungepos/config"
	"github.com/skandal1st/loungepos/core/auth"
	"github.com/skandal1st/loungepos/core/quota"
	_ "github.com/skandal1st/loungepos/custom"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	if config.AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Redis
	config.InitRedis()
	redisStatus := "Redis not configured or not reachable, caching disabled."
	if config.RedisClient != nil {
		err := config.RedisClient.Ping(config.RedisCtx()).Err()
		if err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil // Disable Redis if not reachable
			redisStatus = "Redis configured but not reachable, caching disabled."
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

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok"})
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	apiGroup.Use(quota.Middleware(db))
	api.ApplyModules(apiGroup, db)
	api.ApplyRoutes(e, db)

	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
