package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/redis"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	env := LoadEnvironment()

	if env.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Init(env.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	if err := db.RunMigrations(conn, env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	store := db.NewStore(conn)
	storageSystem := InitStorage(env)

	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem)

	if env.MetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info().Str("address", env.MetricsAddress).Msg("metrics listener started")
			if err := http.ListenAndServe(env.MetricsAddress, mux); err != nil {
				log.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	log.Info().Str("address", env.ServerAddress).Msg("server listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
