package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api"
	adminapi "github.com/Lumen-Displays-LLC/beacon/internal/http/api/admin/endpoints"
	playerapi "github.com/Lumen-Displays-LLC/beacon/internal/http/api/player/endpoints"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/middleware"
	"github.com/Lumen-Displays-LLC/beacon/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, storageSystem storage.Storage) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"If-None-Match",
			"X-If-None-Match",
			"X-Device-Token",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.AuthSessionModule(env.SecretKey, store),
		adminapi.DeviceModule(store),
		adminapi.PlaylistModule(store),
		adminapi.MediaModule(store, storageSystem),
	)

	// Device endpoints. Pairing is public; everything after requires a
	// provisioned device token.
	player := r.Group("/api/player")
	playerapi.RegisterPairingRoutes(player, store)

	device := player.Group("")
	device.Use(middleware.DeviceTokenMiddleware(store))
	playerapi.RegisterPlayerRoutes(device, store)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
