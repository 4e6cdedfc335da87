package endpoints

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api/player/packets"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/middleware"
	"github.com/Lumen-Displays-LLC/beacon/internal/metrics"
	"github.com/Lumen-Displays-LLC/beacon/internal/playback"
	redisclient "github.com/Lumen-Displays-LLC/beacon/internal/redis"
)

// cached config ETags expire on their own so a missed invalidation can only
// serve a stale 304 for so long
const etagCacheTTL = time.Hour

type PlayerController struct {
	store        db.Store
	resolver     *playback.Resolver
	materializer *playback.Materializer
	now          func() time.Time
}

func NewPlayerController(store db.Store) *PlayerController {
	return &PlayerController{
		store:        store,
		resolver:     playback.NewResolver(store),
		materializer: playback.NewMaterializer(store),
		now:          time.Now,
	}
}

// RegisterPlayerRoutes mounts the device-facing endpoints. The caller applies
// DeviceTokenMiddleware to the group first.
func RegisterPlayerRoutes(r gin.IRoutes, store db.Store) {
	ctl := NewPlayerController(store)

	r.GET("/config", ctl.getConfig)
	r.POST("/heartbeat", ctl.heartbeat)
}

// GET /api/player/config
//
// Resolves and materializes the device's current playlist. Having nothing to
// show is a 200 with an empty display_sequence, never an error. Supports
// conditional polling: a matching X-If-None-Match gets a 304.
func (p *PlayerController) getConfig(c *gin.Context) {
	device, ok := middleware.GetCurrentDevice(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device token is required"})
		return
	}

	pl, source, err := p.resolver.Resolve(*device, p.now())
	if err != nil {
		log.Error().Err(err).Int("device_id", device.ID).Msg("[player] playlist resolution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve playlist"})
		return
	}

	cfg, err := p.materializer.Materialize(pl)
	if err != nil {
		log.Error().Err(err).Int("device_id", device.ID).Msg("[player] materialization failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not materialize playlist"})
		return
	}
	metrics.Resolutions.WithLabelValues(source).Inc()

	etag := p.configETag(c, pl != nil, cfg)
	if etag != "" {
		if match := c.GetHeader("X-If-None-Match"); match == "" {
			if m := c.GetHeader("If-None-Match"); m != "" && m == etag {
				metrics.ConfigNotModified.Inc()
				c.Status(http.StatusNotModified)
				return
			}
		} else if match == etag {
			metrics.ConfigNotModified.Inc()
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
	}

	c.JSON(http.StatusOK, cfg)
}

// configETag hashes the materialized config; for resolved playlists the value
// is cached in redis so admin mutations can invalidate it.
func (p *PlayerController) configETag(c *gin.Context, resolved bool, cfg playback.PlayerConfig) string {
	var cacheKey string
	if resolved && cfg.PlaylistID != nil {
		cacheKey = fmt.Sprintf("playlist:%d:etag", *cfg.PlaylistID)
		if cached, ok := redisclient.Get(c, cacheKey); ok {
			return cached
		}
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	if cacheKey != "" {
		redisclient.Set(c, cacheKey, etag, etagCacheTTL)
	}
	return etag
}

// POST /api/player/heartbeat
func (p *PlayerController) heartbeat(c *gin.Context) {
	device, ok := middleware.GetCurrentDevice(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device token is required"})
		return
	}

	var request packets.HeartbeatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := p.store.RecordHeartbeat(*device.DeviceToken, request.Status, request.AppVersion, request.DownloadStatus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record heartbeat"})
		return
	}

	status := device.Status
	if request.Status != nil {
		status = *request.Status
	}
	metrics.Heartbeats.WithLabelValues(status).Inc()

	c.JSON(http.StatusOK, packets.HeartbeatResponse{Success: true})
}
