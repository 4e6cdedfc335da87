package endpoints

import (
	"database/sql"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api/player/packets"
	"github.com/Lumen-Displays-LLC/beacon/internal/redis"
)

type PairingController struct {
	store db.Store
}

func NewPairingController(store db.Store) *PairingController {
	return &PairingController{store: store}
}

// RegisterPairingRoutes mounts the public device-onboarding endpoints.
func RegisterPairingRoutes(r gin.IRoutes, store db.Store) {
	ctl := NewPairingController(store)

	r.POST("/displays/code", ctl.generateCode)
	r.POST("/displays/pair", ctl.pairDevice)
}

// unambiguous charset: no 0/O, 1/I
const pairingCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const pairingCodeTTL = 5 * time.Minute
const maxCodeAttempts = 10

func generatePairingCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = pairingCharset[rand.Intn(len(pairingCharset))]
	}
	return string(b)
}

// POST /api/player/displays/code
//
// An unclaimed device calls this on first boot to obtain the pairing code it
// shows on screen. The code is unique across live devices; redis mirrors it
// with a TTL for the pair lookup, the database row is the source of truth.
func (p *PairingController) generateCode(c *gin.Context) {
	var code string
	for attempt := 0; ; attempt++ {
		code = generatePairingCode()
		_, err := p.store.GetDeviceByPairingCode(code)
		if errors.Is(err, sql.ErrNoRows) {
			break
		}
		if err != nil {
			log.Error().Err(err).Msg("[pairing] code uniqueness check failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate pairing code"})
			return
		}
		if attempt >= maxCodeAttempts {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate unique pairing code"})
			return
		}
	}

	device, err := p.store.CreateUnclaimedDevice(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register device"})
		return
	}

	redis.Set(c, "pairing:"+code, device.ID, pairingCodeTTL)
	log.Info().Int("device_id", device.ID).Msg("[pairing] issued pairing code")

	c.JSON(http.StatusOK, packets.GenerateCodeResponse{PairingCode: code})
}

// POST /api/player/displays/pair
//
// The device polls with its pairing code until an admin claims it. The first
// call after the claim issues the permanent token; later calls return the
// same token, never a new one.
func (p *PairingController) pairDevice(c *gin.Context) {
	var request packets.PairRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := p.store.GetDeviceByPairingCode(request.PairingCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid pairing code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not look up pairing code"})
		return
	}

	if device.UserID == nil {
		c.JSON(http.StatusAccepted, packets.PairPendingResponse{Message: "waiting for user to claim device"})
		return
	}

	// already paired: hand the existing token back
	if device.DeviceToken != nil {
		c.JSON(http.StatusOK, packets.PairResponse{DeviceToken: *device.DeviceToken, UserID: *device.UserID})
		return
	}

	token := uuid.NewString()
	if err := p.store.IssueDeviceToken(device.ID, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue device token"})
		return
	}

	// re-read: a concurrent pair call may have won the issue race
	device, err = p.store.GetDeviceByPairingCode(request.PairingCode)
	if err != nil || device.DeviceToken == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue device token"})
		return
	}

	redis.Del(c, "pairing:"+request.PairingCode)
	log.Info().Int("device_id", device.ID).Msg("[pairing] device paired")

	c.JSON(http.StatusOK, packets.PairResponse{DeviceToken: *device.DeviceToken, UserID: *device.UserID})
}
