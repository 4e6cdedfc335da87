package endpoints

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api/admin/packets"
	"github.com/Lumen-Displays-LLC/beacon/internal/model"
	"github.com/Lumen-Displays-LLC/beacon/internal/redis"
)

type DeviceController struct {
	store db.Store
}

func newDeviceController(store db.Store) *DeviceController {
	return &DeviceController{store: store}
}

// DeviceModule mounts all authenticated /devices endpoints.
func DeviceModule(store db.Store) api.Module {
	ctl := newDeviceController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/devices/claim", ctl.claimDevice)
		c.GET("/devices", ctl.listDevices)
		c.GET("/devices/sync-status", ctl.getSyncStatus)
		c.PUT("/devices/:token/name", ctl.setDeviceName)
		c.POST("/devices/:token/playlists", ctl.handleDevicePlaylist)
	})
}

func mapDevice(d model.Device) packets.DeviceResponse {
	resp := packets.DeviceResponse{
		ID:             d.ID,
		Name:           d.Name,
		PairingCode:    d.PairingCode,
		DeviceToken:    d.DeviceToken,
		PlaylistID:     d.PlaylistID,
		AppVersion:     d.AppVersion,
		Status:         d.Status,
		DownloadStatus: d.DownloadStatus,
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
	}
	if d.LastHeartbeat != nil {
		hb := d.LastHeartbeat.Format(time.RFC3339)
		resp.LastHeartbeat = &hb
	}
	return resp
}

// invalidatePlaylistETag drops the cached config ETag so polling devices see
// the mutation on their next request.
func invalidatePlaylistETag(playlistID int) {
	redis.Del(context.Background(), fmt.Sprintf("playlist:%d:etag", playlistID))
}

// ownedDevice loads a device by token and enforces ownership.
func (d *DeviceController) ownedDevice(token string, user *model.User) (model.Device, *api.APIError) {
	device, err := d.store.GetDeviceByToken(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Device{}, &api.APIError{Code: http.StatusNotFound, Message: "device not found"}
		}
		return model.Device{}, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load device"}
	}
	if device.UserID == nil || *device.UserID != user.ID {
		return model.Device{}, &api.APIError{Code: http.StatusForbidden, Message: "not authorized to manage this device"}
	}
	return device, nil
}

// POST /api/admin/devices/claim
//
// Binds an unclaimed device to the calling user. A pairing code already bound
// to a user is a conflict; claims are single-use.
func (d *DeviceController) claimDevice(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ClaimDeviceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	device, err := d.store.GetDeviceByPairingCode(request.PairingCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "invalid pairing code"}
		}
		log.Error().Err(err).Msg("[devices] claim: lookup failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not look up pairing code"}
	}

	if device.UserID != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "device already claimed"}
	}

	if err := d.store.ClaimDevice(device.ID, user.ID); err != nil {
		if errors.Is(err, db.ErrAlreadyClaimed) {
			return nil, &api.APIError{Code: http.StatusConflict, Message: "device already claimed"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not claim device"}
	}

	device, err = d.store.GetDeviceByPairingCode(request.PairingCode)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload device"}
	}
	log.Info().Int("device_id", device.ID).Int("user_id", user.ID).Msg("[devices] device claimed")
	return mapDevice(device), nil
}

// GET /api/admin/devices
func (d *DeviceController) listDevices(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	devices, err := d.store.ListDevicesForUser(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list devices"}
	}
	out := make([]packets.DeviceResponse, len(devices))
	for i, dev := range devices {
		out[i] = mapDevice(dev)
	}
	return out, nil
}

// GET /api/admin/devices/sync-status?playlist_id=
//
// Download state of every owned device whose legacy pointer is the playlist.
func (d *DeviceController) getSyncStatus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var query packets.SyncStatusQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	devices, err := d.store.ListDevicesForUserAndPlaylist(user.ID, query.PlaylistID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load sync status"}
	}

	out := make([]packets.SyncStatusEntry, len(devices))
	for i, dev := range devices {
		entry := packets.SyncStatusEntry{
			DeviceToken:    dev.DeviceToken,
			DownloadStatus: dev.DownloadStatus,
		}
		if dev.LastHeartbeat != nil {
			hb := dev.LastHeartbeat.Format(time.RFC3339)
			entry.LastHeartbeat = &hb
		}
		out[i] = entry
	}
	return gin.H{"devices": out}, nil
}

// PUT /api/admin/devices/:token/name
func (d *DeviceController) setDeviceName(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := d.ownedDevice(ctx.Param("token"), user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.SetDeviceNameRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := d.store.SetDeviceName(device.ID, request.Name); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not rename device"}
	}
	device.Name = &request.Name
	return mapDevice(device), nil
}

// POST /api/admin/devices/:token/playlists
//
// Adds or removes a playlist on a device. The playlist's assigned-device set
// and the device's legacy pointer are mutated together so the two assignment
// channels stay consistent.
func (d *DeviceController) handleDevicePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := d.ownedDevice(ctx.Param("token"), user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.DevicePlaylistRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	playlist, err := d.store.GetPlaylistByID(request.PlaylistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load playlist"}
	}
	if playlist.UserID != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "not authorized to manage this playlist"}
	}
	if device.DeviceToken == nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "device has not completed pairing"}
	}

	switch request.Action {
	case "add":
		if err := d.store.AssignDeviceToPlaylist(playlist.ID, *device.DeviceToken); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not assign playlist"}
		}
		if err := d.store.SetDevicePlaylist(device.ID, &playlist.ID, model.DownloadInProgress); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update device"}
		}
	case "remove":
		if err := d.store.UnassignDeviceFromPlaylist(playlist.ID, *device.DeviceToken); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not unassign playlist"}
		}
		if err := d.store.SetDevicePlaylist(device.ID, nil, model.DownloadUnknown); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update device"}
		}
	}

	if err := d.store.TouchPlaylist(playlist.ID); err != nil {
		log.Warn().Err(err).Int("playlist_id", playlist.ID).Msg("[devices] could not bump playlist timestamp")
	}
	invalidatePlaylistETag(playlist.ID)

	device, err = d.store.GetDeviceByToken(*device.DeviceToken)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload device"}
	}
	return mapDevice(device), nil
}
