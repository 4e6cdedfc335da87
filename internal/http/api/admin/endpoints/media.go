package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api/admin/packets"
	"github.com/Lumen-Displays-LLC/beacon/internal/model"
	"github.com/Lumen-Displays-LLC/beacon/internal/storage"
)

type MediaController struct {
	store         db.Store
	storageSystem storage.Storage
}

// MediaModule mounts all authenticated /media endpoints.
func MediaModule(store db.Store, storageSystem storage.Storage) api.Module {
	ctl := &MediaController{store: store, storageSystem: storageSystem}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/media", ctl.uploadMedia)
		c.GET("/media", ctl.listMedia)
		c.PUT("/media/:id/tags", ctl.updateTags)
		c.DELETE("/media/:id", ctl.deleteMedia)
	})
}

func mapMedia(m model.MediaAsset) packets.MediaResponse {
	return packets.MediaResponse{
		ID:               m.ID,
		FileURL:          m.FileURL,
		Kind:             m.Kind,
		Duration:         m.Duration,
		OriginalFilename: m.OriginalFilename,
		Tags:             m.Tags,
		UploadedAt:       m.UploadedAt.Format(time.RFC3339),
	}
}

// POST /api/admin/media
//
// Multipart upload. Optional form fields: duration (seconds, videos usually
// carry their real length), tags (comma separated).
func (m *MediaController) uploadMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing file"}
	}

	duration := 0
	if raw := ctx.PostForm("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration < 0 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid duration"}
		}
	}

	var tags []string
	if raw := ctx.PostForm("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	fileURL, err := m.storageSystem.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("[media] upload: could not save file")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	kind := storage.KindFromFilename(fileHeader.Filename)

	asset, err := m.store.CreateMediaAsset(user.ID, fileURL, kind, duration, fileHeader.Filename, tags)
	if err != nil {
		log.Error().Err(err).Msg("[media] upload: could not create asset record")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create media asset"}
	}
	return mapMedia(asset), nil
}

// GET /api/admin/media
func (m *MediaController) listMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := m.store.ListMediaForUser(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[media] list: could not list media")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list media"}
	}

	out := make([]packets.MediaResponse, len(all))
	for i, asset := range all {
		out[i] = mapMedia(asset)
	}
	return out, nil
}

func (m *MediaController) ownedMedia(ctx *gin.Context, user *model.User) (model.MediaAsset, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.MediaAsset{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	asset, err := m.store.GetMediaByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MediaAsset{}, &api.APIError{Code: http.StatusNotFound, Message: "media not found"}
		}
		return model.MediaAsset{}, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load media"}
	}
	if asset.UserID != user.ID {
		return model.MediaAsset{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return asset, nil
}

// PUT /api/admin/media/:id/tags
func (m *MediaController) updateTags(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	asset, apiErr := m.ownedMedia(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdateMediaTagsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := m.store.UpdateMediaTags(asset.ID, req.Tags); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update tags"}
	}

	asset.Tags = req.Tags
	return mapMedia(asset), nil
}

// DELETE /api/admin/media/:id
//
// Only removes the catalog row. Playlist items referencing the asset are left
// in place; the player config degrades those entries instead of failing. The
// degraded config is a different config, so every referencing playlist is
// bumped and its cached ETag dropped, or polling devices would keep getting
// 304s for a sequence that still names the asset.
func (m *MediaController) deleteMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	asset, apiErr := m.ownedMedia(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	playlistIDs, err := m.store.ListPlaylistIDsForMedia(asset.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load referencing playlists"}
	}

	if err := m.store.DeleteMediaAsset(asset.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete media"}
	}

	for _, playlistID := range playlistIDs {
		if err := m.store.TouchPlaylist(playlistID); err != nil {
			log.Warn().Err(err).Int("playlist_id", playlistID).Msg("[media] could not bump playlist timestamp")
		}
		invalidatePlaylistETag(playlistID)
	}
	return gin.H{"deleted": asset.ID}, nil
}
