package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api"
	"github.com/Lumen-Displays-LLC/beacon/internal/http/api/admin/packets"
	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

type PlaylistController struct {
	store db.Store
}

func newPlaylistController(store db.Store) *PlaylistController {
	return &PlaylistController{store: store}
}

// PlaylistModule mounts all authenticated /playlists endpoints.
func PlaylistModule(store db.Store) api.Module {
	ctl := newPlaylistController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/playlists", ctl.listPlaylists)
		c.POST("/playlists", ctl.createPlaylist)
		c.GET("/playlists/:id", ctl.getPlaylist)
		c.PUT("/playlists/:id", ctl.updatePlaylist)
		c.DELETE("/playlists/:id", ctl.deletePlaylist)

		c.POST("/playlists/:id/items", ctl.addItem)
		c.PUT("/playlists/:id/items/:item_id", ctl.updateItem)
		c.DELETE("/playlists/:id/items/:item_id", ctl.removeItem)
		c.PUT("/playlists/:id/items", ctl.reorderItems)

		c.PUT("/playlists/:id/schedules", ctl.replaceSchedules)
	})
}

func mapPlaylist(pl model.Playlist) packets.PlaylistResponse {
	items := make([]packets.PlaylistItemResponse, len(pl.Items))
	for i, it := range pl.Items {
		items[i] = packets.PlaylistItemResponse{
			ID:       it.ID,
			MediaID:  it.MediaID,
			Position: it.Position,
			Duration: it.Duration,
			Kind:     it.Kind,
		}
	}

	schedules := make([]packets.ScheduleResponse, len(pl.Schedules))
	for i, s := range pl.Schedules {
		schedules[i] = packets.ScheduleResponse{
			ID:         s.ID,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			DaysOfWeek: s.DaysOfWeek,
			StartDate:  s.StartDate,
			EndDate:    s.EndDate,
		}
	}

	return packets.PlaylistResponse{
		ID:              pl.ID,
		Name:            pl.Name,
		Priority:        pl.Priority,
		IsActive:        pl.IsActive,
		Tags:            pl.Tags,
		Items:           items,
		Schedules:       schedules,
		AssignedDevices: pl.AssignedDevices,
		LastUpdated:     pl.LastUpdated.Format(time.RFC3339),
		CreatedAt:       pl.CreatedAt.Format(time.RFC3339),
	}
}

// ownedPlaylist parses :id, loads the playlist and enforces ownership.
func (p *PlaylistController) ownedPlaylist(ctx *gin.Context, user *model.User) (model.Playlist, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return model.Playlist{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	pl, err := p.store.GetPlaylistByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Playlist{}, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
		}
		return model.Playlist{}, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load playlist"}
	}
	if pl.UserID != user.ID {
		return model.Playlist{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return pl, nil
}

func (p *PlaylistController) touched(playlistID int) {
	if err := p.store.TouchPlaylist(playlistID); err != nil {
		log.Warn().Err(err).Int("playlist_id", playlistID).Msg("[playlist] could not bump timestamp")
	}
	invalidatePlaylistETag(playlistID)
}

// GET /api/admin/playlists
func (p *PlaylistController) listPlaylists(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := p.store.ListPlaylistsForUser(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] list: could not list playlists")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list playlists"}
	}

	out := make([]packets.PlaylistResponse, len(all))
	for i, pl := range all {
		out[i] = mapPlaylist(pl)
	}
	return out, nil
}

// POST /api/admin/playlists
func (p *PlaylistController) createPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	priority := 1
	if req.Priority != nil {
		priority = *req.Priority
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	pl, err := p.store.CreatePlaylist(user.ID, req.Name, priority, isActive, req.Tags)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] create: could not create playlist")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create playlist"}
	}

	for _, item := range req.Items {
		if _, err := p.store.AddItemToPlaylist(pl.ID, item.MediaID, item.Position, item.Duration, item.Kind); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add playlist item"}
		}
	}
	if len(req.Schedules) > 0 {
		if err := p.store.ReplacePlaylistSchedules(pl.ID, toSchedules(pl.ID, req.Schedules)); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save schedules"}
		}
	}

	full, err := p.store.GetPlaylistByID(pl.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload playlist"}
	}
	return mapPlaylist(full), nil
}

func toSchedules(playlistID int, payloads []packets.SchedulePayload) []model.Schedule {
	out := make([]model.Schedule, len(payloads))
	for i, s := range payloads {
		out[i] = model.Schedule{
			PlaylistID: playlistID,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			DaysOfWeek: s.DaysOfWeek,
			StartDate:  s.StartDate,
			EndDate:    s.EndDate,
		}
	}
	return out
}

// GET /api/admin/playlists/:id
func (p *PlaylistController) getPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return mapPlaylist(pl), nil
}

// PUT /api/admin/playlists/:id
func (p *PlaylistController) updatePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.UpdatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.UpdatePlaylist(pl.ID, req.Name, req.Priority, req.IsActive, req.Tags); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update playlist"}
	}
	invalidatePlaylistETag(pl.ID)

	full, err := p.store.GetPlaylistByID(pl.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload playlist"}
	}
	return mapPlaylist(full), nil
}

// DELETE /api/admin/playlists/:id
func (p *PlaylistController) deletePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := p.store.DeletePlaylist(pl.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete playlist"}
	}
	invalidatePlaylistETag(pl.ID)
	return gin.H{"deleted": pl.ID}, nil
}

// POST /api/admin/playlists/:id/items
func (p *PlaylistController) addItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.AddPlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	item, err := p.store.AddItemToPlaylist(pl.ID, req.MediaID, req.Position, req.Duration, req.Kind)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add item"}
	}
	p.touched(pl.ID)

	return packets.PlaylistItemResponse{
		ID:       item.ID,
		MediaID:  item.MediaID,
		Position: item.Position,
		Duration: item.Duration,
		Kind:     item.Kind,
	}, nil
}

// PUT /api/admin/playlists/:id/items/:item_id
func (p *PlaylistController) updateItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	itemID, err := strconv.Atoi(ctx.Param("item_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}

	var req packets.UpdatePlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.UpdatePlaylistItem(itemID, req.Position, req.Duration); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update item"}
	}
	p.touched(pl.ID)
	return gin.H{"updated": itemID}, nil
}

// DELETE /api/admin/playlists/:id/items/:item_id
func (p *PlaylistController) removeItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	itemID, err := strconv.Atoi(ctx.Param("item_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}

	if err := p.store.RemovePlaylistItem(itemID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not remove item"}
	}
	p.touched(pl.ID)
	return gin.H{"removed": itemID}, nil
}

// PUT /api/admin/playlists/:id/items
func (p *PlaylistController) reorderItems(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.ReorderItemsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.ReorderPlaylistItems(pl.ID, req.ItemIDs); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reorder items"}
	}
	p.touched(pl.ID)

	full, err := p.store.GetPlaylistByID(pl.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload playlist"}
	}
	return mapPlaylist(full), nil
}

// PUT /api/admin/playlists/:id/schedules
//
// Replaces the playlist's full schedule list.
func (p *PlaylistController) replaceSchedules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pl, apiErr := p.ownedPlaylist(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var req packets.ReplaceSchedulesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := p.store.ReplacePlaylistSchedules(pl.ID, toSchedules(pl.ID, req.Schedules)); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save schedules"}
	}
	p.touched(pl.ID)

	full, err := p.store.GetPlaylistByID(pl.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload playlist"}
	}
	return mapPlaylist(full), nil
}
