package endpoints

import (
	"database/sql"
	"sort"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

// fakeStore implements the slice of db.Store the admin endpoints touch;
// anything else panics through the embedded nil interface.
type fakeStore struct {
	db.Store

	devices   map[int]*model.Device
	playlists map[int]*model.Playlist
	media     map[int]model.MediaAsset
	claimErr  error // forced ClaimDevice result, for racing claims
	touched   []int // playlist ids bumped via TouchPlaylist
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		devices:   make(map[int]*model.Device),
		playlists: make(map[int]*model.Playlist),
		media:     make(map[int]model.MediaAsset),
	}
}

func (f *fakeStore) addDevice(d model.Device) *model.Device {
	f.devices[d.ID] = &d
	return f.devices[d.ID]
}

func (f *fakeStore) addPlaylist(pl model.Playlist) *model.Playlist {
	f.playlists[pl.ID] = &pl
	return f.playlists[pl.ID]
}

func (f *fakeStore) GetDeviceByPairingCode(code string) (model.Device, error) {
	for _, d := range f.devices {
		if d.PairingCode == code {
			return *d, nil
		}
	}
	return model.Device{}, sql.ErrNoRows
}

func (f *fakeStore) GetDeviceByToken(token string) (model.Device, error) {
	for _, d := range f.devices {
		if d.DeviceToken != nil && *d.DeviceToken == token {
			return *d, nil
		}
	}
	return model.Device{}, sql.ErrNoRows
}

func (f *fakeStore) ClaimDevice(deviceID, userID int) error {
	if f.claimErr != nil {
		return f.claimErr
	}
	d := f.devices[deviceID]
	if d.UserID != nil {
		return db.ErrAlreadyClaimed
	}
	d.UserID = &userID
	d.Status = model.DeviceStatusPaired
	return nil
}

func (f *fakeStore) ListDevicesForUser(userID int) ([]model.Device, error) {
	var out []model.Device
	for _, d := range f.devices {
		if d.UserID != nil && *d.UserID == userID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListDevicesForUserAndPlaylist(userID, playlistID int) ([]model.Device, error) {
	var out []model.Device
	for _, d := range f.devices {
		if d.UserID != nil && *d.UserID == userID && d.PlaylistID != nil && *d.PlaylistID == playlistID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) SetDeviceName(deviceID int, name string) error {
	f.devices[deviceID].Name = &name
	return nil
}

func (f *fakeStore) SetDevicePlaylist(deviceID int, playlistID *int, downloadStatus string) error {
	d := f.devices[deviceID]
	d.PlaylistID = playlistID
	d.DownloadStatus = downloadStatus
	return nil
}

func (f *fakeStore) GetPlaylistByID(id int) (model.Playlist, error) {
	pl, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, sql.ErrNoRows
	}
	return *pl, nil
}

func (f *fakeStore) TouchPlaylist(id int) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeStore) AssignDeviceToPlaylist(playlistID int, deviceToken string) error {
	pl := f.playlists[playlistID]
	for _, tok := range pl.AssignedDevices {
		if tok == deviceToken {
			return nil
		}
	}
	pl.AssignedDevices = append(pl.AssignedDevices, deviceToken)
	return nil
}

func (f *fakeStore) UnassignDeviceFromPlaylist(playlistID int, deviceToken string) error {
	pl := f.playlists[playlistID]
	out := pl.AssignedDevices[:0]
	for _, tok := range pl.AssignedDevices {
		if tok != deviceToken {
			out = append(out, tok)
		}
	}
	pl.AssignedDevices = out
	return nil
}

func (f *fakeStore) ReplacePlaylistSchedules(playlistID int, schedules []model.Schedule) error {
	f.playlists[playlistID].Schedules = schedules
	return nil
}

func (f *fakeStore) ListPlaylistsForUser(userID int) ([]model.Playlist, error) {
	var out []model.Playlist
	for _, pl := range f.playlists {
		if pl.UserID == userID {
			out = append(out, *pl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdatePlaylist(id int, name *string, priority *int, isActive *bool, tags []string) error {
	pl := f.playlists[id]
	if name != nil {
		pl.Name = *name
	}
	if priority != nil {
		pl.Priority = *priority
	}
	if isActive != nil {
		pl.IsActive = *isActive
	}
	if tags != nil {
		pl.Tags = tags
	}
	return nil
}

func (f *fakeStore) DeletePlaylist(id int) error {
	delete(f.playlists, id)
	return nil
}

func (f *fakeStore) AddItemToPlaylist(playlistID, mediaID, position int, duration *int, kind *string) (model.PlaylistItem, error) {
	pl := f.playlists[playlistID]
	item := model.PlaylistItem{
		ID:         len(pl.Items) + 1,
		PlaylistID: playlistID,
		MediaID:    mediaID,
		Position:   position,
		Duration:   duration,
		Kind:       kind,
	}
	pl.Items = append(pl.Items, item)
	return item, nil
}

func (f *fakeStore) RemovePlaylistItem(itemID int) error {
	for _, pl := range f.playlists {
		out := pl.Items[:0]
		for _, it := range pl.Items {
			if it.ID != itemID {
				out = append(out, it)
			}
		}
		pl.Items = out
	}
	return nil
}

func (f *fakeStore) ReorderPlaylistItems(playlistID int, itemIDs []int) error {
	pl := f.playlists[playlistID]
	pos := make(map[int]int, len(itemIDs))
	for i, id := range itemIDs {
		pos[id] = i
	}
	for i := range pl.Items {
		if p, ok := pos[pl.Items[i].ID]; ok {
			pl.Items[i].Position = p
		}
	}
	return nil
}

func (f *fakeStore) GetMediaByID(id int) (model.MediaAsset, error) {
	m, ok := f.media[id]
	if !ok {
		return model.MediaAsset{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeStore) ListPlaylistIDsForMedia(mediaID int) ([]int, error) {
	var ids []int
	for _, pl := range f.playlists {
		for _, it := range pl.Items {
			if it.MediaID == mediaID {
				ids = append(ids, pl.ID)
				break
			}
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (f *fakeStore) DeleteMediaAsset(id int) error {
	delete(f.media, id)
	return nil
}
