package endpoints

import (
	"database/sql"

	"github.com/Lumen-Displays-LLC/beacon/internal/db"
	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

// fakeStore implements the handful of db.Store methods the device endpoints
// touch; anything else panics through the embedded nil interface.
type fakeStore struct {
	db.Store

	devices    map[int]*model.Device // by id
	playlists  map[int]model.Playlist
	media      map[int]model.MediaAsset
	assigned   map[string][]int // device token -> playlist ids
	nextID     int
	heartbeats []model.Device // snapshot of the device per recorded heartbeat
	lastStatus *string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		devices:   make(map[int]*model.Device),
		playlists: make(map[int]model.Playlist),
		media:     make(map[int]model.MediaAsset),
		assigned:  make(map[string][]int),
		nextID:    1,
	}
}

func (f *fakeStore) addDevice(d model.Device) *model.Device {
	if d.ID == 0 {
		d.ID = f.nextID
		f.nextID++
	}
	f.devices[d.ID] = &d
	return f.devices[d.ID]
}

func (f *fakeStore) CreateUnclaimedDevice(pairingCode string) (model.Device, error) {
	d := f.addDevice(model.Device{
		PairingCode:    pairingCode,
		Status:         model.DeviceStatusUnpaired,
		DownloadStatus: model.DownloadUnknown,
	})
	return *d, nil
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

func (f *fakeStore) IssueDeviceToken(deviceID int, token string) error {
	d := f.devices[deviceID]
	if d.DeviceToken == nil {
		d.DeviceToken = &token
	}
	return nil
}

func (f *fakeStore) RecordHeartbeat(token string, status, appVersion, downloadStatus *string) error {
	for _, d := range f.devices {
		if d.DeviceToken != nil && *d.DeviceToken == token {
			f.heartbeats = append(f.heartbeats, *d)
			f.lastStatus = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeStore) GetPlaylistByID(id int) (model.Playlist, error) {
	pl, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, sql.ErrNoRows
	}
	return pl, nil
}

func (f *fakeStore) FindActivePlaylistsForDevice(deviceToken string) ([]model.Playlist, error) {
	var out []model.Playlist
	for _, id := range f.assigned[deviceToken] {
		if pl, ok := f.playlists[id]; ok && pl.IsActive {
			out = append(out, pl)
		}
	}
	return out, nil
}

func (f *fakeStore) FindMediaByIDs(ids []int) ([]model.MediaAsset, error) {
	var out []model.MediaAsset
	for _, id := range ids {
		if a, ok := f.media[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}
