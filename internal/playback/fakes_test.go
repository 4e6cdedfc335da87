package playback

import (
	"database/sql"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

// in-memory stand-ins for db.Store, implementing just the slices the engine
// consumes

type fakePlaylistSource struct {
	byID     map[int]model.Playlist
	assigned map[string][]int // device token -> playlist ids, in "store order"
	err      error
}

func newFakePlaylistSource() *fakePlaylistSource {
	return &fakePlaylistSource{
		byID:     make(map[int]model.Playlist),
		assigned: make(map[string][]int),
	}
}

func (f *fakePlaylistSource) add(p model.Playlist, tokens ...string) {
	f.byID[p.ID] = p
	for _, tok := range tokens {
		f.assigned[tok] = append(f.assigned[tok], p.ID)
	}
}

func (f *fakePlaylistSource) FindActivePlaylistsForDevice(deviceToken string) ([]model.Playlist, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Playlist
	for _, id := range f.assigned[deviceToken] {
		p, ok := f.byID[id]
		if !ok || !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePlaylistSource) GetPlaylistByID(id int) (model.Playlist, error) {
	if f.err != nil {
		return model.Playlist{}, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return model.Playlist{}, sql.ErrNoRows
	}
	return p, nil
}

type fakeCatalog struct {
	assets map[int]model.MediaAsset
	calls  int
	err    error
}

func newFakeCatalog(assets ...model.MediaAsset) *fakeCatalog {
	f := &fakeCatalog{assets: make(map[int]model.MediaAsset)}
	for _, a := range assets {
		f.assets[a.ID] = a
	}
	return f
}

func (f *fakeCatalog) FindMediaByIDs(ids []int) ([]model.MediaAsset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []model.MediaAsset
	for _, id := range ids {
		if a, ok := f.assets[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// shared test helpers

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func schedule(start, end string, days ...int64) model.Schedule {
	return model.Schedule{StartTime: start, EndTime: end, DaysOfWeek: days}
}
