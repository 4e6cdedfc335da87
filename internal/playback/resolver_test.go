package playback

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

const testToken = "tok-1234"

func pairedDevice(legacy *int) model.Device {
	return model.Device{
		ID:          1,
		DeviceToken: strPtr(testToken),
		PlaylistID:  legacy,
		Status:      model.DeviceStatusPaired,
	}
}

func TestResolvePicksHighestPriority(t *testing.T) {
	src := newFakePlaylistSource()
	src.add(model.Playlist{
		ID: 1, Priority: 5, IsActive: true,
		Schedules: []model.Schedule{schedule("00:00", "23:59")},
	}, testToken)
	src.add(model.Playlist{
		ID: 2, Priority: 9, IsActive: true,
		Schedules: []model.Schedule{schedule("00:00", "23:59")},
	}, testToken)

	r := NewResolver(src)
	pl, source, err := r.Resolve(pairedDevice(nil), tuesdayMorning)
	assert.NoError(t, err)
	assert.Equal(t, SourceSchedule, source)
	assert.Equal(t, 9, pl.Priority)

	// same playlists seen in the opposite store order
	reversed := newFakePlaylistSource()
	reversed.add(src.byID[2], testToken)
	reversed.add(src.byID[1], testToken)
	pl2, _, err := NewResolver(reversed).Resolve(pairedDevice(nil), tuesdayMorning)
	assert.NoError(t, err)
	assert.Equal(t, pl.ID, pl2.ID, "winner must not depend on iteration order")
}

func TestResolvePriorityTieBreak(t *testing.T) {
	src := newFakePlaylistSource()
	always := []model.Schedule{schedule("00:00", "23:59")}
	src.add(model.Playlist{ID: 7, Priority: 5, IsActive: true, Schedules: always}, testToken)
	src.add(model.Playlist{ID: 3, Priority: 5, IsActive: true, Schedules: always}, testToken)

	pl, _, err := NewResolver(src).Resolve(pairedDevice(nil), tuesdayMorning)
	assert.NoError(t, err)
	assert.Equal(t, 3, pl.ID, "equal priorities break ties by lowest playlist id")
}

func TestResolveUnscheduledPlaylistNeverWins(t *testing.T) {
	src := newFakePlaylistSource()
	// no schedules at all: never scheduled-now
	src.add(model.Playlist{ID: 1, Priority: 99, IsActive: true}, testToken)

	pl, source, err := NewResolver(src).Resolve(pairedDevice(nil), tuesdayMorning)
	assert.NoError(t, err)
	assert.Nil(t, pl)
	assert.Equal(t, SourceNone, source)
}

func TestResolveLegacyFallbackIsUnconditional(t *testing.T) {
	src := newFakePlaylistSource()
	// inactive and unscheduled, reachable only via the legacy pointer
	src.add(model.Playlist{ID: 4, Name: "fallback", IsActive: false})

	pl, source, err := NewResolver(src).Resolve(pairedDevice(intPtr(4)), tuesdayMorning)
	assert.NoError(t, err)
	assert.Equal(t, SourceLegacy, source)
	assert.Equal(t, "fallback", pl.Name)
}

func TestResolveInactiveNeverWinsScheduledPath(t *testing.T) {
	src := newFakePlaylistSource()
	src.add(model.Playlist{
		ID: 1, Priority: 9, IsActive: false,
		Schedules: []model.Schedule{schedule("00:00", "23:59")},
	}, testToken)

	pl, source, err := NewResolver(src).Resolve(pairedDevice(nil), tuesdayMorning)
	assert.NoError(t, err)
	assert.Nil(t, pl)
	assert.Equal(t, SourceNone, source)
}

func TestResolveStaleLegacyPointerTolerated(t *testing.T) {
	src := newFakePlaylistSource()

	pl, source, err := NewResolver(src).Resolve(pairedDevice(intPtr(404)), tuesdayMorning)
	assert.NoError(t, err, "a dangling legacy pointer is not an error")
	assert.Nil(t, pl)
	assert.Equal(t, SourceNone, source)
}

func TestResolveStoreFailurePropagates(t *testing.T) {
	src := newFakePlaylistSource()
	src.err = errors.New("connection refused")

	_, _, err := NewResolver(src).Resolve(pairedDevice(nil), tuesdayMorning)
	assert.Error(t, err)
}

// End-to-end scenario: P (priority 3, Mon–Fri 09:00–17:00, active) assigned to
// the device, Q behind the legacy pointer.
func TestResolveEndToEndScenario(t *testing.T) {
	workweek := model.Playlist{
		ID: 1, Name: "P", Priority: 3, IsActive: true,
		Schedules: []model.Schedule{schedule("09:00", "17:00", 1, 2, 3, 4, 5)},
	}
	legacy := model.Playlist{ID: 2, Name: "Q", IsActive: true}

	build := func(active bool) *Resolver {
		src := newFakePlaylistSource()
		p := workweek
		p.IsActive = active
		src.add(p, testToken)
		src.add(legacy)
		return NewResolver(src)
	}
	device := pairedDevice(intPtr(2))
	saturday := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

	pl, source, err := build(true).Resolve(device, tuesdayMorning)
	assert.NoError(t, err)
	assert.Equal(t, "P", pl.Name)
	assert.Equal(t, SourceSchedule, source)

	pl, source, err = build(true).Resolve(device, saturday)
	assert.NoError(t, err)
	assert.Equal(t, "Q", pl.Name)
	assert.Equal(t, SourceLegacy, source)

	pl, source, err = build(false).Resolve(device, tuesdayMorning)
	assert.NoError(t, err)
	assert.Equal(t, "Q", pl.Name, "deactivating P falls back to Q even inside P's window")
	assert.Equal(t, SourceLegacy, source)
}

func TestResolveMaterializeIdempotent(t *testing.T) {
	src := newFakePlaylistSource()
	src.add(model.Playlist{
		ID: 1, Name: "loop", Priority: 1, IsActive: true,
		LastUpdated: tuesdayMorning,
		Schedules:   []model.Schedule{schedule("00:00", "23:59")},
		Items: []model.PlaylistItem{
			{MediaID: 10, Position: 2},
			{MediaID: 11, Position: 1},
		},
	}, testToken)
	catalog := newFakeCatalog(
		model.MediaAsset{ID: 10, FileURL: "https://cdn/a.mp4", Kind: model.MediaKindVideo, Duration: 30},
		model.MediaAsset{ID: 11, FileURL: "https://cdn/b.jpg", Kind: model.MediaKindImage, Duration: 10},
	)

	resolver := NewResolver(src)
	materializer := NewMaterializer(catalog)

	run := func() []byte {
		pl, _, err := resolver.Resolve(pairedDevice(nil), tuesdayMorning)
		assert.NoError(t, err)
		cfg, err := materializer.Materialize(pl)
		assert.NoError(t, err)
		raw, err := json.Marshal(cfg)
		assert.NoError(t, err)
		return raw
	}

	assert.Equal(t, run(), run(), "same device, same instant, same bytes")
}
