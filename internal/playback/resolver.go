package playback

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

// PlaylistSource is the slice of the store the resolver reads. db.Store
// satisfies it; tests use in-memory fakes.
type PlaylistSource interface {
	FindActivePlaylistsForDevice(deviceToken string) ([]model.Playlist, error)
	GetPlaylistByID(id int) (model.Playlist, error)
}

// Resolution sources, reported alongside the chosen playlist.
const (
	SourceSchedule = "schedule"
	SourceLegacy   = "legacy"
	SourceNone     = "none"
)

type Resolver struct {
	playlists PlaylistSource
}

func NewResolver(playlists PlaylistSource) *Resolver {
	return &Resolver{playlists: playlists}
}

// Resolve picks the single playlist the device should show at 'now'.
//
//  1. Among the active playlists assigned to the device token, keep those with
//     at least one schedule matching 'now'. A playlist without schedules is
//     never picked here.
//  2. The highest priority wins; equal priorities are broken by the lowest
//     playlist ID, so the outcome never depends on store iteration order.
//  3. With no scheduled-now candidate, the device's legacy playlist pointer is
//     followed unconditionally; its active flag and schedules are ignored.
//
// Returns (nil, "none", nil) when neither path yields a playlist; that is a
// normal outcome, not an error. Store failures propagate.
func (r *Resolver) Resolve(device model.Device, now time.Time) (*model.Playlist, string, error) {
	if device.DeviceToken != nil {
		candidates, err := r.playlists.FindActivePlaylistsForDevice(*device.DeviceToken)
		if err != nil {
			return nil, SourceNone, err
		}

		var winner *model.Playlist
		for i := range candidates {
			p := &candidates[i]
			if !ScheduledNow(*p, now) {
				continue
			}
			if winner == nil ||
				p.Priority > winner.Priority ||
				(p.Priority == winner.Priority && p.ID < winner.ID) {
				winner = p
			}
		}
		if winner != nil {
			return winner, SourceSchedule, nil
		}
	}

	if device.PlaylistID != nil {
		p, err := r.playlists.GetPlaylistByID(*device.PlaylistID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// stale legacy pointer; the two assignment channels may
				// diverge and the resolver has to tolerate that
				log.Warn().Int("playlist_id", *device.PlaylistID).
					Msg("[playback] legacy pointer references a missing playlist")
				return nil, SourceNone, nil
			}
			return nil, SourceNone, err
		}
		return &p, SourceLegacy, nil
	}

	return nil, SourceNone, nil
}

// ScheduledNow reports whether at least one of the playlist's schedules
// matches the instant. Empty schedule lists never match.
func ScheduledNow(p model.Playlist, now time.Time) bool {
	for _, s := range p.Schedules {
		if Matches(s, now) {
			return true
		}
	}
	return false
}
