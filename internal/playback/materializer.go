package playback

import (
	"sort"
	"time"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

// MediaCatalog is the slice of the store the materializer reads.
type MediaCatalog interface {
	FindMediaByIDs(ids []int) ([]model.MediaAsset, error)
}

// fallback playback duration in seconds when neither the item nor the asset
// carries one
const defaultDuration = 10

// PlayableItem is one fully resolved entry of a device's display sequence.
// FileURL is nil when the referenced asset no longer exists; the player skips
// such entries.
type PlayableItem struct {
	AssetID          int     `json:"asset_id"`
	Order            int     `json:"order"`
	Kind             string  `json:"type"`
	Duration         int     `json:"duration"`
	FileURL          *string `json:"file_url"`
	OriginalFilename string  `json:"original_filename"`
}

// PlayerConfig is the boundary shape handed to the device-facing endpoint.
// "Nothing to show" is a config with an empty sequence and a message, never an
// error.
type PlayerConfig struct {
	PlaylistID      *int           `json:"playlist_id"`
	Name            string         `json:"name,omitempty"`
	DisplaySequence []PlayableItem `json:"display_sequence"`
	LastUpdated     *time.Time     `json:"last_updated"`
	Message         string         `json:"message,omitempty"`
}

type Materializer struct {
	catalog MediaCatalog
}

func NewMaterializer(catalog MediaCatalog) *Materializer {
	return &Materializer{catalog: catalog}
}

// Materialize turns a resolved playlist into the ordered sequence the device
// plays. A nil playlist yields the explicit empty config. Items are stably
// sorted by position, the referenced assets are fetched in one bulk lookup,
// and per-item overrides win over asset defaults. Dangling asset references
// degrade to nil-URL entries instead of aborting.
func (m *Materializer) Materialize(pl *model.Playlist) (PlayerConfig, error) {
	if pl == nil {
		return PlayerConfig{
			DisplaySequence: []PlayableItem{},
			Message:         "no playlist assigned",
		}, nil
	}

	items := make([]model.PlaylistItem, len(pl.Items))
	copy(items, pl.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	assets, err := m.catalog.FindMediaByIDs(uniqueMediaIDs(items))
	if err != nil {
		return PlayerConfig{}, err
	}
	byID := make(map[int]model.MediaAsset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}

	seq := make([]PlayableItem, 0, len(items))
	for _, it := range items {
		out := PlayableItem{
			AssetID:  it.MediaID,
			Order:    it.Position,
			Duration: defaultDuration,
		}
		if asset, ok := byID[it.MediaID]; ok {
			out.Kind = asset.Kind
			out.OriginalFilename = asset.OriginalFilename
			if asset.Duration > 0 {
				out.Duration = asset.Duration
			}
			url := asset.FileURL
			out.FileURL = &url
		}
		if it.Kind != nil {
			out.Kind = *it.Kind
		}
		if it.Duration != nil {
			out.Duration = *it.Duration
		}
		seq = append(seq, out)
	}

	id := pl.ID
	lastUpdated := pl.LastUpdated
	return PlayerConfig{
		PlaylistID:      &id,
		Name:            pl.Name,
		DisplaySequence: seq,
		LastUpdated:     &lastUpdated,
	}, nil
}

func uniqueMediaIDs(items []model.PlaylistItem) []int {
	seen := make(map[int]struct{}, len(items))
	ids := make([]int, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.MediaID]; ok {
			continue
		}
		seen[it.MediaID] = struct{}{}
		ids = append(ids, it.MediaID)
	}
	return ids
}
