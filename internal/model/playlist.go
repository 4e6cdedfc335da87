package model

import (
	"time"

	"github.com/lib/pq"
)

type Playlist struct {
	ID              int            `db:"id"           json:"id"`
	UserID          int            `db:"user_id"      json:"user_id"`
	Name            string         `db:"name"         json:"name"`
	Priority        int            `db:"priority"     json:"priority"`
	IsActive        bool           `db:"is_active"    json:"is_active"`
	Tags            pq.StringArray `db:"tags"         json:"tags"`
	LastUpdated     time.Time      `db:"last_updated" json:"last_updated"`
	CreatedAt       time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"   json:"updated_at"`
	Items           []PlaylistItem `db:"-"            json:"items,omitempty"`
	Schedules       []Schedule     `db:"-"            json:"schedules,omitempty"`
	AssignedDevices []string       `db:"-"            json:"assigned_devices,omitempty"`
}

// PlaylistItem is an ordered asset reference owned by its playlist. Position is
// only a sort key and need not be contiguous.
type PlaylistItem struct {
	ID         int     `db:"id"          json:"id"`
	PlaylistID int     `db:"playlist_id" json:"playlist_id"`
	MediaID    int     `db:"media_id"    json:"media_id"`
	Position   int     `db:"position"    json:"position"`
	Duration   *int    `db:"duration"    json:"duration,omitempty"`
	Kind       *string `db:"kind"        json:"kind,omitempty"`
}

// Schedule is a recurring time-of-day window owned by its playlist.
// StartTime/EndTime are "HH:MM" wall-clock strings, inclusive at both ends.
// A window with EndTime before StartTime never matches: schedules do not span
// midnight in this model.
type Schedule struct {
	ID         int           `db:"id"           json:"id"`
	PlaylistID int           `db:"playlist_id"  json:"playlist_id"`
	StartTime  string        `db:"start_time"   json:"start_time"`
	EndTime    string        `db:"end_time"     json:"end_time"`
	DaysOfWeek pq.Int64Array `db:"days_of_week" json:"days_of_week"` // 0=Sunday; empty = every day
	StartDate  *time.Time    `db:"start_date"   json:"start_date,omitempty"`
	EndDate    *time.Time    `db:"end_date"     json:"end_date,omitempty"`
}
