package model

import "time"

// Device represents a display device (TV stick) in the fleet.
//
// Lifecycle: created unclaimed with only a pairing code, claimed when an admin
// binds it to a user, paired once the permanent device token is issued. The
// token is never regenerated after that.
type Device struct {
	ID             int        `db:"id"              json:"id"`
	Name           *string    `db:"name"            json:"name"`
	PairingCode    string     `db:"pairing_code"    json:"pairing_code"`
	DeviceToken    *string    `db:"device_token"    json:"device_token"`
	UserID         *int       `db:"user_id"         json:"user_id"`
	PlaylistID     *int       `db:"playlist_id"     json:"playlist_id"`
	AppVersion     string     `db:"app_version"     json:"app_version"`
	Status         string     `db:"status"          json:"status"`
	LastHeartbeat  *time.Time `db:"last_heartbeat"  json:"last_heartbeat"`
	DownloadStatus string     `db:"download_status" json:"download_status"`
	CreatedAt      time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"      json:"updated_at"`
}

// Device status values reported via heartbeat.
const (
	DeviceStatusUnpaired = "unpaired"
	DeviceStatusPaired   = "paired"
	DeviceStatusPlaying  = "playing"
	DeviceStatusIdle     = "idle"
	DeviceStatusError    = "error"
	DeviceStatusOffline  = "offline"
)

// Download/sync states for the asset-sync endpoint.
const (
	DownloadUnknown    = "unknown"
	DownloadInProgress = "in_progress"
	DownloadCompleted  = "completed"
	DownloadFailed     = "failed"
)
