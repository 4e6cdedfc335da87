package packets

import "time"

type TokenResponse struct {
	Token string `json:"token"`
}

type ProfileResponse struct {
	ID    int     `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type DeviceResponse struct {
	ID             int     `json:"id"`
	Name           *string `json:"name"`
	PairingCode    string  `json:"pairing_code"`
	DeviceToken    *string `json:"device_token"`
	PlaylistID     *int    `json:"playlist_id"`
	AppVersion     string  `json:"app_version"`
	Status         string  `json:"status"`
	LastHeartbeat  *string `json:"last_heartbeat"`
	DownloadStatus string  `json:"download_status"`
	CreatedAt      string  `json:"created_at"`
}

type SyncStatusEntry struct {
	DeviceToken    *string `json:"device_token"`
	DownloadStatus string  `json:"download_status"`
	LastHeartbeat  *string `json:"last_heartbeat"`
}

type ScheduleResponse struct {
	ID         int        `json:"id"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	DaysOfWeek []int64    `json:"days_of_week"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

type PlaylistItemResponse struct {
	ID       int     `json:"id"`
	MediaID  int     `json:"media_id"`
	Position int     `json:"order"`
	Duration *int    `json:"duration,omitempty"`
	Kind     *string `json:"type,omitempty"`
}

type PlaylistResponse struct {
	ID              int                    `json:"id"`
	Name            string                 `json:"name"`
	Priority        int                    `json:"priority"`
	IsActive        bool                   `json:"is_active"`
	Tags            []string               `json:"tags"`
	Items           []PlaylistItemResponse `json:"items"`
	Schedules       []ScheduleResponse     `json:"schedules"`
	AssignedDevices []string               `json:"assigned_devices"`
	LastUpdated     string                 `json:"last_updated"`
	CreatedAt       string                 `json:"created_at"`
}

type MediaResponse struct {
	ID               int      `json:"id"`
	FileURL          string   `json:"file_url"`
	Kind             string   `json:"type"`
	Duration         int      `json:"duration"`
	OriginalFilename string   `json:"original_filename"`
	Tags             []string `json:"tags"`
	UploadedAt       string   `json:"uploaded_at"`
}
