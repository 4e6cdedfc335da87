package packets

import "time"

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name"`
}

type ClaimDeviceRequest struct {
	PairingCode string `json:"pairing_code" binding:"required"`
}

type SetDeviceNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// DevicePlaylistRequest adds or removes a playlist on a device. Both the
// playlist's assigned-device set and the device's legacy pointer are updated.
type DevicePlaylistRequest struct {
	PlaylistID int    `json:"playlist_id" binding:"required"`
	Action     string `json:"action" binding:"required,oneof=add remove"`
}

type SyncStatusQuery struct {
	PlaylistID int `form:"playlist_id" binding:"required"`
}

type SchedulePayload struct {
	StartTime  string     `json:"start_time" binding:"required"` // "HH:MM"
	EndTime    string     `json:"end_time" binding:"required"`   // "HH:MM"
	DaysOfWeek []int64    `json:"days_of_week"`                  // 0=Sunday; empty = every day
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

type PlaylistItemPayload struct {
	MediaID  int     `json:"media_id" binding:"required"`
	Position int     `json:"order"`
	Duration *int    `json:"duration"`
	Kind     *string `json:"type" binding:"omitempty,oneof=image video"`
}

type CreatePlaylistRequest struct {
	Name      string                `json:"name" binding:"required"`
	Priority  *int                  `json:"priority"`
	IsActive  *bool                 `json:"is_active"`
	Tags      []string              `json:"tags"`
	Items     []PlaylistItemPayload `json:"items"`
	Schedules []SchedulePayload     `json:"schedules"`
}

type UpdatePlaylistRequest struct {
	Name     *string  `json:"name"`
	Priority *int     `json:"priority"`
	IsActive *bool    `json:"is_active"`
	Tags     []string `json:"tags"`
}

type AddPlaylistItemRequest struct {
	MediaID  int     `json:"media_id" binding:"required"`
	Position int     `json:"order"`
	Duration *int    `json:"duration"`
	Kind     *string `json:"type" binding:"omitempty,oneof=image video"`
}

type UpdatePlaylistItemRequest struct {
	Position *int `json:"order"`
	Duration *int `json:"duration"`
}

type ReorderItemsRequest struct {
	ItemIDs []int `json:"item_ids" binding:"required"`
}

type ReplaceSchedulesRequest struct {
	Schedules []SchedulePayload `json:"schedules" binding:"required"`
}

type UpdateMediaTagsRequest struct {
	Tags []string `json:"tags" binding:"required"`
}
