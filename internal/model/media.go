package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// MediaAsset is an uploaded media file. Immutable after upload except for tags.
type MediaAsset struct {
	ID               int            `db:"id"                json:"id"`
	UserID           int            `db:"user_id"           json:"user_id"`
	FileURL          string         `db:"file_url"          json:"file_url"`
	Kind             string         `db:"kind"              json:"kind"`
	Duration         int            `db:"duration"          json:"duration"` // seconds
	OriginalFilename string         `db:"original_filename" json:"original_filename"`
	Tags             pq.StringArray `db:"tags"              json:"tags"`
	UploadedAt       time.Time      `db:"uploaded_at"       json:"uploaded_at"`
}
