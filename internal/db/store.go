// exposes a Store interface that is passed to API controllers
package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// device functions
	CreateUnclaimedDevice(pairingCode string) (model.Device, error)
	GetDeviceByPairingCode(code string) (model.Device, error)
	GetDeviceByToken(token string) (model.Device, error)
	ListDevicesForUser(userID int) ([]model.Device, error)
	ListDevicesForUserAndPlaylist(userID, playlistID int) ([]model.Device, error)
	ClaimDevice(deviceID, userID int) error
	IssueDeviceToken(deviceID int, token string) error
	SetDeviceName(deviceID int, name string) error
	SetDevicePlaylist(deviceID int, playlistID *int, downloadStatus string) error
	RecordHeartbeat(token string, status, appVersion, downloadStatus *string) error

	// playlist functions
	CreatePlaylist(userID int, name string, priority int, isActive bool, tags []string) (model.Playlist, error)
	GetPlaylistByID(id int) (model.Playlist, error)
	ListPlaylistsForUser(userID int) ([]model.Playlist, error)
	UpdatePlaylist(id int, name *string, priority *int, isActive *bool, tags []string) error
	DeletePlaylist(id int) error
	TouchPlaylist(id int) error

	AddItemToPlaylist(playlistID, mediaID, position int, duration *int, kind *string) (model.PlaylistItem, error)
	UpdatePlaylistItem(itemID int, position, duration *int) error
	RemovePlaylistItem(itemID int) error
	ReorderPlaylistItems(playlistID int, itemIDs []int) error
	ReplacePlaylistSchedules(playlistID int, schedules []model.Schedule) error

	AssignDeviceToPlaylist(playlistID int, deviceToken string) error
	UnassignDeviceFromPlaylist(playlistID int, deviceToken string) error
	FindActivePlaylistsForDevice(deviceToken string) ([]model.Playlist, error)

	// media functions
	CreateMediaAsset(userID int, fileURL, kind string, duration int, originalFilename string, tags []string) (model.MediaAsset, error)
	GetMediaByID(id int) (model.MediaAsset, error)
	FindMediaByIDs(ids []int) ([]model.MediaAsset, error)
	ListMediaForUser(userID int) ([]model.MediaAsset, error)
	ListPlaylistIDsForMedia(mediaID int) ([]int, error)
	UpdateMediaTags(id int, tags []string) error
	DeleteMediaAsset(id int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
