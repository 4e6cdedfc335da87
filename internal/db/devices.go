package db

import (
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

const deviceColumns = `
	id, name, pairing_code, device_token, user_id, playlist_id,
	app_version, status, last_heartbeat, download_status, created_at, updated_at`

// CreateUnclaimedDevice inserts a device that only carries a pairing code.
// A user claims it later through the admin API.
func (s *pgStore) CreateUnclaimedDevice(pairingCode string) (model.Device, error) {
	var d model.Device
	q := `
	INSERT INTO devices (pairing_code, status, download_status, created_at, updated_at)
	VALUES ($1, 'unpaired', 'unknown', now(), now())
	RETURNING ` + deviceColumns + `;`
	if err := s.db.Get(&d, q, pairingCode); err != nil {
		log.Error().Err(err).Msg("[db] CreateUnclaimedDevice: failed to insert device")
		return model.Device{}, err
	}
	return d, nil
}

func (s *pgStore) GetDeviceByPairingCode(code string) (model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `
		SELECT `+deviceColumns+`
		FROM devices
		WHERE pairing_code = $1;
		`, code)
	return d, err
}

func (s *pgStore) GetDeviceByToken(token string) (model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `
		SELECT `+deviceColumns+`
		FROM devices
		WHERE device_token = $1;
		`, token)
	return d, err
}

func (s *pgStore) ListDevicesForUser(userID int) ([]model.Device, error) {
	var devices []model.Device
	err := s.db.Select(&devices, `
		SELECT `+deviceColumns+`
		FROM devices
		WHERE user_id = $1
		ORDER BY id;
		`, userID)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("[db] ListDevicesForUser failed")
		return nil, err
	}
	return devices, nil
}

// ListDevicesForUserAndPlaylist backs the sync-status view: every device of the
// user whose legacy pointer is the given playlist.
func (s *pgStore) ListDevicesForUserAndPlaylist(userID, playlistID int) ([]model.Device, error) {
	var devices []model.Device
	err := s.db.Select(&devices, `
		SELECT `+deviceColumns+`
		FROM devices
		WHERE user_id = $1 AND playlist_id = $2
		ORDER BY id;
		`, userID, playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] ListDevicesForUserAndPlaylist failed")
		return nil, err
	}
	return devices, nil
}

// ClaimDevice binds an unclaimed device to a user. The WHERE guard keeps the
// claim single-use even under concurrent requests.
func (s *pgStore) ClaimDevice(deviceID, userID int) error {
	res, err := s.db.Exec(`
		UPDATE devices
		SET user_id = $2,
		updated_at = now()
		WHERE id = $1 AND user_id IS NULL;
		`, deviceID, userID)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("[db] ClaimDevice failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyClaimed
	}
	return nil
}

// IssueDeviceToken sets the permanent token exactly once. A second call is a
// no-op so the token can never be reassigned.
func (s *pgStore) IssueDeviceToken(deviceID int, token string) error {
	_, err := s.db.Exec(`
		UPDATE devices
		SET device_token = $2,
		status = 'paired',
		updated_at = now()
		WHERE id = $1 AND device_token IS NULL;
		`, deviceID, token)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("[db] IssueDeviceToken failed")
	}
	return err
}

func (s *pgStore) SetDeviceName(deviceID int, name string) error {
	_, err := s.db.Exec(`
		UPDATE devices
		SET name = $2,
		updated_at = now()
		WHERE id = $1;
		`, deviceID, name)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("[db] SetDeviceName failed")
	}
	return err
}

// SetDevicePlaylist updates the legacy single-playlist pointer. A nil
// playlistID clears it.
func (s *pgStore) SetDevicePlaylist(deviceID int, playlistID *int, downloadStatus string) error {
	_, err := s.db.Exec(`
		UPDATE devices
		SET playlist_id = $2,
		download_status = $3,
		updated_at = now()
		WHERE id = $1;
		`, deviceID, playlistID, downloadStatus)
	if err != nil {
		log.Error().Err(err).Int("device_id", deviceID).Msg("[db] SetDevicePlaylist failed")
	}
	return err
}

func (s *pgStore) RecordHeartbeat(token string, status, appVersion, downloadStatus *string) error {
	_, err := s.db.Exec(`
		UPDATE devices
		SET status = COALESCE($2, status),
		app_version = COALESCE($3, app_version),
		download_status = COALESCE($4, download_status),
		last_heartbeat = now(),
		updated_at = now()
		WHERE device_token = $1;
		`, token, status, appVersion, downloadStatus)
	if err != nil {
		log.Error().Err(err).Msg("[db] RecordHeartbeat failed")
	}
	return err
}
