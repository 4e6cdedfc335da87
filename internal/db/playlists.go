package db

import (
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

// @ PLAYLIST
func (s *pgStore) CreatePlaylist(userID int, name string, priority int, isActive bool, tags []string) (model.Playlist, error) {
	var p model.Playlist
	const q = `
    INSERT INTO playlists (user_id, name, priority, is_active, tags, last_updated, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, now(), now(), now())
    RETURNING id, user_id, name, priority, is_active, tags, last_updated, created_at, updated_at;
    `
	if err := s.db.Get(&p, q, userID, name, priority, isActive, pq.StringArray(tags)); err != nil {
		log.Error().Err(err).Msg("[db] CreatePlaylist: failed to insert playlist")
		return model.Playlist{}, err
	}
	// p.Items / p.Schedules default to empty
	return p, nil
}

func (s *pgStore) GetPlaylistByID(id int) (model.Playlist, error) {
	var p model.Playlist
	q := `
	SELECT id, user_id, name, priority, is_active, tags, last_updated, created_at, updated_at
	FROM playlists
	WHERE id = $1;`
	if err := s.db.Get(&p, q, id); err != nil {
		return model.Playlist{}, err
	}
	return s.hydratePlaylist(p)
}

func (s *pgStore) ListPlaylistsForUser(userID int) ([]model.Playlist, error) {
	var out []model.Playlist
	const q = `
	SELECT id, user_id, name, priority, is_active, tags, last_updated, created_at, updated_at
	FROM playlists
	WHERE user_id = $1
	ORDER BY id;`
	if err := s.db.Select(&out, q, userID); err != nil {
		log.Error().Err(err).Msg("[db] ListPlaylistsForUser: failed to select playlists")
		return nil, err
	}

	for i := range out {
		p, err := s.hydratePlaylist(out[i])
		if err != nil {
			log.Error().Err(err).Msgf("[db] ListPlaylistsForUser: failed to load playlist %d", out[i].ID)
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// hydratePlaylist attaches items, schedules and the assigned-device set.
func (s *pgStore) hydratePlaylist(p model.Playlist) (model.Playlist, error) {
	items, err := s.listPlaylistItems(p.ID)
	if err != nil {
		return p, err
	}
	p.Items = items

	var schedules []model.Schedule
	if err := s.db.Select(&schedules, `
		SELECT id, playlist_id, start_time, end_time, days_of_week, start_date, end_date
		FROM playlist_schedules
		WHERE playlist_id = $1
		ORDER BY id;`, p.ID); err != nil {
		log.Error().Err(err).Int("playlist_id", p.ID).Msg("[db] failed to load schedules")
		return p, err
	}
	p.Schedules = schedules

	var tokens []string
	if err := s.db.Select(&tokens, `
		SELECT device_token FROM playlist_devices
		WHERE playlist_id = $1
		ORDER BY device_token;`, p.ID); err != nil {
		log.Error().Err(err).Int("playlist_id", p.ID).Msg("[db] failed to load assigned devices")
		return p, err
	}
	p.AssignedDevices = tokens
	return p, nil
}

func (s *pgStore) UpdatePlaylist(id int, name *string, priority *int, isActive *bool, tags []string) error {
	var tagsVal interface{}
	if tags != nil {
		tagsVal = pq.StringArray(tags)
	}
	_, err := s.db.Exec(`
		UPDATE playlists
		SET
		name         = COALESCE($2, name),
		priority     = COALESCE($3, priority),
		is_active    = COALESCE($4, is_active),
		tags         = COALESCE($5, tags),
		last_updated = now(),
		updated_at   = now()
		WHERE id = $1;`,
		id, name, priority, isActive, tagsVal,
	)
	if err != nil {
		log.Error().Err(err).Msg("[db] UpdatePlaylist failed")
	}
	return err
}

func (s *pgStore) DeletePlaylist(id int) error {
	_, err := s.db.Exec(`DELETE FROM playlists WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Msg("[db] DeletePlaylist failed")
	}
	return err
}

// TouchPlaylist bumps last_updated; called after item/schedule/assignment
// mutations so polling devices see a fresh timestamp.
func (s *pgStore) TouchPlaylist(id int) error {
	_, err := s.db.Exec(`
		UPDATE playlists
		SET last_updated = now(), updated_at = now()
		WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("[db] TouchPlaylist failed")
	}
	return err
}

// @ PLAYLIST ITEMS
func (s *pgStore) AddItemToPlaylist(playlistID, mediaID, position int, duration *int, kind *string) (model.PlaylistItem, error) {
	var it model.PlaylistItem
	query := `
	INSERT INTO playlist_items
	(playlist_id, media_id, position, duration, kind)
	VALUES
	($1,          $2,       $3,       $4,       $5)
	RETURNING
	id, playlist_id, media_id, position, duration, kind;`

	if err := s.db.Get(&it, query,
		playlistID, mediaID, position, duration, kind,
	); err != nil {
		log.Error().Err(err).Msg("[db] AddItemToPlaylist failed")
		return model.PlaylistItem{}, err
	}
	return it, nil
}

// UpdatePlaylistItem updates position/duration of an item.
func (s *pgStore) UpdatePlaylistItem(itemID int, position, duration *int) error {
	_, err := s.db.Exec(`
		UPDATE playlist_items
		SET
		position = COALESCE($2, position),
		duration = COALESCE($3, duration)
		WHERE id = $1;`,
		itemID, position, duration,
	)
	if err != nil {
		log.Error().Err(err).Msg("[db] UpdatePlaylistItem failed")
	}
	return err
}

func (s *pgStore) RemovePlaylistItem(itemID int) error {
	_, err := s.db.Exec(`DELETE FROM playlist_items WHERE id = $1;`, itemID)
	if err != nil {
		log.Error().Err(err).Msg("[db] RemovePlaylistItem failed")
	}
	return err
}

func (s *pgStore) listPlaylistItems(playlistID int) ([]model.PlaylistItem, error) {
	var list []model.PlaylistItem
	const query = `
    SELECT
      id, playlist_id, media_id, position, duration, kind
    FROM playlist_items
    WHERE playlist_id = $1
    ORDER BY position, id;`

	err := s.db.Select(&list, query, playlistID)
	if err != nil {
		log.Error().Err(err).Msg("[db] listPlaylistItems failed")
	}
	return list, err
}

func (s *pgStore) ReorderPlaylistItems(playlistID int, itemIDs []int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return
			}
		} else {
			if cmErr := tx.Commit(); cmErr != nil {
				return
			}
		}
	}()

	count := len(itemIDs)
	if _, err = tx.Exec(`
        UPDATE playlist_items
           SET position = position + $1
         WHERE playlist_id = $2;
    `, count, playlistID); err != nil {
		return err
	}

	for idx, itemID := range itemIDs {
		newPos := idx + 1
		if _, err = tx.Exec(`
            UPDATE playlist_items
               SET position = $1
             WHERE id = $2
               AND playlist_id = $3;
        `, newPos, itemID, playlistID); err != nil {
			return err
		}
	}

	return nil
}

// @ SCHEDULES
// ReplacePlaylistSchedules swaps the full schedule list in one transaction,
// matching the admin API's whole-list edit semantics.
func (s *pgStore) ReplacePlaylistSchedules(playlistID int, schedules []model.Schedule) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return
			}
		} else {
			if cmErr := tx.Commit(); cmErr != nil {
				return
			}
		}
	}()

	if _, err = tx.Exec(`DELETE FROM playlist_schedules WHERE playlist_id = $1;`, playlistID); err != nil {
		return err
	}
	for _, sched := range schedules {
		if _, err = tx.Exec(`
			INSERT INTO playlist_schedules
			(playlist_id, start_time, end_time, days_of_week, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6);
		`, playlistID, sched.StartTime, sched.EndTime, sched.DaysOfWeek, sched.StartDate, sched.EndDate); err != nil {
			return err
		}
	}
	return nil
}

// @ DEVICE ASSIGNMENT
// Set semantics: assigning an already-assigned device is a no-op, as is
// removing an absent one. Concurrent admin writes cannot duplicate rows.
func (s *pgStore) AssignDeviceToPlaylist(playlistID int, deviceToken string) error {
	_, err := s.db.Exec(`
		INSERT INTO playlist_devices (playlist_id, device_token)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING;
		`, playlistID, deviceToken)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] AssignDeviceToPlaylist failed")
	}
	return err
}

func (s *pgStore) UnassignDeviceFromPlaylist(playlistID int, deviceToken string) error {
	_, err := s.db.Exec(`
		DELETE FROM playlist_devices
		WHERE playlist_id = $1 AND device_token = $2;
		`, playlistID, deviceToken)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] UnassignDeviceFromPlaylist failed")
	}
	return err
}

// FindActivePlaylistsForDevice returns the hydrated active playlists assigned
// to the device token. This is the resolver's candidate query.
func (s *pgStore) FindActivePlaylistsForDevice(deviceToken string) ([]model.Playlist, error) {
	var out []model.Playlist
	const q = `
	SELECT p.id, p.user_id, p.name, p.priority, p.is_active, p.tags, p.last_updated, p.created_at, p.updated_at
	  FROM playlists p
	  JOIN playlist_devices pd ON pd.playlist_id = p.id
	 WHERE pd.device_token = $1
	   AND p.is_active = true
	 ORDER BY p.id;`
	if err := s.db.Select(&out, q, deviceToken); err != nil {
		log.Error().Err(err).Str("device_token", deviceToken).Msg("[db] FindActivePlaylistsForDevice failed")
		return nil, err
	}
	for i := range out {
		p, err := s.hydratePlaylist(out[i])
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
