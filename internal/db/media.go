package db

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Displays-LLC/beacon/internal/model"
)

func (s *pgStore) CreateMediaAsset(userID int, fileURL, kind string, duration int, originalFilename string, tags []string) (model.MediaAsset, error) {
	var m model.MediaAsset
	query := `
	INSERT INTO media_assets
	(user_id, file_url, kind, duration, original_filename, tags, uploaded_at)
	VALUES
	($1,      $2,       $3,   $4,       $5,                $6,   now())
	RETURNING
	id, user_id, file_url, kind, duration, original_filename, tags, uploaded_at;`

	if err := s.db.Get(&m, query,
		userID,
		fileURL,
		kind,
		duration,
		originalFilename,
		pq.StringArray(tags),
	); err != nil {
		log.Error().Err(err).Msg("[db] CreateMediaAsset failed")
		return model.MediaAsset{}, err
	}
	return m, nil
}

func (s *pgStore) GetMediaByID(id int) (model.MediaAsset, error) {
	var m model.MediaAsset
	query := `
	SELECT
	id, user_id, file_url, kind, duration, original_filename, tags, uploaded_at
	FROM media_assets
	WHERE id = $1;`

	err := s.db.Get(&m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MediaAsset{}, sql.ErrNoRows
	}
	return m, err
}

// FindMediaByIDs bulk-fetches assets for a set of ids in one query. The
// materializer depends on this staying a single round-trip.
func (s *pgStore) FindMediaByIDs(ids []int) ([]model.MediaAsset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var all []model.MediaAsset
	const q = `
	SELECT
	id, user_id, file_url, kind, duration, original_filename, tags, uploaded_at
	FROM media_assets
	WHERE id = ANY($1)
	ORDER BY id;`
	if err := s.db.Select(&all, q, pq.Array(ids)); err != nil {
		log.Error().Err(err).Msg("[db] FindMediaByIDs failed")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) ListMediaForUser(userID int) ([]model.MediaAsset, error) {
	var all []model.MediaAsset
	query := `
	SELECT
	id,
	user_id,
	file_url,
	kind,
	duration,
	original_filename,
	tags,
	uploaded_at
	FROM media_assets
	WHERE user_id = $1
	ORDER BY id;
	`
	if err := s.db.Select(&all, query, userID); err != nil {
		log.Error().Err(err).Msg("[db] ListMediaForUser failed")
		return nil, err
	}
	return all, nil
}

// ListPlaylistIDsForMedia returns the playlists whose items reference the
// asset. Deleting an asset changes those playlists' materialized configs, so
// their cached ETags have to go.
func (s *pgStore) ListPlaylistIDsForMedia(mediaID int) ([]int, error) {
	var ids []int
	err := s.db.Select(&ids, `
		SELECT DISTINCT playlist_id
		FROM playlist_items
		WHERE media_id = $1
		ORDER BY playlist_id;`, mediaID)
	if err != nil {
		log.Error().Err(err).Int("media_id", mediaID).Msg("[db] ListPlaylistIDsForMedia failed")
		return nil, err
	}
	return ids, nil
}

// UpdateMediaTags is the only mutation allowed after upload.
func (s *pgStore) UpdateMediaTags(id int, tags []string) error {
	_, err := s.db.Exec(`
		UPDATE media_assets
		SET tags = $2
		WHERE id = $1;`,
		id, pq.StringArray(tags),
	)
	if err != nil {
		log.Error().Err(err).Msg("[db] UpdateMediaTags failed")
	}
	return err
}

func (s *pgStore) DeleteMediaAsset(id int) error {
	_, err := s.db.Exec(`DELETE FROM media_assets WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Msg("[db] DeleteMediaAsset failed")
	}
	return err
}
