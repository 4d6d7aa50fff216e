package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openrange/backend/internal/models"
)

// Store persists shot history. The engine is unaware of it: handlers hand it
// finished summaries and trajectories.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetBayByDeviceKey looks up the bay a launch monitor authenticates as.
func (s *Store) GetBayByDeviceKey(key string) (*models.Bay, error) {
	var bay models.Bay
	err := s.db.Get(&bay, `SELECT * FROM bays WHERE device_key=$1 AND is_active`, key)
	if err != nil {
		return nil, err
	}
	return &bay, nil
}

func (s *Store) GetBayByName(name string) (*models.Bay, error) {
	var bay models.Bay
	err := s.db.Get(&bay, `SELECT * FROM bays WHERE name=$1`, name)
	if err != nil {
		return nil, err
	}
	return &bay, nil
}

// EnsureBay creates the bay if it does not exist yet and returns it.
func (s *Store) EnsureBay(name, deviceKey string) (*models.Bay, error) {
	var bay models.Bay
	err := s.db.Get(&bay, `
		INSERT INTO bays (name, device_key) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET device_key = EXCLUDED.device_key
		RETURNING *`, name, deviceKey)
	if err != nil {
		return nil, fmt.Errorf("ensure bay %s: %w", name, err)
	}
	return &bay, nil
}

func (s *Store) CreateSession(bayID int, playerName, token string, expiresAt time.Time) (*models.Session, error) {
	var session models.Session
	err := s.db.Get(&session, `
		INSERT INTO sessions (token, bay_id, player_name, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING *`, token, bayID, playerName, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *Store) GetSessionByToken(token string) (*models.Session, error) {
	var session models.Session
	err := s.db.Get(&session, `SELECT * FROM sessions WHERE token=$1`, token)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) EndSession(token string) error {
	res, err := s.db.Exec(`UPDATE sessions SET ended_at=NOW() WHERE token=$1 AND ended_at IS NULL`, token)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// InsertShot stores a shot record and fills in its generated ID and timestamp.
func (s *Store) InsertShot(shot *models.Shot) error {
	err := s.db.QueryRowx(`
		INSERT INTO shots (session_id, bay_id, mode, club,
			ball_speed, launch_angle, azimuth, backspin, sidespin,
			carry, apex, flight_time, lateral_offset, truncated, trajectory)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at`,
		shot.SessionID, shot.BayID, shot.Mode, shot.Club,
		shot.BallSpeed, shot.LaunchAngle, shot.Azimuth, shot.Backspin, shot.Sidespin,
		shot.Carry, shot.Apex, shot.FlightTime, shot.LateralOffset, shot.Truncated, shot.Trajectory,
	).Scan(&shot.ID, &shot.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert shot: %w", err)
	}
	return nil
}

func (s *Store) GetShot(id int) (*models.Shot, error) {
	var shot models.Shot
	err := s.db.Get(&shot, `SELECT * FROM shots WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	return &shot, nil
}

// ListShotsBySession returns a session's shots newest first, without the
// trajectory payloads.
func (s *Store) ListShotsBySession(sessionID, limit int) ([]models.Shot, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	shots := []models.Shot{}
	err := s.db.Select(&shots, `
		SELECT id, session_id, bay_id, mode, club, created_at,
			ball_speed, launch_angle, azimuth, backspin, sidespin,
			carry, apex, flight_time, lateral_offset, truncated
		FROM shots WHERE session_id=$1
		ORDER BY created_at DESC LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	return shots, nil
}

func (s *Store) SessionStats(sessionID int) (*models.SessionStats, error) {
	var stats models.SessionStats
	err := s.db.Get(&stats, `
		SELECT COUNT(*) AS shot_count,
			COALESCE(AVG(carry), 0) AS avg_carry,
			COALESCE(MAX(carry), 0) AS longest_carry,
			COALESCE(AVG(apex), 0) AS avg_apex,
			COALESCE(AVG(lateral_offset), 0) AS avg_offset
		FROM shots WHERE session_id=$1 AND NOT truncated`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	return &stats, nil
}
