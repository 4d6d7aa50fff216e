package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Bay is a hitting bay with a launch monitor attached
type Bay struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	DeviceKey string    `db:"device_key" json:"-"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Session is one player's practice session at a bay
type Session struct {
	ID         int          `db:"id" json:"id"`
	Token      string       `db:"token" json:"token"`
	BayID      int          `db:"bay_id" json:"bay_id"`
	PlayerName string       `db:"player_name" json:"player_name"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	EndedAt    sql.NullTime `db:"ended_at" json:"ended_at,omitempty"`
	ExpiresAt  time.Time    `db:"expires_at" json:"expires_at"`
}

// Shot is the persisted record of a single shot: the launch inputs in SI
// units, the landing-derived summary and the down-sampled trajectory.
type Shot struct {
	ID        int       `db:"id" json:"id"`
	SessionID int       `db:"session_id" json:"session_id"`
	BayID     int       `db:"bay_id" json:"bay_id"`
	Mode      string    `db:"mode" json:"mode"`
	Club      string    `db:"club" json:"club,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Launch inputs (SI)
	BallSpeed   float64 `db:"ball_speed" json:"ball_speed"`
	LaunchAngle float64 `db:"launch_angle" json:"launch_angle"`
	Azimuth     float64 `db:"azimuth" json:"azimuth"`
	Backspin    float64 `db:"backspin" json:"backspin"`
	Sidespin    float64 `db:"sidespin" json:"sidespin"`

	// Flight summary (SI)
	Carry         float64 `db:"carry" json:"carry"`
	Apex          float64 `db:"apex" json:"apex"`
	FlightTime    float64 `db:"flight_time" json:"flight_time"`
	LateralOffset float64 `db:"lateral_offset" json:"lateral_offset"`
	Truncated     bool    `db:"truncated" json:"truncated"`

	Trajectory types.JSONText `db:"trajectory" json:"trajectory,omitempty"`
}

// SessionStats aggregates a session's shots for the stats endpoint
type SessionStats struct {
	ShotCount    int     `db:"shot_count" json:"shot_count"`
	AvgCarry     float64 `db:"avg_carry" json:"avg_carry"`
	LongestCarry float64 `db:"longest_carry" json:"longest_carry"`
	AvgApex      float64 `db:"avg_apex" json:"avg_apex"`
	AvgOffset    float64 `db:"avg_offset" json:"avg_offset"`
}

// Operator is a staff account that can manage bays and sessions
type Operator struct {
	ID           int          `db:"id" json:"id"`
	Username     string       `db:"username" json:"username"`
	PasswordHash string       `db:"password_hash" json:"-"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	LastLogin    sql.NullTime `db:"last_login" json:"last_login,omitempty"`
}
