// AngelaMos | 2026
// entity.go

package mission

import (
	"time"
)

// Mission is a spacecraft mission entry. MissionID is the stable public
// integer identifier used in URLs and favorites; ID is the row key.
type Mission struct {
	ID               string     `db:"id"`
	MissionID        int64      `db:"mission_id"`
	Title            string     `db:"title"`
	Description      string     `db:"description"`
	ShortDescription string     `db:"short_description"`
	Image            *string    `db:"image"`
	BannerImage      *string    `db:"banner_image"`
	Category         string     `db:"category"`
	Status           string     `db:"status"`
	LaunchDate       *time.Time `db:"launch_date"`
	Target           string     `db:"target"`
	Featured         bool       `db:"featured"`
	Views            int64      `db:"views"`
	FavoriteCount    int64      `db:"favorite_count"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const (
	CategoryPlanetary   = "planetary"
	CategoryDeepSpace   = "deep-space"
	CategoryEarthOrbit  = "earth-orbit"
	CategoryCrewed      = "crewed"
	CategoryObservatory = "observatory"
)
