// AngelaMos | 2026
// dto.go

package mission

import (
	"time"
)

type CreateMissionRequest struct {
	MissionID        int64      `json:"missionId"        validate:"required,gt=0"`
	Title            string     `json:"title"            validate:"required,max=200"`
	Description      string     `json:"description"      validate:"required"`
	ShortDescription string     `json:"shortDescription" validate:"omitempty,max=500"`
	Image            *string    `json:"image"            validate:"omitempty,max=500"`
	BannerImage      *string    `json:"bannerImage"      validate:"omitempty,max=500"`
	Category         string     `json:"category"         validate:"required,oneof=planetary deep-space earth-orbit crewed observatory"`
	Status           string     `json:"status"           validate:"required,oneof=upcoming active completed failed"`
	LaunchDate       *time.Time `json:"launchDate"`
	Target           string     `json:"target"           validate:"omitempty,max=200"`
	Featured         bool       `json:"featured"`
}

type UpdateMissionRequest struct {
	Title            *string    `json:"title,omitempty"            validate:"omitempty,max=200"`
	Description      *string    `json:"description,omitempty"`
	ShortDescription *string    `json:"shortDescription,omitempty" validate:"omitempty,max=500"`
	Image            *string    `json:"image,omitempty"            validate:"omitempty,max=500"`
	BannerImage      *string    `json:"bannerImage,omitempty"      validate:"omitempty,max=500"`
	Category         *string    `json:"category,omitempty"         validate:"omitempty,oneof=planetary deep-space earth-orbit crewed observatory"`
	Status           *string    `json:"status,omitempty"           validate:"omitempty,oneof=upcoming active completed failed"`
	LaunchDate       *time.Time `json:"launchDate,omitempty"`
	Target           *string    `json:"target,omitempty"           validate:"omitempty,max=200"`
	Featured         *bool      `json:"featured,omitempty"`
}

type MissionResponse struct {
	ID               string     `json:"id"`
	MissionID        int64      `json:"missionId"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"shortDescription,omitempty"`
	Image            *string    `json:"image,omitempty"`
	BannerImage      *string    `json:"bannerImage,omitempty"`
	Category         string     `json:"category"`
	Status           string     `json:"status"`
	LaunchDate       *time.Time `json:"launchDate,omitempty"`
	Target           string     `json:"target,omitempty"`
	Featured         bool       `json:"featured"`
	Views            int64      `json:"views"`
	FavoriteCount    int64      `json:"favoriteCount"`
	IsFavorite       *bool      `json:"isFavorite,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type MissionListResponse struct {
	Count    int               `json:"count"`
	Missions []MissionResponse `json:"missions"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

func ToMissionResponse(m *Mission) MissionResponse {
	return MissionResponse{
		ID:               m.ID,
		MissionID:        m.MissionID,
		Title:            m.Title,
		Description:      m.Description,
		ShortDescription: m.ShortDescription,
		Image:            m.Image,
		BannerImage:      m.BannerImage,
		Category:         m.Category,
		Status:           m.Status,
		LaunchDate:       m.LaunchDate,
		Target:           m.Target,
		Featured:         m.Featured,
		Views:            m.Views,
		FavoriteCount:    m.FavoriteCount,
		CreatedAt:        m.CreatedAt,
	}
}

func ToMissionListResponse(missions []Mission) MissionListResponse {
	out := make([]MissionResponse, 0, len(missions))
	for i := range missions {
		out = append(out, ToMissionResponse(&missions[i]))
	}
	return MissionListResponse{Count: len(out), Missions: out}
}
