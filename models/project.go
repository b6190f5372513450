package models

import (
	"time"
)

const (
	// DefaultProjectTitle is used for new projects and for rows whose title is empty.
	DefaultProjectTitle = "untitled"

	// MaxProjectTitleLength is the longest title a project may carry.
	MaxProjectTitleLength = 100
)

// Project is a titled container owning one video and its annotations.
// Owner is stored lowercase and never changes after creation.
// VideoURL and ThumbnailURL stay nil until an upload completes.
type Project struct {
	ID           int64     `json:"projectID" db:"pid"`
	Title        string    `json:"title" db:"project_name"`
	Owner        string    `json:"username" db:"username"`
	VideoURL     *string   `json:"videoURL" db:"video_url"`
	ThumbnailURL *string   `json:"thumbnailURL" db:"thumbnail_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// DisplayTitle returns the title, falling back to DefaultProjectTitle.
func (p *Project) DisplayTitle() string {
	if p.Title == "" {
		return DefaultProjectTitle
	}
	return p.Title
}

// ProjectSummary is one entry of the home listing.
type ProjectSummary struct {
	ID           int64   `json:"projectID"`
	Title        string  `json:"title"`
	VideoURL     *string `json:"videoURL"`
	ThumbnailURL *string `json:"thumbnailURL"`
}

// Summary converts a project to its listing form.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:           p.ID,
		Title:        p.DisplayTitle(),
		VideoURL:     p.VideoURL,
		ThumbnailURL: p.ThumbnailURL,
	}
}

// ProjectDetail is the payload of load-project.
type ProjectDetail struct {
	ID           int64   `json:"projectID"`
	Title        string  `json:"title"`
	VideoURL     *string `json:"videoURL"`
	ThumbnailURL *string `json:"thumbnailURL"`
	Username     string  `json:"username"`
}

// Detail converts a project to its load-project form.
func (p *Project) Detail() ProjectDetail {
	return ProjectDetail{
		ID:           p.ID,
		Title:        p.DisplayTitle(),
		VideoURL:     p.VideoURL,
		ThumbnailURL: p.ThumbnailURL,
		Username:     p.Owner,
	}
}

// CreateProjectResponse is returned by create-project.
type CreateProjectResponse struct {
	PID   int64  `json:"pid"`
	Title string `json:"title"`
}

// EditProjectNameRequest renames a project. The length limit is checked
// by the handler so an over-long name is rejected before any lookup.
type EditProjectNameRequest struct {
	ProjectName string `json:"projectName"`
	PID         int64  `json:"pid" binding:"required,gt=0"`
}
