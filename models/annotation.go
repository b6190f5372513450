package models

import (
	"time"
)

// MaxAnnotationTextLength bounds the note body.
const MaxAnnotationTextLength = 5000

// Annotation is a timestamped note attached to a project.
// Only Text is mutable after creation.
type Annotation struct {
	ID        int64     `json:"id" db:"aid"`
	ProjectID int64     `json:"projectID" db:"pid"`
	Timestamp Timestamp `json:"timestamp" db:"timestamp_seconds"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// AnnotationResponse is the wire form of an annotation.
// Label is the display form of Timestamp, e.g. "00:31".
type AnnotationResponse struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectID"`
	Timestamp Timestamp `json:"timestamp"`
	Label     string    `json:"label"`
	Text      string    `json:"text"`
}

// Response converts an annotation to its wire form.
func (a *Annotation) Response() AnnotationResponse {
	return AnnotationResponse{
		ID:        a.ID,
		ProjectID: a.ProjectID,
		Timestamp: a.Timestamp,
		Label:     a.Timestamp.String(),
		Text:      a.Text,
	}
}

// AddAnnotationRequest is the body of POST /annotations/add.
type AddAnnotationRequest struct {
	Timestamp *Timestamp `json:"timestamp" binding:"required"`
	Text      string     `json:"text" binding:"required,max=5000"`
	ProjectID int64      `json:"projectID" binding:"required,gt=0"`
}

// EditAnnotationRequest is the body of PUT /annotations/edit.
// ProjectID is accepted for compatibility; the annotation id decides the project.
type EditAnnotationRequest struct {
	ID        int64  `json:"id" binding:"required,gt=0"`
	Text      string `json:"text" binding:"required,max=5000"`
	ProjectID int64  `json:"projectID"`
}

// DeleteAnnotationRequest is the body of DELETE /annotations/delete.
type DeleteAnnotationRequest struct {
	ID int64 `json:"id" binding:"required,gt=0"`
}

// AnnotationQuery selects annotations of one project.
// From and To are inclusive bounds in seconds; Search is free text.
type AnnotationQuery struct {
	ProjectID int64    `form:"projectID" binding:"required,gt=0"`
	From      *float64 `form:"from"`
	To        *float64 `form:"to"`
	Search    string   `form:"search"`
	Limit     int      `form:"limit"`
	Offset    int      `form:"offset"`
}
