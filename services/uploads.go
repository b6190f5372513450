package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"footnote/storage"

	"github.com/sirupsen/logrus"
)

// Thumbnailer produces a JPEG still from raw video bytes.
type Thumbnailer interface {
	Generate(ctx context.Context, video []byte, filename string) ([]byte, error)
}

// VideoUpload is one uploaded video file destined for a project.
type VideoUpload struct {
	ProjectID   int64
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult holds the public URLs recorded on the project.
type UploadResult struct {
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Uploads stores a video and its thumbnail and records both URLs.
type Uploads struct {
	videos      storage.BlobStore
	thumbnails  storage.BlobStore
	thumbnailer Thumbnailer
	store       ProjectStore
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewUploads(videos, thumbnails storage.BlobStore, thumbnailer Thumbnailer, store ProjectStore, log logrus.FieldLogger) *Uploads {
	return &Uploads{
		videos:      videos,
		thumbnails:  thumbnails,
		thumbnailer: thumbnailer,
		store:       store,
		log:         log,
		now:         time.Now,
	}
}

// Upload runs the whole pipeline: video blob, thumbnail, thumbnail blob,
// URL recording. Blobs written by a failed attempt are deleted before
// returning.
func (s *Uploads) Upload(ctx context.Context, in VideoUpload) (*UploadResult, error) {
	const op = "uploads.Upload"

	if len(in.Data) == 0 {
		return nil, newError(KindValidation, op, "no file uploaded", nil)
	}
	if in.ProjectID <= 0 {
		return nil, newError(KindValidation, op, "project ID (pid) is required", nil)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	log := s.log.WithFields(logrus.Fields{
		"project_id": in.ProjectID,
		"filename":   in.Filename,
		"bytes":      len(in.Data),
	})

	now := s.now()
	var written []cleanup
	defer func() {
		// runs only on failure; success clears written
		for _, c := range written {
			if err := c.store.Delete(context.WithoutCancel(ctx), c.key); err != nil {
				log.WithError(err).WithField("key", c.key).Error("Failed to delete orphaned blob")
			}
		}
	}()

	videoKey := storage.VideoKey(now, in.Filename)
	videoURL, err := s.videos.Put(ctx, videoKey, bytes.NewReader(in.Data), int64(len(in.Data)), contentType)
	if err != nil {
		return nil, newError(KindUpload, op, "Failed to upload video.", err)
	}
	written = append(written, cleanup{store: s.videos, key: videoKey})

	thumb, err := s.thumbnailer.Generate(ctx, in.Data, in.Filename)
	if err != nil {
		return nil, newError(KindUpload, op, "Failed to create thumbnail.", err)
	}

	thumbKey := storage.ThumbnailKey(now, in.Filename)
	thumbURL, err := s.thumbnails.Put(ctx, thumbKey, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg")
	if err != nil {
		return nil, newError(KindUpload, op, "Failed to upload thumbnail.", err)
	}
	written = append(written, cleanup{store: s.thumbnails, key: thumbKey})

	affected, err := s.store.SetProjectMedia(ctx, in.ProjectID, videoURL, thumbURL)
	if err != nil {
		return nil, newError(KindInternal, op, "failed to record video URLs", err)
	}
	if affected == 0 {
		return nil, newError(KindNotFound, op, fmt.Sprintf("no matching project id %d", in.ProjectID), nil)
	}

	written = nil
	log.WithFields(logrus.Fields{
		"video_key":     videoKey,
		"thumbnail_key": thumbKey,
		"duration_ms":   time.Since(now).Milliseconds(),
	}).Info("Video uploaded")

	return &UploadResult{VideoURL: videoURL, ThumbnailURL: thumbURL}, nil
}

type cleanup struct {
	store storage.BlobStore
	key   string
}
