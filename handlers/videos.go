package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"footnote/middleware"
	"footnote/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	uploadFailed   = "Failed to upload video."
	uploadTooLarge = "Video exceeds the maximum upload size."
)

// UploadVideo accepts a multipart form with a "video" file and a "pid"
// field. Bodies larger than maxBytes answer 413.
func UploadVideo(projects *services.Projects, uploads *services.Uploads, maxBytes int64, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			if c.Request.ContentLength > maxBytes {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": uploadTooLarge})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		file, err := c.FormFile("video")
		if err != nil {
			if isTooLarge(err) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": uploadTooLarge})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded."})
			return
		}

		rawPID := c.PostForm("pid")
		if strings.TrimSpace(rawPID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID (pid) is required."})
			return
		}
		projectID, err := parseID(rawPID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		ctx := c.Request.Context()
		if _, err := projects.Authorize(ctx, middleware.Username(c), projectID); err != nil {
			respondError(c, log, err, uploadFailed)
			return
		}

		data, err := readUpload(file)
		if err != nil {
			respondErrorStatus(c, log, err, http.StatusInternalServerError, uploadFailed)
			return
		}

		result, err := uploads.Upload(ctx, services.VideoUpload{
			ProjectID:   projectID,
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			fallback := uploadFailed
			if services.KindOf(err) == services.KindUpload {
				fallback = services.MessageOf(err)
			}
			respondError(c, log, err, fallback)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      fmt.Sprintf("Video uploaded successfully! Updated video and thumbnail URL for project with pid %d", projectID),
			"videoUrl":     result.VideoURL,
			"thumbnailUrl": result.ThumbnailURL,
		})
	}
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
