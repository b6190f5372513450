package handlers

import (
	"net/http"

	"footnote/middleware"
	"footnote/models"
	"footnote/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const annotationNotDeleted = "Annotation not found or not deleted"

func ListAnnotations(svc *services.Annotations, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.AnnotationQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := svc.AuthorizeProject(ctx, middleware.Username(c), q.ProjectID); err != nil {
			respondError(c, log, err, "Error retrieving existing annotations")
			return
		}

		annotations, err := svc.List(ctx, q)
		if err != nil {
			respondError(c, log, err, "Error retrieving existing annotations")
			return
		}

		response := make([]models.AnnotationResponse, 0, len(annotations))
		for i := range annotations {
			response = append(response, annotations[i].Response())
		}
		c.JSON(http.StatusOK, response)
	}
}

func AddAnnotation(svc *services.Annotations, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AddAnnotationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := svc.AuthorizeProject(ctx, middleware.Username(c), req.ProjectID); err != nil {
			respondError(c, log, err, "Error adding annotation")
			return
		}

		annotation, err := svc.Add(ctx, *req.Timestamp, req.Text, req.ProjectID)
		if err != nil {
			respondError(c, log, err, "Error adding annotation")
			return
		}

		c.JSON(http.StatusCreated, annotation.Response())
	}
}

func EditAnnotation(svc *services.Annotations, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EditAnnotationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		if _, err := svc.Authorize(ctx, middleware.Username(c), req.ID); err != nil {
			respondError(c, log, err, "Error editing annotation")
			return
		}

		if err := svc.Edit(ctx, req.ID, req.Text); err != nil {
			respondError(c, log, err, "Error editing annotation")
			return
		}

		c.JSON(http.StatusOK, gin.H{})
	}
}

func DeleteAnnotation(svc *services.Annotations, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DeleteAnnotationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		_, err := svc.Authorize(ctx, middleware.Username(c), req.ID)
		if err == nil {
			err = svc.Delete(ctx, req.ID)
		}
		if err != nil {
			if services.KindOf(err) == services.KindNotFound {
				c.JSON(http.StatusNotFound, gin.H{"message": annotationNotDeleted})
				return
			}
			respondError(c, log, err, "Error deleting annotation")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Annotation deleted"})
	}
}
