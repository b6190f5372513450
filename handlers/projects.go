package handlers

import (
	"fmt"
	"net/http"

	"footnote/middleware"
	"footnote/models"
	"footnote/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func ListProjects(svc *services.Projects, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := svc.ListForUser(c.Request.Context(), middleware.Username(c))
		if err != nil {
			respondError(c, log, err, "Error retrieving existing projects")
			return
		}

		response := make([]models.ProjectSummary, 0, len(projects))
		for i := range projects {
			response = append(response, projects[i].Summary())
		}
		c.JSON(http.StatusOK, response)
	}
}

func CreateProject(svc *services.Projects, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := svc.CreateID(c.Request.Context(), middleware.Username(c))
		if err != nil {
			respondError(c, log, err, "Error getting new project id")
			return
		}

		c.JSON(http.StatusOK, models.CreateProjectResponse{
			PID:   id,
			Title: models.DefaultProjectTitle,
		})
	}
}

func LoadProject(svc *services.Projects, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := parseID(c.Param("pid"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		project, err := svc.Authorize(c.Request.Context(), middleware.Username(c), projectID)
		if err != nil {
			respondError(c, log, err, "Error loading project")
			return
		}

		c.JSON(http.StatusOK, project.Detail())
	}
}

// EditProjectName rejects an over-long name before looking the project up.
// A missing project answers 400.
func EditProjectName(svc *services.Projects, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EditProjectNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		if err := services.ValidateTitle(req.ProjectName); err != nil {
			respondError(c, log, err, "Error editing project name")
			return
		}

		ctx := c.Request.Context()
		_, err := svc.Authorize(ctx, middleware.Username(c), req.PID)
		if err == nil {
			err = svc.EditName(ctx, req.ProjectName, req.PID)
		}
		if err != nil {
			if services.KindOf(err) == services.KindNotFound {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Project name not edited or project ID not found"})
				return
			}
			respondError(c, log, err, "Error editing project name")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Project name edited successfully"})
	}
}

// DeleteProject removes a project and its annotations. A missing project
// answers 400.
func DeleteProject(svc *services.Projects, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := parseID(c.Param("projectID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		ctx := c.Request.Context()
		_, err = svc.Authorize(ctx, middleware.Username(c), projectID)
		if err == nil {
			err = svc.Delete(ctx, projectID)
		}
		if err != nil {
			if services.KindOf(err) == services.KindNotFound {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("No matching pid %d found in PROJECTS", projectID)})
				return
			}
			respondError(c, log, err, "Error deleting project")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted project with pid %d", projectID)})
	}
}
