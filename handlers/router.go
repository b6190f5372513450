package handlers

import (
	"footnote/middleware"
	"footnote/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store       Pinger
	Projects    *services.Projects
	Annotations *services.Annotations
	Uploads     *services.Uploads
	Log         logrus.FieldLogger

	SessionSecret  string
	CookieName     string
	AllowedOrigin  string
	MaxUploadBytes int64
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORS(d.AllowedOrigin))
	r.Use(middleware.Session(d.SessionSecret, d.CookieName, d.Log))

	r.GET("/health", HealthCheck(d.Store, d.Log))

	protected := r.Group("")
	protected.Use(middleware.RequireSession())
	{
		annotations := protected.Group("/annotations")
		{
			annotations.GET("/all", ListAnnotations(d.Annotations, d.Log))
			annotations.POST("/add", AddAnnotation(d.Annotations, d.Log))
			annotations.PUT("/edit", EditAnnotation(d.Annotations, d.Log))
			annotations.DELETE("/delete", DeleteAnnotation(d.Annotations, d.Log))
		}

		projects := protected.Group("/projects")
		{
			projects.GET("/home", ListProjects(d.Projects, d.Log))
			projects.GET("/create-project", CreateProject(d.Projects, d.Log))
			projects.GET("/load-project/:pid", LoadProject(d.Projects, d.Log))
			projects.PUT("/edit-project-name", EditProjectName(d.Projects, d.Log))
			projects.DELETE("/delete-project/:projectID", DeleteProject(d.Projects, d.Log))
		}

		videos := protected.Group("/videos")
		{
			videos.POST("/upload-video", UploadVideo(d.Projects, d.Uploads, d.MaxUploadBytes, d.Log))
		}
	}

	return r
}
