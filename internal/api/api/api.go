package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"mergington/cmd/middleware"
	"mergington/internal/service"
)

type Routers struct {
	Service   service.Service
	StaticDir string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	app.GET("/activities", r.Service.GetAllActivities)
	app.POST("/activities/:activity_name/signup", r.Service.Signup)
	app.DELETE("/activities/:activity_name/unregister", r.Service.Unregister)

	app.GET("/", func(c *ginext.Context) {
		c.Redirect(302, "/static/index.html")
	})
	if r.StaticDir != "" {
		app.Static("/static", r.StaticDir)
	}

	app.GET("/healthz", func(c *ginext.Context) {
		c.String(200, "ok")
	})

	return app
}
