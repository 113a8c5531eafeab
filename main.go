package main

import (
	"context"
	"log"

	"library-management-system/app"
	"library-management-system/config"
	"library-management-system/db"
	"library-management-system/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	app.BootstrapFirstAdmin(context.Background(), application.Config, db.NewRepo(application.DB))

	routes.RegisterRoutes(r, application)

	port := config.Get("PORT", "3001")
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
