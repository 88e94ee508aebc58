package main

import (
	"os"

	"radio_rental_tool/app"
	"radio_rental_tool/config"
	"radio_rental_tool/routes"
)

func main() {
	config.LoadEnv()
	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	config.GetLogger().Infof("listening on :%s", port)
	_ = r.Run(":" + port)
}
