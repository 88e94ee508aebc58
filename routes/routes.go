package routes

import (
	"radio_rental_tool/app"
	"radio_rental_tool/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	rentalCtl := controllers.NewRentalController(s.Repo)
	unitCtl := controllers.NewUnitController(s.Repo)
	bundleCtl := controllers.NewBundleController(s.Repo)
	adminCtl := controllers.NewAdminController(s)

	adminMW := app.AdminRequired(a.AdminSessions())

	r.GET("/metrics", app.MetricsHandler())

	// ------------------------------
	// Renter flows (public)
	// ------------------------------
	pub := r.Group("/api")
	{
		pub.GET("/units/available", rentalCtl.ListAvailable)
		pub.POST("/rentals", rentalCtl.Claim)
		pub.GET("/rentals/open", rentalCtl.OpenByDept) // ?dept=
		pub.POST("/rentals/return", rentalCtl.Return)
	}

	// ------------------------------
	// Admin session
	// ------------------------------
	r.POST("/admin/login", adminCtl.Login)
	r.POST("/admin/logout", adminCtl.Logout)

	// ------------------------------
	// Administration (session-guarded)
	// ------------------------------
	adm := r.Group("/api", adminMW)
	{
		adm.POST("/units", unitCtl.Register)
		adm.GET("/units", unitCtl.List)
		adm.DELETE("/units", unitCtl.BulkDelete)

		adm.POST("/bundles", bundleCtl.Create)
		adm.GET("/bundles/:id/units", bundleCtl.Units) // 0 = unclassified

		adm.GET("/admin/rent_status", adminCtl.RentStatus) // ?q=
		adm.GET("/admin/return_status", adminCtl.ReturnStatus)
		adm.POST("/admin/rentals/purge", adminCtl.Purge)
	}
}
