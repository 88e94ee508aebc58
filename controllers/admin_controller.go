// controllers/admin_controller.go
package controllers

import (
	"net/http"
	"time"

	"radio_rental_tool/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminController struct{ *Srv }

func NewAdminController(s *Srv) *AdminController { return &AdminController{Srv: s} }

func (ac *AdminController) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	// ADMIN_PASSWORD unset means admin login is disabled outright.
	if ac.Cfg.AdminPassword == "" ||
		in.Username != ac.Cfg.AdminUser || in.Password != ac.Cfg.AdminPassword {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	id := uuid.NewString()
	if err := ac.AdminSess.Create(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	ac.setAdminCookie(c.Writer, id, ac.Cfg.SessionTTL)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AdminController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AdminSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AdminSess.Delete(c.Request.Context(), ck.Value)
	}
	ac.setAdminCookie(c.Writer, "", -time.Second)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// RentStatus is the occupancy dashboard: open rentals (optionally keyword
// filtered), the live available set, and computed bundle quantities.
func (ac *AdminController) RentStatus(c *gin.Context) {
	ctx := c.Request.Context()

	rentList, err := ac.Repo.ListOpenEntries(ctx, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	availableUnits, _, err := ac.Repo.ListAvailableUnits(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	occ, err := ac.Repo.Occupancy(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, app.H{
		"ok":              true,
		"rent_list":       rentList,
		"rental_count":    len(rentList),
		"available_units": availableUnits,
		"occupancy":       occ,
	})
}

// ReturnStatus lists closed rentals, most recent first.
func (ac *AdminController) ReturnStatus(c *gin.Context) {
	entries, err := ac.Repo.ListReturnedEntries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	rows := make([]app.H, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, app.H{
			"id":         e.ID,
			"user_name":  e.UserName,
			"dept":       e.Dept,
			"phone":      formatPhone(e.Phone),
			"serial_no":  e.SerialNo,
			"unit_no":    e.UnitNo,
			"start_date": e.StartDate,
			"end_date":   e.EndDate,
		})
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "return_list": rows, "return_count": len(rows)})
}

// Purge is the destructive escape hatch for bad open rows. Every deleted
// row leaves an admin_purge audit entry.
func (ac *AdminController) Purge(c *gin.Context) {
	var in struct {
		Serials []string `json:"serials" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	res, err := ac.Repo.PurgeOpenEntries(c.Request.Context(), in.Serials)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	app.PurgesTotal.Add(float64(res.Purged))
	c.JSON(http.StatusOK, app.H{"ok": true, "purged": res.Purged, "skipped": res.Skipped})
}
