// controllers/rental_controller.go
package controllers

import (
	"net/http"

	"radio_rental_tool/app"
	"radio_rental_tool/config"
	"radio_rental_tool/db"

	"github.com/gin-gonic/gin"
)

type RentalController struct{ Repo *db.Repo }

func NewRentalController(repo *db.Repo) *RentalController { return &RentalController{Repo: repo} }

// ListAvailable renders the selection form data: the live available set
// plus total/current counters.
func (rc *RentalController) ListAvailable(c *gin.Context) {
	units, total, err := rc.Repo.ListAvailableUnits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	items := make([]app.H, 0, len(units))
	for _, u := range units {
		items = append(items, app.H{
			"unit_no":   u.UnitNo,
			"serial_no": u.SerialNo,
			"item_name": u.ItemName,
		})
	}
	c.JSON(http.StatusOK, app.H{
		"ok":            true,
		"items":         items,
		"total_count":   total,
		"current_count": len(items),
	})
}

type ClaimReq struct {
	Dept      string   `json:"dept" binding:"required"`
	UserName  string   `json:"user_name" binding:"required"`
	Phone     string   `json:"phone" binding:"required"`
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date" binding:"required"`
	Signature string   `json:"signature" binding:"required"`
	UnitIDs   []string `json:"unit_ids"`
}

// Claim opens one ledger row per requested unit. Outcomes are per unit:
// a lost allocation race fails that unit only.
func (rc *RentalController) Claim(c *gin.Context) {
	var in ClaimReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if len(in.UnitIDs) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"ok": false, "warning": "select at least one unit"})
		return
	}

	outcomes, err := rc.Repo.ClaimUnits(c.Request.Context(), db.RenterInfo{
		UserName:  in.UserName,
		Dept:      in.Dept,
		Phone:     cleanPhone(in.Phone),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Signature: in.Signature,
	}, in.UnitIDs)
	if err != nil {
		config.LogError(config.GetLogger(), "controllers", "Claim", in.Dept, err)
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	claimed := 0
	for _, oc := range outcomes {
		if oc.Entry != nil {
			claimed++
			app.ClaimsTotal.Inc()
		} else {
			app.DoubleAllocationsTotal.Inc()
		}
	}
	c.JSON(http.StatusCreated, app.H{
		"ok":        claimed == len(outcomes),
		"items":     outcomes,
		"total_qty": claimed,
	})
}

// OpenByDept lists the department's open rentals, the return candidate list.
func (rc *RentalController) OpenByDept(c *gin.Context) {
	dept := c.Query("dept")
	if dept == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing dept"})
		return
	}
	entries, err := rc.Repo.OpenEntriesByDept(c.Request.Context(), dept)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "items": entries})
}

type ReturnReq struct {
	Dept      string   `json:"dept" binding:"required"`
	UserName  string   `json:"user_name" binding:"required"`
	Phone     string   `json:"phone" binding:"required"`
	SerialIDs []string `json:"serial_ids" binding:"required"`
}

// Return closes the matching open entries. Identifiers with no open rental
// for the department are skipped and reported, not failed.
func (rc *RentalController) Return(c *gin.Context) {
	var in ReturnReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	res, err := rc.Repo.ReturnUnits(c.Request.Context(), in.Dept, db.ReturnerInfo{
		Name:  in.UserName,
		Phone: cleanPhone(in.Phone),
	}, in.SerialIDs)
	if err != nil {
		config.LogError(config.GetLogger(), "controllers", "Return", in.Dept, err)
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	app.ReturnsTotal.Add(float64(res.Returned))
	c.JSON(http.StatusOK, app.H{"ok": true, "returned": res.Returned, "skipped": res.Skipped})
}
