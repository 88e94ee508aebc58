// controllers/unit_controller.go
package controllers

import (
	"errors"
	"net/http"

	"radio_rental_tool/app"
	"radio_rental_tool/db"
	"radio_rental_tool/models"

	"github.com/gin-gonic/gin"
)

type UnitController struct{ Repo *db.Repo }

func NewUnitController(repo *db.Repo) *UnitController { return &UnitController{Repo: repo} }

// Register creates a single unit by hand, outside the bundle provisioner.
func (uc *UnitController) Register(c *gin.Context) {
	var in struct {
		UnitNo    string `json:"unit_no" binding:"required"`
		SerialNo  string `json:"serial_no" binding:"required"`
		ItemName  string `json:"item_name"`
		ModelName string `json:"model_name"`
		BundleID  *uint  `json:"bundle_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u := &models.Unit{
		UnitNo:    in.UnitNo,
		SerialNo:  in.SerialNo,
		ItemName:  in.ItemName,
		ModelName: in.ModelName,
		BundleID:  in.BundleID,
	}
	if err := uc.Repo.RegisterUnit(c.Request.Context(), u); err != nil {
		if errors.Is(err, db.ErrDuplicateUnit) {
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (uc *UnitController) List(c *gin.Context) {
	units, err := uc.Repo.ListUnits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "items": units})
}

// BulkDelete removes the deletable subset of the requested units. Units
// with an open rental (or unknown numbers) are skipped and reported.
func (uc *UnitController) BulkDelete(c *gin.Context) {
	var in struct {
		UnitNos []string `json:"unit_nos" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	res, err := uc.Repo.BulkDeleteUnits(c.Request.Context(), in.UnitNos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "deleted": res.Deleted, "skipped": res.Skipped})
}
