// controllers/bundle_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"radio_rental_tool/app"
	"radio_rental_tool/db"

	"github.com/gin-gonic/gin"
)

type BundleController struct{ Repo *db.Repo }

func NewBundleController(repo *db.Repo) *BundleController { return &BundleController{Repo: repo} }

type CreateBundleReq struct {
	ItemName       string `json:"item_name" binding:"required"`
	ModelName      string `json:"model_name" binding:"required"`
	Category       string `json:"category"`
	Location       string `json:"location"`
	Quantity       int    `json:"quantity" binding:"required,gt=0"`
	StartUnitSeq   int    `json:"start_unit_seq"`
	StartSerialSeq int    `json:"start_serial_seq"`
}

// Create provisions a bundle of sequentially labeled units. Collisions
// under-produce; the response carries created and skipped counts.
func (bc *BundleController) Create(c *gin.Context) {
	var in CreateBundleReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.StartUnitSeq <= 0 {
		in.StartUnitSeq = 1
	}
	if in.StartSerialSeq <= 0 {
		in.StartSerialSeq = 1
	}
	res, err := bc.Repo.CreateBundle(c.Request.Context(), db.CreateBundleInput{
		ItemName:       in.ItemName,
		ModelName:      in.ModelName,
		Category:       in.Category,
		Location:       in.Location,
		Quantity:       in.Quantity,
		StartUnitSeq:   in.StartUnitSeq,
		StartSerialSeq: in.StartSerialSeq,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{
		"ok":        true,
		"bundle_id": res.BundleID,
		"created":   res.Created,
		"skipped":   res.Skipped,
	})
}

// Units lists one bundle's units with live rental state. id 0 means
// unclassified units.
func (bc *BundleController) Units(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid bundle id"})
		return
	}
	rows, err := bc.Repo.BundleUnits(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "units": rows})
}
