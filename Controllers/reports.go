package Controllers

import (
	"fmt"
	"log"
	"time"

	"Oryx/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportHandler exports operational data for the call centre
type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

// ExportDispatchLogs writes the recorded dispatch decisions to an xlsx
// workbook, optionally filtered by start/end date query parameters.
func (h *ReportHandler) ExportDispatchLogs(c *fiber.Ctx) error {
	query := h.DB.Model(&Models.DispatchLog{}).Order("created_at asc")
	if start := c.Query("startDate"); start != "" {
		query = query.Where("created_at >= ?", start)
	}
	if end := c.Query("endDate"); end != "" {
		query = query.Where("created_at <= ?", end)
	}

	var logs []Models.DispatchLog
	if err := query.Find(&logs).Error; err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load dispatch logs",
		})
	}

	f := excelize.NewFile()
	sheet := "Dispatch Log"
	index, err := f.NewSheet(sheet)
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not build report",
		})
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Plate No", "Vehicle Type", "Target Lng", "Target Lat",
		"Distance (km)", "Adjusted (km)", "Crosses Risk Area"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, entry := range logs {
		values := []interface{}{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.PlateNo,
			entry.VehicleType,
			entry.TargetLng,
			entry.TargetLat,
			entry.DistanceKm,
			entry.AdjustedKm,
			entry.CrossesRiskArea,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not write report",
		})
	}

	filename := fmt.Sprintf("dispatch_log_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
