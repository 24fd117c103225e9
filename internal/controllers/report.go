package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"academy-admin/internal/dto"
	"academy-admin/internal/services"
	"academy-admin/pkg/utils"
)

type ReportController struct {
	managerService services.BranchManagerServiceInterface
	logger         *zap.Logger
}

func NewReportController(managerService services.BranchManagerServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{managerService: managerService, logger: logger}
}

// Export streams the branch manager roster, either as JSON or as an
// xlsx workbook when format=xlsx.
func (ctrl *ReportController) Export(c echo.Context) error {
	params := utils.ParseListParams(c.QueryParams())
	format := strings.ToLower(c.QueryParam("format"))

	if format == "xlsx" {
		// Full roster for the export, not one page.
		params.Skip = 0
		params.Limit = 100000
	}

	managers, total, err := ctrl.managerService.GetBranchManagers(c.Request().Context(), params)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if format == "xlsx" {
		return ctrl.respondWithXLSX(c, managers)
	}

	return utils.ListResponse(c, managers, "Roster exported successfully", http.StatusOK, total, params)
}

var rosterHeaders = []string{
	"#", "Full Name", "Email", "Phone", "Designation", "Branch", "Branch Location", "City", "Active", "Created",
}

func rosterRow(i int, m dto.BranchManagerDTO) []interface{} {
	branchName, branchLocation := "", ""
	if m.BranchAssignment != nil {
		branchName = m.BranchAssignment.BranchName
		branchLocation = m.BranchAssignment.BranchLocation
	}
	city := ""
	if m.AddressInfo != nil {
		city = m.AddressInfo.City
	}
	active := "No"
	if m.IsActive {
		active = "Yes"
	}

	return []interface{}{
		i + 1, m.FullName, m.Email, m.Phone, m.ProfessionalInfo.Designation,
		branchName, branchLocation, city, active, m.CreatedAt.Format("02.01.2006"),
	}
}

func (ctrl *ReportController) respondWithXLSX(c echo.Context, managers []dto.BranchManagerDTO) error {
	f := excelize.NewFile()
	sheet := "Branch Managers"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &rosterHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "J1", style)

	for i, m := range managers {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rosterRow(i, m)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "C", 28)
	f.SetColWidth(sheet, "D", "G", 22)

	fileName := fmt.Sprintf("branch_managers_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}
