package services

import (
	"context"
	"fmt"
	"io"

	"clubhouse/internal/models/dtos/requests"

	"github.com/xuri/excelize/v2"
)

const (
	inventorySheet = "Inventory"
	requestsSheet  = "Requests"
)

var (
	inventoryHeaders = []interface{}{"ID", "Name", "Brand", "Model", "Specifications", "Quantity", "Available", "On loan", "Pending"}
	requestHeaders   = []interface{}{"ID", "Equipment", "Member", "Quantity", "Return date", "Status", "Decided by", "Requested at"}
)

// ExportService renders the inventory as a spreadsheet
type ExportService struct {
	equipment *EquipmentService
}

func NewExportService(equipment *EquipmentService) *ExportService {
	return &ExportService{equipment: equipment}
}

// WriteInventory writes an xlsx workbook with an inventory sheet and a
// request history sheet
func (svc *ExportService) WriteInventory(ctx context.Context, w io.Writer) error {
	stock, err := svc.equipment.List(ctx)
	if err != nil {
		return err
	}
	reqs, err := svc.equipment.ListRequests(ctx, "", true)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(requestsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(inventorySheet, "A1", &inventoryHeaders); err != nil {
		return err
	}
	_ = f.SetCellStyle(inventorySheet, "A1", "I1", style)

	for i, item := range stock {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			item.ID, item.Name, item.Brand, item.Model, item.Specifications,
			item.Quantity, item.AvailableQuantity, item.OnLoan(), item.PendingQuantity,
		}
		if err := f.SetSheetRow(inventorySheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(inventorySheet, "B", "D", 20)
	_ = f.SetColWidth(inventorySheet, "E", "E", 40)

	if err := f.SetSheetRow(requestsSheet, "A1", &requestHeaders); err != nil {
		return err
	}
	_ = f.SetCellStyle(requestsSheet, "A1", "H1", style)

	for i, req := range reqs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		returnDate, decidedBy := "", ""
		if req.ReturnDate != nil {
			returnDate = req.ReturnDate.Format(requests.DateLayout)
		}
		if req.DecidedBy != nil {
			decidedBy = *req.DecidedBy
		}
		row := []interface{}{
			req.ID, req.Equipment.Name, req.Username, req.Quantity, returnDate,
			req.Status.String(), decidedBy, req.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(requestsSheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(requestsSheet, "B", "C", 20)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
