package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"sourcevia/internal/common/errs"
	"sourcevia/pkg/permissions"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// registerColumns lists the leading columns per module; any other document
// fields follow alphabetically.
var registerColumns = map[permissions.Module][]string{
	permissions.ModuleVendors:        {"number", "status", "name", "category", "country", "risk_category", "risk_score", "dd_required", "dd_completed"},
	permissions.ModuleContracts:      {"number", "status", "title", "vendor_id", "classification", "value", "currency"},
	permissions.ModulePurchaseOrders: {"number", "status", "title", "vendor_id", "total", "currency"},
	permissions.ModuleInvoices:       {"number", "status", "invoice_ref", "vendor_id", "amount", "currency", "paid_at"},
}

type ExportService interface {
	Register(ctx context.Context, actor permissions.Actor, module permissions.Module) ([]byte, string, error)
}

type ExportServiceImpl struct {
	Repo ExportRepository
	Eval *permissions.Evaluator
}

func NewExportService(repo ExportRepository, eval *permissions.Evaluator) ExportService {
	return &ExportServiceImpl{Repo: repo, Eval: eval}
}

// Register renders the full register of a module as an xlsx workbook.
func (s *ExportServiceImpl) Register(ctx context.Context, actor permissions.Actor, module permissions.Module) ([]byte, string, error) {
	if _, ok := moduleCollections[module]; !ok {
		return nil, "", errs.Validation("module %q has no register", module)
	}
	if !s.Eval.CanView(actor.Role, module) {
		return nil, "", errs.Authorization("role %q may not view %s", actor.Role, module)
	}

	docs, err := s.Repo.FetchAll(ctx, module)
	if err != nil {
		return nil, "", err
	}

	columns := columnsFor(module, docs)
	payload, err := renderWorkbook(string(module), columns, docs)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-register-%s.xlsx", module, time.Now().Format("2006-01-02"))
	return payload, filename, nil
}

func columnsFor(module permissions.Module, docs []bson.M) []string {
	leading := registerColumns[module]
	if leading == nil {
		leading = []string{"number", "status", "name"}
	}

	seen := map[string]bool{"_id": true}
	for _, col := range leading {
		seen[col] = true
	}

	var rest []string
	for _, doc := range docs {
		for k := range doc {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append(append([]string{}, leading...), rest...)
}

func renderWorkbook(sheetName string, columns []string, docs []bson.M) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, doc := range docs {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := doc[col].(type) {
			case nil:
			case time.Time:
				f.SetCellValue(sheetName, cell, v.Format("2006-01-02 15:04:05"))
			case primitive.DateTime:
				f.SetCellValue(sheetName, cell, v.Time().Format("2006-01-02 15:04:05"))
			case primitive.ObjectID:
				f.SetCellValue(sheetName, cell, v.Hex())
			case primitive.A, bson.M:
				f.SetCellValue(sheetName, cell, fmt.Sprintf("%v", v))
			default:
				f.SetCellValue(sheetName, cell, v)
			}
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
