package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"harbor-control/config"
	"harbor-control/internal/dto"
	"harbor-control/internal/model"
	"harbor-control/internal/repository"
)

// ── export module errors ──

var (
	ErrExportNoEntries    = errors.New("no traffic entries match the filter")
	ErrExportGenerateFail = errors.New("failed to generate spreadsheet")
)

// ExportService spreadsheet export of the traffic log.
//
// The export honours the same search and sort as the list page but ignores
// pagination. The handler sets the response headers and writes the buffer.
type ExportService interface {
	ExportTraffic(ctx context.Context, params *dto.ListParams) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		repo:   repo,
		loc:    cfg.App.Location(),
		now:    time.Now,
		logger: logger,
	}
}

var trafficExportHeader = []string{
	"Date", "Time", "Type", "Name", "Berth", "Direction", "Passengers",
	"Purpose", "Expected return", "Comments", "Boat ID",
}

// ═══════════════════════════════════════════════════════════
// ExportTraffic
// ═══════════════════════════════════════════════════════════
//
// One sheet "Traffic": title row, header row, one row per entry in list order.

func (s *exportService) ExportTraffic(ctx context.Context, params *dto.ListParams) (*bytes.Buffer, string, error) {
	q, _ := trafficListQuery(params)
	entries, _, err := s.repo.Traffic.List(ctx, q)
	if err != nil {
		s.logger.Error("list traffic for export failed", zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Traffic"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	widths := []float64{12, 8, 10, 24, 10, 12, 11, 24, 18, 40, 9}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheet, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	generated := s.now().In(s.loc)
	f.SetCellValue(sheet, "A1", fmt.Sprintf("Traffic log, exported %s", generated.Format("2006/01/02 15:04")))
	f.MergeCell(sheet, "A1", cell(colName(len(trafficExportHeader)-1), 1))

	for i, h := range trafficExportHeader {
		f.SetCellValue(sheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheet, "A2", cell(colName(len(trafficExportHeader)-1), 2), headerStyle)

	row := 3
	for i := range entries {
		for col, v := range trafficExportRow(&entries[i]) {
			f.SetCellValue(sheet, cell(colName(col), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write spreadsheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("traffic_%s.xlsx", generated.Format("20060102_1504"))
	return buf, filename, nil
}

func trafficExportRow(e *model.TrafficEntry) []interface{} {
	var date, clock, ret string
	if e.TrDate != nil {
		date = e.TrDate.Format(model.LabelDateLayout)
	}
	if e.TrTime != nil {
		clock = *e.TrTime
	}
	if e.ExpectedReturnDate != nil {
		ret = e.ExpectedReturnDate.Format(model.LabelDateLayout)
	}
	if e.ExpectedReturnTime != nil {
		if ret != "" {
			ret += " "
		}
		ret += *e.ExpectedReturnTime
	}

	var passengers, boatID interface{} = "", ""
	if e.Passengers != nil {
		passengers = *e.Passengers
	}
	if e.BoatID != nil {
		boatID = *e.BoatID
	}

	return []interface{}{
		date, clock, e.BoatType.Label(), e.Name, e.Berth, e.Direction.Label(), passengers,
		e.Purpose, ret, e.Comments, boatID,
	}
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
