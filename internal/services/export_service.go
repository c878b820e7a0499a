package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportService renders schedule details as printable documents
type ExportService struct {
	now func() time.Time
}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

// ScheduleDetailPDF renders the detail panel of one schedule as an A4 PDF.
// It returns the document and a suggested file name.
func (s *ExportService) ScheduleDetailPDF(detail ScheduleDetail) ([]byte, string, error) {
	sch := detail.Schedule

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Schedule "+sch.ScheduleID, false)
	pdf.SetAuthor("SmartTransit Schedule Admin", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, safe(sch.RouteName, "Route"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Schedule ID : " + sch.ScheduleID,
		fmt.Sprintf("Distance    : %d km", sch.TotalDistance),
		fmt.Sprintf("Duration    : %d minutes", sch.TotalDuration),
		"Operator    : " + safe(sch.OperatorName, "-"),
		fmt.Sprintf("Bus         : %s (%s)", safe(sch.BusNumber, "-"), safe(sch.BusType, "-")),
		"Fare        : " + safe(sch.Fare.String(), "-"),
		"Valid from  : " + safe(sch.ValidFrom, "-"),
		"Valid until : " + validUntilText(sch.ValidUntil),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Journeys")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	if len(detail.Journeys) == 0 {
		pdf.Cell(0, 7, "No journeys")
		pdf.Ln(7)
	}
	for _, j := range detail.Journeys {
		pdf.Cell(0, 7, fmt.Sprintf("%s - %s   %s", safe(j.DepartureTime, "-"), safe(j.ArrivalTime, "-"), j.Days))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Route Stops")
	pdf.Ln(9)

	widths := []float64{12, 60, 45, 35, 35}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"#", "Stop", "City", "Arrival", "Departure"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, stop := range detail.Stops {
		arrival, departure := "", ""
		if stop.HasTiming {
			arrival = timeText(stop.ArrivalTime)
			departure = timeText(stop.DepartureTime)
		}
		cells := []string{fmt.Sprintf("%d", stop.Sequence), stop.Name, stop.City, arrival, departure}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generated "+s.now().Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render schedule pdf: %w", err)
	}

	filename := "schedule-" + safeFilenamePart(sch.ScheduleID) + ".pdf"
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func validUntilText(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "No Expiry"
	}
	return *v
}

func timeText(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	if len(*v) >= 5 {
		return (*v)[:5]
	}
	return *v
}

func safeFilenamePart(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	if s == "" {
		return "unknown"
	}
	return s
}
