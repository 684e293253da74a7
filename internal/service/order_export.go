package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/jung-kurt/gofpdf"
)

// OrderExportService renders order reports as PDF
type OrderExportService struct {
	orderRepo repository.OrderRepository
}

// NewOrderExportService creates the export service
func NewOrderExportService(orderRepo repository.OrderRepository) *OrderExportService {
	return &OrderExportService{orderRepo: orderRepo}
}

// ExportOrdersInput report parameters
type ExportOrdersInput struct {
	From   *time.Time
	To     *time.Time
	Status string
}

// ExportPDF renders orders in the range as a tabular PDF report
func (s *OrderExportService) ExportPDF(input ExportOrdersInput) ([]byte, error) {
	orders, err := s.orderRepo.ListByDateRange(repository.OrderListFilter{
		CreatedFrom: input.From,
		CreatedTo:   input.To,
		Status:      input.Status,
	})
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("GlowMart Orders", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "GlowMart Order Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, reportRangeLabel(input))
	pdf.Ln(10)

	headers := []string{"Order No", "Date", "Customer", "Payment", "Status", "Shipment", "AWB", "Total (INR)"}
	widths := []float64{42, 24, 50, 22, 24, 30, 36, 30}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	total := models.NewMoneyFromFloat(0)
	for _, order := range orders {
		cells := []string{
			order.OrderNo,
			order.CreatedAt.Format("02 Jan 2006"),
			order.ShippingName,
			order.PaymentMethod,
			order.Status,
			order.ShipmentStatus,
			order.AWBNumber,
			order.TotalAmount.String(),
		}
		for i, c := range cells {
			align := "L"
			if i == len(cells)-1 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		total = models.NewMoneyFromDecimal(total.Decimal.Add(order.TotalAmount.Decimal))
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 8, fmt.Sprintf("%d orders, INR %s", len(orders), total.String()))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func reportRangeLabel(input ExportOrdersInput) string {
	const layout = "02 Jan 2006"
	switch {
	case input.From != nil && input.To != nil:
		return fmt.Sprintf("Period: %s to %s", input.From.Format(layout), input.To.Format(layout))
	case input.From != nil:
		return "From " + input.From.Format(layout)
	case input.To != nil:
		return "Until " + input.To.Format(layout)
	default:
		return "All orders"
	}
}
