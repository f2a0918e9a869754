package services

import (
	"bytes"
	"fmt"
	"strings"

	"ferryapp/internal/domain"
	"ferryapp/internal/domain/models"
	"ferryapp/internal/repositories"
	"ferryapp/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService menghasilkan PDF e-ticket per penumpang.
type DocsService struct {
	Passengers repositories.PassengerRepository
	Bookings   repositories.BookingRepository
	Schedules  repositories.ScheduleRepository
	RequestID  string
}

type ticketDocData struct {
	TicketNumber  string
	PassengerName string
	BookingCode   string
	ShipName      string
	RouteFrom     string
	RouteTo       string
	TripType      string
	TripDate      string
	TripTime      string
	PricePerSeat  int64
}

// GenerateETicket renders the e-ticket for one paid passenger.
func (s DocsService) GenerateETicket(passengerID int64) ([]byte, string, error) {
	passenger, err := s.Passengers.GetByID(passengerID)
	if err != nil {
		return nil, "", err
	}
	if passenger.TicketNumber == "" {
		return nil, "", domain.ConflictError{Resource: "passenger", Msg: "tiket belum terbit"}
	}

	booking, err := s.Bookings.GetByID(passenger.BookingID)
	if err != nil {
		return nil, "", err
	}
	if booking.PaymentStatus != models.BookingPaid {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "booking belum lunas"}
	}

	schedule, err := s.Schedules.GetByID(booking.ScheduleID)
	if err != nil {
		return nil, "", err
	}

	data := ticketDocData{
		TicketNumber:  passenger.TicketNumber,
		PassengerName: passenger.Name,
		BookingCode:   booking.BookingCode,
		ShipName:      schedule.ShipName,
		RouteFrom:     schedule.RouteFrom,
		RouteTo:       schedule.RouteTo,
		TripType:      schedule.TripType,
		TripDate:      schedule.DepartureDate,
		TripTime:      schedule.DepartureTime,
	}
	if booking.TotalPassengers > 0 {
		data.PricePerSeat = booking.Total / int64(booking.TotalPassengers)
	}

	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("passenger_id=%d", passengerID))
	return buildETicketPDF(data)
}

func buildETicketPDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET FERRY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("No Tiket       : %s", safe(d.TicketNumber, "-")),
		fmt.Sprintf("Nama Penumpang : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Kode Booking   : %s", safe(d.BookingCode, "-")),
		fmt.Sprintf("Kapal          : %s", safe(d.ShipName, "-")),
		fmt.Sprintf("Rute           : %s -> %s", safe(d.RouteFrom, "-"), safe(d.RouteTo, "-")),
		fmt.Sprintf("Layanan        : %s", safe(d.TripType, "-")),
		fmt.Sprintf("Tanggal/Jam    : %s %s", safe(dateOnly(d.TripDate), "-"), safe(timeHM(d.TripTime), "-")),
		fmt.Sprintf("Harga          : %s", utils.FormatRupiah(d.PricePerSeat)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Catatan: E-ticket ini berlaku untuk 1 penumpang (1 kursi). Tunjukkan QR/nomor tiket saat boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", safeFilenamePart(d.BookingCode), safeFilenamePart(d.PassengerName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func dateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func timeHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
