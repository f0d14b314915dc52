package compliance

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
)

const csvTimeLayout = "2006-01-02 15:04"

var guestRegisterHeader = []string{
	"Booking Ref", "Guest Name", "Father Name", "Phone", "ID Type",
	"ID Number", "Nationality", "Permanent Address", "Present Address",
	"Purpose", "Coming From", "Going To", "Room", "Check In", "Check Out",
}

var vatReportHeader = []string{
	"Invoice No", "Booking Ref", "Guest Name", "Property", "Check In",
	"Check Out", "Base Amount", "VAT Amount", "Total", "Payment Status",
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(csvTimeLayout)
}

// WriteGuestRegisterCSV writes the police register export. refs maps booking id to
// booking reference; unknown bookings leave the column empty.
func WriteGuestRegisterCSV(w io.Writer, rows []models.GuestRegister, refs map[uint]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(guestRegisterHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			refs[r.BookingID],
			r.GuestName,
			r.FatherName,
			r.Phone,
			string(r.IDType),
			r.IDNumber,
			r.Nationality,
			r.PermanentAddress,
			r.PresentAddress,
			r.PurposeOfVisit,
			r.ComingFrom,
			r.GoingTo,
			r.RoomNumber,
			formatTime(r.CheckInTime),
			formatTime(r.CheckOutTime),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteVATReportCSV writes one row per booking followed by a blank row and a TOTALS row.
func WriteVATReportCSV(w io.Writer, bookings []models.Booking, propertyNames map[uint]string, total Revenue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(vatReportHeader); err != nil {
		return err
	}
	for _, b := range bookings {
		invoice := ""
		if b.InvoiceNo != nil {
			invoice = *b.InvoiceNo
		}
		rec := []string{
			invoice,
			b.BookingRef,
			b.GuestName,
			propertyNames[b.PropertyID],
			b.CheckInDate.Format(time.DateOnly),
			b.CheckOutDate.Format(time.DateOnly),
			strconv.FormatInt(b.BaseAmount, 10),
			strconv.FormatInt(b.VATAmount, 10),
			strconv.FormatInt(b.TotalAmount, 10),
			string(b.PaymentStatus),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	totals := []string{
		"", "", "", "", "", "TOTALS:",
		strconv.FormatInt(total.Base, 10),
		strconv.FormatInt(total.VAT, 10),
		strconv.FormatInt(total.Grand, 10),
		"",
	}
	if err := cw.Write(totals); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
