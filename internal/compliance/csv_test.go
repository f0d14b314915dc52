package compliance

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGuestRegisterCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteGuestRegisterCSV(&buf, nil, nil))

	assert.Equal(t,
		"Booking Ref,Guest Name,Father Name,Phone,ID Type,ID Number,Nationality,Permanent Address,Present Address,Purpose,Coming From,Going To,Room,Check In,Check Out\n",
		buf.String())
}

func TestWriteGuestRegisterCSV_Rows(t *testing.T) {
	in := time.Date(2026, 4, 3, 14, 5, 0, 0, time.UTC)
	rows := []models.GuestRegister{{
		BookingID:        7,
		GuestName:        "Rahima Khatun",
		FatherName:       "Abdul Karim",
		Phone:            "01711000000",
		IDType:           models.IDNational,
		IDNumber:         "1990123456",
		Nationality:      "Bangladeshi",
		PermanentAddress: "Village Road, Sylhet",
		PurposeOfVisit:   "training",
		RoomNumber:       "101",
		CheckInTime:      &in,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteGuestRegisterCSV(&buf, rows, map[uint]string{7: "LKY-ABC123"}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`LKY-ABC123,Rahima Khatun,Abdul Karim,01711000000,nid,1990123456,Bangladeshi,"Village Road, Sylhet",,training,,,101,2026-04-03 14:05,`,
		lines[1])
}

func TestWriteVATReportCSV_TotalsRow(t *testing.T) {
	inv := "INV-LKY-1"
	bs := []models.Booking{{
		ID:            1,
		BookingRef:    "LKY-1",
		InvoiceNo:     &inv,
		GuestName:     "Karim",
		PropertyID:    3,
		CheckInDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		BaseAmount:    4500,
		VATAmount:     675,
		TotalAmount:   5175,
		PaymentStatus: models.PaymentCompleted,
		Status:        models.StatusCheckedOut,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteVATReportCSV(&buf, bs, map[uint]string{3: "Srimangal Eco Lodge"}, RevenueSummary(bs)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Invoice No,Booking Ref,Guest Name,Property,Check In,Check Out,Base Amount,VAT Amount,Total,Payment Status", lines[0])
	assert.Equal(t, "INV-LKY-1,LKY-1,Karim,Srimangal Eco Lodge,2026-04-01,2026-04-04,4500,675,5175,completed", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, ",,,,,TOTALS:,4500,675,5175,", lines[3])
}
