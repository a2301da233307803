package receipt

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"

	"salonpos/models"
)

var header = Header{SalonName: "LuxeSalon & Spa", Currency: "INR", FooterPhone: "9876543210"}

func sampleBill() models.Bill {
	return models.Bill{
		ID:           "01HS3Q",
		Date:         "2024-03-09 14:30",
		CustomerID:   "c101",
		CustomerName: "Priya Sharma",
		Items: []models.CartLine{
			{ItemID: "s2", ItemType: models.ItemService, Name: "Premium Hair Spa", UnitPrice: 1500, Quantity: 1},
			{ItemID: "p6", ItemType: models.ItemProduct, Name: "Loreal Shampoo 250ml", UnitPrice: 450, Quantity: 2},
		},
		Subtotal:        2400,
		DiscountPercent: 10,
		DiscountAmount:  240,
		RedeemedPoints:  60,
		Tax:             378,
		Total:           2478,
		PaymentMethod:   models.PaymentUPI,
	}
}

func TestFormatContainsAllSections(t *testing.T) {
	text := Format(sampleBill(), header)

	for _, want := range []string{
		"LUXESALON & SPA",
		"2024-03-09 14:30",
		"Bill No: #01HS3Q",
		"Cust: Priya Sharma",
		"Premium Hair Spa x1",
		"Loreal Shampoo 250ml x2",
		"900.00",
		"Subtotal:",
		"Discount (10%):",
		"-240.00",
		"Loyalty:",
		"-60.00",
		"Tax:",
		"INR 2478.00",
		"UPI",
		"Thank you for visiting!",
		"For appointments call 9876543210",
	} {
		require.Contains(t, text, want)
	}

	require.Less(t, strings.Index(text, "Subtotal:"), strings.Index(text, "Discount"))
	require.Less(t, strings.Index(text, "Loyalty:"), strings.Index(text, "Tax:"))
	require.Less(t, strings.Index(text, "Tax:"), strings.Index(text, "TOTAL:"))
	require.Less(t, strings.Index(text, "TOTAL:"), strings.Index(text, "Mode:"))
}

func TestFormatLinesFitWidth(t *testing.T) {
	bill := sampleBill()
	bill.Items[0].Name = "Deep Tissue Massage with Aromatherapy Oils and Hot Stones"

	for _, l := range strings.Split(strings.TrimRight(Format(bill, header), "\n"), "\n") {
		require.LessOrEqual(t, utf8.RuneCountInString(l), Width, l)
	}
	require.Contains(t, Format(bill, header), " x1")
}

func TestFormatOmitsZeroDiscountAndLoyalty(t *testing.T) {
	bill := sampleBill()
	bill.DiscountAmount = 0
	bill.DiscountPercent = 0
	bill.RedeemedPoints = 0
	bill.CustomerName = models.WalkInCustomer

	text := Format(bill, header)
	require.NotContains(t, text, "Discount")
	require.NotContains(t, text, "Loyalty:")
	require.NotContains(t, text, "Cust:")
}

func TestFormatEmptyBill(t *testing.T) {
	text := Format(models.Bill{ID: "empty", PaymentMethod: models.PaymentCash}, header)

	require.Contains(t, text, "Subtotal:")
	total, err := ParseTotal(text)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestParseTotalRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.59, 590, 2065, 2124, 1234.56, 99999.99, 0.1 + 0.2} {
		bill := sampleBill()
		bill.Total = float64(int64(v*100+0.5)) / 100

		got, err := ParseTotal(Format(bill, header))
		require.NoError(t, err)
		require.Equal(t, bill.Total, got)
	}
}

func TestParseTotalWithoutCurrency(t *testing.T) {
	got, err := ParseTotal(Format(sampleBill(), Header{SalonName: "X"}))
	require.NoError(t, err)
	require.Equal(t, 2478.0, got)

	_, err = ParseTotal("nothing here")
	require.ErrorIs(t, err, ErrNoTotal)
}

func TestParseTotalIgnoresItemNamedLikeTotal(t *testing.T) {
	bill := sampleBill()
	bill.Items = []models.CartLine{
		{ItemID: "s9", ItemType: models.ItemService, Name: "TOTAL: Glow Facial", UnitPrice: 500, Quantity: 1},
	}
	bill.Subtotal, bill.DiscountAmount, bill.DiscountPercent, bill.RedeemedPoints = 500, 0, 0, 0
	bill.Tax, bill.Total = 90, 590

	got, err := ParseTotal(Format(bill, header))
	require.NoError(t, err)
	require.Equal(t, 590.0, got)
}

func TestParseTotalWithLongCurrency(t *testing.T) {
	bill := sampleBill()
	bill.Total = 123456789012.34
	h := Header{SalonName: "X", Currency: "SOMELONGCURRENCYLABELXYZ12"}

	text := Format(bill, h)
	require.Contains(t, text, totalLabel)
	require.Contains(t, text, "SOMELONGCURRENCYLABELXYZ12 123456789012.34")

	got, err := ParseTotal(text)
	require.NoError(t, err)
	require.Equal(t, bill.Total, got)
}

type fakePutter struct {
	bucket, key, body string
	err               error
}

func (f *fakePutter) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	b, _ := io.ReadAll(r)
	f.bucket, f.key, f.body = bucket, key, string(b)
	return minio.UploadInfo{Key: key, Size: size}, nil
}

func TestArchiverUploadsText(t *testing.T) {
	fp := &fakePutter{}
	a := NewArchiver(fp, "receipts", "/bills/")

	key, err := a.Archive(context.Background(), "01HS3Q", "hello")
	require.NoError(t, err)
	require.Equal(t, "bills/01HS3Q.txt", key)
	require.Equal(t, "receipts", fp.bucket)
	require.Equal(t, "hello", fp.body)

	fp.err = errors.New("boom")
	_, err = a.Archive(context.Background(), "x", "y")
	require.Error(t, err)
}
