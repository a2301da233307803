package utils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"salonpos/models"
)

type memPutter struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memPutter) PutObject(_ context.Context, _, name string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if m.objects == nil {
		m.objects, m.types = map[string][]byte{}, map[string]string{}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	m.objects[name] = b
	m.types[name] = opts.ContentType
	return minio.UploadInfo{Key: name, Size: int64(len(b))}, nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveProductPhoto(t *testing.T) {
	put := &memPutter{}
	u := NewPhotoUploader(put, "bucket", "https://cdn.example/")
	u.now = func() time.Time { return time.Unix(1700000000, 0) }

	mainURL, previewURL, err := u.SaveProductPhoto(context.Background(), "prd-6", "image/png", testPNG(t, 400, 300))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/products/prd-6_1700000000.png", mainURL)
	require.Equal(t, "https://cdn.example/products/prd-6_1700000000_preview.jpg", previewURL)
	require.Equal(t, "image/png", put.types["products/prd-6_1700000000.png"])

	preview, err := jpegBounds(put.objects["products/prd-6_1700000000_preview.jpg"])
	require.NoError(t, err)
	require.Equal(t, 200, preview.Dx())
	require.Equal(t, 150, preview.Dy())
}

func jpegBounds(b []byte) (image.Rectangle, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return image.Rectangle{}, err
	}
	return image.Rect(0, 0, cfg.Width, cfg.Height), nil
}

func TestSaveProductPhotoRejects(t *testing.T) {
	u := NewPhotoUploader(&memPutter{}, "bucket", "https://cdn.example")
	ctx := context.Background()

	_, _, err := u.SaveProductPhoto(ctx, "p", "image/gif", []byte("GIF89a"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, _, err = u.SaveProductPhoto(ctx, "p", "image/png", make([]byte, maxFileSize+1))
	require.ErrorIs(t, err, ErrPhotoTooLarge)

	_, _, err = u.SaveProductPhoto(ctx, "p", "image/jpeg", []byte("not a jpeg"))
	require.Error(t, err)
}

type fakeSender struct {
	msgs []*gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.msgs = append(f.msgs, m...)
	return nil
}

func TestMailerHeaders(t *testing.T) {
	s := &fakeSender{}
	m := &Mailer{sender: s, from: "pos@luxe.example"}
	require.NoError(t, m.SendEmail("owner@luxe.example", "hi", "body"))
	require.Len(t, s.msgs, 1)
	require.Equal(t, []string{"owner@luxe.example"}, s.msgs[0].GetHeader("To"))
	require.Equal(t, []string{"pos@luxe.example"}, s.msgs[0].GetHeader("From"))
}

type staticSource struct {
	items []models.InventoryProduct
	err   error
}

func (s staticSource) LowStock(context.Context) ([]models.InventoryProduct, error) {
	return s.items, s.err
}

type salonSettings struct {
	name string
}

func (s *salonSettings) GetSettings(context.Context) (models.Settings, error) {
	return models.Settings{SalonName: s.name}, nil
}

type recordingMail struct {
	to, subject, body string
	calls             int
}

func (r *recordingMail) SendEmail(to, subject, body string) error {
	r.to, r.subject, r.body = to, subject, body
	r.calls++
	return nil
}

func TestLowStockReport(t *testing.T) {
	items := []models.InventoryProduct{
		{ID: "prd-8", Name: "O3+ Facial Kit", SKU: "O3-KIT-GOLD", Stock: 3, LowStockThreshold: 4, Supplier: "BeautySupplies Inc"},
	}
	mail := &recordingMail{}
	settings := &salonSettings{name: "LuxeSalon"}
	r := NewLowStockReport(staticSource{items: items}, settings, mail, "owner@luxe.example", zap.NewNop())
	r.Run()

	require.Equal(t, 1, mail.calls)
	require.Equal(t, "LuxeSalon: 1 products low on stock", mail.subject)
	require.True(t, strings.Contains(mail.body, "O3-KIT-GOLD"))
	require.True(t, strings.Contains(mail.body, "stock 3 (threshold 4)"))

	NewLowStockReport(staticSource{}, settings, mail, "owner@luxe.example", zap.NewNop()).Run()
	NewLowStockReport(staticSource{err: errors.New("db down")}, settings, mail, "owner@luxe.example", zap.NewNop()).Run()
	NewLowStockReport(staticSource{items: items}, settings, mail, "", zap.NewNop()).Run()
	require.Equal(t, 1, mail.calls)
}

func TestLowStockReportUsesCurrentSalonName(t *testing.T) {
	items := []models.InventoryProduct{{ID: "prd-7", Name: "Moroccan Oil Serum", Stock: 1, LowStockThreshold: 5}}
	mail := &recordingMail{}
	settings := &salonSettings{name: "LuxeSalon"}
	r := NewLowStockReport(staticSource{items: items}, settings, mail, "owner@luxe.example", zap.NewNop())

	settings.name = "Glow Studio"
	r.Run()
	require.Equal(t, "Glow Studio: 1 products low on stock", mail.subject)
}

func TestStartScheduler(t *testing.T) {
	s, err := StartScheduler(time.UTC, "08:00", func() {})
	require.NoError(t, err)
	defer s.Stop()
	require.Len(t, s.Jobs(), 1)

	_, err = StartScheduler(time.UTC, "25:99", func() {})
	require.Error(t, err)
}
