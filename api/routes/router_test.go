package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	adminauth "github.com/karunasetu/karuna-backend/internal/auth"
	"github.com/karunasetu/karuna-backend/internal/celebrations"
	"github.com/karunasetu/karuna-backend/internal/gallery"
	"github.com/karunasetu/karuna-backend/internal/orders"
	"github.com/karunasetu/karuna-backend/internal/roster"
	"github.com/karunasetu/karuna-backend/internal/uploads"
	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/db/models"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/storage"
)

const testAdminKey = "test-admin-key"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	t.Setenv(config.EnvCloudinaryCloudName, "")
	t.Setenv(config.EnvCloudinaryAPIKey, "")
	t.Setenv(config.EnvCloudinaryAPISecret, "")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(
		&models.GalleryImage{}, &models.Donor{}, &models.Member{},
		&models.Celebration{}, &models.Product{},
		&models.Order{}, &models.OrderItem{},
	))

	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Admin = config.AdminConfig{
		Email:    "admin@example.org",
		Password: "hunter2hunter2",
		APIKey:   testAdminKey,
	}
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "karuna", ExpirationMinutes: 60}
	cfg.Uploads = config.UploadsConfig{
		Dir:               t.TempDir(),
		URLPrefix:         "/uploads",
		ImageMaxMB:        20,
		PortraitMaxMB:     5,
		MaxFilesPerUpload: 12,
	}

	logg := logger.New(logger.Options{ServiceName: "test"})
	verifier, err := adminauth.NewVerifier(context.Background(), cfg.Admin, cfg.JWT, logg)
	require.NoError(t, err)

	local := storage.NewLocalStore(cfg.Uploads)
	resolver := storage.NewResolver(cfg.Cloudinary, local, logg)
	pipeline := uploads.NewPipeline(resolver, logg)

	return NewRouter(cfg, logg, nil, nil, verifier,
		gallery.NewService(conn, resolver, pipeline, logg),
		roster.NewService(conn, resolver, pipeline, logg),
		celebrations.NewService(conn, resolver, pipeline, logg),
		orders.NewService(conn, logg),
		local,
	)
}

func do(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPublicEndpoints(t *testing.T) {
	handler := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(handler,
		httptest.NewRequest(http.MethodGet, "/api/ping", nil)).Code)
	assert.Equal(t, http.StatusOK, do(handler,
		httptest.NewRequest(http.MethodGet, "/health/live", nil)).Code)

	rec := do(handler, httptest.NewRequest(http.MethodGet, "/api/gallery", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"images":[]}`, rec.Body.String())

	rec = do(handler, httptest.NewRequest(http.MethodGet, "/api/donors", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"donors":[]}`, rec.Body.String())
}

func TestMutatingRoutesRequireAdmin(t *testing.T) {
	handler := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/gallery/admin"},
		{http.MethodPost, "/api/donors/admin"},
		{http.MethodPost, "/api/donors/admin/reorder"},
		{http.MethodPost, "/api/members/admin"},
		{http.MethodPost, "/api/celebrations/admin"},
		{http.MethodPost, "/api/celebrations/products/admin"},
		{http.MethodDelete, "/api/donors/admin/" + uuid.NewString()},
		{http.MethodGet, "/api/admin/orders"},
	}
	for _, p := range paths {
		rec := do(handler, httptest.NewRequest(p.method, p.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestLoginThenUseToken(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"admin@example.org","password":"hunter2hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(handler, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["token"])

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+body["token"])
	assert.Equal(t, http.StatusOK, do(handler, req).Code)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileData []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestCreateDonorWithAdminKey(t *testing.T) {
	handler := newTestServer(t)

	body, contentType := multipartBody(t,
		map[string]string{
			"name":             "Sunrise Trust",
			"tier":             "Gold",
			"donatedAmount":    "25000.50",
			"donatedCommodity": "blankets",
		},
		"logo", "logo.png", []byte("png"))

	req := httptest.NewRequest(http.MethodPost, "/api/donors/admin", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := do(handler, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Donor struct {
			ID               string  `json:"id"`
			URL              *string `json:"url"`
			DonatedAmount    *string `json:"donatedAmount"`
			DonatedCommodity *string `json:"donatedCommodity"`
		} `json:"donor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Donor.URL)
	require.NotNil(t, created.Donor.DonatedAmount)
	assert.Equal(t, "25000.5", *created.Donor.DonatedAmount)
	require.NotNil(t, created.Donor.DonatedCommodity)
	assert.Equal(t, "blankets", *created.Donor.DonatedCommodity)

	// The stored logo is served back by the static file route.
	rec = do(handler, httptest.NewRequest(http.MethodGet, *created.Donor.URL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestDonorLogoUsesPortraitSizeCap(t *testing.T) {
	handler := newTestServer(t)

	body, contentType := multipartBody(t,
		map[string]string{"name": "Big Logo Trust", "tier": "Gold"},
		"logo", "logo.png", bytes.Repeat([]byte("a"), 6<<20))

	req := httptest.NewRequest(http.MethodPost, "/api/donors/admin", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Key", testAdminKey)
	assert.Equal(t, http.StatusBadRequest, do(handler, req).Code)
}

func TestGalleryUploadAndFeatureFlow(t *testing.T) {
	handler := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Diwali 2025"))
	for i := 0; i < 2; i++ {
		part, err := writer.CreateFormFile("images", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte{byte(i)})
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/gallery/admin", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := do(handler, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var uploaded struct {
		Images []struct {
			ID string `json:"id"`
		} `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	require.Len(t, uploaded.Images, 2)

	req = httptest.NewRequest(http.MethodPatch, "/api/gallery/admin/"+uploaded.Images[0].ID,
		strings.NewReader(`{"isFeatured":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", testAdminKey)
	require.Equal(t, http.StatusOK, do(handler, req).Code)

	rec = do(handler, httptest.NewRequest(http.MethodGet, "/api/gallery/featured", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var featured struct {
		Images []json.RawMessage `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &featured))
	assert.Len(t, featured.Images, 1)
}

func TestCheckoutFlow(t *testing.T) {
	handler := newTestServer(t)

	body, contentType := multipartBody(t,
		map[string]string{"name": "Diwali", "isEvent": "on"},
		"", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/celebrations/admin", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := do(handler, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var celebration struct {
		Celebration struct {
			ID string `json:"id"`
		} `json:"celebration"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &celebration))

	body, contentType = multipartBody(t,
		map[string]string{
			"name":          "Diya Set",
			"celebrationId": celebration.Celebration.ID,
			"price":         "199.00",
		},
		"", "", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/celebrations/products/admin", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec = do(handler, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product struct {
		Product struct {
			ID string `json:"id"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))

	rec = do(handler, httptest.NewRequest(http.MethodGet,
		"/api/celebrations/"+celebration.Celebration.ID+"/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var nested struct {
		Products []json.RawMessage `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nested))
	assert.Len(t, nested.Products, 1)

	checkout := fmt.Sprintf(`{
		"customerName": "Asha Rao",
		"customerEmail": "asha@example.org",
		"customerPhone": "+91 98765 43210",
		"items": [{"productId": %q, "quantity": 2}]
	}`, product.Product.ID)
	req = httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(checkout))
	req.Header.Set("Content-Type", "application/json")
	rec = do(handler, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var placed struct {
		Order struct {
			ID     string `json:"id"`
			Total  string `json:"total"`
			Status string `json:"status"`
		} `json:"order"`
		PaymentURL string `json:"paymentUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	assert.Equal(t, "pending", placed.Order.Status)
	assert.Equal(t, "398", placed.Order.Total)
	assert.Equal(t, "/payment/"+placed.Order.ID, placed.PaymentURL)

	req = httptest.NewRequest(http.MethodPost, "/api/orders/"+placed.Order.ID+"/confirm", nil)
	rec = do(handler, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var confirmed struct {
		Order struct {
			Status string `json:"status"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmed))
	assert.Equal(t, "confirmed", confirmed.Order.Status)
}
