package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"same-backend/internal/auth"
	"same-backend/internal/database"
	"same-backend/internal/models"
	"same-backend/internal/monitor"
	"same-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *fakeMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func asTenant(tenantID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(auth.CtxTenantIDKey, tenantID)
		return c.Next()
	}
}

func newProductApp(t *testing.T) (*fiber.App, *fakeMailer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	old := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = old })

	mailer := &fakeMailer{}
	dispatcher := notify.NewDispatcher(mailer, db, zap.NewNop())
	svc := monitor.NewService(db, dispatcher, zap.NewNop())
	watcher := monitor.NewWatcher(svc, zap.NewNop())
	watcher.Start(context.Background())
	t.Cleanup(watcher.Stop)

	app := fiber.New()
	app.Post("/api/products", asTenant("T1"), CreateProductHandler(watcher))
	app.Put("/api/products/:id", asTenant("T1"), UpdateProductHandler(watcher))
	app.Delete("/api/products/:id", asTenant("T1"), DeleteProductHandler())
	return app, mailer, db
}

func seedProductData(t *testing.T, db *gorm.DB, quantity int) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{
		ID: "T1", Name: "Dona Maria", Email: "maria@x.com", PasswordHash: "x",
	}).Error)
	require.NoError(t, db.Create(&models.Product{
		ID: "P1", TenantID: "T1", Name: "Widget", Quantity: quantity, SKU: "W-01",
	}).Error)
	require.NoError(t, db.Create(&models.Supplier{
		ID: "S1", TenantID: "T1", Name: "Fornecedor A", Email: "s@x.com",
		AutoEmail: true, SelectedProducts: models.StringList{"P1"},
	}).Error)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestUpdateProductQuantityCrossingNotifies(t *testing.T) {
	app, mailer, db := newProductApp(t)
	seedProductData(t, db, 10)

	resp := doJSON(t, app, http.MethodPut, "/api/products/P1", fiber.Map{"quantity": 3})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", "P1").Error)
	assert.Equal(t, 3, product.Quantity)

	require.Eventually(t, func() bool { return mailer.count() == 1 },
		2*time.Second, 10*time.Millisecond)

	// further writes while critical stay quiet
	resp = doJSON(t, app, http.MethodPut, "/api/products/P1", fiber.Map{"quantity": 1})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, mailer.count())
}

func TestUpdateProductWithoutQuantityChangeDoesNotNotify(t *testing.T) {
	app, mailer, db := newProductApp(t)
	seedProductData(t, db, 2) // already critical

	// renaming a critical product is not a stock write
	resp := doJSON(t, app, http.MethodPut, "/api/products/P1", fiber.Map{"name": "Widget Pro"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// same quantity written back is not a change either
	resp = doJSON(t, app, http.MethodPut, "/api/products/P1", fiber.Map{"quantity": 2})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", "P1").Error)
	assert.Equal(t, "Widget Pro", product.Name)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, mailer.count())
}

func TestCreateProductUnmonitoredStaysQuiet(t *testing.T) {
	app, mailer, db := newProductApp(t)
	seedProductData(t, db, 10)

	// created straight into critical, but no supplier monitors the new id
	resp := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{
		"name": "Gadget", "quantity": 2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created ProductResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, 2, created.Quantity)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, mailer.count())
}

func TestDeleteProductDoesNotNotify(t *testing.T) {
	app, mailer, db := newProductApp(t)
	seedProductData(t, db, 2) // critical and monitored

	resp := doJSON(t, app, http.MethodDelete, "/api/products/P1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, mailer.count())
}
