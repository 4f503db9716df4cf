package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"same-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []Message
	failTo map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[msg.To] {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.NotificationLog{}))
	return db
}

func testBatch() Batch {
	return Batch{
		Supplier: models.Supplier{ID: "S1", Name: "Fornecedor A", Email: "s@x.com"},
		Products: []ProductInfo{{ID: "P1", Name: "Widget", Quantity: 2}},
	}
}

func TestDispatchSendsOneEmailAndJournals(t *testing.T) {
	db := newTestDB(t)
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, db, zap.NewNop())

	require.NoError(t, d.Dispatch(context.Background(), "T1", testBatch()))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "s@x.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, "Widget")
	assert.NotEmpty(t, mailer.sent[0].HTML)
	assert.NotEmpty(t, mailer.sent[0].Text)

	var logs []models.NotificationLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "T1", logs[0].TenantID)
	assert.Equal(t, "s@x.com", logs[0].Email)
	assert.Contains(t, logs[0].Products, "Widget")
}

func TestDispatchTransportFailure(t *testing.T) {
	db := newTestDB(t)
	mailer := &fakeMailer{failTo: map[string]bool{"s@x.com": true}}
	d := NewDispatcher(mailer, db, zap.NewNop())

	err := d.Dispatch(context.Background(), "T1", testBatch())
	require.Error(t, err)

	// a failed send is not journaled
	var count int64
	require.NoError(t, db.Model(&models.NotificationLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDispatchEmptyBatchIsNoop(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, nil, zap.NewNop())

	require.NoError(t, d.Dispatch(context.Background(), "T1", Batch{
		Supplier: models.Supplier{ID: "S1", Email: "s@x.com"},
	}))
	assert.Empty(t, mailer.sent)
}

func TestDispatchWithoutJournalDB(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, nil, zap.NewNop())

	require.NoError(t, d.Dispatch(context.Background(), "T1", testBatch()))
	assert.Len(t, mailer.sent, 1)
}
