package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"same-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dispatcher renders and sends one alert email per Batch and journals the
// dispatch in NotificationLog. It never retries: a failed send is reported
// to the caller and is only recovered by the next qualifying event or
// sweep interval.
type Dispatcher struct {
	mailer Mailer
	db     *gorm.DB // nil skips the journal (pure-transport mode in tests)
	logger *zap.Logger
}

func NewDispatcher(mailer Mailer, db *gorm.DB, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, db: db, logger: logger}
}

// Dispatch sends exactly one email for the batch. All products in the
// batch land in the same message.
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID string, b Batch) error {
	if len(b.Products) == 0 {
		return nil
	}
	if b.Supplier.Email == "" {
		return fmt.Errorf("supplier %s has no email", b.Supplier.ID)
	}

	subject := Subject(b.Products)
	html, err := renderHTML(b.Supplier.Name, b.Products)
	if err != nil {
		return fmt.Errorf("render alert email: %w", err)
	}

	msg := Message{
		To:      b.Supplier.Email,
		ToName:  b.Supplier.Name,
		Subject: subject,
		Text:    renderText(b.Supplier.Name, b.Products),
		HTML:    html,
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logger.Error("alert email failed",
			zap.String("tenant_id", tenantID),
			zap.String("supplier_email", b.Supplier.Email),
			zap.Error(err),
		)
		return err
	}

	d.logger.Info("alert email sent",
		zap.String("tenant_id", tenantID),
		zap.String("supplier_email", b.Supplier.Email),
		zap.Int("products", len(b.Products)),
	)
	d.journal(tenantID, b, subject)
	return nil
}

// journal persists the notification event for the app's notification
// screen. Best effort: a journal failure never fails a dispatch that
// already went out.
func (d *Dispatcher) journal(tenantID string, b Batch, subject string) {
	if d.db == nil {
		return
	}
	payload, err := json.Marshal(b.Products)
	if err != nil {
		payload = []byte("[]")
	}
	entry := models.NotificationLog{
		TenantID:     tenantID,
		SupplierID:   b.Supplier.ID,
		SupplierName: b.Supplier.Name,
		Email:        b.Supplier.Email,
		Subject:      subject,
		Products:     string(payload),
		SentAt:       time.Now(),
	}
	if err := d.db.Create(&entry).Error; err != nil {
		d.logger.Warn("notification journal write failed",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
	}
}
