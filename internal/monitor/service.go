// Package monitor drives the critical-stock pipeline from its three entry
// points: the reactive product-change feed, the scheduled sweep and the
// on-demand single product check. All three converge on the same
// classify -> match -> dispatch flow.
package monitor

import (
	"context"
	"errors"

	"same-backend/internal/models"
	"same-backend/internal/notify"
	"same-backend/internal/stock"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type Service struct {
	db         *gorm.DB
	classifier stock.Classifier
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
}

func NewService(db *gorm.DB, dispatcher *notify.Dispatcher, logger *zap.Logger) *Service {
	return &Service{db: db, dispatcher: dispatcher, logger: logger}
}

// Sweep scans every tenant for critical products and emails each matching
// supplier one combined alert. It deliberately has no memory of previous
// sweeps: a product that stays critical re-notifies every interval. A
// failed dispatch or a broken tenant never aborts the rest of the sweep.
// Returns the number of emails sent.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	var tenantIDs []string
	if err := s.db.Model(&models.User{}).Pluck("id", &tenantIDs).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, tenantID := range tenantIDs {
		n, err := s.sweepTenant(ctx, tenantID)
		sent += n
		if err != nil {
			s.logger.Warn("sweep failed for tenant, continuing",
				zap.String("tenant_id", tenantID),
				zap.Error(err),
			)
		}
	}
	return sent, nil
}

func (s *Service) sweepTenant(ctx context.Context, tenantID string) (int, error) {
	var critical []models.Product
	err := s.db.
		Where("tenant_id = ? AND quantity <= ?", tenantID, s.classifier.Cutoff()).
		Find(&critical).Error
	if err != nil {
		return 0, err
	}
	if len(critical) == 0 {
		return 0, nil
	}

	suppliers, err := s.autoEmailSuppliers(tenantID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, b := range notify.Plan(suppliers, critical) {
		if err := s.dispatcher.Dispatch(ctx, tenantID, b); err != nil {
			continue // already logged, keep going for the other suppliers
		}
		sent++
	}
	return sent, nil
}

// CheckProduct runs the on-demand path for one product. Like the sweep it
// has no before/after pair: a product that is currently critical notifies
// its suppliers on every call.
func (s *Service) CheckProduct(ctx context.Context, tenantID, productID string) (int, error) {
	var product models.Product
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}

	if !s.classifier.IsCritical(product.Quantity) {
		return 0, nil
	}
	return s.notifyProduct(ctx, tenantID, product)
}

// HandleChange runs the reactive path for one product write. The crossing
// detector gates the dispatch, so repeated writes that leave a product
// critical produce no further emails.
func (s *Service) HandleChange(ctx context.Context, ch ProductChange) (int, error) {
	if !s.classifier.JustWentCritical(ch.OldQuantity, ch.NewQuantity) {
		return 0, nil
	}

	var product models.Product
	err := s.db.Where("tenant_id = ? AND id = ?", ch.TenantID, ch.ProductID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil // deleted between write and handling, not a crossing
	}
	if err != nil {
		return 0, err
	}
	return s.notifyProduct(ctx, ch.TenantID, product)
}

// NotifySupplierProducts emails one supplier about the subset of products
// (by ID) that are currently critical. Used by the supplier-settings
// backup trigger when autoEmail is switched on or monitored products are
// added.
func (s *Service) NotifySupplierProducts(ctx context.Context, tenantID string, supplier models.Supplier, productIDs []string) (int, error) {
	if !supplier.AutoEmail || supplier.Email == "" || len(productIDs) == 0 {
		return 0, nil
	}

	var critical []models.Product
	err := s.db.
		Where("tenant_id = ? AND id IN ? AND quantity <= ?", tenantID, productIDs, s.classifier.Cutoff()).
		Find(&critical).Error
	if err != nil {
		return 0, err
	}
	if len(critical) == 0 {
		return 0, nil
	}

	products := make([]notify.ProductInfo, 0, len(critical))
	for _, p := range critical {
		products = append(products, notify.ProductInfoFrom(p))
	}
	b := notify.Batch{Supplier: supplier, Products: products}
	if err := s.dispatcher.Dispatch(ctx, tenantID, b); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *Service) notifyProduct(ctx context.Context, tenantID string, product models.Product) (int, error) {
	suppliers, err := s.autoEmailSuppliers(tenantID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, supplier := range notify.NotifiableSuppliers(suppliers, product.ID) {
		b := notify.Batch{Supplier: supplier, Products: []notify.ProductInfo{notify.ProductInfoFrom(product)}}
		if err := s.dispatcher.Dispatch(ctx, tenantID, b); err != nil {
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) autoEmailSuppliers(tenantID string) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := s.db.Where("tenant_id = ? AND auto_email = ?", tenantID, true).Find(&suppliers).Error
	return suppliers, err
}
