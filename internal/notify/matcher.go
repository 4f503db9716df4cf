// Package notify matches critical products to the suppliers that monitor
// them and dispatches one alert email per supplier.
package notify

import "same-backend/internal/models"

// ProductInfo is the per-product payload of an alert email.
type ProductInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

func ProductInfoFrom(p models.Product) ProductInfo {
	return ProductInfo{ID: p.ID, Name: p.Name, SKU: p.SKU, Quantity: p.Quantity}
}

// NotifiableSuppliers filters suppliers down to those that should receive
// an alert for productID: autoEmail on, an email address present, and the
// product in their monitored set. Result order is whatever the input order
// was; callers must not rely on it.
func NotifiableSuppliers(suppliers []models.Supplier, productID string) []models.Supplier {
	matched := make([]models.Supplier, 0)
	for _, s := range suppliers {
		if s.AutoEmail && s.Email != "" && s.SelectedProducts.Contains(productID) {
			matched = append(matched, s)
		}
	}
	return matched
}

// Batch is one planned email: a supplier and every critical product it
// monitors in the current pass.
type Batch struct {
	Supplier models.Supplier
	Products []ProductInfo
}

// Plan pairs suppliers with the critical products they monitor, one Batch
// per supplier. A supplier monitoring several critical products gets a
// single combined email, never one per product.
func Plan(suppliers []models.Supplier, critical []models.Product) []Batch {
	batches := make([]Batch, 0)
	for _, s := range suppliers {
		if !s.AutoEmail || s.Email == "" {
			continue
		}
		var products []ProductInfo
		for _, p := range critical {
			if s.SelectedProducts.Contains(p.ID) {
				products = append(products, ProductInfoFrom(p))
			}
		}
		if len(products) > 0 {
			batches = append(batches, Batch{Supplier: s, Products: products})
		}
	}
	return batches
}
