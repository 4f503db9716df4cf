// Package stock classifies product quantities and detects the
// NORMAL -> CRITICAL crossings that trigger supplier notifications.
package stock

// DefaultThreshold is the system-wide critical level: a product with
// quantity at or below it is in critical stock. It is deliberately not
// per-tenant or per-product.
const DefaultThreshold = 5

type Level string

const (
	LevelNormal   Level = "normal"
	LevelCritical Level = "critical"
)

// Classifier maps quantities to stock levels. The zero value uses
// DefaultThreshold; tests inject other thresholds.
type Classifier struct {
	Threshold int
}

// Cutoff returns the effective threshold. Store queries use it directly
// (quantity <= cutoff) so SQL and in-memory classification agree.
func (c Classifier) Cutoff() int {
	if c.Threshold > 0 {
		return c.Threshold
	}
	return DefaultThreshold
}

// Classify is pure and total: CRITICAL iff quantity <= threshold.
func (c Classifier) Classify(quantity int) Level {
	if quantity <= c.Cutoff() {
		return LevelCritical
	}
	return LevelNormal
}

// IsCritical is shorthand for Classify(quantity) == LevelCritical.
func (c Classifier) IsCritical(quantity int) bool {
	return c.Classify(quantity) == LevelCritical
}

// JustWentCritical decides whether a write is a notification-worthy
// crossing. oldQty is nil on first observation (product created). A
// product that was already critical does not re-fire, and recovery never
// fires; this is the dedupe invariant of the reactive trigger path.
func (c Classifier) JustWentCritical(oldQty *int, newQty int) bool {
	if !c.IsCritical(newQty) {
		return false
	}
	if oldQty == nil {
		return true // created straight into critical
	}
	return !c.IsCritical(*oldQty)
}
