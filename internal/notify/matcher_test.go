package notify

import (
	"testing"

	"same-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifiableSuppliers(t *testing.T) {
	suppliers := []models.Supplier{
		{ID: "S1", Email: "a@x.com", AutoEmail: true, SelectedProducts: models.StringList{"P1"}},
		{ID: "S2", Email: "b@x.com", AutoEmail: false, SelectedProducts: models.StringList{"P1"}},
		{ID: "S3", Email: "c@x.com", AutoEmail: true, SelectedProducts: models.StringList{"P2"}},
	}

	matched := NotifiableSuppliers(suppliers, "P1")

	require.Len(t, matched, 1)
	assert.Equal(t, "S1", matched[0].ID)
}

func TestNotifiableSuppliersSkipsMissingEmail(t *testing.T) {
	suppliers := []models.Supplier{
		{ID: "S1", AutoEmail: true, SelectedProducts: models.StringList{"P1"}},
	}

	assert.Empty(t, NotifiableSuppliers(suppliers, "P1"))
}

func TestNotifiableSuppliersEmptySelection(t *testing.T) {
	suppliers := []models.Supplier{
		{ID: "S1", Email: "a@x.com", AutoEmail: true}, // monitors nothing
	}

	assert.Empty(t, NotifiableSuppliers(suppliers, "P1"))
}

func TestPlanBatchesPerSupplier(t *testing.T) {
	suppliers := []models.Supplier{
		{ID: "S1", Email: "a@x.com", AutoEmail: true, SelectedProducts: models.StringList{"P1", "P2"}},
		{ID: "S2", Email: "b@x.com", AutoEmail: true, SelectedProducts: models.StringList{"P2"}},
		{ID: "S3", Email: "c@x.com", AutoEmail: true, SelectedProducts: models.StringList{"P9"}},
	}
	critical := []models.Product{
		{ID: "P1", Name: "Widget", Quantity: 2},
		{ID: "P2", Name: "Gadget", Quantity: 0},
	}

	batches := Plan(suppliers, critical)

	// one combined email for S1, one for S2, nothing for S3
	require.Len(t, batches, 2)
	assert.Equal(t, "S1", batches[0].Supplier.ID)
	require.Len(t, batches[0].Products, 2)
	assert.Equal(t, "S2", batches[1].Supplier.ID)
	require.Len(t, batches[1].Products, 1)
	assert.Equal(t, "Gadget", batches[1].Products[0].Name)
}

func TestPlanSkipsOptedOutSuppliers(t *testing.T) {
	suppliers := []models.Supplier{
		{ID: "S1", Email: "a@x.com", AutoEmail: false, SelectedProducts: models.StringList{"P1"}},
		{ID: "S2", AutoEmail: true, SelectedProducts: models.StringList{"P1"}}, // no email
	}
	critical := []models.Product{{ID: "P1", Name: "Widget", Quantity: 1}}

	assert.Empty(t, Plan(suppliers, critical))
}
