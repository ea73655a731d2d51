package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-escolar/internal/domain"
	"github.com/jhoicas/estoque-escolar/internal/domain/inventory"
)

func TestAdjust(t *testing.T) {
	q, err := inventory.Adjust(5, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, q)

	q, err = inventory.Adjust(5, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, q, "llegar exactamente a cero está permitido")

	q, err = inventory.Adjust(5, -6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, q, "ante error la cantidad no cambia")
}

func TestEditAdjustments_MismoProducto(t *testing.T) {
	// Salida de 5 editada a 20: el stock debe bajar 15 más.
	adj := inventory.EditAdjustments("p1", inventory.ExitEffect(5), "p1", inventory.ExitEffect(20))
	assert.Equal(t, []inventory.Adjustment{{ProductID: "p1", Delta: -15}}, adj)

	// Entrada de 10 editada a 4: el stock baja 6.
	adj = inventory.EditAdjustments("p1", inventory.EntryEffect(10), "p1", inventory.EntryEffect(4))
	assert.Equal(t, []inventory.Adjustment{{ProductID: "p1", Delta: -6}}, adj)
}

func TestEditAdjustments_CambioDeProducto(t *testing.T) {
	adj := inventory.EditAdjustments("p1", inventory.EntryEffect(10), "p2", inventory.EntryEffect(7))
	assert.Equal(t, []inventory.Adjustment{
		{ProductID: "p1", Delta: -10},
		{ProductID: "p2", Delta: 7},
	}, adj)

	adj = inventory.EditAdjustments("p1", inventory.ExitEffect(3), "p2", inventory.ExitEffect(4))
	assert.Equal(t, []inventory.Adjustment{
		{ProductID: "p1", Delta: 3},
		{ProductID: "p2", Delta: -4},
	}, adj)
}

func TestRevertAdjustments(t *testing.T) {
	assert.Equal(t, []inventory.Adjustment{{ProductID: "p1", Delta: -4}},
		inventory.RevertAdjustments("p1", inventory.EntryEffect(4)))
	assert.Equal(t, []inventory.Adjustment{{ProductID: "p1", Delta: 4}},
		inventory.RevertAdjustments("p1", inventory.ExitEffect(4)))
}
