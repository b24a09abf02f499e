package pdf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func sampleOrder() *entity.Order {
	customer := "Elétrica Central Ltda"
	amp := decimal.RequireFromString("2.5")
	return &entity.Order{
		ID:               "10000000-0000-0000-0000-000000000001",
		CustomerName:     &customer,
		RepresentativeID: "u3",
		Status:           entity.OrderStatusInProgress,
		CreatedAt:        time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC),
		Notes:            strings.Repeat("Entregar pela manhã. ", 12),
		Items: []entity.CartItem{
			{Product: entity.Product{Code: "TOM-10A", Description: "Tomada 10A", Colors: []string{"Branco", "Preto"}, Amperage: &amp}, Quantity: 3},
			{Product: entity.Product{Code: "INT-S", Description: "Interruptor simples"}, Quantity: 2},
		},
		Interactions: []entity.CRMInteraction{
			{ID: "i1", Date: time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC), Type: entity.InteractionCall, Content: "Cliente confirmou", AuthorName: "Rafael"},
		},
	}
}

func TestGenerateOrderPDF_GeneraDocumento(t *testing.T) {
	g := NewMarotoPDFGenerator("Pedidos")
	rep := &entity.User{ID: "u3", Name: "Rafael Representante", Email: "representante@pedidos.local"}

	data, err := g.GenerateOrderPDF(context.Background(), sampleOrder(), rep)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "la salida debe ser un PDF")
}

func TestGenerateOrderPDF_SinRepresentanteNiHistorial(t *testing.T) {
	o := sampleOrder()
	o.Interactions = nil
	o.Notes = ""
	o.CustomerName = nil

	data, err := NewMarotoPDFGenerator("").GenerateOrderPDF(context.Background(), o, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestGenerateOrderPDF_PedidoNil(t *testing.T) {
	_, err := NewMarotoPDFGenerator("").GenerateOrderPDF(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestSplitEvery(t *testing.T) {
	assert.Equal(t, []string{"abc", "de"}, splitEvery("abcde", 3))
	assert.Equal(t, []string{"ção"}, splitEvery("ção", 3))
	assert.Nil(t, splitEvery("", 3))
}

func TestStatusLabel_Desconocido(t *testing.T) {
	assert.Equal(t, "Em andamento", statusLabel(entity.OrderStatusInProgress))
	assert.Equal(t, "ARCHIVED", statusLabel(entity.OrderStatus("ARCHIVED")))
}
