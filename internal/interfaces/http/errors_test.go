package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

func statusFor(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })
	resp, e := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, e)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError_Mapeo(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.NewValidationError("items", "requerido"), fiber.StatusBadRequest, "VALIDATION"},
		{"pedido vacío envuelto", fmt.Errorf("%w: x", domain.ErrEmptyOrder), fiber.StatusBadRequest, "VALIDATION"},
		{"transporte", &domain.TransportError{Op: "select", Table: "orders", Err: errors.New("timeout")}, fiber.StatusServiceUnavailable, "REMOTE_UNAVAILABLE"},
		{"restricción", &domain.ConstraintError{Table: "profiles", Message: "violates check"}, fiber.StatusUnprocessableEntity, "CONSTRAINT"},
		{"único", &domain.ConstraintError{Table: "products", Message: "dup", Err: errors.Join(domain.ErrDuplicate, errors.New("23505"))}, fiber.StatusConflict, "CONSTRAINT"},
		{"no autorizado", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"prohibido", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"no encontrado", fmt.Errorf("x: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{"interno", errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := statusFor(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestWriteError_ConstraintMensajeTalCual(t *testing.T) {
	msg := `new row for relation "profiles" violates check constraint "profiles_role_check"`
	_, body := statusFor(t, &domain.ConstraintError{Table: "profiles", Constraint: "profiles_role_check", Message: msg})
	assert.Equal(t, msg, body["message"])
}

func TestWriteError_EscrituraParcialIncluyeOrderID(t *testing.T) {
	err := &domain.PartialWriteError{OrderID: "abc-123", Err: &domain.TransportError{Op: "insert", Table: "order_items", Err: errors.New("reset")}}
	status, body := statusFor(t, err)
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "PARTIAL_WRITE", body["code"])
	assert.Equal(t, "abc-123", body["order_id"])
}
