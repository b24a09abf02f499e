package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyID(t *testing.T) {
	assert.Equal(t, OriginRemote, ClassifyID("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	assert.Equal(t, OriginLocal, ClassifyID("u1"))
	assert.Equal(t, OriginLocal, ClassifyID(""))
	assert.Equal(t, OriginLocal, ClassifyID("12345678901234567890"), "20 caracteres todavía es local")
	assert.Equal(t, OriginRemote, ClassifyID("123456789012345678901"))
}

func TestResolveOrigin_PrefiereElCampoExplicito(t *testing.T) {
	uuid := "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	assert.Equal(t, OriginLocal, ResolveOrigin(OriginLocal, uuid))
	assert.Equal(t, OriginRemote, ResolveOrigin(OriginRemote, "u1"))
	assert.Equal(t, OriginRemote, ResolveOrigin(OriginUnknown, uuid))
	assert.Equal(t, OriginLocal, ResolveOrigin(Origin("cloud"), "u2"), "valores desconocidos usan la heurística")
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" supervisor ")
	assert.True(t, ok)
	assert.Equal(t, RoleSupervisor, r)

	_, ok = ParseRole("GUEST")
	assert.False(t, ok)
}

func TestParseOrderStatus(t *testing.T) {
	s, ok := ParseOrderStatus("waiting_stock")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusWaitingStock, s)

	_, ok = ParseOrderStatus("ARCHIVED")
	assert.False(t, ok)
}
