package http_test

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/Pedidos-api/docs"
	apphttp "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
)

var pathParam = regexp.MustCompile(`:([a-zA-Z_]+)`)

// Toda ruta registrada en el router aparece documentada, y viceversa.
func TestSwagger_CubreTodasLasRutas(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{JWTSecret: testJWTSecret})

	registered := map[string]bool{}
	for _, r := range app.GetRoutes(true) {
		if !strings.HasPrefix(r.Path, "/api/") || r.Method == fiber.MethodHead {
			continue
		}
		path := pathParam.ReplaceAllString(strings.TrimSuffix(r.Path, "/"), "{$1}")
		key := strings.ToLower(r.Method) + " " + path
		registered[key] = true

		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "ruta sin documentar: %s", key) {
			_, ok = ops[strings.ToLower(r.Method)]
			assert.True(t, ok, "método sin documentar: %s", key)
		}
	}

	for path, ops := range doc.Paths {
		for method := range ops {
			assert.True(t, registered[method+" "+path], "documentado pero no registrado: %s %s", method, path)
		}
	}
}
