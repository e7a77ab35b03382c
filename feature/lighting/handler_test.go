package lighting_test

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"lighting-patcher/core/reconcile"
	"lighting-patcher/feature/lighting"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, string, string) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	seedDataDir(t, dataDir)

	app := fiber.New()
	lighting.NewHandler(newService(dataDir, outDir, reconcile.Config{})).RegisterRoutes(app)
	return app, dataDir, outDir
}

func TestHandlePlan(t *testing.T) {
	app, _, outDir := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/lighting/plan", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body lighting.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.DryRun)
	assert.Equal(t, 2, body.CellsPatched)
	assert.Equal(t, 1, body.LightsPatched)
	require.Len(t, body.Plans, 2)
	assert.Equal(t, "cells", body.Plans[0].Adapter)

	_, err = os.Stat(filepath.Join(outDir, patchName+".json"))
	assert.True(t, os.IsNotExist(err), "planning writes nothing")
}

func TestHandlePatch(t *testing.T) {
	app, _, outDir := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/lighting/patch", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body lighting.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.DryRun)
	assert.Equal(t, 3, body.Applied)
	require.Len(t, body.Written, 1)

	_, err = os.Stat(filepath.Join(outDir, patchName+".json"))
	assert.NoError(t, err)
}

func TestHandleReference(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/lighting/reference", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "True Light.esm", body["primary"])
	assert.Equal(t, []any{"True Light.esm"}, body["reference"])
}

func TestHandlePatch_ValidationError(t *testing.T) {
	app, dataDir, _ := setupTestApp(t)
	writePlugins(t, dataDir, "*Inns.esp")

	resp, err := app.Test(httptest.NewRequest("POST", "/lighting/patch", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "missing dependency")
	assert.Equal(t, []any{"True Light.esm"}, body["plugins"])
}

func TestHandlePlan_InternalError(t *testing.T) {
	app, dataDir, _ := setupTestApp(t)
	require.NoError(t, os.Remove(filepath.Join(dataDir, "plugins.txt")))

	resp, err := app.Test(httptest.NewRequest("GET", "/lighting/plan", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
