package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stockpile/internal/paths"
	"github.com/mesh-intelligence/stockpile/internal/sqlite"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// cliEnv runs the CLI in-process against temp config and data directories.
type cliEnv struct {
	configDir string
	dataDir   string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("STOCKPILE_SEED_SAMPLES", "false")
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")
	return &cliEnv{configDir: t.TempDir(), dataDir: t.TempDir()}
}

type result struct {
	stdout string
	stderr string
	code   int
}

func (e *cliEnv) run(t *testing.T, args ...string) result {
	t.Helper()
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	var stdout, stderr bytes.Buffer
	code := Run(full, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// mustRun fails the test unless the command exits successfully.
func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	r := e.run(t, args...)
	require.Equalf(t, exitSuccess, r.code, "stockpile %s: %s", strings.Join(args, " "), r.stderr)
	return r.stdout
}

func (e *cliEnv) addMaterial(t *testing.T, name, quantity, threshold string) int64 {
	t.Helper()
	out := e.mustRun(t, "--json", "material", "add", "--name", name, "--quantity", quantity, "--threshold", threshold)
	var m types.Material
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	return m.ID
}

func (e *cliEnv) materials(t *testing.T) map[string]types.Material {
	t.Helper()
	var ms []types.Material
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "--json", "material", "list")), &ms))
	byName := make(map[string]types.Material, len(ms))
	for _, m := range ms {
		byName[m.Name] = m
	}
	return byName
}

func (e *cliEnv) history(t *testing.T, args ...string) []types.AuditEntry {
	t.Helper()
	var entries []types.AuditEntry
	out := e.mustRun(t, append([]string{"--json", "history", "list"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	return entries
}

// shirtSetup creates Fabric and Thread with stock 10 and the recipe
// Shirt = {Fabric: 2/unit, Thread: 1/unit}.
func (e *cliEnv) shirtSetup(t *testing.T) (fabric, thread int64) {
	t.Helper()
	fabric = e.addMaterial(t, "Fabric", "10", "2")
	thread = e.addMaterial(t, "Thread", "10", "2")
	e.mustRun(t, "recipe", "set", "Shirt", strconv.FormatInt(fabric, 10), "2")
	e.mustRun(t, "recipe", "set", "Shirt", strconv.FormatInt(thread, 10), "1")
	return fabric, thread
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "version")
	assert.Contains(t, out, "stockpile v")
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "init")
	assert.Contains(t, out, "stockpile initialized")

	configPath := filepath.Join(env.configDir, configFileExt)
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, env.dataDir, cfg.DataDir)
	assert.Equal(t, types.DefaultHistoryLimit, cfg.HistoryLimit)
	assert.Equal(t, ";", cfg.CSVDelimiter)
	assert.True(t, cfg.CSVBOM)

	_, err = os.Stat(filepath.Join(env.dataDir, sqlite.DatabaseFile))
	require.NoError(t, err)

	// A second init leaves an edited config alone.
	require.NoError(t, os.WriteFile(configPath, []byte("history_limit: 7\n"), 0o644))
	env.mustRun(t, "init")
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "history_limit: 7\n", string(data))
}

func TestInit_SeedsSamples(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("STOCKPILE_SEED_SAMPLES", "true")

	env.mustRun(t, "init")
	ms := env.materials(t)
	assert.Len(t, ms, 4)
	assert.Contains(t, ms, "Zipper (piece)")
}

func TestOrderWorkflow(t *testing.T) {
	env := newCLIEnv(t)
	env.shirtSetup(t)

	out := env.mustRun(t, "order", "Shirt", "3")
	assert.Contains(t, out, "3 x Shirt fulfilled")

	ms := env.materials(t)
	assert.Equal(t, "4", ms["Fabric"].Quantity.String())
	assert.Equal(t, "7", ms["Thread"].Quantity.String())

	entries := env.history(t)
	require.NotEmpty(t, entries)
	assert.Equal(t, types.ActionOrderFulfilled, entries[0].Kind)
}

func TestOrder_FractionalQuantity(t *testing.T) {
	env := newCLIEnv(t)
	env.shirtSetup(t)

	out := env.mustRun(t, "order", "Shirt", "2.5")
	assert.Contains(t, out, "2.5 x Shirt fulfilled")

	ms := env.materials(t)
	assert.Equal(t, "5", ms["Fabric"].Quantity.String())
	assert.Equal(t, "7.5", ms["Thread"].Quantity.String())
}

func TestOrder_JSONReceipt(t *testing.T) {
	env := newCLIEnv(t)
	env.shirtSetup(t)

	var receipt types.OrderReceipt
	require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "--json", "order", "Shirt", "1")), &receipt))
	assert.Equal(t, "Shirt", receipt.ProductName)
	assert.Len(t, receipt.Consumed, 2)
	assert.NotEmpty(t, receipt.OrderID)
}

func TestOrder_InsufficientStock(t *testing.T) {
	env := newCLIEnv(t)
	env.shirtSetup(t)
	before := env.history(t)

	r := env.run(t, "order", "Shirt", "20")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, `insufficient stock for "Shirt"`)
	assert.Contains(t, r.stderr, "Fabric: have 10, need 40")
	assert.Contains(t, r.stderr, "Thread: have 10, need 20")

	ms := env.materials(t)
	assert.Equal(t, "10", ms["Fabric"].Quantity.String())
	assert.Equal(t, before, env.history(t))
}

func TestOrder_NoRecipe(t *testing.T) {
	env := newCLIEnv(t)

	r := env.run(t, "order", "Unknown Product", "1")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "no recipe")
}

func TestMaterialCommands(t *testing.T) {
	env := newCLIEnv(t)
	id := env.addMaterial(t, "Zipper", "5", "2")
	sid := strconv.FormatInt(id, 10)

	r := env.run(t, "material", "add", "--name", "Zipper", "--quantity", "1", "--threshold", "1")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "already exists")
	assert.Len(t, env.materials(t), 1)

	out := env.mustRun(t, "material", "adjust", sid, "--", "-4")
	assert.Contains(t, out, "Zipper: 1")

	r = env.run(t, "material", "adjust", sid, "--", "-1000000000")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "negative")
	assert.Equal(t, "1", env.materials(t)["Zipper"].Quantity.String())

	out = env.mustRun(t, "critical")
	assert.Contains(t, out, "1 critical material(s)")
	assert.Contains(t, out, "Zipper")

	out = env.mustRun(t, "material", "list", "--search", "zip")
	assert.Contains(t, out, "CRITICAL")

	env.mustRun(t, "material", "remove", sid)
	assert.Empty(t, env.materials(t))
	assert.Equal(t, exitUserError, env.run(t, "material", "remove", sid).code)
}

func TestRecipeCommands(t *testing.T) {
	env := newCLIEnv(t)
	fabric, _ := env.shirtSetup(t)
	sfabric := strconv.FormatInt(fabric, 10)

	assert.Equal(t, "Shirt\n", env.mustRun(t, "recipe", "list"))

	out := env.mustRun(t, "recipe", "show", "Shirt")
	assert.Contains(t, out, "Fabric")
	assert.Contains(t, out, "Thread")

	env.mustRun(t, "recipe", "remove", "Shirt", sfabric)
	env.mustRun(t, "recipe", "remove", "Shirt", sfabric)
	out = env.mustRun(t, "recipe", "show", "Shirt")
	assert.NotContains(t, out, "Fabric")

	assert.Equal(t, exitUserError, env.run(t, "recipe", "set", "Shirt", "999", "1").code)
	assert.Equal(t, exitUserError, env.run(t, "recipe", "set", "Shirt", sfabric, "0").code)

	env.mustRun(t, "recipe", "delete", "Shirt")
	assert.Contains(t, env.mustRun(t, "recipe", "show", "Shirt"), "No recipe")
}

func TestHistoryCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.addMaterial(t, "A", "1", "0")
	env.addMaterial(t, "B", "1", "0")
	env.addMaterial(t, "C", "1", "0")

	entries := env.history(t, "--limit", "2")
	require.Len(t, entries, 2)
	assert.Equal(t, "'C' added", entries[0].Description)

	path := filepath.Join(t.TempDir(), "history.jsonl")
	out := env.mustRun(t, "history", "export", path)
	assert.Contains(t, out, "Exported 3 entries")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)

	env.mustRun(t, "history", "clear")
	assert.Empty(t, env.history(t))
}

func TestExport_CSV(t *testing.T) {
	env := newCLIEnv(t)
	env.addMaterial(t, "Fabric", "12.5", "20")
	path := filepath.Join(t.TempDir(), "materials.csv")

	env.mustRun(t, "export", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffid;name;quantity;critical_threshold\n1;Fabric;12.5;20\n", string(data))
}

func TestExport_CSVDialectFromEnv(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("STOCKPILE_CSV_DELIMITER", ",")
	t.Setenv("STOCKPILE_CSV_BOM", "false")
	env.addMaterial(t, "Fabric", "3", "1")
	path := filepath.Join(t.TempDir(), "materials.csv")

	env.mustRun(t, "export", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,quantity,critical_threshold\n1,Fabric,3,1\n", string(data))
}

func TestExport_XLSX(t *testing.T) {
	env := newCLIEnv(t)
	env.addMaterial(t, "Fabric", "3", "1")
	path := filepath.Join(t.TempDir(), "materials.xlsx")

	env.mustRun(t, "export", path, "--format", "xlsx")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Materials")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fabric", rows[1][1])

	assert.Equal(t, exitUserError, env.run(t, "export", path, "--format", "pdf").code)
}

func TestConfigFile_HistoryLimit(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte("history_limit: 2\n"), 0o644))
	for _, name := range []string{"A", "B", "C"} {
		env.addMaterial(t, name, "1", "0")
	}

	assert.Len(t, env.history(t), 2)
}

func TestEnvFile(t *testing.T) {
	env := newCLIEnv(t)
	// Unset for the test and restore afterwards; .env never overrides a
	// variable that is already set.
	t.Setenv("STOCKPILE_HISTORY_LIMIT", "")
	require.NoError(t, os.Unsetenv("STOCKPILE_HISTORY_LIMIT"))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, envFileName), []byte("STOCKPILE_HISTORY_LIMIT=1\n"), 0o644))

	env.addMaterial(t, "A", "1", "0")
	env.addMaterial(t, "B", "1", "0")

	assert.Len(t, env.history(t), 1)
}

func TestExitCodes(t *testing.T) {
	env := newCLIEnv(t)

	assert.Equal(t, exitUserError, env.run(t, "no-such-command").code)
	assert.Equal(t, exitUserError, env.run(t, "material", "remove", "abc").code)
	assert.Equal(t, exitUserError, env.run(t, "order", "Shirt", "x").code)
	assert.Equal(t, exitUserError, env.run(t, "material", "add", "--quantity", "1").code, "--name is required")
	assert.Equal(t, exitSysError, env.run(t, "--log-level", "loud", "version").code)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	r := Run([]string{"--config-dir", env.configDir, "--data-dir", filepath.Join(blocker, "data"), "material", "list"},
		&bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, exitSysError, r)
}
