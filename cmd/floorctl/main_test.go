package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/boltstore"
	"floorctl/internal/catalog/importer"
	"floorctl/internal/catalog/storetest"
	"floorctl/internal/config"
)

func writeCategory(t *testing.T, dir, file, name string) string {
	t.Helper()
	p := filepath.Join(dir, file)
	body := `{"name":"` + name + `","slides":[{"imageUrl":"img/1.png","answer":"A"}]}`
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func loadFiles(t *testing.T, paths ...string) []importer.File {
	t.Helper()
	files, err := importer.LoadAll(context.Background(), paths)
	require.NoError(t, err)
	return files
}

func openStore(t *testing.T) catalog.Store {
	t.Helper()
	st, err := boltstore.Open(filepath.Join(t.TempDir(), "floor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRunImport_CommitsEveryFile(t *testing.T) {
	dir := t.TempDir()
	st := openStore(t)
	files := loadFiles(t,
		writeCategory(t, dir, "a.json", "Capitals"),
		writeCategory(t, dir, "b.json", "Rivers"),
		writeCategory(t, dir, "c.json", "Peaks"),
	)

	rep, err := runImport(context.Background(), st, files, []string{"Alice", "", "Carol"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Capitals", "Rivers", "Peaks"}, rep.Imported)
	assert.Empty(t, rep.Failed)

	refs, err := st.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, refs, 3)

	people, err := st.ListContestants(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Alice", people[0].Name)
	assert.Equal(t, "Capitals", people[0].Category.Name)
	assert.Equal(t, "Carol", people[1].Name)
}

func TestRunImport_DryRunUndoesEverything(t *testing.T) {
	dir := t.TempDir()
	st := openStore(t)
	files := loadFiles(t,
		writeCategory(t, dir, "a.json", "Capitals"),
		writeCategory(t, dir, "b.json", "Rivers"),
	)

	rep, err := runImport(context.Background(), st, files, []string{"Alice"}, true)
	require.NoError(t, err)
	assert.True(t, rep.DryRun)
	assert.Equal(t, []string{"Capitals", "Rivers"}, rep.Imported)

	refs, err := st.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, refs)
	people, err := st.ListContestants(context.Background())
	require.NoError(t, err)
	assert.Empty(t, people)
}

type failOnName struct {
	catalog.Store
	name string
}

func (f failOnName) AddCategory(ctx context.Context, c catalog.StoredCategory) error {
	if c.Name == f.name {
		return errors.New("disk full")
	}
	return f.Store.AddCategory(ctx, c)
}

func TestRunImport_FailedStepIsReportedNotFatal(t *testing.T) {
	dir := t.TempDir()
	st := openStore(t)
	files := loadFiles(t,
		writeCategory(t, dir, "a.json", "Capitals"),
		writeCategory(t, dir, "b.json", "Rivers"),
	)

	rep, err := runImport(context.Background(), failOnName{Store: st, name: "Capitals"}, files, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rivers"}, rep.Imported)
	assert.Equal(t, []string{files[0].Path}, rep.Failed)

	var out bytes.Buffer
	printReport(&out, rep)
	assert.Contains(t, out.String(), "Imported Rivers")
	assert.Contains(t, out.String(), "Failed "+files[0].Path)
}

func TestRunImport_NoFiles(t *testing.T) {
	rep, err := runImport(context.Background(), openStore(t), nil, nil, false)
	require.NoError(t, err)
	assert.Empty(t, rep.Imported)
}

// isolate points config, data and logs at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.ConfigEnv, "")
	t.Setenv(config.DataDirEnv, filepath.Join(home, "data"))
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	defer a.close(context.Background())
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_ImportThenList(t *testing.T) {
	home := isolate(t)
	path := writeCategory(t, t.TempDir(), "capitals.json", "Capitals")

	out, err := execute(t, "import", path, "--contestant", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported Capitals")
	assert.FileExists(t, filepath.Join(home, "data", "floor.db"))
	assert.FileExists(t, filepath.Join(home, config.DefaultBase, "floorctl.log"))

	out, err = execute(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Capitals")
	assert.Contains(t, out, "1 slides")

	out, err = execute(t, "contestants")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
}

func TestCLI_SQLiteBackendFlag(t *testing.T) {
	home := isolate(t)
	path := writeCategory(t, t.TempDir(), "rivers.json", "Rivers")

	_, err := execute(t, "--backend", "sqlite", "import", path)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, "data", "floor.sqlite"))

	out, err := execute(t, "--backend", "sqlite", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Rivers")

	out, err = execute(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "No categories.")
}

func TestCLI_DeleteCategory(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "data"), 0755))
	st, err := boltstore.Open(filepath.Join(home, "data", "floor.db"))
	require.NoError(t, err)
	require.NoError(t, st.AddCategory(context.Background(), storetest.SampleCategory("c1", "Capitals", time.Unix(100, 0))))
	require.NoError(t, st.Close())

	out, err := execute(t, "categories", "delete", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted c1")

	_, err = execute(t, "categories", "delete", "c1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestCLI_RejectsUnknownBackend(t *testing.T) {
	isolate(t)

	_, err := execute(t, "--backend", "postgres", "categories")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "postgres"))
}
