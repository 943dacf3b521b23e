package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorctl/internal/catalog"
)

const capitalsJSON = `{"name":"Capitals","slides":[{"imageUrl":"data:image/png;base64,AAA","answer":"Oslo","censorBoxes":[{"x":1,"y":2,"width":3,"height":4,"color":"#000"}]}]}`

const riversYAML = `
slides:
  - imageUrl: data:image/png;base64,BBB
    answer: Nile
  - imageUrl: data:image/png;base64,CCC
    answer: Danube
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestParse_JSON(t *testing.T) {
	c, err := Parse("capitals.json", []byte(capitalsJSON))
	require.NoError(t, err)
	assert.Equal(t, "Capitals", c.Name)
	require.Len(t, c.Slides, 1)
	assert.Equal(t, "Oslo", c.Slides[0].Answer)
	assert.Equal(t, []catalog.CensorBox{{X: 1, Y: 2, Width: 3, Height: 4, Color: "#000"}}, c.Slides[0].CensorBoxes)
}

func TestParse_YAMLDefaultsNameToFile(t *testing.T) {
	c, err := Parse("/tmp/World Rivers.yaml", []byte(riversYAML))
	require.NoError(t, err)
	assert.Equal(t, "World Rivers", c.Name)
	assert.Len(t, c.Slides, 2)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("bad.json", []byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")

	_, err = Parse("empty.json", []byte(`{"name":"Empty","slides":[]}`))
	assert.True(t, errors.Is(err, ErrNoSlides))
}

func TestLoadAll_KeepsOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "capitals.json", capitalsJSON)
	b := writeFile(t, dir, "rivers.yml", riversYAML)

	files, err := LoadAll(context.Background(), []string{b, a})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "rivers", files[0].Category.Name)
	assert.Equal(t, "rivers", files[0].Name())
	assert.Equal(t, "Capitals", files[1].Category.Name)
	assert.Equal(t, EstimateSize(files[1].Category), files[1].Size)
}

func TestLoadAll_MissingFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "capitals.json", capitalsJSON)

	_, err := LoadAll(context.Background(), []string{a, filepath.Join(dir, "missing.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestSplitPaths(t *testing.T) {
	assert.Equal(t, []string{"a.json", "b.yaml", "c.yml"}, SplitPaths(" a.json, b.yaml\tc.yml "))
	assert.Empty(t, SplitPaths("  , "))
}

func TestToStored(t *testing.T) {
	c, err := Parse("capitals.json", []byte(capitalsJSON))
	require.NoError(t, err)

	rec := ToStored(c, "")
	assert.Equal(t, "Capitals", rec.Name)
	assert.Equal(t, "data:image/png;base64,AAA", rec.ThumbnailURL)
	assert.Equal(t, EstimateSize(c), rec.SizeInBytes)

	assert.Equal(t, "Renamed", ToStored(c, "Renamed").Name)
	assert.Empty(t, ToStored(catalog.Category{Name: "x"}, "").ThumbnailURL)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "1.0 KB", FormatSize(1024))
	assert.Equal(t, "2.5 MB", FormatSize(5*1024*1024/2))
}
