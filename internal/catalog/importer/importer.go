// Package importer reads category files for the import wizard. Files are
// JSON or YAML documents holding a single catalog.Category.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"floorctl/internal/catalog"
)

// ErrNoSlides is returned for a category without slides.
var ErrNoSlides = errors.New("category has no slides")

// File is one parsed import file.
type File struct {
	Path     string
	Category catalog.Category
	// Size is the JSON-encoded size of the category.
	Size int
}

// Name returns the file's base name without extension.
func (f File) Name() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse decodes data as the format implied by path's extension. A missing
// category name defaults to the file's base name.
func Parse(path string, data []byte) (catalog.Category, error) {
	var c catalog.Category
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := unmarshalYAMLWithContext(data, &c, path); err != nil {
			return c, err
		}
	default:
		if err := unmarshalWithContext(data, &c, path); err != nil {
			return c, err
		}
	}
	if strings.TrimSpace(c.Name) == "" {
		base := filepath.Base(path)
		c.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if len(c.Slides) == 0 {
		return c, fmt.Errorf("%s: %w", path, ErrNoSlides)
	}
	return c, nil
}

// Load reads and parses one file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Parse(path, data)
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Category: c, Size: EstimateSize(c)}, nil
}

// LoadAll reads paths concurrently and returns the files in the given order.
// The first failure cancels the rest.
func LoadAll(ctx context.Context, paths []string) ([]File, error) {
	files := make([]File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := Load(p)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// SplitPaths splits a user-entered list on commas and whitespace.
func SplitPaths(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// EstimateSize returns the JSON-encoded size of c in bytes.
func EstimateSize(c catalog.Category) int {
	b, err := json.Marshal(c)
	if err != nil {
		return 0
	}
	return len(b)
}

// ToStored builds the record an AddCategory command persists, naming it name
// (the category's own name when empty).
func ToStored(c catalog.Category, name string) catalog.StoredCategory {
	if strings.TrimSpace(name) == "" {
		name = c.Name
	}
	var thumb string
	if len(c.Slides) > 0 {
		thumb = c.Slides[0].ImageURL
	}
	return catalog.StoredCategory{
		Name:         name,
		Slides:       c.Slides,
		ThumbnailURL: thumb,
		SizeInBytes:  EstimateSize(c),
	}
}

// FormatSize renders a byte count as KB or MB.
func FormatSize(n int) string {
	mb := float64(n) / (1024 * 1024)
	if mb < 1 {
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%.1f MB", mb)
}

func unmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

func unmarshalYAMLWithContext(data []byte, v any, context string) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}
