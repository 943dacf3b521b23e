// Package catalog holds the game-show domain types persisted by the console:
// categories of slides and the contestants who own them.
package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a category or contestant does not exist.
var ErrNotFound = errors.New("not found")

// CensorBox hides part of a slide image, in percent of the image size.
type CensorBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Slide is one question image with its answer.
type Slide struct {
	ImageURL    string      `json:"imageUrl" yaml:"imageUrl"`
	Answer      string      `json:"answer" yaml:"answer"`
	CensorBoxes []CensorBox `json:"censorBoxes,omitempty" yaml:"censorBoxes,omitempty"`
}

// Category is a named collection of slides.
type Category struct {
	Name   string  `json:"name" yaml:"name"`
	Slides []Slide `json:"slides" yaml:"slides"`
}

// StoredCategory is a category as persisted, with its metadata.
type StoredCategory struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slides       []Slide   `json:"slides"`
	CreatedAt    time.Time `json:"createdAt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	SizeInBytes  int       `json:"sizeInBytes,omitempty"`
}

// Ref returns the lightweight list entry for c.
func (c StoredCategory) Ref() CategoryRef {
	return CategoryRef{
		ID:           c.ID,
		Name:         c.Name,
		SlideCount:   len(c.Slides),
		ThumbnailURL: c.ThumbnailURL,
		CreatedAt:    c.CreatedAt,
		SizeInBytes:  c.SizeInBytes,
	}
}

// CategoryRef is a category without its slide data, for lists.
type CategoryRef struct {
	ID           string
	Name         string
	SlideCount   int
	ThumbnailURL string
	CreatedAt    time.Time
	SizeInBytes  int
}

// Contestant is a player who owns one category.
type Contestant struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	CategoryID string   `json:"categoryId,omitempty"`
	Wins       int      `json:"wins"`
	Eliminated bool     `json:"eliminated"`
}

// Store persists categories and contestants. Commands call into it; the view
// stack never does.
type Store interface {
	AddCategory(ctx context.Context, c StoredCategory) error
	GetCategory(ctx context.Context, id string) (StoredCategory, error)
	DeleteCategory(ctx context.Context, id string) error
	DeleteAllCategories(ctx context.Context) error
	// ListCategories returns refs ordered by creation time.
	ListCategories(ctx context.Context) ([]CategoryRef, error)

	AddContestant(ctx context.Context, c Contestant) error
	GetContestant(ctx context.Context, id string) (Contestant, error)
	DeleteContestant(ctx context.Context, id string) error
	ListContestants(ctx context.Context) ([]Contestant, error)

	Close() error
}

// ContestantsUsing returns the contestants whose CategoryID is id.
func ContestantsUsing(contestants []Contestant, id string) []Contestant {
	var out []Contestant
	for _, c := range contestants {
		if c.CategoryID == id {
			out = append(out, c)
		}
	}
	return out
}
