package event

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultColor = "#3B82F6"

type Category struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
	Color string `yaml:"color" json:"color"`
}

// Categories is read-only after construction.
type Categories struct {
	list []Category
}

func DefaultCategories() *Categories {
	return &Categories{list: []Category{
		{Value: "work", Label: "Work", Color: "#3B82F6"},
		{Value: "personal", Label: "Personal", Color: "#10B981"},
		{Value: "meeting", Label: "Meeting", Color: "#F59E0B"},
		{Value: "birthday", Label: "Birthday", Color: "#EC4899"},
		{Value: "holiday", Label: "Holiday", Color: "#8B5CF6"},
		{Value: "other", Label: "Other", Color: "#6B7280"},
	}}
}

type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadCategories reads a YAML table of the form
//
//	categories:
//	  - value: work
//	    label: Work
//	    color: "#3B82F6"
func LoadCategories(path string) (*Categories, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f categoriesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse categories %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, errors.New("categories file has no entries")
	}
	for i, c := range f.Categories {
		if strings.TrimSpace(c.Value) == "" {
			return nil, fmt.Errorf("category %d: value required", i)
		}
		if c.Label == "" {
			f.Categories[i].Label = c.Value
		}
		if c.Color == "" {
			f.Categories[i].Color = DefaultColor
		}
	}
	return &Categories{list: f.Categories}, nil
}

func (c *Categories) List() []Category {
	out := make([]Category, len(c.list))
	copy(out, c.list)
	return out
}

// ColorFor resolves a category to its color; unknown or absent
// categories get DefaultColor.
func (c *Categories) ColorFor(category *string) string {
	if category == nil || *category == "" {
		return DefaultColor
	}
	for _, cat := range c.list {
		if cat.Value == *category {
			return cat.Color
		}
	}
	return DefaultColor
}

// DisplayColor is the stored snapshot, or the live table color when no
// snapshot was taken.
func (c *Categories) DisplayColor(e *Event) string {
	if e.Color != nil && *e.Color != "" {
		return *e.Color
	}
	return c.ColorFor(e.Category)
}
