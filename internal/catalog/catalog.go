package catalog

import (
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"sixpillars/internal/models"
)

// Size is the fixed number of categories the system tracks.
const Size = 6

// Catalog is the read-only set of categories, loaded once at startup.
type Catalog struct {
	ordered []models.Category
	bySlug  map[string]models.Category
	byID    map[int]models.Category
}

// Load reads the category rows and builds the catalog.
func Load(db *sqlx.DB) (*Catalog, error) {
	var cats []models.Category
	if err := db.Select(&cats, `SELECT id, slug, name, color, icon, position FROM categories ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return New(cats)
}

// New validates the category set and builds lookup tables.
func New(cats []models.Category) (*Catalog, error) {
	if len(cats) != Size {
		return nil, fmt.Errorf("expected %d categories, got %d", Size, len(cats))
	}
	ordered := make([]models.Category, len(cats))
	copy(ordered, cats)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	bySlug := make(map[string]models.Category, len(ordered))
	byID := make(map[int]models.Category, len(ordered))
	for _, c := range ordered {
		if _, dup := bySlug[c.Slug]; dup {
			return nil, fmt.Errorf("duplicate category slug %q", c.Slug)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %d", c.ID)
		}
		bySlug[c.Slug] = c
		byID[c.ID] = c
	}
	return &Catalog{ordered: ordered, bySlug: bySlug, byID: byID}, nil
}

// All returns the categories in position order.
func (c *Catalog) All() []models.Category {
	out := make([]models.Category, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) BySlug(slug string) (models.Category, bool) {
	cat, ok := c.bySlug[slug]
	return cat, ok
}

func (c *Catalog) ByID(id int) (models.Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}
