package catalog

import (
	"testing"

	"sixpillars/internal/models"
)

func sixCategories() []models.Category {
	return []models.Category{
		{ID: 4, Slug: "sleep", Name: "Sleep", Position: 4},
		{ID: 1, Slug: "physical", Name: "Physical Health", Position: 1},
		{ID: 6, Slug: "growth", Name: "Personal Growth", Position: 6},
		{ID: 2, Slug: "mental", Name: "Mental Health", Position: 2},
		{ID: 5, Slug: "social", Name: "Social", Position: 5},
		{ID: 3, Slug: "nutrition", Name: "Nutrition", Position: 3},
	}
}

func TestNewOrdersByPosition(t *testing.T) {
	c, err := New(sixCategories())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all := c.All()
	if len(all) != Size {
		t.Fatalf("expected %d categories, got %d", Size, len(all))
	}
	for i, cat := range all {
		if cat.Position != i+1 {
			t.Fatalf("category %d out of order: position %d", i, cat.Position)
		}
	}
}

func TestNewRejectsWrongCount(t *testing.T) {
	cats := sixCategories()[:5]
	if _, err := New(cats); err == nil {
		t.Fatal("expected error for five categories")
	}
	if _, err := New(append(sixCategories(), models.Category{ID: 7, Slug: "extra", Position: 7})); err == nil {
		t.Fatal("expected error for seven categories")
	}
}

func TestNewRejectsDuplicateSlug(t *testing.T) {
	cats := sixCategories()
	cats[0].Slug = cats[1].Slug
	if _, err := New(cats); err == nil {
		t.Fatal("expected error for duplicate slug")
	}
}

func TestLookups(t *testing.T) {
	c, err := New(sixCategories())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cat, ok := c.BySlug("nutrition")
	if !ok || cat.ID != 3 {
		t.Fatalf("BySlug(nutrition) = %+v, %v", cat, ok)
	}
	if _, ok := c.BySlug("unknown"); ok {
		t.Fatal("BySlug(unknown) should miss")
	}
	cat, ok = c.ByID(5)
	if !ok || cat.Slug != "social" {
		t.Fatalf("ByID(5) = %+v, %v", cat, ok)
	}
}
