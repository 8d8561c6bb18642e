package seed

import (
	"fmt"

	"hikari/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInTag is a permanent catalog tag.
type BuiltInTag struct {
	Name string
	Slug string
}

// BuiltInTags defines the tag set every deployment starts with. Seeding is
// idempotent: existing slugs are updated in place, admin-created tags are
// left alone.
var BuiltInTags = []BuiltInTag{
	{Name: "Action", Slug: "action"},
	{Name: "Adventure", Slug: "adventure"},
	{Name: "Comedy", Slug: "comedy"},
	{Name: "Drama", Slug: "drama"},
	{Name: "Fantasy", Slug: "fantasy"},
	{Name: "Horror", Slug: "horror"},
	{Name: "Mecha", Slug: "mecha"},
	{Name: "Mystery", Slug: "mystery"},
	{Name: "Romance", Slug: "romance"},
	{Name: "Sci-Fi", Slug: "sci-fi"},
	{Name: "Slice of Life", Slug: "slice-of-life"},
	{Name: "Sports", Slug: "sports"},
	{Name: "Supernatural", Slug: "supernatural"},
	{Name: "Thriller", Slug: "thriller"},
}

// Tags seeds the permanent built-in tags.
func Tags(db *gorm.DB) error {
	for _, item := range BuiltInTags {
		tag := models.Tag{Name: item.Name, Slug: item.Slug}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&tag).Error
		if err != nil {
			return fmt.Errorf("seed built-in tag %s: %w", item.Slug, err)
		}
	}
	return nil
}
