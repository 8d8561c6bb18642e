package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"hikari/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	NumShows   int
	NumViewers int
}

// Seeder populates the database with a realistic demo catalog and audience.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes every row from every seedable table. Built-in tags are
// re-created by Tags afterwards.
func (s *Seeder) ClearAll() error {
	// Child tables first so the wipe works with FK enforcement on.
	tables := []string{
		"view_histories", "bookmarks", "comments", "reports", "episodes",
		"show_keywords", "show_tags", "banners", "client_logs",
		"shows", "tags", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("database cleared")
	return nil
}

// Run seeds the catalog and an audience interacting with it.
func (s *Seeder) Run(opts Options) error {
	if opts.NumShows <= 0 {
		opts.NumShows = len(catalogTitles)
	}
	if opts.NumViewers <= 0 {
		opts.NumViewers = 25
	}

	if err := Tags(s.db); err != nil {
		return err
	}

	shows, err := s.seedCatalog(opts.NumShows)
	if err != nil {
		return err
	}
	viewers, err := s.seedViewers(opts.NumViewers)
	if err != nil {
		return err
	}
	if err := s.seedAudience(shows, viewers); err != nil {
		return err
	}

	log.Printf("seeded %d shows and %d viewers", len(shows), len(viewers))
	return nil
}

func (s *Seeder) seedCatalog(numShows int) ([]*models.Show, error) {
	var tags []models.Tag
	if err := s.db.Find(&tags).Error; err != nil {
		return nil, err
	}

	shows := make([]*models.Show, 0, numShows)
	for i := 0; i < numShows; i++ {
		show := s.factory.BuildShow(i)

		picked := make([]models.Tag, 0, 3)
		for _, j := range s.factory.rng.Perm(len(tags))[:min(1+s.factory.rng.Intn(3), len(tags))] {
			picked = append(picked, tags[j])
		}
		if err := s.factory.CreateShow(show, picked); err != nil {
			return nil, fmt.Errorf("seed show %q: %w", show.Title, err)
		}
		show.Tags = picked

		if _, err := s.factory.CreateEpisodes(show, 4+s.factory.rng.Intn(21)); err != nil {
			return nil, fmt.Errorf("seed episodes for %q: %w", show.Title, err)
		}
		shows = append(shows, show)
	}

	// The first few shows get carousel banners.
	for i := 0; i < len(shows) && i < 5; i++ {
		if _, err := s.factory.CreateBanner(shows[i], i); err != nil {
			return nil, err
		}
	}
	return shows, nil
}

func (s *Seeder) seedViewers(numViewers int) ([]*models.User, error) {
	viewers := make([]*models.User, 0, numViewers)
	for i := 0; i < numViewers; i++ {
		viewer, err := s.factory.CreateViewer()
		if err != nil {
			return nil, fmt.Errorf("seed viewer: %w", err)
		}
		viewers = append(viewers, viewer)
	}
	return viewers, nil
}

// seedAudience gives each viewer a handful of bookmarks, watch history, and
// comments, so notification and library endpoints return data out of the box.
func (s *Seeder) seedAudience(shows []*models.Show, viewers []*models.User) error {
	rng := s.factory.rng
	for _, viewer := range viewers {
		for _, j := range rng.Perm(len(shows))[:min(2+rng.Intn(4), len(shows))] {
			show := shows[j]

			tagNames := make([]string, 0, len(show.Tags))
			for _, t := range show.Tags {
				tagNames = append(tagNames, t.Name)
			}
			bookmark := models.Bookmark{
				UserID:              viewer.ID,
				ShowID:              show.ID,
				Title:               show.Title,
				ThumbnailURL:        show.ThumbnailURL,
				TagNames:            strings.Join(tagNames, ", "),
				LatestEpisodeNumber: show.LatestEpisodeNumber,
				SavedAt:             time.Now().Add(-time.Duration(rng.Intn(720)) * time.Hour),
			}
			if err := s.db.Create(&bookmark).Error; err != nil {
				return fmt.Errorf("seed bookmark: %w", err)
			}

			// Most viewers are partway through; some are caught up, which
			// leaves them without a notification for this show.
			watched := float64(1 + rng.Intn(int(show.EpisodeCount)))
			history := models.ViewHistory{
				UserID:                   viewer.ID,
				ShowID:                   show.ID,
				LastWatchedEpisodeNumber: watched,
				Title:                    show.Title,
				ThumbnailURL:             show.ThumbnailURL,
				WatchedAt:                time.Now().Add(-time.Duration(rng.Intn(168)) * time.Hour),
			}
			if err := s.db.Create(&history).Error; err != nil {
				return fmt.Errorf("seed history: %w", err)
			}

			if rng.Intn(2) == 0 {
				comment := models.Comment{
					ID:        uuid.NewString(),
					ShowID:    show.ID,
					Type:      models.CommentTypeShow,
					Text:      gofakeit.Sentence(8 + rng.Intn(12)),
					UserID:    viewer.ID,
					UserName:  viewer.Username,
					UserPhoto: viewer.PhotoURL,
				}
				if err := s.db.Create(&comment).Error; err != nil {
					return fmt.Errorf("seed comment: %w", err)
				}
			}
		}

		if err := s.db.Model(&models.Show{}).
			Where("id = ?", shows[rng.Intn(len(shows))].ID).
			Update("view_count", gorm.Expr("view_count + ?", 1+rng.Intn(50))).Error; err != nil {
			return fmt.Errorf("seed view counts: %w", err)
		}
	}
	return nil
}
