// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"hikari/internal/keywords"
	"hikari/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// catalogTitles are hand-picked (title, altTitle) pairs so the seeded catalog
// exercises search the way real data does, including non-Latin alt titles.
var catalogTitles = [][2]string{
	{"Attack on Titan", "Shingeki no Kyojin"},
	{"Demon Slayer", "ดาบพิฆาตอสูร"},
	{"Fullmetal Alchemist", "Hagane no Renkinjutsushi"},
	{"Vinland Saga", ""},
	{"Frieren", "Sousou no Frieren"},
	{"Jujutsu Kaisen", "มหาเวทย์ผนึกมาร"},
	{"Steins;Gate", ""},
	{"Mob Psycho 100", "Mob Saiko Hyaku"},
	{"Hunter x Hunter", ""},
	{"Spy x Family", ""},
	{"One Punch Man", "Wanpanman"},
	{"Made in Abyss", ""},
	{"Mushoku Tensei", "เกิดชาตินี้พี่ต้องเทพ"},
	{"Chainsaw Man", ""},
	{"Violet Evergarden", ""},
	{"Cowboy Bebop", ""},
	{"Monogatari", "Bakemonogatari"},
	{"Bocchi the Rock", ""},
	{"Oshi no Ko", ""},
	{"The Apothecary Diaries", "Kusuriya no Hitorigoto"},
}

var studios = []string{
	"MAPPA", "Wit Studio", "Bones", "Kyoto Animation", "Ufotable",
	"Madhouse", "CloverWorks", "A-1 Pictures", "Studio Trigger", "Production I.G",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateViewer constructs and persists a sample user account. The password is
// always "password123" so seeded accounts are usable from the frontend.
func (f *Factory) CreateViewer(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Username:     strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:        gofakeit.Email(),
		PasswordHash: string(hashed),
		PhotoURL:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:         models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildShow constructs a show without persisting it. The title is drawn from
// the curated list when idx is in range, otherwise generated.
func (f *Factory) BuildShow(idx int) *models.Show {
	title := gofakeit.BookTitle()
	altTitle := ""
	if idx >= 0 && idx < len(catalogTitles) {
		title = catalogTitles[idx][0]
		altTitle = catalogTitles[idx][1]
	}

	daysBack := f.rng.Intn(365)
	createdAt := time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(f.rng.Intn(24))*time.Hour -
		time.Duration(f.rng.Intn(60))*time.Minute)

	return &models.Show{
		ID:           uuid.NewString(),
		Title:        title,
		AltTitle:     altTitle,
		Description:  gofakeit.Paragraph(1, 3, 12, "\n"),
		ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/300/420", gofakeit.UUID()),
		Studio:       studios[f.rng.Intn(len(studios))],
		Year:         gofakeit.Number(1998, 2026),
		Rating:       float64(gofakeit.Number(60, 95)) / 10,
		Type:         models.ShowTypeTV,
		IsCompleted:  f.rng.Intn(3) == 0,
		CreatedAt:    createdAt,
	}
}

// CreateShow persists a show with its search keywords and tag links.
func (f *Factory) CreateShow(show *models.Show, tags []models.Tag) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(show).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(show).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}

		seen := map[string]struct{}{}
		var rows []models.ShowKeyword
		for _, kw := range append(keywords.Generate(show.Title), keywords.Generate(show.AltTitle)...) {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			rows = append(rows, models.ShowKeyword{ShowID: show.ID, Keyword: kw})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// CreateEpisodes persists n sequentially numbered episodes for a show and
// updates the show's denormalized counters to match.
func (f *Factory) CreateEpisodes(show *models.Show, n int) ([]models.Episode, error) {
	if n <= 0 {
		return nil, nil
	}
	episodes := make([]models.Episode, n)
	for i := range episodes {
		episodes[i] = models.Episode{
			ID:       uuid.NewString(),
			ShowID:   show.ID,
			Number:   float64(i + 1),
			Title:    gofakeit.Sentence(4),
			VideoURL: fmt.Sprintf("https://cdn.example.com/%s/%d/master.m3u8", show.ID, i+1),
			Status:   models.EpisodeStatusNormal,
		}
	}
	if err := f.db.CreateInBatches(&episodes, 100).Error; err != nil {
		return nil, err
	}

	err := f.db.Model(&models.Show{}).Where("id = ?", show.ID).Updates(map[string]interface{}{
		"latest_episode_number": float64(n),
		"episode_count":         int64(n),
		"counters_updated_at":   time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	show.LatestEpisodeNumber = float64(n)
	show.EpisodeCount = int64(n)
	return episodes, nil
}

// CreateBanner persists a carousel banner pointing at the given show.
func (f *Factory) CreateBanner(show *models.Show, order int) (*models.Banner, error) {
	banner := &models.Banner{
		ID:       uuid.NewString(),
		Title:    show.Title,
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/banner-%s/1280/400", gofakeit.UUID()),
		LinkURL:  "/shows/" + show.ID,
		Order:    order,
		IsActive: true,
		ShowID:   show.ID,
	}
	if err := f.db.Create(banner).Error; err != nil {
		return nil, err
	}
	return banner, nil
}
