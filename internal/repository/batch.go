package repository

import (
	"context"

	"hikari/internal/cache"
	"hikari/internal/models"
	"hikari/internal/observability"

	"gorm.io/gorm"
)

// DefaultDeleteChunkSize bounds how many rows a single delete statement may
// touch. Large cascades are split into repeated chunks so no single
// transaction holds locks across an unbounded row set.
const DefaultDeleteChunkSize = 400

// BatchDeleter removes large dependent row sets in fixed-size chunks.
type BatchDeleter struct {
	db        *gorm.DB
	chunkSize int
	log       *observability.RepoLogger
}

// NewBatchDeleter creates a BatchDeleter. A chunkSize of 0 or less selects the
// default.
func NewBatchDeleter(db *gorm.DB, chunkSize int) *BatchDeleter {
	if chunkSize <= 0 {
		chunkSize = DefaultDeleteChunkSize
	}
	return &BatchDeleter{
		db:        db,
		chunkSize: chunkSize,
		log:       observability.NewRepoLogger("batch_delete"),
	}
}

// deleteChunked repeatedly selects up to chunkSize primary keys matching the
// condition and deletes them in one transaction per chunk, until no rows
// remain. Returns the total rows deleted.
func (d *BatchDeleter) deleteChunked(ctx context.Context, model any, pkColumn, cond string, args ...any) (int64, error) {
	var total int64
	for {
		var ids []string
		err := d.db.WithContext(ctx).Model(model).
			Where(cond, args...).
			Limit(d.chunkSize).
			Pluck(pkColumn, &ids).Error
		if err != nil {
			return total, wrapDBError(err)
		}
		if len(ids) == 0 {
			return total, nil
		}
		err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Where(pkColumn+" IN ?", ids).Delete(model).Error
		})
		if err != nil {
			return total, wrapDBError(err)
		}
		total += int64(len(ids))
		if len(ids) < d.chunkSize {
			return total, nil
		}
	}
}

// DeleteShowCascade removes a show and every dependent row. Children go first
// so a crash mid-way leaves orphan-free data: a re-run completes the job.
func (d *BatchDeleter) DeleteShowCascade(ctx context.Context, showID string) error {
	steps := []struct {
		model any
		pk    string
	}{
		{&models.Episode{}, "id"},
		{&models.Report{}, "id"},
		{&models.Comment{}, "id"},
	}
	var total int64
	for _, s := range steps {
		n, err := d.deleteChunked(ctx, s.model, s.pk, "show_id = ?", showID)
		if err != nil {
			d.log.LogError(ctx, err, "cascade")
			return err
		}
		total += n
	}

	// Composite-key and join tables have no single id column; their per-show
	// row counts are small enough to delete in one statement.
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("show_id = ?", showID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("show_id = ?", showID).Delete(&models.ViewHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("show_id = ?", showID).Delete(&models.ShowKeyword{}).Error; err != nil {
			return err
		}
		if err := tx.Where("show_id = ?", showID).Delete(&models.Banner{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM show_tags WHERE show_id = ?", showID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Show{}, "id = ?", showID).Error
	})
	if err != nil {
		d.log.LogError(ctx, err, "cascade")
		return wrapDBError(err)
	}

	d.log.LogMutation(ctx, "cascade", map[string]any{
		"show_id":    showID,
		"child_rows": total,
		"chunk_size": d.chunkSize,
	})
	cache.InvalidateShow(ctx, showID)
	cache.InvalidateBanners(ctx)
	cache.InvalidateSearchSnapshot(ctx)
	return nil
}

// DeleteEpisodeCascade removes one episode plus its reports and comments.
func (d *BatchDeleter) DeleteEpisodeCascade(ctx context.Context, episodeID string) error {
	if _, err := d.deleteChunked(ctx, &models.Report{}, "id", "episode_id = ?", episodeID); err != nil {
		return err
	}
	if _, err := d.deleteChunked(ctx, &models.Comment{}, "id", "episode_id = ?", episodeID); err != nil {
		return err
	}
	res := d.db.WithContext(ctx).Delete(&models.Episode{}, "id = ?", episodeID)
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Episode", episodeID)
	}
	return nil
}
