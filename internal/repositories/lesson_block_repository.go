package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/learncamera/backend/internal/models"
)

type lessonBlockRepository struct {
	db *sql.DB
}

// NewLessonBlockRepository creates a new lesson block repository
func NewLessonBlockRepository(db *sql.DB) *lessonBlockRepository {
	return &lessonBlockRepository{
		db: db,
	}
}

// GetByLessonIDs retrieves the blocks of several lessons, each lesson's blocks ordered by order_index
func (r *lessonBlockRepository) GetByLessonIDs(ctx context.Context, lessonIDs []int) ([]*models.LessonBlock, error) {
	if len(lessonIDs) == 0 {
		return []*models.LessonBlock{}, nil
	}

	placeholders, args := inClause(lessonIDs)
	query := fmt.Sprintf(`
		SELECT id, lesson_id, block_type, order_index, text_markdown, image_urls, video_url, links
		FROM lesson_blocks
		WHERE lesson_id IN (%s)
		ORDER BY lesson_id, order_index, id`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson blocks: %w", err)
	}
	defer rows.Close()

	blocks := make([]*models.LessonBlock, 0)
	for rows.Next() {
		block := &models.LessonBlock{}
		var imageURLsJSON, linksJSON []byte
		err := rows.Scan(
			&block.ID,
			&block.LessonID,
			&block.BlockType,
			&block.OrderIndex,
			&block.TextMarkdown,
			&imageURLsJSON,
			&block.VideoURL,
			&linksJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson block: %w", err)
		}

		block.ImageURLs = []string{}
		if len(imageURLsJSON) > 0 {
			if err := json.Unmarshal(imageURLsJSON, &block.ImageURLs); err != nil {
				return nil, fmt.Errorf("failed to decode image urls of block %d: %w", block.ID, err)
			}
		}
		block.Links = json.RawMessage("[]")
		if len(linksJSON) > 0 {
			block.Links = json.RawMessage(linksJSON)
		}

		blocks = append(blocks, block)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return blocks, nil
}

// Create inserts a new lesson block
func (r *lessonBlockRepository) Create(ctx context.Context, block *models.LessonBlock) error {
	imageURLs := block.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	imageURLsJSON, err := json.Marshal(imageURLs)
	if err != nil {
		return fmt.Errorf("failed to encode image urls: %w", err)
	}

	links := block.Links
	if len(links) == 0 {
		links = json.RawMessage("[]")
	}

	query := `
		INSERT INTO lesson_blocks (lesson_id, block_type, order_index, text_markdown, image_urls, video_url, links)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		block.LessonID,
		block.BlockType,
		block.OrderIndex,
		block.TextMarkdown,
		string(imageURLsJSON),
		block.VideoURL,
		string(links),
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson block: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	block.ID = int(id)
	block.ImageURLs = imageURLs
	block.Links = links
	return nil
}
