package models

import "encoding/json"

// BlockType represents the type of a lesson block
type BlockType string

const (
	BlockTypeText  BlockType = "text"
	BlockTypeImage BlockType = "image"
	BlockTypeVideo BlockType = "video"
)

// LessonBlock represents one content block of a lesson. Only the fields matching BlockType are used.
type LessonBlock struct {
	ID           int             `json:"id"`
	LessonID     int             `json:"-"`
	BlockType    BlockType       `json:"block_type"`
	OrderIndex   int             `json:"order_index"`
	TextMarkdown string          `json:"text_markdown"`
	ImageURLs    []string        `json:"image_urls"`
	VideoURL     string          `json:"video_url"`
	Links        json.RawMessage `json:"links"`
}

// CreateBlockRequest represents a request to add a block to a lesson
type CreateBlockRequest struct {
	BlockType    BlockType       `json:"block_type" validate:"required,oneof=text image video"`
	OrderIndex   int             `json:"order_index" validate:"min=0"`
	TextMarkdown string          `json:"text_markdown"`
	ImageURLs    []string        `json:"image_urls" validate:"dive,url"`
	VideoURL     string          `json:"video_url" validate:"omitempty,url"`
	Links        json.RawMessage `json:"links"`
}
