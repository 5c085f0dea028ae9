package models

// AdminEntity names an entity and the fields shown for it in admin listings
type AdminEntity struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// AdminEntities is the static list of entities exposed to content administrators
var AdminEntities = []AdminEntity{
	{Name: "course", Fields: []string{"id", "title", "slug", "price_cents", "stripe_price_id", "image_url"}},
	{Name: "chapter", Fields: []string{"id", "course_id", "title", "slug", "order_index"}},
	{Name: "lesson", Fields: []string{"id", "chapter_id", "title", "slug", "number", "order_index", "is_free_preview"}},
	{Name: "lesson_block", Fields: []string{"id", "lesson_id", "block_type", "order_index"}},
	{Name: "lesson_progress", Fields: []string{"id", "user_id", "lesson_id", "started_at", "completed_at"}},
	{Name: "course_purchase", Fields: []string{"id", "user_id", "course_id", "stripe_session_id", "purchased_at"}},
	{Name: "user", Fields: []string{"id", "username", "email", "role", "created_at"}},
}
