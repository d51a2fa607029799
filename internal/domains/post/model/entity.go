package model

import (
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/shared"
)

const (
	ReactionLike       = "like"
	ReactionCelebrate  = "celebrate"
	ReactionSupport    = "support"
	ReactionLove       = "love"
	ReactionInsightful = "insightful"
)

var ReactionTypes = []string{ReactionLike, ReactionCelebrate, ReactionSupport, ReactionLove, ReactionInsightful}

// Reaction toggle outcomes.
const (
	ReactionAdded   = "added"
	ReactionUpdated = "updated"
	ReactionRemoved = "removed"
)

const (
	MaxContentLength      = 3000
	MaxAttachmentBytes    = 10 << 20
	MaxAttachmentsPerPost = 4
)

type Post struct {
	ID              uuid.UUID `json:"id"`
	AuthorID        uuid.UUID `json:"author_id"`
	Content         string    `json:"content"`
	LinkURL         *string   `json:"link_url,omitempty"`
	LinkTitle       *string   `json:"link_title,omitempty"`
	LinkDescription *string   `json:"link_description,omitempty"`
	LinkImageURL    *string   `json:"link_image_url,omitempty"`
	IsDeleted       bool      `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ReactionCounts struct {
	Like       int `json:"like"`
	Celebrate  int `json:"celebrate"`
	Support    int `json:"support"`
	Love       int `json:"love"`
	Insightful int `json:"insightful"`
}

func (c ReactionCounts) Total() int {
	return c.Like + c.Celebrate + c.Support + c.Love + c.Insightful
}

// PostView is a post as seen by one viewer.
type PostView struct {
	Post
	Author         shared.UserSummary `json:"author"`
	Reactions      ReactionCounts     `json:"reactions"`
	TotalReactions int                `json:"total_reactions"`
	CommentCount   int                `json:"comment_count"`
	UserReaction   *string            `json:"user_reaction"`
	IsSaved        bool               `json:"is_saved"`
}

type ReactionResult struct {
	PostID       uuid.UUID `json:"post_id"`
	Action       string    `json:"action"`
	UserReaction *string   `json:"user_reaction"`
}

type Attachment struct {
	ID            uuid.UUID `json:"id"`
	PostID        uuid.UUID `json:"post_id"`
	UploaderID    uuid.UUID `json:"uploader_id"`
	Bucket        string    `json:"-"`
	ObjectPath    string    `json:"object_path"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	ThumbnailPath *string   `json:"thumbnail_path,omitempty"`
	URL           string    `json:"url"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
