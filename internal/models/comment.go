package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Content) == "" {
		errs = append(errs, "Content can't be blank")
	} else if utf8.RuneCountInString(c.Content) > 2000 {
		errs = append(errs, "Content is too long (maximum is 2000 characters)")
	}
	return errs
}

// Preview returns the comment content truncated for activity metadata.
func (c *Comment) Preview(max int) string {
	runes := []rune(c.Content)
	if len(runes) <= max {
		return c.Content
	}
	return string(runes[:max-1]) + "…"
}
