package domain

import (
	"strings"
	"time"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsCompleted bool      `json:"isCompleted"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask is the input of task creation.
type NewTask struct {
	Title       string
	Description string
}

func (n NewTask) Validate() map[string]string {
	if strings.TrimSpace(n.Title) == "" {
		return map[string]string{"title": "required"}
	}
	return nil
}

// TaskPatch is a partial update; nil fields are left alone.
type TaskPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

func (p TaskPatch) Validate() map[string]string {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return map[string]string{"title": "must not be empty"}
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.IsCompleted == nil
}

// Apply returns t with the patch applied. UpdatedAt is the caller's concern.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	return t
}
