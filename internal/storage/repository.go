package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	// ListActiveNotifiable returns tasks the notification sweep should
	// consider: not done and with a notification type other than none.
	ListActiveNotifiable(ctx context.Context) ([]Task, error)

	CreateTag(ctx context.Context, in Tag) error
	GetTag(ctx context.Context, id string) (Tag, error)
	UpdateTag(ctx context.Context, in Tag) error
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context, filter TagListFilter) ([]Tag, error)

	TagTask(ctx context.Context, taskID, tagID string) error
	UntagTask(ctx context.Context, taskID, tagID string) error
	ListTaskTags(ctx context.Context, taskID string) ([]Tag, error)
}
