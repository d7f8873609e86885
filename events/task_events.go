package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskEvent is the shared payload for task lifecycle events.
type TaskEvent struct {
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status,omitempty"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TaskCreatedV1 is published when a task is created.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskEvent](
	"task", "TaskCreated", "v1",
)

// TaskUpdatedV1 is published when a task's fields are edited.
var TaskUpdatedV1 = helper.EventDefinition[TaskEvent](
	"task", "TaskUpdated", "v1",
)

// TaskStatusChangedV1 is published when a task transitions between statuses.
var TaskStatusChangedV1 = helper.EventDefinition[TaskEvent](
	"task", "TaskStatusChanged", "v1",
)

// TaskDeletedV1 is published when a task is removed. It is not published
// for deletes of unknown IDs, which are silent no-ops.
var TaskDeletedV1 = helper.EventDefinition[TaskEvent](
	"task", "TaskDeleted", "v1",
)
