package task

import (
	"context"
	"fmt"
	"log"
	"time"

	domain "github.com/example/taskstream/domain/task"
	"github.com/example/taskstream/events"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// createTask handles the task.create service request. New tasks default to
// pending/medium and land at the head of the listing order.
func (m *Module) createTask(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.Title == "" {
		return TaskResponse{}, ErrTitleRequired
	}
	if req.UserID == "" {
		return TaskResponse{}, fmt.Errorf("user_id is required")
	}

	status := domain.StatusPending
	if req.Status != "" {
		status = domain.Status(req.Status)
		if !status.Valid() {
			return TaskResponse{}, ErrInvalidStatus
		}
	}
	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
		if !priority.Valid() {
			return TaskResponse{}, ErrInvalidPriority
		}
	}

	now := time.Now()
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		SharedWith:  domain.NormalizeEmails(req.SharedWith),
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      req.UserID,
	}

	if err := m.repo.Create(t); err != nil {
		return TaskResponse{}, err
	}

	m.publishTaskCreated(t)
	return toTaskResponse(t), nil
}

// getTask handles the task.get service request. A task outside the
// requester's visible set reads as not found.
func (m *Module) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.ID == "" {
		return TaskResponse{}, fmt.Errorf("id is required")
	}
	t, err := m.repo.FindByID(req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	if req.UserID != "" && !visibleTo(t, req.UserID, req.Email) {
		return TaskResponse{}, ErrTaskNotFound
	}
	return toTaskResponse(t), nil
}

// visibleTo mirrors the repository's visibility rule: owner, assignee, or
// shared-with.
func visibleTo(t *domain.Task, userID, email string) bool {
	if t.UserID == userID {
		return true
	}
	if email == "" {
		return false
	}
	return t.AssignedTo == email || t.SharedWith.Contains(email)
}

// listTasks handles the task.list service request. The stored collection is
// narrowed by the search term and the categorical filter, both applied by
// the pure filter engine so the derived view never depends on SQL dialect
// behavior.
func (m *Module) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.UserID == "" {
		return ListTasksResponse{}, fmt.Errorf("user_id is required")
	}

	filter, err := domain.ParseFilter(req.Filter)
	if err != nil {
		return ListTasksResponse{}, fmt.Errorf("%w: %q", err, req.Filter)
	}

	tasks, err := m.repo.FindVisible(req.UserID, req.Email)
	if err != nil {
		return ListTasksResponse{}, err
	}

	visible := domain.Apply(tasks, req.Search, filter, time.Now())

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(visible)),
		Total: len(visible),
	}
	for i := range visible {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&visible[i]))
	}
	return resp, nil
}

// updateTask handles the task.update service request. Provided fields are
// merged onto the stored task; everything else is retained.
func (m *Module) updateTask(_ context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.ID == "" {
		return TaskResponse{}, fmt.Errorf("id is required")
	}

	t, err := m.repo.FindByID(req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	if req.UserID != "" && t.UserID != req.UserID {
		return TaskResponse{}, ErrTaskNotFound
	}

	if req.Title != nil {
		if *req.Title == "" {
			return TaskResponse{}, ErrTitleRequired
		}
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !status.Valid() {
			return TaskResponse{}, ErrInvalidStatus
		}
		t.Status = status
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		if !priority.Valid() {
			return TaskResponse{}, ErrInvalidPriority
		}
		t.Priority = priority
	}
	if req.ClearDueDate {
		t.DueDate = nil
	} else if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.AssignedTo != nil {
		t.AssignedTo = *req.AssignedTo
	}
	if req.SharedWith != nil {
		t.SharedWith = domain.NormalizeEmails(*req.SharedWith)
	}

	t.UpdatedAt = time.Now()
	if err := m.repo.Save(t); err != nil {
		return TaskResponse{}, err
	}

	m.publishTaskUpdated(t)
	return toTaskResponse(t), nil
}

// changeStatus handles the task.change-status service request: a
// restricted update touching only the status and the update timestamp.
func (m *Module) changeStatus(_ context.Context, req ChangeStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.ID == "" {
		return TaskResponse{}, fmt.Errorf("id is required")
	}
	status := domain.Status(req.Status)
	if !status.Valid() {
		return TaskResponse{}, ErrInvalidStatus
	}

	t, err := m.repo.FindByID(req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	if req.UserID != "" && t.UserID != req.UserID {
		return TaskResponse{}, ErrTaskNotFound
	}

	t.Status = status
	t.UpdatedAt = time.Now()
	if err := m.repo.Save(t); err != nil {
		return TaskResponse{}, err
	}

	m.publishStatusChanged(t)
	return toTaskResponse(t), nil
}

// deleteTask handles the task.delete service request. Deleting an unknown
// ID succeeds without touching the collection.
func (m *Module) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if req.ID == "" {
		return DeleteTaskResponse{}, fmt.Errorf("id is required")
	}

	deleted, err := m.repo.Delete(req.ID, req.UserID)
	if err != nil {
		return DeleteTaskResponse{ID: req.ID}, err
	}
	if deleted {
		m.publishTaskDeleted(&domain.Task{ID: req.ID, UserID: req.UserID})
	}
	return DeleteTaskResponse{ID: req.ID, Deleted: deleted}, nil
}

// taskStats handles the task.stats service request.
func (m *Module) taskStats(_ context.Context, req StatsRequest, _ *mono.Msg) (domain.Stats, error) {
	if req.UserID == "" {
		return domain.Stats{}, fmt.Errorf("user_id is required")
	}
	tasks, err := m.repo.FindByOwner(req.UserID)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.ComputeStats(tasks, time.Now()), nil
}

func taskEventPayload(t *domain.Task) events.TaskEvent {
	return events.TaskEvent{
		TaskID:     t.ID,
		Title:      t.Title,
		Status:     string(t.Status),
		UserID:     t.UserID,
		OccurredAt: time.Now(),
	}
}

// Event publishing is best-effort; the mutation has already been committed
// by the time an event goes out.

func (m *Module) publishTaskCreated(t *domain.Task) {
	if m.eventBus == nil {
		return
	}
	if err := events.TaskCreatedV1.Publish(m.eventBus, taskEventPayload(t), nil); err != nil {
		log.Printf("[task] Failed to publish TaskCreated event: %v", err)
	}
}

func (m *Module) publishTaskUpdated(t *domain.Task) {
	if m.eventBus == nil {
		return
	}
	if err := events.TaskUpdatedV1.Publish(m.eventBus, taskEventPayload(t), nil); err != nil {
		log.Printf("[task] Failed to publish TaskUpdated event: %v", err)
	}
}

func (m *Module) publishStatusChanged(t *domain.Task) {
	if m.eventBus == nil {
		return
	}
	if err := events.TaskStatusChangedV1.Publish(m.eventBus, taskEventPayload(t), nil); err != nil {
		log.Printf("[task] Failed to publish TaskStatusChanged event: %v", err)
	}
}

func (m *Module) publishTaskDeleted(t *domain.Task) {
	if m.eventBus == nil {
		return
	}
	if err := events.TaskDeletedV1.Publish(m.eventBus, taskEventPayload(t), nil); err != nil {
		log.Printf("[task] Failed to publish TaskDeleted event: %v", err)
	}
}
