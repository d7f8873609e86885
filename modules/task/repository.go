package task

import (
	"errors"
	"fmt"

	domain "github.com/example/taskstream/domain/task"
	"gorm.io/gorm"
)

// Repository handles task persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task.
func (r *Repository) Create(t *domain.Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindVisible retrieves every task the given identity may read: tasks it
// owns, tasks assigned to its email, and tasks shared with its email.
// Results are newest-first, which realizes prepend-on-create ordering.
func (r *Repository) FindVisible(userID, email string) ([]domain.Task, error) {
	var tasks []domain.Task
	q := r.db.Where("user_id = ?", userID)
	if email != "" {
		// shared_with is a JSON array of quoted emails in a text column.
		q = r.db.Where(
			"user_id = ? OR assigned_to = ? OR shared_with LIKE ?",
			userID, email, `%"`+email+`"%`,
		)
	}
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// FindByOwner retrieves all tasks owned by the user, newest-first.
func (r *Repository) FindByOwner(userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Save writes the full task row back. Used after a merge-update.
func (r *Repository) Save(t *domain.Task) error {
	if err := r.db.Save(t).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task by ID. Deleting an unknown ID is a no-op; the
// boolean reports whether a row was actually removed.
func (r *Repository) Delete(id, userID string) (bool, error) {
	result := r.db.Delete(&domain.Task{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete task: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
