package database

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const taskColumns = `id, hotel_id, title, description, room_number, guest_name, ticket_number,
	   priority, status, created_by, assigned_to, created_at, updated_at, completed_at`

// TaskListParams narrows task list queries. Zero values mean "no filter".
type TaskListParams struct {
	Search        string
	Status        models.TaskStatus
	Priority      models.TaskPriority
	AssignedTo    uuid.UUID
	CreatedAfter  time.Time
	CreatedBefore time.Time
	Limit         uint64
}

// TaskRepository handles database operations for the tasks table
type TaskRepository struct {
	db DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task
func (r *TaskRepository) Create(task *models.Task) error {
	query := `
		INSERT INTO tasks (
			id, hotel_id, title, description, room_number, guest_name,
			ticket_number, priority, status, created_by, assigned_to
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	err := r.db.QueryRow(
		query,
		task.ID, task.HotelID, task.Title, task.Description, task.RoomNumber,
		task.GuestName, task.TicketNumber, task.Priority, task.Status,
		task.CreatedBy, task.AssignedTo,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task scoped to a hotel
func (r *TaskRepository) GetByID(hotelID, taskID uuid.UUID) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND hotel_id = $2
	`

	var task models.Task
	if err := r.db.Get(&task, query, taskID, hotelID); err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks for a hotel with optional filters
func (r *TaskRepository) List(hotelID uuid.UUID, params TaskListParams) ([]models.Task, error) {
	builder := psql.
		Select(taskColumns).
		From("tasks").
		Where(sq.Eq{"hotel_id": hotelID}).
		OrderBy("created_at DESC")

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"room_number": pattern},
			sq.ILike{"guest_name": pattern},
			sq.ILike{"ticket_number": pattern},
		})
	}
	if params.Status != "" {
		builder = builder.Where(sq.Eq{"status": params.Status})
	}
	if params.Priority != "" {
		builder = builder.Where(sq.Eq{"priority": params.Priority})
	}
	if params.AssignedTo != uuid.Nil {
		builder = builder.Where(sq.Eq{"assigned_to": params.AssignedTo})
	}
	if !params.CreatedAfter.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": params.CreatedAfter})
	}
	if !params.CreatedBefore.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": params.CreatedBefore})
	}
	if params.Limit > 0 {
		builder = builder.Limit(params.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task list query: %w", err)
	}

	tasks := []models.Task{}
	if err := r.db.Select(&tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Snapshot returns the authoritative sync window for a hotel: every
// non-terminal task plus terminal tasks touched in the last 24 hours.
func (r *TaskRepository) Snapshot(hotelID uuid.UUID) ([]models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE hotel_id = $1
		  AND (status IN ('pending', 'in_progress') OR updated_at > now() - INTERVAL '24 hours')
		ORDER BY created_at DESC
	`

	tasks := []models.Task{}
	if err := r.db.Select(&tasks, query, hotelID); err != nil {
		return nil, fmt.Errorf("failed to load task snapshot: %w", err)
	}
	return tasks, nil
}

// AssignPending hands a task to an assignee only if it is still pending
// and unassigned. Returns sql.ErrNoRows when another actor won the race.
// A null assignee records a hand-off to a session-local bellman.
func (r *TaskRepository) AssignPending(hotelID, taskID uuid.UUID, assignedTo models.NullUUID) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET status = 'in_progress', assigned_to = $3, updated_at = now()
		WHERE id = $1 AND hotel_id = $2
		  AND status = 'pending' AND assigned_to IS NULL
		RETURNING ` + taskColumns + `
	`

	var task models.Task
	if err := r.db.Get(&task, query, taskID, hotelID, assignedTo); err != nil {
		return nil, err
	}
	return &task, nil
}

// Resolve moves an in-progress task to a terminal outcome and stamps
// completed_at. Returns sql.ErrNoRows when the task is not in progress.
func (r *TaskRepository) Resolve(hotelID, taskID uuid.UUID, outcome models.TaskStatus) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET status = $3, completed_at = now(), updated_at = now()
		WHERE id = $1 AND hotel_id = $2 AND status = 'in_progress'
		RETURNING ` + taskColumns + `
	`

	var task models.Task
	if err := r.db.Get(&task, query, taskID, hotelID, outcome); err != nil {
		return nil, err
	}
	return &task, nil
}

// ResolveByAssignee terminates whatever in-progress task is held by the
// given user. Used for recovery when the caller lost track of the task id.
func (r *TaskRepository) ResolveByAssignee(hotelID, userID uuid.UUID, outcome models.TaskStatus) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET status = $3, completed_at = now(), updated_at = now()
		WHERE hotel_id = $1 AND assigned_to = $2 AND status = 'in_progress'
		RETURNING ` + taskColumns + `
	`

	var task models.Task
	if err := r.db.Get(&task, query, hotelID, userID, outcome); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateStatus performs a guarded transition from one status to another.
// The WHERE clause re-checks the expected current status so concurrent
// writers cannot revive a terminal task.
func (r *TaskRepository) UpdateStatus(hotelID, taskID uuid.UUID, from, to models.TaskStatus) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET status = $4,
		    completed_at = CASE WHEN $4 IN ('completed', 'cancelled', 'empty_room') THEN now() ELSE completed_at END,
		    updated_at = now()
		WHERE id = $1 AND hotel_id = $2 AND status = $3
		RETURNING ` + taskColumns + `
	`

	var task models.Task
	if err := r.db.Get(&task, query, taskID, hotelID, from, to); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskStats is the status rollup for a hotel within a window
type TaskStats struct {
	Total      int `json:"total" db:"total"`
	Pending    int `json:"pending" db:"pending"`
	InProgress int `json:"in_progress" db:"in_progress"`
	Completed  int `json:"completed" db:"completed"`
	Cancelled  int `json:"cancelled" db:"cancelled"`
	EmptyRoom  int `json:"empty_room" db:"empty_room"`
}

// Stats counts tasks by status for a hotel. Zero times mean "all time".
func (r *TaskRepository) Stats(hotelID uuid.UUID, after, before time.Time) (*TaskStats, error) {
	builder := psql.
		Select(
			"COUNT(*) AS total",
			"COUNT(*) FILTER (WHERE status = 'pending') AS pending",
			"COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress",
			"COUNT(*) FILTER (WHERE status = 'completed') AS completed",
			"COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled",
			"COUNT(*) FILTER (WHERE status = 'empty_room') AS empty_room",
		).
		From("tasks").
		Where(sq.Eq{"hotel_id": hotelID})

	if !after.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": after})
	}
	if !before.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": before})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task stats query: %w", err)
	}

	var stats TaskStats
	if err := r.db.Get(&stats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load task stats: %w", err)
	}
	return &stats, nil
}
