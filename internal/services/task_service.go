package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thebell/bellstaff-backend/internal/database"
	"github.com/thebell/bellstaff-backend/internal/models"
	"github.com/thebell/bellstaff-backend/pkg/validator"
)

// TaskService covers the task list surface outside the queue engine:
// filing pending tasks, filtered listing, guarded status changes, stats.
type TaskService struct {
	tasks    *database.TaskRepository
	location *time.Location
	logger   *logrus.Logger
}

// NewTaskService creates a new TaskService. The location fixes the
// calendar-day boundaries used by the date buckets.
func NewTaskService(tasks *database.TaskRepository, location *time.Location, logger *logrus.Logger) *TaskService {
	if location == nil {
		location = time.Local
	}
	return &TaskService{tasks: tasks, location: location, logger: logger}
}

// TaskFilter is the list query surface exposed to handlers
type TaskFilter struct {
	Search     string
	Status     models.TaskStatus
	Category   models.TaskCategory
	Priority   models.TaskPriority
	Bucket     DateBucket
	AssignedTo uuid.UUID
	Limit      uint64
}

// List returns tasks matching all of the filter's predicates
func (s *TaskService) List(hotelID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrValidation
	}
	if filter.Bucket == "" {
		filter.Bucket = BucketAll
	}
	if !filter.Bucket.IsValid() {
		return nil, ErrValidation
	}

	after, before := BucketBounds(filter.Bucket, time.Now(), s.location)
	tasks, err := s.tasks.List(hotelID, database.TaskListParams{
		Search:        filter.Search,
		Status:        filter.Status,
		Priority:      filter.Priority,
		AssignedTo:    filter.AssignedTo,
		CreatedAfter:  after,
		CreatedBefore: before,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	return FilterByCategory(tasks, filter.Category), nil
}

// Get returns one task scoped to the hotel
func (s *TaskService) Get(hotelID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(hotelID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Create files a new pending task for later assignment
func (s *TaskService) Create(hotelID uuid.UUID, creator models.NullUUID, input validator.TaskInput) (*models.Task, error) {
	validated, err := validator.ValidateTask(input)
	if err != nil {
		return nil, errors.Join(ErrValidation, err)
	}

	priority := models.TaskPriority(validated.Priority)
	if !priority.IsValid() {
		priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		HotelID:      hotelID,
		Title:        validated.Title,
		Description:  models.NewNullString(validated.Description),
		RoomNumber:   validated.RoomNumber,
		GuestName:    models.NewNullString(validated.GuestName),
		TicketNumber: models.NewNullString(validated.TicketNumber),
		Priority:     priority,
		Status:       models.TaskStatusPending,
		CreatedBy:    creator,
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"hotel_id": hotelID,
		"task_id":  task.ID,
		"title":    task.Title,
	}).Info("Task created")

	return task, nil
}

// UpdateStatus applies a guarded status transition. Terminal states
// absorb: an attempt to move a finished task is a conflict, not a write.
func (s *TaskService) UpdateStatus(hotelID, taskID uuid.UUID, target models.TaskStatus) (*models.Task, error) {
	if !target.IsValid() {
		return nil, ErrValidation
	}

	current, err := s.Get(hotelID, taskID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(target) {
		return nil, ErrTaskConflict
	}

	task, err := s.tasks.UpdateStatus(hotelID, taskID, current.Status, target)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race between read and write
			return nil, ErrTaskConflict
		}
		return nil, err
	}
	return task, nil
}

// Stats counts tasks by status within a date bucket
func (s *TaskService) Stats(hotelID uuid.UUID, bucket DateBucket) (*database.TaskStats, error) {
	if bucket == "" {
		bucket = BucketAll
	}
	if !bucket.IsValid() {
		return nil, ErrValidation
	}

	after, before := BucketBounds(bucket, time.Now(), s.location)
	return s.tasks.Stats(hotelID, after, before)
}
