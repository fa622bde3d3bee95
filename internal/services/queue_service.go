package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thebell/bellstaff-backend/internal/database"
	"github.com/thebell/bellstaff-backend/internal/models"
	"github.com/thebell/bellstaff-backend/pkg/validator"
)

// QueueService is the bellman queue engine: the only write path for
// handing out and resolving tasks. It keeps three pieces of state
// consistent on every operation: the task row, the bellman's status, and
// the activity log. A bellman is never left in_process without a task.
type QueueService struct {
	tasks   *database.TaskRepository
	bellmen *database.BellmanRepository
	logs    *database.ActivityLogRepository
	roster  *RosterStore
	logger  *logrus.Logger
}

// NewQueueService creates a new QueueService
func NewQueueService(
	tasks *database.TaskRepository,
	bellmen *database.BellmanRepository,
	logs *database.ActivityLogRepository,
	roster *RosterStore,
	logger *logrus.Logger,
) *QueueService {
	return &QueueService{
		tasks:   tasks,
		bellmen: bellmen,
		logs:    logs,
		roster:  roster,
		logger:  logger,
	}
}

// QueueSnapshot is the full queue state for one session's view
type QueueSnapshot struct {
	PendingTasks []models.Task             `json:"pending_tasks"`
	ActiveTasks  []models.Task             `json:"active_tasks"`
	Bellmen      []models.Bellman          `json:"bellmen"`
	Temporary    []models.TemporaryBellman `json:"temporary_bellmen"`
}

// Snapshot assembles the queue view: open tasks, the persisted bellman
// line, and the session's temporary roster.
func (s *QueueService) Snapshot(hotelID uuid.UUID, session string) (*QueueSnapshot, error) {
	pending, err := s.tasks.List(hotelID, database.TaskListParams{Status: models.TaskStatusPending})
	if err != nil {
		return nil, err
	}
	active, err := s.tasks.List(hotelID, database.TaskListParams{Status: models.TaskStatusInProgress})
	if err != nil {
		return nil, err
	}
	bellmen, err := s.bellmen.ListByHotel(hotelID)
	if err != nil {
		return nil, err
	}

	return &QueueSnapshot{
		PendingTasks: pending,
		ActiveTasks:  active,
		Bellmen:      bellmen,
		Temporary:    s.roster.List(hotelID, session),
	}, nil
}

// AddTemporaryBellman puts a walk-in helper at the bottom of the session
// line. Nothing is persisted.
func (s *QueueService) AddTemporaryBellman(hotelID uuid.UUID, session, name string) (*models.TemporaryBellman, error) {
	entry, err := s.roster.Add(hotelID, session, name)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"hotel_id": hotelID,
		"bellman":  entry.Name,
	}).Info("Temporary bellman added to line")

	return entry, nil
}

// RemoveTemporaryBellman drops a helper from the session roster
func (s *QueueService) RemoveTemporaryBellman(hotelID uuid.UUID, session, localID string) error {
	if !s.roster.Remove(hotelID, session, localID) {
		return ErrBellmanNotFound
	}
	return nil
}

// AssignExistingTask hands a pending task to a bellman. The conditional
// update loses cleanly when another dashboard assigned the task first, in
// which case ErrTaskConflict is returned and nothing changed.
func (s *QueueService) AssignExistingTask(hotelID uuid.UUID, session string, taskID uuid.UUID, assignee models.Assignee) (*models.Task, error) {
	if !assignee.IsValid() {
		return nil, ErrValidation
	}

	switch assignee.Kind {
	case models.AssigneeUser:
		return s.assignToUser(hotelID, taskID, assignee.UserID)
	case models.AssigneeTemporary:
		return s.assignToTemporary(hotelID, session, taskID, assignee.LocalID)
	}
	return nil, ErrValidation
}

func (s *QueueService) assignToUser(hotelID, taskID, userID uuid.UUID) (*models.Task, error) {
	bellman, err := s.bellmen.GetByID(hotelID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBellmanNotFound
		}
		return nil, err
	}
	if bellman.Status == models.BellmanStatusInProcess {
		return nil, ErrBellmanBusy
	}
	// Off-duty bellmen never enter in_process; assignment requires the line
	if bellman.Status != models.BellmanStatusInLine {
		return nil, ErrBellmanNotInLine
	}

	task, err := s.tasks.AssignPending(hotelID, taskID, models.NewNullUUID(userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskConflict
		}
		return nil, err
	}

	if err := s.bellmen.SetStatus(hotelID, userID, models.BellmanStatusInProcess); err != nil {
		return nil, err
	}

	s.recordActivity(hotelID, bellman.FullName, task, models.ActivityAssigned)
	return task, nil
}

func (s *QueueService) assignToTemporary(hotelID uuid.UUID, session string, taskID uuid.UUID, localID string) (*models.Task, error) {
	entry, ok := s.roster.Get(hotelID, session, localID)
	if !ok {
		return nil, ErrBellmanNotFound
	}
	if entry.Status == models.BellmanStatusInProcess {
		return nil, ErrBellmanBusy
	}

	// Temporary bellmen have no user row, so the task stays unassigned
	// in the database; the roster entry carries the linkage.
	task, err := s.tasks.AssignPending(hotelID, taskID, models.NullUUID{})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskConflict
		}
		return nil, err
	}

	s.roster.MarkInProcess(hotelID, session, localID, task.ID, task.Title)
	s.recordActivity(hotelID, entry.Name, task, models.ActivityAssigned)
	return task, nil
}

// CreateAndAssignTask files a task and hands it out in one step, used
// when work arrives at the desk with a bellman already standing by. The
// task is born in progress.
func (s *QueueService) CreateAndAssignTask(hotelID uuid.UUID, session string, creator models.NullUUID, assignee models.Assignee, input validator.TaskInput) (*models.Task, error) {
	if !assignee.IsValid() {
		return nil, ErrValidation
	}

	validated, err := validator.ValidateTask(input)
	if err != nil {
		return nil, errors.Join(ErrValidation, err)
	}

	var bellmanName string
	var assignedTo models.NullUUID

	switch assignee.Kind {
	case models.AssigneeUser:
		bellman, err := s.bellmen.GetByID(hotelID, assignee.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrBellmanNotFound
			}
			return nil, err
		}
		if bellman.Status == models.BellmanStatusInProcess {
			return nil, ErrBellmanBusy
		}
		if bellman.Status != models.BellmanStatusInLine {
			return nil, ErrBellmanNotInLine
		}
		bellmanName = bellman.FullName
		assignedTo = models.NewNullUUID(assignee.UserID)
	case models.AssigneeTemporary:
		entry, ok := s.roster.Get(hotelID, session, assignee.LocalID)
		if !ok {
			return nil, ErrBellmanNotFound
		}
		if entry.Status == models.BellmanStatusInProcess {
			return nil, ErrBellmanBusy
		}
		bellmanName = entry.Name
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
		Status:       models.TaskStatusInProgress,
		CreatedBy:    creator,
		AssignedTo:   assignedTo,
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}

	if assignee.Kind == models.AssigneeUser {
		if err := s.bellmen.SetStatus(hotelID, assignee.UserID, models.BellmanStatusInProcess); err != nil {
			return nil, err
		}
	} else {
		s.roster.MarkInProcess(hotelID, session, assignee.LocalID, task.ID, task.Title)
	}

	s.recordActivity(hotelID, bellmanName, task, models.ActivityAssigned)
	return task, nil
}

// ResolveResult reports how a resolution ended. Recovered means no
// matching active task was found but the bellman's status was repaired.
type ResolveResult struct {
	Task      *models.Task `json:"task,omitempty"`
	Recovered bool         `json:"recovered"`
}

// ResolveTask ends a bellman's current work with a terminal outcome and
// returns them to the line. Completed work always re-enters at the
// bottom; cancellations and empty rooms honor the caller's placement.
// Status recovery runs even when the task row has gone missing.
func (s *QueueService) ResolveTask(hotelID uuid.UUID, session string, assignee models.Assignee, taskID uuid.UUID, outcome models.TaskStatus, placement models.LinePlacement) (*ResolveResult, error) {
	if !assignee.IsValid() || !outcome.IsTerminal() {
		return nil, ErrValidation
	}
	if !placement.IsValid() {
		placement = models.PlacementBottom
	}
	if outcome == models.TaskStatusCompleted {
		placement = models.PlacementBottom
	}

	switch assignee.Kind {
	case models.AssigneeUser:
		return s.resolveForUser(hotelID, assignee.UserID, taskID, outcome, placement)
	case models.AssigneeTemporary:
		return s.resolveForTemporary(hotelID, session, assignee.LocalID, taskID, outcome, placement)
	}
	return nil, ErrValidation
}

func (s *QueueService) resolveForUser(hotelID, userID, taskID uuid.UUID, outcome models.TaskStatus, placement models.LinePlacement) (*ResolveResult, error) {
	bellman, err := s.bellmen.GetByID(hotelID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBellmanNotFound
		}
		return nil, err
	}

	var task *models.Task
	if taskID != uuid.Nil {
		task, err = s.tasks.Resolve(hotelID, taskID, outcome)
	} else {
		task, err = s.tasks.ResolveByAssignee(hotelID, userID, outcome)
	}
	recovered := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			// Put the bellman back in line before surfacing the failure
			if lineErr := s.bellmen.ReturnToLine(hotelID, userID, placement); lineErr != nil {
				s.logger.WithError(lineErr).WithField("bellman_id", userID).Error("Failed to recover bellman status")
			}
			return nil, err
		}
		// The task is gone or already terminal. Recover the bellman
		// anyway; a stuck in_process bellman is the worse failure.
		recovered = true
		task = nil
		s.logger.WithFields(logrus.Fields{
			"hotel_id":   hotelID,
			"bellman_id": userID,
			"task_id":    taskID,
		}).Warn("Resolution found no active task, recovering bellman status")
	}

	if err := s.bellmen.ReturnToLine(hotelID, userID, placement); err != nil {
		return nil, err
	}

	if task != nil {
		s.recordActivity(hotelID, bellman.FullName, task, activityForOutcome(outcome))
	}

	return &ResolveResult{Task: task, Recovered: recovered}, nil
}

func (s *QueueService) resolveForTemporary(hotelID uuid.UUID, session, localID string, taskID uuid.UUID, outcome models.TaskStatus, placement models.LinePlacement) (*ResolveResult, error) {
	entry, ok := s.roster.Get(hotelID, session, localID)
	if !ok {
		return nil, ErrBellmanNotFound
	}

	if taskID == uuid.Nil && entry.TaskID.Valid {
		taskID = entry.TaskID.UUID
	}

	var task *models.Task
	recovered := false
	if taskID != uuid.Nil {
		var err error
		task, err = s.tasks.Resolve(hotelID, taskID, outcome)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				s.roster.ReturnToLine(hotelID, session, localID, placement)
				return nil, err
			}
			recovered = true
			task = nil
		}
	} else {
		recovered = true
	}

	s.roster.ReturnToLine(hotelID, session, localID, placement)

	if task != nil {
		s.recordActivity(hotelID, entry.Name, task, activityForOutcome(outcome))
	}

	return &ResolveResult{Task: task, Recovered: recovered}, nil
}

// SetBellmanStatus handles the manual duty toggle. Only off_duty and
// in_line are reachable by hand; in_process is owned by assignment.
func (s *QueueService) SetBellmanStatus(hotelID, userID uuid.UUID, status models.BellmanStatus) (*models.Bellman, error) {
	if status == models.BellmanStatusInProcess {
		return nil, ErrManualInProcess
	}
	if !status.IsValid() {
		return nil, ErrValidation
	}

	bellman, err := s.bellmen.GetByID(hotelID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBellmanNotFound
		}
		return nil, err
	}
	if bellman.Status == models.BellmanStatusInProcess {
		return nil, ErrBellmanBusy
	}

	if status == models.BellmanStatusInLine {
		if err := s.bellmen.ReturnToLine(hotelID, userID, models.PlacementBottom); err != nil {
			return nil, err
		}
	} else {
		if err := s.bellmen.SetStatus(hotelID, userID, status); err != nil {
			return nil, err
		}
	}

	logStatus := models.ActivityOffDuty
	if status == models.BellmanStatusInLine {
		logStatus = models.ActivityInLine
	}
	// Duty toggles have no "assigned" anchor, so each one is its own line
	entry := &models.ActivityLog{
		HotelID:     hotelID,
		BellmanName: bellman.FullName,
		TaskType:    "Duty Status",
		RoomNumber:  "-",
		Status:      logStatus,
	}
	if err := s.logs.Append(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to record duty status change")
	}

	return s.bellmen.GetByID(hotelID, userID)
}

// TakeTask is a bellman's self-service pickup of a pending task. The
// caller must be in line; the same conflict rules as assignment apply.
func (s *QueueService) TakeTask(hotelID, userID, taskID uuid.UUID) (*models.Task, error) {
	bellman, err := s.bellmen.GetByID(hotelID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBellmanNotFound
		}
		return nil, err
	}
	if bellman.Status != models.BellmanStatusInLine {
		return nil, ErrBellmanNotInLine
	}

	task, err := s.tasks.AssignPending(hotelID, taskID, models.NewNullUUID(userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskConflict
		}
		return nil, err
	}

	if err := s.bellmen.SetStatus(hotelID, userID, models.BellmanStatusInProcess); err != nil {
		return nil, err
	}

	s.recordActivity(hotelID, bellman.FullName, task, models.ActivityAssigned)
	return task, nil
}

func (s *QueueService) recordActivity(hotelID uuid.UUID, bellmanName string, task *models.Task, status models.ActivityStatus) {
	entry := &models.ActivityLog{
		HotelID:      hotelID,
		BellmanName:  bellmanName,
		TaskType:     task.Title,
		RoomNumber:   task.RoomNumber,
		Status:       status,
		GuestName:    task.GuestName,
		TicketNumber: task.TicketNumber,
	}
	if err := s.logs.AppendOrUpdate(entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"hotel_id": hotelID,
			"task_id":  task.ID,
		}).Warn("Failed to record activity log entry")
	}
}

func activityForOutcome(outcome models.TaskStatus) models.ActivityStatus {
	switch outcome {
	case models.TaskStatusCompleted:
		return models.ActivityCompleted
	case models.TaskStatusCancelled:
		return models.ActivityCancelled
	case models.TaskStatusEmptyRoom:
		return models.ActivityEmptyRoom
	}
	return models.ActivityCompleted
}
