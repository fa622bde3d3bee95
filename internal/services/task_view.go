package services

import (
	"sync"

	"github.com/google/uuid"
	"github.com/thebell/bellstaff-backend/internal/models"
)

// TaskChange describes one observed task transition
type TaskChange struct {
	Task     models.Task       `json:"task"`
	Previous models.TaskStatus `json:"previous_status,omitempty"`
	Removed  bool              `json:"removed,omitempty"`
}

// TaskView is one hotel's in-memory picture of its tasks, kept current
// by two independent inputs: the live change feed and the
// reconciliation poll. Either one alone converges the view; merge is
// last-write-wins by task id.
type TaskView struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]models.Task
}

// NewTaskView creates an empty view
func NewTaskView() *TaskView {
	return &TaskView{tasks: make(map[uuid.UUID]models.Task)}
}

// Seed replaces the view with an authoritative snapshot
func (v *TaskView) Seed(tasks []models.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.tasks = make(map[uuid.UUID]models.Task, len(tasks))
	for _, task := range tasks {
		v.tasks[task.ID] = task
	}
}

// Apply merges one feed event into the view. Inserts and updates upsert
// by id, deletes remove. An update for an unknown id is an upsert: the
// feed is gap-prone and the insert may have been missed.
func (v *TaskView) Apply(op string, task models.Task) *TaskChange {
	v.mu.Lock()
	defer v.mu.Unlock()

	if op == "DELETE" {
		if _, ok := v.tasks[task.ID]; !ok {
			return nil
		}
		prev := v.tasks[task.ID]
		delete(v.tasks, task.ID)
		return &TaskChange{Task: prev, Previous: prev.Status, Removed: true}
	}

	prev, known := v.tasks[task.ID]
	v.tasks[task.ID] = task

	if known && prev.Status == task.Status {
		return nil
	}
	change := &TaskChange{Task: task}
	if known {
		change.Previous = prev.Status
	}
	return change
}

// Reconcile diffs the view against an authoritative snapshot by
// (id, status, updated_at), upserting unknown and stale rows and
// dropping rows that left the snapshot window. Returns only real
// changes, so reconciling twice with the same snapshot yields nothing.
func (v *TaskView) Reconcile(snapshot []models.Task) []TaskChange {
	v.mu.Lock()
	defer v.mu.Unlock()

	var changes []TaskChange
	seen := make(map[uuid.UUID]bool, len(snapshot))

	for _, task := range snapshot {
		seen[task.ID] = true
		prev, known := v.tasks[task.ID]
		if known && prev.Status == task.Status && prev.UpdatedAt.Equal(task.UpdatedAt) {
			continue
		}
		v.tasks[task.ID] = task
		change := TaskChange{Task: task}
		if known {
			change.Previous = prev.Status
		}
		if !known || prev.Status != task.Status {
			changes = append(changes, change)
		}
	}

	for id, task := range v.tasks {
		if !seen[id] {
			delete(v.tasks, id)
			changes = append(changes, TaskChange{Task: task, Previous: task.Status, Removed: true})
		}
	}

	return changes
}

// Tasks returns a copy of the current view
func (v *TaskView) Tasks() []models.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()

	tasks := make([]models.Task, 0, len(v.tasks))
	for _, task := range v.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// Get returns one task from the view
func (v *TaskView) Get(taskID uuid.UUID) (models.Task, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	task, ok := v.tasks[taskID]
	return task, ok
}

// Len returns the number of tasks in the view
func (v *TaskView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.tasks)
}
