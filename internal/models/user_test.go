package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		role       Role
		canCreate  bool
		bellStaff  bool
		canManage  bool
	}{
		{RoleBellman, false, true, false},
		{RoleBellCaptain, false, true, true},
		{RolePhoneOperator, true, false, false},
		{RoleFrontDesk, true, false, false},
		{RoleManager, true, false, true},
		{RoleAdmin, true, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.canCreate, tt.role.CanCreateTasks())
			assert.Equal(t, tt.bellStaff, tt.role.IsBellStaff())
			assert.Equal(t, tt.canManage, tt.role.CanManageQueue())
		})
	}
}

func TestAllowedTaskActions(t *testing.T) {
	t.Run("bellman can take pending task", func(t *testing.T) {
		actions := AllowedTaskActions(RoleBellman, false, TaskStatusPending)
		assert.Contains(t, actions, ActionTake)
		assert.NotContains(t, actions, ActionComplete)
	})

	t.Run("assignee can resolve in-progress task", func(t *testing.T) {
		actions := AllowedTaskActions(RoleBellman, true, TaskStatusInProgress)
		assert.Contains(t, actions, ActionComplete)
		assert.Contains(t, actions, ActionCancel)
	})

	t.Run("non-assignee bellman cannot resolve", func(t *testing.T) {
		actions := AllowedTaskActions(RoleBellman, false, TaskStatusInProgress)
		assert.NotContains(t, actions, ActionComplete)
	})

	t.Run("manager can resolve any in-progress task", func(t *testing.T) {
		actions := AllowedTaskActions(RoleManager, false, TaskStatusInProgress)
		assert.Contains(t, actions, ActionComplete)
		assert.Contains(t, actions, ActionReassign)
	})

	t.Run("terminal task allows nothing", func(t *testing.T) {
		assert.Empty(t, AllowedTaskActions(RoleManager, true, TaskStatusCompleted))
		assert.Empty(t, AllowedTaskActions(RoleBellman, true, TaskStatusCancelled))
	})

	t.Run("front desk cannot take tasks", func(t *testing.T) {
		assert.Empty(t, AllowedTaskActions(RoleFrontDesk, false, TaskStatusPending))
	})
}
