package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllows_RoleTable(t *testing.T) {
	trainerOnly := []Action{
		ActionCreateGroup, ActionGenerateInvite, ActionListInvites, ActionListMembers,
		ActionCreateWorkout, ActionCreatePlan, ActionAddWorkoutToPlan, ActionAssignPlan,
	}
	traineeOnly := []Action{ActionJoinGroup, ActionLogProgress}
	both := []Action{ActionListGroups, ActionViewWorkouts, ActionViewPlans, ActionViewProgress}

	for _, a := range trainerOnly {
		assert.True(t, Allows(domain.RoleTrainer, a), a.String())
		assert.False(t, Allows(domain.RoleTrainee, a), a.String())
	}
	for _, a := range traineeOnly {
		assert.False(t, Allows(domain.RoleTrainer, a), a.String())
		assert.True(t, Allows(domain.RoleTrainee, a), a.String())
	}
	for _, a := range both {
		assert.True(t, Allows(domain.RoleTrainer, a), a.String())
		assert.True(t, Allows(domain.RoleTrainee, a), a.String())
	}

	assert.Len(t, actionNames, len(trainerOnly)+len(traineeOnly)+len(both), "every action is classified")
	assert.False(t, Allows(domain.Role("Admin"), ActionViewWorkouts))
	assert.False(t, Allows(domain.RoleTrainer, Action(0)))
}
