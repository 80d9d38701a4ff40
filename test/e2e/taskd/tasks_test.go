//go:build e2e

package taskd_test

import (
	"fmt"
	"testing"

	"github.com/aussiebroadwan/taskd/pkg/taskdsdk"
	"github.com/stretchr/testify/require"
)

func TestTaskOwnership(t *testing.T) {
	c := setupContainer(t, relaxedLimits)
	ctx := t.Context()

	admin := bootstrapAdmin(t, c)
	alice := createUser(t, admin, "alice@example.com")
	bob := createUser(t, admin, "bob@example.com")

	task, err := alice.CreateTask(ctx, taskdsdk.CreateTaskRequest{Title: "alice's task", Description: "mine"})
	require.NoError(t, err)
	require.Equal(t, alice.Account.ID, task.OwnerID)
	require.False(t, task.IsCompleted)

	// Reads are open to any authenticated account.
	got, err := bob.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, task.Title, got.Title)

	done := true
	_, err = bob.UpdateTask(ctx, task.ID, taskdsdk.UpdateTaskRequest{IsCompleted: &done})
	requireAPIError(t, err, taskdsdk.ErrPermissionDenied)

	// Even an ADMIN may not touch another account's task.
	err = admin.DeleteTask(ctx, task.ID)
	requireAPIError(t, err, taskdsdk.ErrPermissionDenied)

	updated, err := alice.UpdateTask(ctx, task.ID, taskdsdk.UpdateTaskRequest{IsCompleted: &done})
	require.NoError(t, err)
	require.True(t, updated.IsCompleted)

	require.NoError(t, alice.DeleteTask(ctx, task.ID))

	_, err = alice.GetTask(ctx, task.ID)
	requireAPIError(t, err, taskdsdk.ErrNotFound)
	err = alice.DeleteTask(ctx, task.ID)
	requireAPIError(t, err, taskdsdk.ErrNotFound)
}

func TestTaskPagination(t *testing.T) {
	c := setupContainer(t, relaxedLimits)
	ctx := t.Context()
	admin := bootstrapAdmin(t, c)

	for i := range 15 {
		_, err := admin.CreateTask(ctx, taskdsdk.CreateTaskRequest{Title: fmt.Sprintf("task %02d", i)})
		require.NoError(t, err)
	}

	first, err := admin.ListTasks(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 15, first.Total)
	require.Equal(t, 2, first.TotalPages)
	require.Len(t, first.Data, 10)
	require.True(t, first.HasNextPage)
	require.Equal(t, "task 14", first.Data[0].Title)

	second, err := admin.ListTasks(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, second.Data, 5)
	require.False(t, second.HasNextPage)
	require.True(t, second.HasPrevPage)

	_, err = admin.ListTasks(ctx, -1, 0)
	requireAPIError(t, err, taskdsdk.ErrValidation)
}
