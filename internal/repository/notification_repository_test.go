package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/models"
)

func TestNotificationSaveMarksSent(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)

	n := &models.Notification{
		Type:       models.NotifyEmail,
		Recipients: models.RecipientsAll,
		Subject:    "Hello",
		Message:    "World",
		Metadata:   models.Metadata{"count": float64(3)},
	}
	require.NoError(t, repo.Save(n))
	require.NotEmpty(t, n.ID)
	require.Equal(t, "sent", n.Status)

	stored, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	require.Equal(t, "Hello", stored.Subject)
	require.Equal(t, float64(3), stored.Metadata["count"])
}

func TestNotificationRetentionCap(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)

	for i := 0; i < maxNotifications+5; i++ {
		require.NoError(t, repo.Save(&models.Notification{
			Type:       models.NotifyEmail,
			Recipients: models.RecipientsAll,
			Subject:    fmt.Sprintf("notification %d", i),
		}))
	}

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, maxNotifications)
}

func TestNotificationCleanupOld(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)

	for i := 0; i < 60; i++ {
		require.NoError(t, repo.Save(&models.Notification{
			Type:       models.NotifyEmail,
			Recipients: models.RecipientsAll,
			Subject:    fmt.Sprintf("notification %d", i),
		}))
	}

	dropped, err := repo.CleanupOld(50)
	require.NoError(t, err)
	require.EqualValues(t, 10, dropped)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 50)

	// Nothing left to drop on a second pass.
	dropped, err = repo.CleanupOld(50)
	require.NoError(t, err)
	require.Zero(t, dropped)
}
