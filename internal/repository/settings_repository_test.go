package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eventdesk/eventdesk/internal/models"
)

func TestSettingsGetDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)

	settings, err := repo.Get()
	require.NoError(t, err)
	require.Equal(t, "light", settings.Theme)
	require.Equal(t, "USD", settings.Currency)
	require.True(t, settings.Notifications.Email)
	require.False(t, settings.Notifications.SMS)
}

func TestSettingsUpdateMergesFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)

	theme := "dark"
	sms := true
	updated, err := repo.Update(models.UpdateSettingsRequest{Theme: &theme, SMS: &sms})
	require.NoError(t, err)
	require.Equal(t, "dark", updated.Theme)
	require.True(t, updated.Notifications.SMS)
	// Untouched fields keep their current values.
	require.Equal(t, "USD", updated.Currency)
	require.True(t, updated.Notifications.Email)

	reloaded, err := repo.Get()
	require.NoError(t, err)
	require.Equal(t, "dark", reloaded.Theme)
	require.True(t, reloaded.Notifications.SMS)
}
