package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventdesk/eventdesk/internal/config"
	"github.com/eventdesk/eventdesk/internal/models"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "eventdesk.db"),
		LogLevel:     "error",
	}
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestNotifyRemindQueuesTomorrowReminders(t *testing.T) {
	cfg := newTestConfig(t)

	a, err := newApp(cfg.DatabasePath, false, zap.NewNop())
	require.NoError(t, err)
	organizer, err := a.auth.Signup(models.SignupRequest{
		Name:     "Org",
		Email:    "org@example.com",
		Password: "password123",
		Role:     models.RoleOrganizer,
	})
	require.NoError(t, err)
	_, err = a.eventService.Create(organizer, models.EventRequest{
		Title:    "Tomorrow Meetup",
		Date:     time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		Time:     "23:59",
		Location: "Hall",
		Capacity: 10,
	})
	require.NoError(t, err)

	out := runCommand(t, newNotifyRemindCommand(cfg))
	require.Contains(t, out, "Queued 1 reminder(s)")
}

func TestNotifyCleanupTrimsToKeep(t *testing.T) {
	cfg := newTestConfig(t)

	a, err := newApp(cfg.DatabasePath, false, zap.NewNop())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, a.notifications.Save(&models.Notification{
			Type:       models.NotifyEmail,
			Recipients: models.RecipientsAll,
			Subject:    fmt.Sprintf("Subject %d", i),
			Message:    "body",
		}))
	}

	out := runCommand(t, newNotifyCleanupCommand(cfg), "--keep", "2")
	require.Contains(t, out, "Removed 3 notification(s)")

	after, err := newApp(cfg.DatabasePath, false, zap.NewNop())
	require.NoError(t, err)
	remaining, err := after.notifications.GetAll()
	require.NoError(t, err)
	require.Len(t, remaining, 2)
}
