package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eventdesk/eventdesk/internal/config"
	"github.com/eventdesk/eventdesk/internal/models"
	"github.com/eventdesk/eventdesk/internal/repository"
	"github.com/eventdesk/eventdesk/internal/service"
	"github.com/eventdesk/eventdesk/internal/smoke"
	"github.com/eventdesk/eventdesk/pkg/database"
	"github.com/eventdesk/eventdesk/pkg/logger"
	"github.com/eventdesk/eventdesk/pkg/utils"
)

// app bundles the wired repositories and services for one database.
type app struct {
	users         *repository.UserRepository
	events        *repository.EventRepository
	bookings      *repository.BookingRepository
	notifications *repository.NotificationRepository
	settings      *repository.SettingsRepository
	analytics     *repository.AnalyticsRepository
	archive       *repository.ArchiveRepository

	auth             *service.AuthService
	eventService     *service.EventService
	bookingService   *service.BookingService
	notifier         *service.NotificationService
	analyticsService *service.AnalyticsService
	dashboard        *service.DashboardService
}

func newApp(dbPath string, seedDemo bool, log *zap.Logger) (*app, error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Seed(db, seedDemo); err != nil {
		return nil, fmt.Errorf("seed database: %w", err)
	}

	a := &app{}
	a.users = repository.NewUserRepository(db)
	a.events = repository.NewEventRepository(db)
	a.bookings = repository.NewBookingRepository(db)
	a.notifications = repository.NewNotificationRepository(db)
	a.settings = repository.NewSettingsRepository(db)
	a.analytics = repository.NewAnalyticsRepository(db)
	a.archive = repository.NewArchiveRepository(db)

	sessions := repository.NewSessionRepository(db)
	validator := utils.NewValidator()
	feedback := service.NewSimulatedFeedback(time.Now().UnixNano())

	a.auth = service.NewAuthService(a.users, sessions, validator, log)
	a.notifier = service.NewNotificationService(a.notifications, a.bookings, a.events, a.users, validator, log)
	a.eventService = service.NewEventService(a.events, a.bookings, a.notifier, validator, log)
	a.bookingService = service.NewBookingService(a.bookings, a.events, a.notifier, validator, log)
	a.analyticsService = service.NewAnalyticsService(a.analytics, a.events, a.bookings, a.users, feedback, log)
	a.dashboard = service.NewDashboardService(a.events, a.bookings, a.analytics, a.notifier)
	return a, nil
}

func newRootCommand() *cobra.Command {
	cfg := config.LoadConfig()

	root := &cobra.Command{
		Use:           "eventdesk",
		Short:         "Local-first event management demo platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "path to the sqlite database file")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zap log level")

	root.AddCommand(
		newDemoCommand(cfg),
		newSmokeCommand(cfg),
		newLoginCommand(cfg),
		newLogoutCommand(cfg),
		newDashboardCommand(cfg),
		newExportCommand(cfg),
		newImportCommand(cfg),
		newStatsCommand(cfg),
		newSettingsCommand(cfg),
		newNotifyCommand(cfg),
	)
	return root
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// newDemoCommand walks the canonical scenario: an organizer lists a small
// event, the first participant takes every ticket and the second one is
// turned away.
func newDemoCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the walkthrough scenario against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}

			organizer, err := demoUser(a, "Demo Organizer", "demo.organizer@eventdesk.local", models.RoleOrganizer)
			if err != nil {
				return err
			}
			alice, err := demoUser(a, "Alice", "alice@eventdesk.local", models.RoleParticipant)
			if err != nil {
				return err
			}
			bob, err := demoUser(a, "Bob", "bob@eventdesk.local", models.RoleParticipant)
			if err != nil {
				return err
			}

			event, err := a.eventService.Create(organizer, models.EventRequest{
				Title:       "Walkthrough Workshop",
				Description: "Small-capacity demo event",
				Date:        time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
				Time:        "18:00",
				Location:    "Room 42",
				Capacity:    2,
				Price:       50,
			})
			if err != nil {
				return fmt.Errorf("create demo event: %w", err)
			}
			cmd.Printf("Created %q with %d tickets at %s each\n",
				event.Title, event.Capacity, utils.FormatCurrency(event.Price))

			booking, err := a.bookingService.Create(alice, models.BookingRequest{
				EventID:  event.ID,
				Quantity: 2,
			})
			if err != nil {
				return fmt.Errorf("first booking: %w", err)
			}
			cmd.Printf("%s booked %d tickets (%s), total %s\n",
				alice.Name, booking.Quantity, booking.BookingReference,
				utils.FormatCurrency(booking.TotalAmount))

			if _, err := a.bookingService.Create(bob, models.BookingRequest{
				EventID:  event.ID,
				Quantity: 1,
			}); errors.Is(err, service.ErrEventFullyBooked) {
				cmd.Printf("%s was turned away: %v\n", bob.Name, err)
			} else if err != nil {
				return fmt.Errorf("second booking: %w", err)
			} else {
				return errors.New("second booking unexpectedly accepted")
			}

			updated, err := a.eventService.Get(event.ID)
			if err != nil {
				return err
			}
			cmd.Printf("Tickets remaining: %d of %d\n", updated.AvailableTickets(), updated.Capacity)
			return nil
		},
	}
}

func demoUser(a *app, name, email, role string) (*models.User, error) {
	user, err := a.auth.Signup(models.SignupRequest{
		Name:     name,
		Email:    email,
		Password: "demo-pass",
		Role:     role,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		return a.auth.Login(models.LoginRequest{
			Email:    email,
			Password: "demo-pass",
			Role:     role,
		})
	}
	return user, err
}

func newSmokeCommand(cfg *config.Config) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the smoke suite against a scratch in-memory store",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(":memory:", false, log)
			if err != nil {
				return err
			}

			report := smoke.NewRunner(smoke.Deps{
				Auth:          a.auth,
				Events:        a.eventService,
				Bookings:      a.bookingService,
				Notifications: a.notifier,
				Analytics:     a.analyticsService,
			}, log).Run()

			for _, s := range report.Summaries {
				cmd.Printf("%-15s %d passed, %d failed\n", s.Category, s.Passed, s.Failed)
			}
			cmd.Printf("Total: %d/%d passed\n", report.TotalPass, report.TotalRun)

			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("create report file: %w", err)
				}
				defer f.Close()
				if err := report.Export(f); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				cmd.Printf("Report written to %s\n", outFile)
			}
			if report.TotalFail > 0 {
				return fmt.Errorf("%d smoke checks failed", report.TotalFail)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outFile, "out", "", "write the JSON report to a file")
	return cmd
}

func newLoginCommand(cfg *config.Config) *cobra.Command {
	var email, password, role string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}
			user, err := a.auth.Login(models.LoginRequest{
				Email:    email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", models.RoleParticipant, "organizer or participant")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}
			if err := a.auth.Logout(); err != nil {
				return err
			}
			cmd.Println("Logged out")
			return nil
		},
	}
}

func newDashboardCommand(cfg *config.Config) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the logged-in user's overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}
			user, err := a.auth.CurrentUser()
			if err != nil {
				return fmt.Errorf("%w, run `eventdesk login` first", err)
			}

			if search != "" {
				results, err := a.dashboard.Search(user, search)
				if err != nil {
					return err
				}
				for _, r := range results {
					cmd.Printf("[%s] %s: %s\n", r.Section, r.Title, r.Description)
				}
				cmd.Printf("%d result(s)\n", len(results))
				return nil
			}

			summary, err := a.dashboard.SummaryFor(user, time.Now())
			if err != nil {
				return err
			}
			cmd.Printf("%s (%s)\n", summary.User.Name, summary.User.Role)
			cmd.Printf("Events:       %d (%d upcoming)\n", summary.Stats.TotalEvents, summary.Stats.UpcomingEvents)
			cmd.Printf("Bookings:     %d\n", summary.Stats.TotalBookings)
			if user.IsOrganizer() {
				cmd.Printf("Participants: %d\n", summary.Stats.TotalParticipants)
			}
			cmd.Printf("Revenue:      %s\n", utils.FormatCurrency(summary.Stats.TotalRevenue))
			if len(summary.RecentActivity) > 0 {
				cmd.Println("Recent activity:")
				for _, entry := range summary.RecentActivity {
					cmd.Printf("  %s  %s\n", entry.Timestamp.Format("2006-01-02 15:04"), entry.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search events, bookings and notifications instead")
	return cmd
}

func newExportCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export the full store to a JSON archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}
			archive, err := a.archive.Export()
			if err != nil {
				return fmt.Errorf("export store: %w", err)
			}
			data, err := json.MarshalIndent(archive, "", "  ")
			if err != nil {
				return fmt.Errorf("encode archive: %w", err)
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("write archive: %w", err)
			}
			cmd.Printf("Exported %d users, %d events, %d bookings, %d notifications to %s\n",
				len(archive.Users), len(archive.Events), len(archive.Bookings),
				len(archive.Notifications), args[0])
			return nil
		},
	}
}

func newImportCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the store's collections with a JSON archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}
			var archive models.Archive
			if err := json.Unmarshal(data, &archive); err != nil {
				return fmt.Errorf("decode archive: %w", err)
			}

			a, err := newApp(cfg.DatabasePath, false, log)
			if err != nil {
				return err
			}
			if err := a.archive.Import(&archive); err != nil {
				return fmt.Errorf("import archive: %w", err)
			}

			// Imported counts may be stale; rederive them from the bookings.
			events, err := a.events.GetAll()
			if err != nil {
				return err
			}
			for _, e := range events {
				if err := a.bookings.RecalculateEventBookings(e.ID); err != nil {
					return fmt.Errorf("recalculate bookings for %s: %w", e.ID, err)
				}
			}

			cmd.Printf("Imported archive from %s (exported %s)\n",
				args[0], archive.ExportDate.Format(time.RFC3339))
			return nil
		},
	}
}

func newSettingsCommand(cfg *config.Config) *cobra.Command {
	var theme, currency, timezone, language string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update the stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}

			req := models.UpdateSettingsRequest{}
			if cmd.Flags().Changed("theme") {
				req.Theme = &theme
			}
			if cmd.Flags().Changed("currency") {
				req.Currency = &currency
			}
			if cmd.Flags().Changed("timezone") {
				req.Timezone = &timezone
			}
			if cmd.Flags().Changed("language") {
				req.Language = &language
			}

			settings, err := a.settings.Get()
			if err != nil {
				return err
			}
			if req != (models.UpdateSettingsRequest{}) {
				settings, err = a.settings.Update(req)
				if err != nil {
					return fmt.Errorf("update settings: %w", err)
				}
			}

			cmd.Printf("Theme:    %s\n", settings.Theme)
			cmd.Printf("Currency: %s\n", settings.Currency)
			cmd.Printf("Timezone: %s\n", settings.Timezone)
			cmd.Printf("Language: %s\n", settings.Language)
			cmd.Printf("Notify:   email=%t sms=%t push=%t\n",
				settings.Notifications.Email, settings.Notifications.SMS, settings.Notifications.Push)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "ui theme")
	cmd.Flags().StringVar(&currency, "currency", "", "display currency code")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone")
	cmd.Flags().StringVar(&language, "language", "", "ui language code")
	return cmd
}

func newNotifyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Notification maintenance tasks",
	}
	cmd.AddCommand(newNotifyRemindCommand(cfg), newNotifyCleanupCommand(cfg))
	return cmd
}

func newNotifyRemindCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Queue reminders for every event happening tomorrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}
			sent, err := a.notifier.EventReminders(time.Now())
			if err != nil {
				return fmt.Errorf("send reminders: %w", err)
			}
			cmd.Printf("Queued %d reminder(s)\n", sent)
			return nil
		},
	}
}

func newNotifyCleanupCommand(cfg *config.Config) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Trim stored notifications down to the newest ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}
			removed, err := a.notifier.CleanupOld(keep)
			if err != nil {
				return fmt.Errorf("cleanup notifications: %w", err)
			}
			cmd.Printf("Removed %d notification(s), kept the newest %d\n", removed, keep)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 100, "number of newest notifications to keep")
	return cmd
}

func newStatsCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the store-wide analytics snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg.DatabasePath, cfg.SeedDemoData, log)
			if err != nil {
				return err
			}
			snapshot, err := a.analyticsService.Snapshot()
			if err != nil {
				return fmt.Errorf("compute snapshot: %w", err)
			}

			cmd.Printf("Events:       %d\n", snapshot.TotalEvents)
			cmd.Printf("Bookings:     %d\n", snapshot.TotalBookings)
			cmd.Printf("Participants: %d\n", snapshot.TotalParticipants)
			cmd.Printf("Revenue:      %s\n", utils.FormatCurrency(snapshot.TotalRevenue))
			if len(snapshot.PopularEvents) > 0 {
				cmd.Println("Popular events:")
				for _, p := range snapshot.PopularEvents {
					cmd.Printf("  %-30s %d tickets\n", p.Title, p.BookingCount)
				}
			}
			return nil
		},
	}
}
