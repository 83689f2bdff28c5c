package projections

import (
	"context"
	"log/slog"
	"time"

	"elearning/internal/adapters/http/perf"
	"elearning/internal/domain/class"
	"elearning/internal/domain/contact"
	"elearning/internal/domain/enrollment"
)

// DashboardClassStore loads the class a roster belongs to.
type DashboardClassStore interface {
	GetDetail(ctx context.Context, id int64) (class.Detail, error)
}

// DashboardRosterStore lists the students of a class.
type DashboardRosterStore interface {
	ListRoster(ctx context.Context, classID int64) ([]enrollment.RosterEntry, error)
}

// DashboardOutboxStore reports delivery queue health.
type DashboardOutboxStore interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// DashboardContactStore lists recent contact form messages.
type DashboardContactStore interface {
	ListRecent(ctx context.Context, limit int) ([]contact.Message, error)
}

// RecentMessageLimit caps the contact messages shown on the dashboard.
const RecentMessageLimit = 10

// GetAdminDashboardQuery carries input for the dashboard projection.
type GetAdminDashboardQuery struct {
	RosterClassID int64 // 0 means no roster view
}

// GetAdminDashboardDeps holds dependencies for the dashboard projection.
type GetAdminDashboardDeps struct {
	Catalog  CatalogStore
	Classes  DashboardClassStore
	Rosters  DashboardRosterStore
	Outbox   DashboardOutboxStore  // optional
	Contacts DashboardContactStore // optional
	Perf     *perf.Collector       // optional
	Now      func() time.Time
}

// Roster is the enrollment list of one class.
type Roster struct {
	Class   class.Detail
	Entries []enrollment.RosterEntry
}

// AdminDashboardResult carries the output of the dashboard projection.
type AdminDashboardResult struct {
	Courses        []CatalogCourse
	Roster         *Roster
	Outbox         map[string]int
	RecentMessages []contact.Message
	Perf           *perf.Snapshot
}

// QueryGetAdminDashboard aggregates the admin home page.
// PRE: the caller is an authenticated admin
// POST: Courses is always set; Roster only when RosterClassID > 0. Outbox,
// messages and perf figures are best effort and left empty on failure
func QueryGetAdminDashboard(ctx context.Context, query GetAdminDashboardQuery, deps GetAdminDashboardDeps) (AdminDashboardResult, error) {
	rows, err := deps.Catalog.ListCatalog(ctx)
	if err != nil {
		return AdminDashboardResult{}, storeError("list catalog", err)
	}
	result := AdminDashboardResult{Courses: groupCatalog(rows)}

	if query.RosterClassID > 0 {
		detail, err := deps.Classes.GetDetail(ctx, query.RosterClassID)
		if err != nil {
			return AdminDashboardResult{}, storeError("load class", err)
		}
		entries, err := deps.Rosters.ListRoster(ctx, detail.ID)
		if err != nil {
			return AdminDashboardResult{}, storeError("list roster", err)
		}
		result.Roster = &Roster{Class: detail, Entries: entries}
	}

	if deps.Outbox != nil {
		counts, err := deps.Outbox.CountByStatus(ctx)
		if err != nil {
			slog.Warn("dashboard_partial", "part", "outbox", "error", err.Error())
		} else {
			result.Outbox = counts
		}
	}
	if deps.Contacts != nil {
		msgs, err := deps.Contacts.ListRecent(ctx, RecentMessageLimit)
		if err != nil {
			slog.Warn("dashboard_partial", "part", "contacts", "error", err.Error())
		} else {
			result.RecentMessages = msgs
		}
	}
	if deps.Perf != nil {
		now := time.Now
		if deps.Now != nil {
			now = deps.Now
		}
		snap := deps.Perf.Snapshot(now().Add(-time.Hour), 5)
		result.Perf = &snap
	}
	return result, nil
}
