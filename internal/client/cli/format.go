package cli

import (
	"fmt"
	"strconv"

	"github.com/iudanet/habitsync/internal/models"
)

// formatEntry выводит значение и выполнение отметки
func formatEntry(e *models.Entry) string {
	if e == nil {
		return "-"
	}

	mark := "[ ]"
	if e.Completed != nil && *e.Completed {
		mark = "[x]"
	}
	if e.Value == nil {
		return mark
	}
	return mark + " " + strconv.FormatFloat(*e.Value, 'f', -1, 64)
}

// versionSuffix помечает трекеры, еще не подтвержденные сервером
func versionSuffix(version int64) string {
	if version == 0 {
		return " (not synced)"
	}
	return fmt.Sprintf(" (v%d)", version)
}

// describeConflict однострочное описание конфликта
func describeConflict(c *models.Conflict) string {
	switch c.Type {
	case models.EntityTracker:
		local, server := "-", "deleted"
		if c.LocalTracker != nil {
			local = trackerSummary(c.LocalTracker)
		}
		if c.ServerTracker != nil {
			server = trackerSummary(c.ServerTracker)
		}
		return fmt.Sprintf("local %s | server %s", local, server)
	case models.EntityEntry:
		return fmt.Sprintf("local %s | server %s", formatEntry(c.LocalEntry), formatEntry(c.ServerEntry))
	default:
		return ""
	}
}

func trackerSummary(t *models.Tracker) string {
	if t.State.Deleted() {
		return fmt.Sprintf("%q deleted", t.Name)
	}
	return fmt.Sprintf("%q %s/%s", t.Name, t.Category, t.Kind)
}
