package notify

import (
	"fmt"
	"time"

	"mariiahub/internal/domain"
)

// Alerts translates engine and connectivity transitions into notifier
// calls. It owns the user-facing wording; the engine only supplies counts.
type Alerts struct {
	notifier domain.Notifier
}

func NewAlerts(notifier domain.Notifier) *Alerts {
	return &Alerts{notifier: notifier}
}

func (a *Alerts) ConnectionLost(pendingCount int, offlineFor time.Duration) {
	data := map[string]interface{}{"pending": pendingCount}
	if offlineFor > 0 {
		data["offline_minutes"] = int(offlineFor.Minutes())
	}
	a.notifier.Notify(domain.AlertWarn,
		"You are offline. New bookings are saved on this device and will sync automatically.",
		data)
}

func (a *Alerts) ConnectionRestored(pendingCount int) {
	if pendingCount == 0 {
		a.notifier.Notify(domain.AlertInfo, "Back online.", nil)
		return
	}
	a.notifier.Notify(domain.AlertInfo,
		fmt.Sprintf("Back online. Syncing %d saved booking(s).", pendingCount),
		map[string]interface{}{"pending": pendingCount})
}

func (a *Alerts) SyncCompleted(synced, failed int) {
	data := map[string]interface{}{"synced": synced, "failed": failed}
	if failed > 0 {
		a.notifier.Notify(domain.AlertWarn,
			fmt.Sprintf("Sync finished: %d confirmed, %d failed. Failed bookings can be retried.", synced, failed),
			data)
		return
	}
	a.notifier.Notify(domain.AlertInfo,
		fmt.Sprintf("All %d offline booking(s) synced.", synced),
		data)
}
