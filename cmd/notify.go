package cmd

import (
	"VelArchiver/internal/config"
	"VelArchiver/internal/notifier"
)

// notifierFromConfig builds the run notifier, or nil when notifications
// are off. An enabled but unusable Discord section (e.g. missing
// webhook_url) reports through warn and still yields nil; a bad webhook
// must never block an archival run.
func notifierFromConfig(cfg *config.Config, warn func(string)) notifier.Notifier {
	if cfg == nil || !config.NotificationsEnabled(cfg.Notifications) {
		return nil
	}
	n, err := notifier.NewDiscordNotifier(cfg.Notifications.Discord)
	if err == nil {
		return n
	}
	if warn != nil {
		warn("discord notifications disabled for this run: " + err.Error())
	}
	return nil
}
