package notify

import "github.com/gen2brain/beeep"

// Toast shows a desktop notification through the platform notifier. Headless
// hosts have no notification daemon, so callers treat a failure here as a
// skipped channel, not a fault.
func Toast(title, message string) error {
	return beeep.Notify(title, message, "")
}
