package config

import (
	"time"

	"efd_mod_counter/internal/retry"
)

// ResilienceConfig names the retry budgets of the external touch points. The
// page fetch budget covers the primary transport only; the curl fallback runs
// retry-free so the worst-case run time stays bounded.
type ResilienceConfig struct {
	PageFetch    retry.Config
	NtfyPush     retry.Config
	SheetsMirror retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	PageFetch: retry.Config{
		MaxRetries: 1,
		Delay:      2 * time.Second,
		Timeout:    30 * time.Second,
	},
	NtfyPush: retry.Config{
		MaxRetries: 2,
		Delay:      1 * time.Second,
		Timeout:    10 * time.Second,
	},
	SheetsMirror: retry.Config{
		MaxRetries: 2,
		Delay:      2 * time.Second,
		Timeout:    15 * time.Second,
	},
}
