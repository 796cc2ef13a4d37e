package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"efd_mod_counter/internal/app"
	"efd_mod_counter/internal/notify"
	"efd_mod_counter/internal/report"
	"efd_mod_counter/internal/sms"
)

func main() {
	os.Exit(run())
}

func run() int {
	app.SetupEnvironment()

	cfg := app.LoadConfig()
	ctx := context.Background()
	notifier := buildNotifier(cfg)

	summary, err := app.Run(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Daily count failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		notifier.Publish(ctx, report.TitleFailure, err.Error())
		return 1
	}

	message := summary.Message()
	fmt.Println(message)
	notifier.Publish(ctx, report.TitleSuccess, message)

	sendSMS(ctx, cfg, summary)
	return 0
}

func buildNotifier(cfg app.Config) *notify.Notifier {
	var push *notify.Client
	if cfg.NtfyEnabled {
		push = notify.NewClient(cfg.NtfyURL, cfg.NtfyTopic, cfg.NtfyPriority,
			cfg.Resilience.NtfyPush, notify.DefaultMaxDelay)
		log.Info().Str("topic", cfg.NtfyTopic).Msg("Push notifications enabled")
	} else {
		log.Debug().Msg("Push notifications disabled")
	}
	return notify.NewNotifier(cfg.DesktopNotify, push)
}

// sendSMS broadcasts the delta to the subscriber list. First runs and
// missing credentials skip the channel quietly.
func sendSMS(ctx context.Context, cfg app.Config, summary *report.Summary) {
	if summary.Outcome.Yesterday == nil || summary.Outcome.Delta == nil {
		log.Debug().Msg("No previous count, skipping SMS")
		return
	}
	if !cfg.SMSConfigured() {
		log.Debug().Msg("SMS credentials not set, skipping SMS")
		return
	}

	phones := sms.LoadPhones(cfg.PhoneListPath)
	if len(phones) == 0 {
		log.Info().Msg("No valid phone numbers, skipping SMS")
		return
	}

	client, err := sms.NewClient(sms.Config{
		AccessKeyID:     cfg.SMSAccessKeyID,
		AccessKeySecret: cfg.SMSAccessKeySecret,
		SignName:        cfg.SMSSignName,
		TemplateCode:    cfg.SMSTemplateCode,
	})
	if err != nil {
		log.Error().Err(err).Msg("Could not create SMS client")
		return
	}

	sent, attempted := client.Broadcast(ctx, phones,
		summary.Outcome.Today, *summary.Outcome.Yesterday, *summary.Outcome.Delta)
	if sent == attempted {
		log.Info().Int("recipients", attempted).Msg("SMS notifications delivered")
	} else {
		log.Warn().Int("sent", sent).Int("attempted", attempted).Msg("SMS delivery partially failed")
	}
}
