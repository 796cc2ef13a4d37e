// Package sms broadcasts the daily count to subscribed phones through the
// Aliyun short message service.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi "github.com/alibabacloud-go/dysmsapi-20170525/v3/client"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	"github.com/rs/zerolog/log"
)

const (
	defaultSignName     = "云均信息技术工作室"
	defaultTemplateCode = "SMS_498585210"

	// The SMS endpoint only lives in the Hangzhou region.
	regionID = "cn-hangzhou"
	endpoint = "dysmsapi.aliyuncs.com"

	// Aliyun throttles bursts; keep at least this much space between sends.
	sendSpacing = time.Second
)

type Config struct {
	AccessKeyID     string
	AccessKeySecret string
	SignName        string
	TemplateCode    string
}

type Client struct {
	api          *dysmsapi.Client
	signName     string
	templateCode string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, fmt.Errorf("sms credentials missing: access key id and secret are both required")
	}
	if cfg.SignName == "" {
		cfg.SignName = defaultSignName
	}
	if cfg.TemplateCode == "" {
		cfg.TemplateCode = defaultTemplateCode
	}

	api, err := dysmsapi.NewClient(&openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
		RegionId:        tea.String(regionID),
		Endpoint:        tea.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("create sms client: %w", err)
	}

	return &Client{
		api:          api,
		signName:     cfg.SignName,
		templateCode: cfg.TemplateCode,
	}, nil
}

// Broadcast sends the day-over-day numbers to every phone, spacing requests
// to stay under the provider rate limit. It reports how many sends succeeded
// out of how many were attempted; individual failures are logged, not
// propagated, so one bad number cannot starve the rest of the list.
func (c *Client) Broadcast(ctx context.Context, phones []string, today, yesterday, increment int) (sent, attempted int) {
	if len(phones) == 0 {
		return 0, 0
	}

	param, err := templateParam(today, yesterday, increment)
	if err != nil {
		log.Error().Err(err).Msg("Could not build SMS template parameters")
		return 0, len(phones)
	}

	for i, phone := range phones {
		log.Info().
			Int("position", i+1).
			Int("total", len(phones)).
			Str("phone", phone).
			Msg("Sending SMS notification")

		if err := c.send(phone, param); err != nil {
			log.Error().Err(err).Str("phone", phone).Msg("SMS send failed")
		} else {
			sent++
		}

		if i < len(phones)-1 {
			select {
			case <-time.After(sendSpacing):
			case <-ctx.Done():
				log.Warn().
					Err(ctx.Err()).
					Int("remaining", len(phones)-i-1).
					Msg("SMS batch interrupted")
				return sent, len(phones)
			}
		}
	}
	return sent, len(phones)
}

func (c *Client) send(phone, param string) error {
	req := &dysmsapi.SendSmsRequest{
		PhoneNumbers:  tea.String(phone),
		SignName:      tea.String(c.signName),
		TemplateCode:  tea.String(c.templateCode),
		TemplateParam: tea.String(param),
	}

	resp, err := c.api.SendSmsWithOptions(req, &util.RuntimeOptions{})
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	if resp.Body == nil {
		return fmt.Errorf("sms rejected: empty response body")
	}
	if code := tea.StringValue(resp.Body.Code); code != "OK" {
		return fmt.Errorf("sms rejected: code=%s message=%s", code, tea.StringValue(resp.Body.Message))
	}

	log.Info().
		Str("phone", phone).
		Str("request_id", tea.StringValue(resp.Body.RequestId)).
		Msg("SMS delivered")
	return nil
}

// templateParam renders the three placeholders the approved template
// expects. The template engine wants every value as a string.
func templateParam(today, yesterday, increment int) (string, error) {
	payload := map[string]string{
		"todaycount":     strconv.Itoa(today),
		"yesterdaycount": strconv.Itoa(yesterday),
		"increment":      strconv.Itoa(increment),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode template parameters: %w", err)
	}
	return string(data), nil
}
