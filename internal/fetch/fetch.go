package fetch

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"efd_mod_counter/internal/retry"
)

const (
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

var schemePrefix = regexp.MustCompile(`(?i)^https?://`)

// Config describes one page-fetch target. Retry applies to the primary
// transport only; the curl fallback runs a single attempt.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	UseMirror    bool
	MirrorPrefix string
	Retry        retry.Config
	CurlPath     string
}

type Client struct {
	http *resty.Client
	cfg  Config
}

func New(cfg Config) *Client {
	if cfg.CurlPath == "" {
		cfg.CurlPath = "curl"
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetHeader("Accept", acceptHeader)
	client.SetHeader("Accept-Language", acceptLanguage)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	// HTTP/1.1 without keep-alive; the stdlib transport still handles
	// gzip/deflate transparently.
	client.SetTransport(&http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
		ForceAttemptHTTP2: false,
	})

	return &Client{http: client, cfg: cfg}
}

// MirrorURL rewrites url into the read-only mirror form: the scheme is
// stripped and the remainder appended to prefix, so https://host/path turns
// into <prefix>host/path.
func MirrorURL(prefix, url string) string {
	return prefix + schemePrefix.ReplaceAllString(url, "")
}

// EffectiveURL returns the URL actually requested, after the optional mirror
// rewrite.
func (c *Client) EffectiveURL(url string) string {
	if c.cfg.UseMirror {
		return MirrorURL(c.cfg.MirrorPrefix, url)
	}
	return url
}

// Page fetches url and returns the raw page content. The primary transport is
// retried per the configured budget; once that is exhausted the external curl
// fallback gets one attempt. Both failing is a fatal retrieval error carrying
// both causes.
func (c *Client) Page(ctx context.Context, url string) (string, error) {
	effective := c.EffectiveURL(url)
	log.Debug().
		Str("url", effective).
		Bool("mirror", c.cfg.UseMirror).
		Msg("Fetching page")

	retryCfg := c.cfg.Retry
	if retryCfg.Timeout == 0 {
		retryCfg.Timeout = c.cfg.Timeout
	}

	body, primaryErr := retry.Do(ctx, retryCfg, func(ctx context.Context) (string, error) {
		return c.get(ctx, effective)
	})
	if primaryErr == nil {
		log.Debug().Int("bytes", len(body)).Msg("Fetched page via primary transport")
		return body, nil
	}

	log.Warn().Err(primaryErr).Msg("Primary transport exhausted, falling back to curl")

	body, curlErr := c.curl(ctx, effective)
	if curlErr == nil {
		log.Debug().Int("bytes", len(body)).Msg("Fetched page via curl fallback")
		return body, nil
	}

	return "", fmt.Errorf("fetch %s: primary transport: %v; curl fallback: %w", effective, primaryErr, curlErr)
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode())
	}
	return resp.String(), nil
}

// curl shells out to the system downloader with the same identity headers as
// the primary transport. The temp file is removed on every path.
func (c *Client) curl(ctx context.Context, url string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	tmp, err := os.CreateTemp("", "efd_http_*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := []string{
		"-sS", "-L", "--compressed",
		"-A", c.cfg.UserAgent,
		"-H", "Accept: " + acceptHeader,
		"-H", "Accept-Language: " + acceptLanguage,
		url,
		"--output", tmpPath,
	}

	cmd := exec.CommandContext(ctx, c.cfg.CurlPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			return "", fmt.Errorf("curl failed: %w: %s", err, detail)
		}
		return "", fmt.Errorf("curl failed: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("read curl output: %w", err)
	}
	return string(data), nil
}
