package live

import (
	"bufio"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"boardsync/domain"
)

// SSESource reads notifications from the gateway's server-sent-event stream.
// Frames name the event; any data lines are ignored.
type SSESource struct {
	// BaseURL is the gateway address; the stream lives at /stream.
	BaseURL string
	// Client should share the gateway client's cookie jar so the stream is
	// authenticated by the session cookie.
	Client *http.Client
	Logger *log.Logger
}

// Subscribe consumes the stream until ctx is cancelled, reconnecting with
// doubling backoff capped at five seconds.
func (s *SSESource) Subscribe(ctx context.Context, projectID string, handle func(context.Context, domain.Notification)) {
	logger := s.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	streamURL := strings.TrimRight(s.BaseURL, "/") + "/stream?project=" + url.QueryEscape(projectID)

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
		if err != nil {
			logger.Errorf("stream request: %v", err)
			return
		}
		req.Header.Set("Accept", "text/event-stream")
		resp, err := client.Do(req)
		if err != nil || resp.StatusCode != http.StatusOK {
			if resp != nil {
				resp.Body.Close()
			}
			if ctx.Err() != nil {
				return
			}
			logger.Warnf("stream connect failed, retrying in %v", backoff)
			time.Sleep(backoff)
			backoff = min(backoff*2, 5*time.Second)
			continue
		}
		backoff = time.Second

		scanner := bufio.NewScanner(resp.Body)
		event := ""
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case line == "":
				if event == "" {
					continue
				}
				n, err := domain.ParseNotification(event)
				event = ""
				if err != nil {
					logger.Warnf("ignoring stream event: %v", err)
					continue
				}
				handle(ctx, n)
			}
		}
		resp.Body.Close()
		if ctx.Err() != nil {
			return
		}
		logger.Error("stream closed, reconnecting")
	}
}
