package resource

import (
	"context"
	"net/http"
	"time"

	"github.com/vk/stepflow/internal/ctxlog"
	"resty.dev/v3"
)

// HTTP tracks a remote object. Availability comes from a HEAD probe and
// freshness from the Last-Modified header; an object without the header is
// treated as available but timestamp-less, which staleness classification
// reads as beginning-of-time.
type HTTP struct {
	name      string
	url       string
	required  bool
	client    *resty.Client
	available bool
	mtime     time.Time
}

// NewHTTP creates a remote resource probed through the given client. The
// client is shared and owned by the caller.
func NewHTTP(name, url string, required bool, client *resty.Client) *HTTP {
	return &HTTP{name: name, url: url, required: required, client: client}
}

// Name implements Resource.
func (h *HTTP) Name() string { return h.name }

// Required implements Resource.
func (h *HTTP) Required() bool { return h.required }

// URL returns the probed location.
func (h *HTTP) URL() string { return h.url }

// Refresh issues a HEAD request. Non-2xx statuses mark the resource
// unavailable; transport failures are returned to the caller.
func (h *HTTP) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.available = false
	h.mtime = time.Time{}

	res, err := h.client.R().SetContext(ctx).Head(h.url)
	if err != nil {
		return err
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		ctxlog.FromContext(ctx).Debug("Remote resource not available.",
			"name", h.name, "url", h.url, "status", res.StatusCode())
		return nil
	}

	h.available = true
	if lm := res.Header().Get("Last-Modified"); lm != "" {
		if ts, err := http.ParseTime(lm); err == nil {
			h.mtime = ts
		}
	}
	return nil
}

// Available implements Resource.
func (h *HTTP) Available() bool { return h.available }

// LastUpdated implements Resource.
func (h *HTTP) LastUpdated() time.Time { return h.mtime }
