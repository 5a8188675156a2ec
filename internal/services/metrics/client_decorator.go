package metrics

import (
	"net/http"
	"path"
	"time"
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// InstrumentedClient records latency and status class of every upstream call.
// The upstream label is the last element of the request path, e.g. "weather"
// or "air_pollution".
type InstrumentedClient struct {
	next httpClient
	m    *Metrics
}

func NewInstrumentedClient(next httpClient, m *Metrics) *InstrumentedClient {
	return &InstrumentedClient{next: next, m: m}
}

func (c *InstrumentedClient) Do(req *http.Request) (*http.Response, error) {
	upstream := path.Base(req.URL.Path)

	start := time.Now()
	resp, err := c.next.Do(req)
	c.m.UpstreamRequestDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())

	if err != nil {
		c.m.UpstreamRequestsTotal.WithLabelValues(upstream, "error").Inc()
		return resp, err
	}
	c.m.UpstreamRequestsTotal.WithLabelValues(upstream, getStatusClass(resp.StatusCode)).Inc()
	return resp, nil
}
