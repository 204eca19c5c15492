package http

import (
	"bytes"
	"io"
	nethttp "net/http"
	"time"
)

// logRequest logs the outgoing request
func (c *client) logRequest(req *nethttp.Request, callCount int64) {
	c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int64("call_count", callCount).
		Msg("HTTP client request")

	if !c.config.LogPayloads {
		return
	}
	event := c.logger.Debug().
		Str("direction", "outbound").
		Interface("headers", req.Header)
	if payload := c.requestPayload(req); len(payload) > 0 {
		event = event.Bytes("body", payload)
	}
	event.Msg("HTTP client request payload")
}

// logResponse logs the incoming response
func (c *client) logResponse(req *nethttp.Request, resp *nethttp.Response, body []byte, callCount int64, elapsed time.Duration) {
	c.logger.Info().
		Str("direction", "inbound").
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Int64("call_count", callCount).
		Msg("HTTP client response")

	if !c.config.LogPayloads {
		return
	}
	event := c.logger.Debug().
		Str("direction", "inbound").
		Interface("headers", resp.Header)
	if len(body) > 0 {
		event = event.Bytes("body", c.truncate(body))
	}
	event.Msg("HTTP client response payload")
}

// logFailure logs a dispatch that ended without a readable response
func (c *client) logFailure(req *nethttp.Request, callCount int64, err error) {
	event := c.logger.Warn()
	if IsErrorType(err, CanceledError) {
		event = c.logger.Debug()
	}
	event.
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int64("call_count", callCount).
		Err(err).
		Msg("HTTP client request failed")
}

// requestPayload returns a truncated copy of the request body without consuming it
func (c *client) requestPayload(req *nethttp.Request) []byte {
	if req.GetBody == nil {
		return nil
	}
	rc, err := req.GetBody()
	if err != nil {
		return nil
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, rc, int64(c.maxPayloadLogBytes())); err != nil && err != io.EOF {
		return nil
	}
	return buf.Bytes()
}

func (c *client) truncate(body []byte) []byte {
	if limit := c.maxPayloadLogBytes(); len(body) > limit {
		return body[:limit]
	}
	return body
}

func (c *client) maxPayloadLogBytes() int {
	if c.config.MaxPayloadLogBytes <= 0 {
		return DefaultMaxPayloadLogBytes
	}
	return c.config.MaxPayloadLogBytes
}
