// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package rest

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// logger is a Gin handler to log requests for debugging.
func (a *API) logger(c *gin.Context) {
	if !log.V(2).Enabled() {
		return
	}
	log := log.WithValues(
		"method", c.Request.Method,
		"url", c.Request.URL,
		"from", c.Request.RemoteAddr,
	)
	if log.V(4).Enabled() {
		log.V(4).Info("Request received", "body", copyBody(c.Request))
	}
	rw := &responseWriter{ResponseWriter: c.Writer}
	c.Writer = rw
	start := time.Now()

	defer func() {
		status := c.Writer.Status()
		log = log.WithValues("code", status, "text", http.StatusText(status), "latency", time.Since(start))
		if len(c.Errors) > 0 {
			log = log.WithValues("errors", c.Errors.Errors())
		}
		if log.V(5).Enabled() { // Trace responses can be large.
			log = log.WithValues("response", rw.body.String())
		}
		if c.IsAborted() || status/100 != 2 {
			log.V(2).Info("Request failed")
		} else {
			log.V(3).Info("Request succeeded")
		}
	}()
	c.Next()
}

// copyBody reads the request body and replaces it with an unread copy.
func copyBody(req *http.Request) string {
	if req.Body == nil {
		return ""
	}
	b, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(b))
	if err != nil {
		return err.Error()
	}
	return string(b)
}

// responseWriter keeps a copy of the response body.
type responseWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
