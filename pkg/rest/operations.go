// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package rest implements the netrace REST API.
//
//	GET  /api/v1/status    graph load status
//	GET  /api/v1/networks  configured networks
//	POST /api/v1/trace     trace from start vertices or edges
//	POST /api/v1/reload    load the graph again
//	GET  /metrics          prometheus metrics
package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/pkg/engine"
	"github.com/netrace/netrace/pkg/service"
)

var log = logging.Log()

// BasePath is the versioned base path for the current version of the REST API.
const BasePath = "/api/v1"

type API struct {
	Service *service.Service
}

// New API instance, registers handlers with a gin Engine.
func New(s *service.Service, r *gin.Engine) (*API, error) {
	if s == nil {
		return nil, fmt.Errorf("REST API requires a service")
	}
	a := &API{Service: s}
	r.Use(a.logger)
	r.GET("/metrics", gin.WrapH(s.Metrics().Handler()))
	v := r.Group(BasePath)
	v.GET("/status", a.Status)
	v.GET("/networks", a.Networks)
	v.POST("/trace", a.Trace)
	v.POST("/reload", a.Reload)
	return a, nil
}

// Status handler, always succeeds with the current load status.
func (a *API) Status(c *gin.Context) {
	st := a.Service.Status()
	code := http.StatusOK
	if st.Status != service.Ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, st)
}

// Networks handler.
func (a *API) Networks(c *gin.Context) {
	infos, err := a.Service.Networks()
	if !check(c, errorCode(err), err) {
		return
	}
	if infos == nil {
		infos = []service.NetworkInfo{} // [] not null for empty
	}
	c.JSON(http.StatusOK, infos)
}

// Trace handler.
func (a *API) Trace(c *gin.Context) {
	var req service.TraceRequest
	if !check(c, http.StatusBadRequest, c.ShouldBindJSON(&req), "decoding request") {
		return
	}
	resp, err := a.Service.Trace(c.Request.Context(), req)
	if !check(c, errorCode(err), err) {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reload handler, loads the configuration and graph again and returns the new status.
// Fails with 503 if a load is already in progress.
func (a *API) Reload(c *gin.Context) {
	err := a.Service.TryLoad(c.Request.Context())
	if !check(c, errorCode(err), err) {
		return
	}
	c.JSON(http.StatusOK, a.Service.Status())
}

// errorCode maps service errors to HTTP status codes.
func errorCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case service.IsRequestError(err):
		return http.StatusBadRequest
	case engine.IsStartNotFound(err):
		return http.StatusNotFound
	case service.IsNotReady(err), service.IsBusy(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// check aborts the request with code if err is not nil.
// Optional format and args are added as a prefix to the error message.
func check(c *gin.Context, code int, err error, format ...any) (ok bool) {
	if err != nil && !c.IsAborted() {
		if len(format) > 0 {
			err = fmt.Errorf("%v: %w", fmt.Sprintf(format[0].(string), format[1:]...), err)
		}
		c.AbortWithStatusJSON(code, c.Error(err).JSON())
		log.V(1).Info("Request aborted", "url", c.Request.URL, "code", code, "error", err.Error())
	}
	return err == nil && !c.IsAborted()
}
