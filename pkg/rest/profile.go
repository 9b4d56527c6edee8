// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package rest

import (
	"sync"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

var profileOnce sync.Once

// WebProfile adds /debug/pprof endpoints to the router, at most once per process.
func WebProfile(router *gin.Engine) {
	profileOnce.Do(func() { pprof.Register(router) })
}
