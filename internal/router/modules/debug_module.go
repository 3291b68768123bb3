package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugModule exposes expvar and Prometheus metrics.
type DebugModule struct {
	Registry *prometheus.Registry
}

func NewDebugModule(reg *prometheus.Registry) *DebugModule { return &DebugModule{Registry: reg} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	if m.Registry != nil {
		rg.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}
}
