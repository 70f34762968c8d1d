package animals

import (
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zooapi/docs/schema/openapi"
	"zooapi/internal/core"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Service  Service
	Logger   core.Logger
	ReadOnly bool
	// Gatherer, when set, is served on /metrics.
	Gatherer prometheus.Gatherer
	// Expvar mounts /debug/vars.
	Expvar bool
}

// NewRouter builds the gin engine with recovery, request ids, access logging,
// the animal routes and the operational endpoints. Trailing slashes are served
// in place rather than redirected.
func NewRouter(opts RouterOptions) *gin.Engine {
	h := &Handler{Service: opts.Service, Logger: opts.Logger, ReadOnly: opts.ReadOnly}
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), RequestID(), AccessLog(h.logger()))

	h.Register(r)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openapi.Spec())
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.Expvar {
		r.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	}
	return r
}
