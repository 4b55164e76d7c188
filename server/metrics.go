package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptbench_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptbench_uploads_total",
		Help: "Uploaded scripts by file type.",
	}, []string{"filetype"})

	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scriptbench_security_analyses_total",
		Help: "Completed security analyses by resulting risk level.",
	}, []string{"risk_level"})
)

func countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
