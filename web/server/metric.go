/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/caiflower/minihttp/global/env"
	"github.com/caiflower/minihttp/pkg/logger"
	"github.com/caiflower/minihttp/web/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	connAccepted   = "accepted"
	connEmpty      = "empty"
	connMalformed  = "malformed"
	connReadError  = "read_error"
	connWriteError = "write_error"
	connPanic      = "panic"

	methodOther = "OTHER"
)

// HttpMetric 每个server持有独立的Registry，同一进程可以启动多个server
type HttpMetric struct {
	name                 string
	registry             *prometheus.Registry
	httpRequestTotal     *prometheus.CounterVec
	httpRequestTimeTotal *prometheus.CounterVec
	httpConnTotal        *prometheus.CounterVec
	costHistogram        prometheus.Histogram
}

func NewHttpMetric(name string) *HttpMetric {
	constLabels := prometheus.Labels{"ip": env.GetLocalHostIP()}

	buckets := []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000}
	metric := &HttpMetric{
		name:                 name,
		registry:             prometheus.NewRegistry(),
		httpRequestTimeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_time_total", Help: "http_request_time_total counter", ConstLabels: constLabels}, []string{"web", "code", "method", "outcome"}),
		httpRequestTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_total", Help: "http_request_total counter", ConstLabels: constLabels}, []string{"web", "code", "method", "outcome"}),
		httpConnTotal:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_conn_total", Help: "http_conn_total counter", ConstLabels: constLabels}, []string{"web", "result"}),
		costHistogram:        prometheus.NewHistogram(prometheus.HistogramOpts{Name: "http_request_histogram", Help: "http_request_histogram", Buckets: buckets, ConstLabels: constLabels}),
	}

	metric.registry.MustRegister(metric.httpRequestTotal, metric.httpRequestTimeTotal, metric.httpConnTotal, metric.costHistogram)

	return metric
}

func (m *HttpMetric) Registry() *prometheus.Registry {
	return m.registry
}

func (m *HttpMetric) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// cost单位为毫秒
func (m *HttpMetric) saveMetric(code int, method protocol.Method, outcome string, cost time.Duration) {
	methodLabel := methodOther
	if method.Dispatchable() {
		methodLabel = method.String()
	}
	ms := float64(cost.Microseconds()) / 1000

	m.httpRequestTotal.WithLabelValues(m.name, strconv.Itoa(code), methodLabel, outcome).Inc()
	m.httpRequestTimeTotal.WithLabelValues(m.name, strconv.Itoa(code), methodLabel, outcome).Add(ms)
	m.costHistogram.Observe(ms)
}

func (m *HttpMetric) saveConn(result string) {
	m.httpConnTotal.WithLabelValues(m.name, result).Inc()
}

type metricServer struct {
	address string
	logger  logger.ILog
	server  *http.Server
	ln      net.Listener
}

func newMetricServer(addr string, metric *HttpMetric, log logger.ILog) *metricServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metric.Handler())
	return &metricServer{
		address: addr,
		logger:  log,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (ms *metricServer) start() error {
	ln, err := net.Listen("tcp", ms.address)
	if err != nil {
		return err
	}
	ms.ln = ln
	ms.logger.Info("Metrics listening on %s/metrics", ln.Addr().String())

	go func() {
		if err := ms.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ms.logger.Error("Metrics server stopped. Error: %s", err.Error())
		}
	}()
	return nil
}

func (ms *metricServer) addr() net.Addr {
	return ms.ln.Addr()
}

func (ms *metricServer) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := ms.server.Shutdown(ctx); err != nil {
		ms.logger.Warn("Metrics server shutdown error: %s", err.Error())
	}
}
