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
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caiflower/minihttp/pkg/e"
	golocalv1 "github.com/caiflower/minihttp/pkg/golocal/v1"
	"github.com/caiflower/minihttp/pkg/limiter"
	"github.com/caiflower/minihttp/pkg/logger"
	"github.com/caiflower/minihttp/pkg/safego"
	"github.com/caiflower/minihttp/pkg/tools"
	"github.com/caiflower/minihttp/web/protocol"
	"github.com/caiflower/minihttp/web/router"
	"github.com/caiflower/minihttp/web/server/config"
	"github.com/caiflower/minihttp/web/static"
)

// 单进程HTTP/1.1服务器，每个连接只处理一个请求

const shutdownTimeout = 30 * time.Second

// Conn is the part of a connection ServeConn uses.
type Conn interface {
	io.Reader
	io.Writer
}

type HttpServer struct {
	options config.Options
	logger  logger.ILog
	router  *router.Router
	metric  *HttpMetric

	lock          sync.Mutex
	listener      net.Listener
	limiterBucket *limiter.TokenBucket
	metricServer  *metricServer
	ctx           context.Context
	cancel        context.CancelFunc
	conns         sync.WaitGroup
	running       bool

	stats stats
}

func NewHttpServer(options config.Options) *HttpServer {
	return NewHttpServerWithLogger(options, logger.DefaultLogger())
}

func NewHttpServerWithLogger(options config.Options, log logger.ILog) *HttpServer {
	options.FillDefaults()
	if log == nil {
		log = logger.DefaultLogger()
	}

	s := &HttpServer{
		options: options,
		logger:  log,
		router:  router.NewRouter(static.NewFileServer(options.StaticRoot), log),
		metric:  NewHttpMetric(options.Name),
	}
	return s
}

func (s *HttpServer) Name() string {
	return fmt.Sprintf("HTTP_SERVER:%s", s.options.Name)
}

func (s *HttpServer) Options() config.Options {
	return s.options
}

func (s *HttpServer) Metric() *HttpMetric {
	return s.metric
}

// MetricsAddr returns the bound metrics address, nil when metrics are not served.
func (s *HttpServer) MetricsAddr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.metricServer == nil {
		return nil
	}
	return s.metricServer.addr()
}

// Addr returns the bound address, nil before Start.
func (s *HttpServer) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *HttpServer) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.running {
		return nil
	}

	ln, err := net.Listen(s.options.Network, s.options.Addr)
	if err != nil {
		return fmt.Errorf("listen %s failed: %w", s.options.Addr, err)
	}

	if s.options.LimiterEnabled {
		s.limiterBucket = limiter.NewTokenBucket(s.options.Qps)
		s.limiterBucket.Startup()
	}

	if s.options.EnableMetrics {
		s.metricServer = newMetricServer(s.options.MetricsAddr, s.metric, s.logger)
		if err = s.metricServer.start(); err != nil {
			_ = ln.Close()
			if s.limiterBucket != nil {
				s.limiterBucket.Close()
			}
			return err
		}
	}

	s.listener = ln
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.running = true

	s.logger.Info(
		"\n***************************** http server startup ***********************************************\n"+
			"************* web service [name:%s] [staticRoot:%s] listening on %s *********\n"+
			"*************************************************************************************************", s.options.Name, s.options.StaticRoot, ln.Addr().String())

	var bucket limiter.Limiter
	if s.limiterBucket != nil {
		bucket = s.limiterBucket
	}
	ctx := s.ctx
	safego.Go(func() {
		s.acceptLoop(ctx, ln, bucket)
	})

	return nil
}

func (s *HttpServer) acceptLoop(ctx context.Context, ln net.Listener, bucket limiter.Limiter) {
	for {
		if bucket != nil && !bucket.TakeTokenContext(ctx) {
			return
		}

		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}
			s.logger.Warn("Accept connection failed. Error: %s", err.Error())
			continue
		}

		incr(&s.stats.accepted)
		s.metric.saveConn(connAccepted)
		s.conns.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

func (s *HttpServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.conns.Done()
	defer golocalv1.Clean()
	defer conn.Close()
	// panic只影响当前连接
	defer e.OnErrorFunc("handleConnection", func(r interface{}) {
		incr(&s.stats.panics)
		s.metric.saveConn(connPanic)
	})

	golocalv1.PutTraceID(tools.TraceID("conn"))
	golocalv1.Put(golocalv1.RemoteAddr, conn.RemoteAddr().String())

	if err := s.ServeConn(ctx, conn); err != nil {
		s.logger.Warn("Serve connection %s failed. Error: %s", conn.RemoteAddr().String(), err.Error())
	}
}

// ServeConn reads one request from conn, writes one response and returns. It neither
// closes conn nor reads a second time. An empty read is not an error.
func (s *HttpServer) ServeConn(ctx context.Context, conn Conn) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	buf := make([]byte, s.options.ReadBufferSize)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		incr(&s.stats.failed)
		s.metric.saveConn(connReadError)
		return fmt.Errorf("read request: %w", err)
	}

	req, err := protocol.Parse(buf[:n])
	if err != nil {
		if errors.Is(err, protocol.ErrEmptyRequest) {
			incr(&s.stats.empty)
			s.metric.saveConn(connEmpty)
			s.logger.Warn("Empty request, close connection.")
			return nil
		}

		incr(&s.stats.malformed)
		s.metric.saveConn(connMalformed)
		s.logger.Warn("Parse request failed. Error: %s", err.Error())
		resp := protocol.NewTextResponse(http.StatusBadRequest, "400 Bad Request")
		if _, err = resp.WriteTo(conn); err != nil {
			incr(&s.stats.failed)
			return fmt.Errorf("write response: %w", err)
		}
		incr(&s.stats.served)
		return nil
	}

	if traceID := req.Header.Get(s.options.HeaderTraceID); traceID != "" {
		golocalv1.PutTraceID(traceID)
	}

	resp, outcome := s.router.Dispatch(req)
	written, err := resp.WriteTo(conn)
	cost := time.Since(start)

	s.metric.saveMetric(resp.StatusCode(), req.Method, outcome.Kind(), cost)
	s.logger.Info("[access] %s %s %d %d %s", req.Method, req.Path, resp.StatusCode(), written, cost.String())

	if err != nil {
		incr(&s.stats.failed)
		s.metric.saveConn(connWriteError)
		return fmt.Errorf("write response: %w", err)
	}
	incr(&s.stats.served)
	return nil
}

func (s *HttpServer) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.running {
		return
	}
	s.running = false

	s.logger.Info("      **** http server shutdown ****")
	s.cancel()
	if err := s.listener.Close(); err != nil {
		s.logger.Warn(" **** http server close listener error **** \n"+
			"**** error:%s ****", err.Error())
	}
	if s.limiterBucket != nil {
		s.limiterBucket.Close()
		s.limiterBucket = nil
	}

	// 等待处理中的连接，30秒超时
	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info(" **** http server gracefully shutdown ****")
	case <-time.After(shutdownTimeout):
		s.logger.Warn(" **** http server shutdown timeout ****")
	}

	if s.metricServer != nil {
		s.metricServer.close()
		s.metricServer = nil
	}
}

// ReportStats logs the counters, called by the stats cron job.
func (s *HttpServer) ReportStats() {
	st := s.Stats()
	s.logger.Info("[stats] server=%s %s", s.options.Name, tools.ToJson(st))
}

func (s *HttpServer) Stats() Stats {
	return s.stats.snapshot()
}

type Stats struct {
	Accepted  int64 `json:"accepted"`
	Served    int64 `json:"served"`
	Empty     int64 `json:"empty"`
	Malformed int64 `json:"malformed"`
	Failed    int64 `json:"failed"`
	Panics    int64 `json:"panics"`
}

type stats struct {
	accepted  int64
	served    int64
	empty     int64
	malformed int64
	failed    int64
	panics    int64
}

func incr(counter *int64) {
	atomic.AddInt64(counter, 1)
}

func (s *stats) snapshot() Stats {
	return Stats{
		Accepted:  atomic.LoadInt64(&s.accepted),
		Served:    atomic.LoadInt64(&s.served),
		Empty:     atomic.LoadInt64(&s.empty),
		Malformed: atomic.LoadInt64(&s.malformed),
		Failed:    atomic.LoadInt64(&s.failed),
		Panics:    atomic.LoadInt64(&s.panics),
	}
}
