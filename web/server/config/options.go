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

package config

import (
	"github.com/caiflower/minihttp/pkg/tools"
)

type Option func(*Options) *Options

type Options struct {
	Name           string `yaml:"name" default:"default"`
	Addr           string `yaml:"addr" default:"127.0.0.1:8080"`
	Network        string `yaml:"netWork" default:"tcp"`
	StaticRoot     string `yaml:"staticRoot" default:"./static"`
	ReadBufferSize int    `yaml:"readBufferSize" default:"4096"` // 每个连接只读取一次
	HeaderTraceID  string `yaml:"headerTraceID" default:"X-Request-Id"`
	LimiterEnabled bool   `yaml:"limiterEnabled"`
	Qps            int    `yaml:"qps" default:"1000"`
	EnableMetrics  bool   `yaml:"enableMetrics"`
	MetricsAddr    string `yaml:"metricsAddr" default:"127.0.0.1:9090"`
	StatsCron      string `yaml:"statsCron" default:"@every 1m"`
}

func NewOptions(opts ...Option) *Options {
	options := &Options{}
	_ = tools.DoTagFunc(options, tools.SetDefaultValueIfNil)

	for _, opt := range opts {
		options = opt(options)
	}
	return options
}

// FillDefaults sets every zero field that has a default.
func (o *Options) FillDefaults() *Options {
	_ = tools.DoTagFunc(o, tools.SetDefaultValueIfNil)
	return o
}

func (o *Options) Apply(opts ...Option) *Options {
	options := o
	for _, opt := range opts {
		options = opt(options)
	}
	return options
}

func WithName(name string) Option {
	return func(opts *Options) *Options {
		opts.Name = name
		return opts
	}
}

func WithAddr(addr string) Option {
	return func(opts *Options) *Options {
		opts.Addr = addr
		return opts
	}
}

func WithStaticRoot(root string) Option {
	return func(opts *Options) *Options {
		opts.StaticRoot = root
		return opts
	}
}

func WithReadBufferSize(size int) Option {
	return func(opts *Options) *Options {
		opts.ReadBufferSize = size
		return opts
	}
}

func WithHeaderTraceID(headerTraceID string) Option {
	return func(opts *Options) *Options {
		opts.HeaderTraceID = headerTraceID
		return opts
	}
}

func WithQps(enable bool, qps int) Option {
	return func(opts *Options) *Options {
		opts.Qps = qps
		opts.LimiterEnabled = enable
		return opts
	}
}

func WithMetrics(enable bool, addr string) Option {
	return func(opts *Options) *Options {
		opts.EnableMetrics = enable
		if addr != "" {
			opts.MetricsAddr = addr
		}
		return opts
	}
}

func WithStatsCron(spec string) Option {
	return func(opts *Options) *Options {
		opts.StatsCron = spec
		return opts
	}
}
