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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, "default", o.Name)
	assert.Equal(t, "127.0.0.1:8080", o.Addr)
	assert.Equal(t, "tcp", o.Network)
	assert.Equal(t, "./static", o.StaticRoot)
	assert.Equal(t, 4096, o.ReadBufferSize)
	assert.Equal(t, "X-Request-Id", o.HeaderTraceID)
	assert.False(t, o.LimiterEnabled)
	assert.Equal(t, 1000, o.Qps)
	assert.False(t, o.EnableMetrics)
	assert.Equal(t, "@every 1m", o.StatsCron)
}

func TestNewOptionsWith(t *testing.T) {
	o := NewOptions(
		WithName("test"),
		WithAddr(":0"),
		WithStaticRoot("/srv/www"),
		WithReadBufferSize(512),
		WithHeaderTraceID("X-Trace-ID"),
		WithQps(true, 10),
		WithMetrics(true, ""),
		WithStatsCron("@every 5s"),
	)
	assert.Equal(t, "test", o.Name)
	assert.Equal(t, ":0", o.Addr)
	assert.Equal(t, "/srv/www", o.StaticRoot)
	assert.Equal(t, 512, o.ReadBufferSize)
	assert.Equal(t, "X-Trace-ID", o.HeaderTraceID)
	assert.True(t, o.LimiterEnabled)
	assert.Equal(t, 10, o.Qps)
	assert.True(t, o.EnableMetrics)
	assert.Equal(t, "127.0.0.1:9090", o.MetricsAddr)
	assert.Equal(t, "@every 5s", o.StatsCron)
}

func TestFillDefaults(t *testing.T) {
	o := (&Options{Addr: ":9999"}).FillDefaults().Apply(WithName("filled"))
	assert.Equal(t, ":9999", o.Addr)
	assert.Equal(t, "filled", o.Name)
	assert.Equal(t, 4096, o.ReadBufferSize)
}
