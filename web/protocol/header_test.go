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

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderCaseInsensitive(t *testing.T) {
	h := Header{}
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, "", h.Get("missing"))

	h.Set("Content-Type", "text/html")
	assert.Equal(t, "text/html", h.Get("content-type"))
	assert.Equal(t, "text/html", h.Get("CONTENT-TYPE"))
	assert.True(t, h.Has(" content-type "))

	h.Set("CONTENT-type", "text/plain")
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "text/plain", h.Get("Content-Type"))

	h.Del("content-TYPE")
	assert.False(t, h.Has("Content-Type"))
	_, ok := h.Lookup("Content-Type")
	assert.False(t, ok)
}

func TestHeaderEmptyName(t *testing.T) {
	h := Header{}
	h.Set("  ", "value")
	assert.Equal(t, 0, h.Len())
}

func TestHeaderRangeOrder(t *testing.T) {
	h := Header{}
	h.Set("Server", "s")
	h.Set("content-type", "x")
	h.Set("Content-Type", "y")
	h.Set("Connection", "close")

	var names, values []string
	h.Range(func(name, value string) {
		names = append(names, name)
		values = append(values, value)
	})
	assert.Equal(t, []string{"Connection", "Content-Type", "Server"}, names)
	assert.Equal(t, []string{"close", "y", "s"}, values)
	assert.Equal(t, []string{"connection", "content-type", "server"}, h.Keys())
}

func TestHeaderClone(t *testing.T) {
	h := Header{}
	h.Set("A", "1")
	c := h.Clone()
	c.Set("A", "2")
	c.Set("B", "3")
	assert.Equal(t, "1", h.Get("a"))
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 2, c.Len())

	empty := Header{}
	ec := empty.Clone()
	assert.Equal(t, 0, ec.Len())
}
