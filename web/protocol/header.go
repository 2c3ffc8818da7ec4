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
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderConnection    = "Connection"
	HeaderServer        = "Server"
)

// Header is a case-insensitive header map. Keys are lower-cased on every access and a
// repeated name replaces the earlier value. The name as last written is kept for the wire.
// The zero value is ready to use.
type Header struct {
	kv map[string]argsKV
}

type argsKV struct {
	key   string
	value string
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (h *Header) Set(name, value string) {
	key := normalizeKey(name)
	if key == "" {
		return
	}
	if h.kv == nil {
		h.kv = make(map[string]argsKV)
	}
	h.kv[key] = argsKV{key: strings.TrimSpace(name), value: value}
}

func (h *Header) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

func (h *Header) Lookup(name string) (string, bool) {
	kv, ok := h.kv[normalizeKey(name)]
	return kv.value, ok
}

func (h *Header) Has(name string) bool {
	_, ok := h.kv[normalizeKey(name)]
	return ok
}

func (h *Header) Del(name string) {
	delete(h.kv, normalizeKey(name))
}

func (h *Header) Len() int {
	return len(h.kv)
}

// Keys returns the normalized keys in ascending order.
func (h *Header) Keys() []string {
	keys := maps.Keys(h.kv)
	slices.Sort(keys)
	return keys
}

// Range calls fn for each header in key order with the name as it was written.
func (h *Header) Range(fn func(name, value string)) {
	for _, k := range h.Keys() {
		kv := h.kv[k]
		fn(kv.key, kv.value)
	}
}

func (h *Header) Clone() Header {
	c := Header{}
	if h.kv != nil {
		c.kv = maps.Clone(h.kv)
	}
	return c
}
