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

import "strings"

type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Dispatchable reports whether the router has rules for m. Other methods are kept
// verbatim for error reporting.
func (m Method) Dispatchable() bool {
	return m == MethodGet || m == MethodPost
}

func (m Method) String() string {
	return string(m)
}

// Request is one parsed HTTP/1.1 request. Method and Path are never empty.
type Request struct {
	Method   Method
	Path     string // request target up to '?', not decoded
	RawQuery string
	Version  string
	Header   Header
	Body     []byte // nil when nothing followed the blank line
}

func (r *Request) HasBody() bool {
	return len(r.Body) > 0
}

// MediaType returns the lower-cased Content-Type without parameters, "" if absent.
func (r *Request) MediaType() string {
	ct, ok := r.Header.Lookup(HeaderContentType)
	if !ok {
		return ""
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
