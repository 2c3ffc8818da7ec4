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

package router

import (
	"strings"

	"github.com/caiflower/minihttp/web/protocol"
)

const (
	RootPath     = "/"
	StaticPrefix = "/static/"
	SubmitPath   = "/submit"
)

// Outcome is the result of classifying a request. The set of implementations is closed:
// Welcome, ServeStatic, SubmitJSON, SubmitForm, UnsupportedMedia, NotFound and
// MethodNotAllowed.
type Outcome interface {
	Kind() string
	sealed()
}

type Welcome struct{}

// ServeStatic carries the part of the path after StaticPrefix.
type ServeStatic struct {
	Name string
}

type SubmitJSON struct {
	Payload []byte
}

type SubmitForm struct {
	Payload []byte
}

// UnsupportedMedia carries the media type token, "" when the header was absent.
type UnsupportedMedia struct {
	MediaType string
}

type NotFound struct {
	Path string
}

type MethodNotAllowed struct {
	Method protocol.Method
}

func (Welcome) Kind() string          { return "welcome" }
func (ServeStatic) Kind() string      { return "static" }
func (SubmitJSON) Kind() string       { return "submit_json" }
func (SubmitForm) Kind() string       { return "submit_form" }
func (UnsupportedMedia) Kind() string { return "unsupported_media" }
func (NotFound) Kind() string         { return "not_found" }
func (MethodNotAllowed) Kind() string { return "method_not_allowed" }

func (Welcome) sealed()          {}
func (ServeStatic) sealed()      {}
func (SubmitJSON) sealed()       {}
func (SubmitForm) sealed()       {}
func (UnsupportedMedia) sealed() {}
func (NotFound) sealed()         {}
func (MethodNotAllowed) sealed() {}

// Classify applies the dispatch rules in order; the first match wins. It does no I/O.
func Classify(req *protocol.Request) Outcome {
	switch req.Method {
	case protocol.MethodGet:
		if req.Path == RootPath {
			return Welcome{}
		}
		if strings.HasPrefix(req.Path, StaticPrefix) {
			return ServeStatic{Name: req.Path[len(StaticPrefix):]}
		}
	case protocol.MethodPost:
		if req.Path == SubmitPath {
			return ClassifySubmit(req)
		}
	default:
		return MethodNotAllowed{Method: req.Method}
	}
	return NotFound{Path: req.Path}
}
