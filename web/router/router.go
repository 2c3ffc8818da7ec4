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
	"errors"
	"net/http"

	"github.com/caiflower/minihttp/pkg/logger"
	"github.com/caiflower/minihttp/web/protocol"
	"github.com/caiflower/minihttp/web/static"
)

const WelcomeMessage = "Welcome to the homepage!"

// FileSource is what the router needs from the static file server.
type FileSource interface {
	Serve(rel string) (contentType string, body []byte, err error)
}

// Router turns every request into a response; it never fails. Apart from reading static
// files it keeps no state, so one Router is shared by all connections.
type Router struct {
	files  FileSource
	submit *SubmitHandler
	logger logger.ILog
}

func NewRouter(files FileSource, log logger.ILog) *Router {
	if log == nil {
		log = logger.DefaultLogger()
	}
	return &Router{
		files:  files,
		submit: NewSubmitHandler(log),
		logger: log,
	}
}

func (r *Router) Route(req *protocol.Request) *protocol.Response {
	resp, _ := r.Dispatch(req)
	return resp
}

// Dispatch is Route that also reports how the request was classified.
func (r *Router) Dispatch(req *protocol.Request) (*protocol.Response, Outcome) {
	o := Classify(req)
	return r.Respond(o), o
}

func (r *Router) Respond(o Outcome) *protocol.Response {
	switch o := o.(type) {
	case Welcome:
		return protocol.NewTextResponse(http.StatusOK, WelcomeMessage)
	case ServeStatic:
		return r.serveStatic(o.Name)
	case SubmitJSON, SubmitForm, UnsupportedMedia:
		return r.submit.respond(o)
	case NotFound:
		return protocol.NewTextResponse(http.StatusNotFound, "404 Not Found: "+o.Path)
	case MethodNotAllowed:
		return protocol.NewTextResponse(http.StatusMethodNotAllowed, "405 Method Not Allowed: "+o.Method.String())
	default:
		r.logger.Error("Unknown route outcome %T", o)
		return internalError()
	}
}

func (r *Router) serveStatic(name string) *protocol.Response {
	if r.files == nil {
		return protocol.NewTextResponse(http.StatusNotFound, "404 Not Found: "+StaticPrefix+name)
	}

	contentType, body, err := r.files.Serve(name)
	if err == nil {
		return protocol.NewResponse(http.StatusOK, contentType, body)
	}
	if errors.Is(err, static.ErrNotFound) {
		return protocol.NewTextResponse(http.StatusNotFound, "404 Not Found: "+StaticPrefix+name)
	}

	// 原因只记日志，不返回给客户端
	r.logger.Error("Serve static file %s failed. Error: %s", name, err.Error())
	return internalError()
}

func internalError() *protocol.Response {
	return protocol.NewTextResponse(http.StatusInternalServerError, "500 Internal Server Error")
}
