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
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/caiflower/minihttp/pkg/logger"
	"github.com/caiflower/minihttp/web/protocol"
	"github.com/caiflower/minihttp/web/static"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	root := t.TempDir()
	assert.Nil(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>hi</h1>"), 0644))
	assert.Nil(t, os.WriteFile(filepath.Join(root, "logo.PNG"), []byte{0x89, 'P', 'N', 'G'}, 0644))
	assert.Nil(t, os.Mkdir(filepath.Join(root, "dir"), 0755))
	return NewRouter(static.NewFileServer(root), logger.DefaultLogger())
}

func mustParse(t *testing.T, raw string) *protocol.Request {
	t.Helper()
	req, err := protocol.Parse([]byte(raw))
	assert.Nil(t, err)
	return req
}

func TestRouteScenarios(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name        string
		raw         string
		code        int
		contentType string
		body        string
	}{
		{
			name:        "welcome",
			raw:         "GET / HTTP/1.1\r\n\r\n",
			code:        200,
			contentType: "text/plain",
			body:        WelcomeMessage,
		},
		{
			name:        "static file",
			raw:         "GET /static/index.html HTTP/1.1\r\n\r\n",
			code:        200,
			contentType: "text/html",
			body:        "<h1>hi</h1>",
		},
		{
			name:        "static file with query",
			raw:         "GET /static/index.html?v=2 HTTP/1.1\r\n\r\n",
			code:        200,
			contentType: "text/html",
			body:        "<h1>hi</h1>",
		},
		{
			name:        "static content type is case-insensitive",
			raw:         "GET /static/logo.PNG HTTP/1.1\r\n\r\n",
			code:        200,
			contentType: "image/png",
			body:        "\x89PNG",
		},
		{
			name:        "static missing",
			raw:         "GET /static/missing.html HTTP/1.1\r\n\r\n",
			code:        404,
			contentType: "text/plain",
			body:        "404 Not Found: /static/missing.html",
		},
		{
			name:        "static traversal",
			raw:         "GET /static/../../etc/passwd HTTP/1.1\r\n\r\n",
			code:        404,
			contentType: "text/plain",
			body:        "404 Not Found: /static/../../etc/passwd",
		},
		{
			name:        "static directory",
			raw:         "GET /static/dir HTTP/1.1\r\n\r\n",
			code:        500,
			contentType: "text/plain",
			body:        "500 Internal Server Error",
		},
		{
			name:        "submit json",
			raw:         "POST /submit HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{\"key\":\"value\"}",
			code:        200,
			contentType: "text/plain",
			body:        `Received JSON: {"key":"value"}`,
		},
		{
			name:        "submit json with charset",
			raw:         "POST /submit HTTP/1.1\r\ncontent-type: Application/JSON; charset=utf-8\r\n\r\n[1, 2]",
			code:        200,
			contentType: "text/plain",
			body:        "Received JSON: [1, 2]",
		},
		{
			name:        "submit form",
			raw:         "POST /submit HTTP/1.1\r\nContent-Type: application/x-www-form-urlencoded\r\n\r\na=1&b=%20x",
			code:        200,
			contentType: "text/plain",
			body:        "Received form data: a=1&b=%20x",
		},
		{
			name:        "submit json without body",
			raw:         "POST /submit HTTP/1.1\r\nContent-Type: application/json\r\n\r\n",
			code:        200,
			contentType: "text/plain",
			body:        "Received JSON: ",
		},
		{
			name:        "submit xml",
			raw:         "POST /submit HTTP/1.1\r\nContent-Type: text/xml\r\n\r\n<a/>",
			code:        415,
			contentType: "text/plain",
			body:        "415 Unsupported Media Type: text/xml",
		},
		{
			name:        "submit without content type",
			raw:         "POST /submit HTTP/1.1\r\n\r\nabc",
			code:        415,
			contentType: "text/plain",
			body:        "415 Unsupported Media Type: none",
		},
		{
			name:        "get unknown path",
			raw:         "GET /nothing HTTP/1.1\r\n\r\n",
			code:        404,
			contentType: "text/plain",
			body:        "404 Not Found: /nothing",
		},
		{
			name:        "get static without trailing slash",
			raw:         "GET /static HTTP/1.1\r\n\r\n",
			code:        404,
			contentType: "text/plain",
			body:        "404 Not Found: /static",
		},
		{
			name:        "post to root",
			raw:         "POST / HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{}",
			code:        404,
			contentType: "text/plain",
			body:        "404 Not Found: /",
		},
		{
			name:        "get submit",
			raw:         "GET /submit HTTP/1.1\r\n\r\n",
			code:        404,
			contentType: "text/plain",
			body:        "404 Not Found: /submit",
		},
		{
			name:        "put",
			raw:         "PUT / HTTP/1.1\r\n\r\n",
			code:        405,
			contentType: "text/plain",
			body:        "405 Method Not Allowed: PUT",
		},
		{
			name:        "lower-case method",
			raw:         "get / HTTP/1.1\r\n\r\n",
			code:        405,
			contentType: "text/plain",
			body:        "405 Method Not Allowed: get",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.Route(mustParse(t, tt.raw))
			assert.Equal(t, tt.code, resp.StatusCode())
			assert.Equal(t, protocol.StatusText(tt.code), resp.Reason())
			assert.Equal(t, tt.contentType, resp.Get("Content-Type"))
			assert.Equal(t, tt.body, string(resp.Body()))
			assert.Equal(t, strconv.Itoa(len(tt.body)), resp.Get("Content-Length"))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Outcome
	}{
		{"GET / HTTP/1.1\r\n\r\n", Welcome{}},
		{"GET /static/a/b.css HTTP/1.1\r\n\r\n", ServeStatic{Name: "a/b.css"}},
		{"GET /static/ HTTP/1.1\r\n\r\n", ServeStatic{Name: ""}},
		{"POST /submit HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{}", SubmitJSON{Payload: []byte("{}")}},
		{"POST /submit HTTP/1.1\r\nContent-Type: application/x-www-form-urlencoded\r\n\r\na=b", SubmitForm{Payload: []byte("a=b")}},
		{"POST /submit HTTP/1.1\r\nContent-Type: text/plain\r\n\r\nx", UnsupportedMedia{MediaType: "text/plain"}},
		{"POST /submit HTTP/1.1\r\n\r\n", UnsupportedMedia{MediaType: ""}},
		{"GET /x HTTP/1.1\r\n\r\n", NotFound{Path: "/x"}},
		{"POST /static/index.html HTTP/1.1\r\n\r\n", NotFound{Path: "/static/index.html"}},
		{"DELETE /submit HTTP/1.1\r\n\r\n", MethodNotAllowed{Method: "DELETE"}},
		{"HEAD / HTTP/1.1\r\n\r\n", MethodNotAllowed{Method: "HEAD"}},
	}

	for _, tt := range tests {
		got := Classify(mustParse(t, tt.raw))
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.want.Kind(), got.Kind())
	}
}

func TestStaticRootItselfIsNotFound(t *testing.T) {
	r := newTestRouter(t)
	resp := r.Route(mustParse(t, "GET /static/ HTTP/1.1\r\n\r\n"))
	assert.Equal(t, 404, resp.StatusCode())
}

type fakeFiles struct {
	err error
}

func (f fakeFiles) Serve(string) (string, []byte, error) {
	return "", nil, f.err
}

func TestStaticErrorsTranslate(t *testing.T) {
	req := mustParse(t, "GET /static/x.txt HTTP/1.1\r\n\r\n")

	notFound := NewRouter(fakeFiles{err: static.ErrNotFound}, nil)
	assert.Equal(t, 404, notFound.Route(req).StatusCode())

	ioErr := NewRouter(fakeFiles{err: &static.IOError{Name: "x.txt", Err: errors.New("disk on fire")}}, nil)
	resp := ioErr.Route(req)
	assert.Equal(t, 500, resp.StatusCode())
	assert.NotContains(t, string(resp.Body()), "disk on fire")

	noFiles := NewRouter(nil, nil)
	assert.Equal(t, 404, noFiles.Route(req).StatusCode())
}

// Every well-formed start line routes to one of the documented statuses.
func TestRouteIsTotal(t *testing.T) {
	r := newTestRouter(t)
	allowed := map[int]bool{200: true, 404: true, 405: true, 415: true, 500: true}

	methods := []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "get", "X"}
	paths := []string{"/", "/static/", "/static/index.html", "/static/../x", "/static/dir", "/submit", "/submit/", "*", "/%00", "//static/index.html"}
	contentTypes := []string{"", "Content-Type: application/json\r\n", "Content-Type: application/x-www-form-urlencoded\r\n", "Content-Type: image/png\r\n", "Content-Type: ;;;\r\n"}

	for _, m := range methods {
		for _, p := range paths {
			for _, ct := range contentTypes {
				raw := m + " " + p + " HTTP/1.1\r\n" + ct + "\r\nbody"
				resp := r.Route(mustParse(t, raw))
				assert.True(t, allowed[resp.StatusCode()], "%q -> %d", raw, resp.StatusCode())
				assert.Equal(t, strconv.Itoa(len(resp.Body())), resp.Get("Content-Length"), raw)
			}
		}
	}
}

func TestRouteIsIdempotent(t *testing.T) {
	r := newTestRouter(t)
	raws := []string{
		"GET / HTTP/1.1\r\n\r\n",
		"GET /static/index.html HTTP/1.1\r\n\r\n",
		"GET /static/missing HTTP/1.1\r\n\r\n",
		"POST /submit HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{}",
		"POST /submit HTTP/1.1\r\nContent-Type: text/xml\r\n\r\n<a/>",
		"PUT / HTTP/1.1\r\n\r\n",
		"GET /nope HTTP/1.1\r\n\r\n",
	}
	for _, raw := range raws {
		req := mustParse(t, raw)
		assert.Equal(t, r.Route(req).Bytes(), r.Route(req).Bytes(), raw)
	}
}

func TestSubmitHandler(t *testing.T) {
	h := NewSubmitHandler(nil)

	resp := h.Handle(mustParse(t, "POST /submit HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{not json"))
	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, "Received JSON: {not json", string(resp.Body()))

	resp = h.Handle(mustParse(t, "POST /submit HTTP/1.1\r\nContent-Type: application/x-www-form-urlencoded; charset=utf-8\r\n\r\nname=a+b"))
	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, "Received form data: name=a+b", string(resp.Body()))

	resp = h.Handle(mustParse(t, "POST /submit HTTP/1.1\r\nContent-Type: multipart/form-data; boundary=x\r\n\r\n--x"))
	assert.Equal(t, 415, resp.StatusCode())
	assert.Equal(t, "415 Unsupported Media Type: multipart/form-data", string(resp.Body()))
}

func TestSubmitHandlerRejectsForeignOutcome(t *testing.T) {
	h := NewSubmitHandler(nil)
	for _, o := range []Outcome{Welcome{}, NotFound{Path: "/x"}, ServeStatic{Name: "a"}} {
		resp := h.respond(o)
		assert.Equal(t, 500, resp.StatusCode())
		assert.Equal(t, "500 Internal Server Error", string(resp.Body()))
	}
}
