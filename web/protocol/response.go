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
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const (
	Version11  = "HTTP/1.1"
	ServerName = "minihttp"

	ContentTypeText = "text/plain"
)

var ErrMalformedStatusLine = errors.New("protocol: malformed status line")

// Response is built once and never changed. Content-Length always equals len(body).
type Response struct {
	statusCode int
	reason     string
	header     Header
	body       []byte
}

func NewResponse(statusCode int, contentType string, body []byte) *Response {
	resp := &Response{
		statusCode: statusCode,
		reason:     StatusText(statusCode),
		body:       append([]byte(nil), body...),
	}
	resp.header.Set(HeaderContentType, contentType)
	resp.header.Set(HeaderContentLength, strconv.Itoa(len(resp.body)))
	// 每个连接只处理一个请求
	resp.header.Set(HeaderConnection, "close")
	resp.header.Set(HeaderServer, ServerName)
	return resp
}

func NewTextResponse(statusCode int, text string) *Response {
	return NewResponse(statusCode, ContentTypeText, []byte(text))
}

// StatusText returns the canonical reason phrase, "Unknown" for unregistered codes.
func StatusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown"
}

func (resp *Response) StatusCode() int {
	return resp.statusCode
}

func (resp *Response) Reason() string {
	return resp.reason
}

func (resp *Response) Get(name string) string {
	return resp.header.Get(name)
}

func (resp *Response) Header() Header {
	return resp.header.Clone()
}

func (resp *Response) Body() []byte {
	return append([]byte(nil), resp.body...)
}

func (resp *Response) ContentLength() int {
	return len(resp.body)
}

func (resp *Response) StatusLine() string {
	return fmt.Sprintf("%s %d %s", Version11, resp.statusCode, resp.reason)
}

// Bytes serializes the response. Headers are written in key order so equal responses are
// byte-identical.
func (resp *Response) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(128 + len(resp.body))

	buf.WriteString(resp.StatusLine())
	buf.WriteString("\r\n")
	resp.header.Range(func(name, value string) {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	})
	buf.WriteString("\r\n")
	buf.Write(resp.body)

	return buf.Bytes()
}

// WriteTo writes the whole response with a single Write call.
func (resp *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(resp.Bytes())
	return int64(n), err
}

// ParseStatusLine splits "HTTP/1.1 404 Not Found" into its parts. A trailing CRLF is allowed.
func ParseStatusLine(line string) (version string, code int, reason string, err error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 {
		return "", 0, "", fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}

	code, err = strconv.Atoi(fields[1])
	if err != nil || code < 100 || code > 599 {
		return "", 0, "", fmt.Errorf("%w: invalid status code %q", ErrMalformedStatusLine, fields[1])
	}
	return fields[0], code, fields[2], nil
}
