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
	"strings"
)

var (
	ErrEmptyRequest       = errors.New("protocol: empty request")
	ErrMalformedStartLine = errors.New("protocol: malformed start line")
)

// Parse builds a Request from the bytes of a single socket read.
//
// The body is whatever followed the blank line in raw. Content-Length is not consulted, so a
// body cut short by the read stays short and extra bytes are kept.
func Parse(raw []byte) (*Request, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyRequest
	}

	line, rest, _ := cutLine(raw)
	req, err := parseStartLine(line)
	if err != nil {
		return nil, err
	}

	for len(rest) > 0 {
		var found bool
		line, rest, found = cutLine(rest)
		if len(line) == 0 {
			// 空行之后全部是body
			if found && len(rest) > 0 {
				req.Body = append([]byte(nil), rest...)
			}
			break
		}
		parseHeaderLine(&req.Header, line)
	}

	return req, nil
}

func parseStartLine(line []byte) (*Request, error) {
	fields := strings.Fields(string(line))
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedStartLine, line)
	}

	path, query := fields[1], ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, query = path[:i], path[i+1:]
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty request target", ErrMalformedStartLine)
	}

	return &Request{
		Method:   Method(fields[0]),
		Path:     path,
		RawQuery: query,
		Version:  fields[2],
	}, nil
}

// lines without a colon or with an empty name are skipped
func parseHeaderLine(h *Header, line []byte) {
	i := bytes.IndexByte(line, ':')
	if i < 0 {
		return
	}
	name := strings.TrimSpace(string(line[:i]))
	if name == "" {
		return
	}
	h.Set(name, strings.TrimSpace(string(line[i+1:])))
}

// cutLine splits b after the first LF. The terminator (CRLF or bare LF) is not part of line.
func cutLine(b []byte) (line, rest []byte, found bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return bytes.TrimSuffix(b, []byte{'\r'}), nil, false
	}
	return bytes.TrimSuffix(b[:i], []byte{'\r'}), b[i+1:], true
}
