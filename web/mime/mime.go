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

// Package mime maps file extensions to Content-Type values with a fixed table, so the
// result never depends on the host's mime.types files.
package mime

import (
	"path/filepath"
	"strings"
)

const OctetStream = "application/octet-stream"

var types = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"mjs":  "application/javascript",
	"json": "application/json",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"webp": "image/webp",
	"txt":  "text/plain",
	"xml":  "application/xml",
	"pdf":  "application/pdf",
	"wasm": "application/wasm",
}

// Resolve accepts the extension with or without its leading dot, in any case.
func Resolve(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, ok := types[ext]; ok {
		return t
	}
	return OctetStream
}

// ByFileName resolves the final dotted suffix of name.
func ByFileName(name string) string {
	return Resolve(filepath.Ext(name))
}
