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

package static

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/caiflower/minihttp/web/mime"
)

// ErrNotFound covers missing files and every name that would leave the root.
var ErrNotFound = errors.New("static: file not found")

// IOError is any read failure other than a missing file.
type IOError struct {
	Name string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("static: read %s: %v", e.Name, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FileServer serves files below a fixed root. It never writes to the filesystem, so one
// FileServer is shared by all connections.
type FileServer struct {
	root string
}

func NewFileServer(root string) *FileServer {
	return &FileServer{root: filepath.Clean(root)}
}

func (s *FileServer) Root() string {
	return s.root
}

// Serve reads the file named by rel, a slash separated path relative to the root.
// The error is ErrNotFound or *IOError.
func (s *FileServer) Serve(rel string) (contentType string, body []byte, err error) {
	full, err := s.resolve(rel)
	if err != nil {
		return "", nil, err
	}

	body, err = os.ReadFile(full)
	if err != nil {
		if isNotExist(err) {
			return "", nil, ErrNotFound
		}
		return "", nil, &IOError{Name: rel, Err: err}
	}

	return mime.ByFileName(rel), body, nil
}

func (s *FileServer) resolve(rel string) (string, error) {
	if rel == "" || strings.ContainsRune(rel, 0) {
		return "", ErrNotFound
	}
	// 拒绝绝对路径注入
	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, `\`) || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", ErrNotFound
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if !within(s.root, full) {
		return "", ErrNotFound
	}

	// symlinks may point outside the root even when the name does not
	realRoot, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		if isNotExist(err) {
			return "", ErrNotFound
		}
		return "", &IOError{Name: rel, Err: err}
	}
	realFull, err := filepath.EvalSymlinks(full)
	if err != nil {
		if isNotExist(err) {
			return "", ErrNotFound
		}
		return "", &IOError{Name: rel, Err: err}
	}
	if !within(realRoot, realFull) {
		return "", ErrNotFound
	}

	return realFull, nil
}

// within reports whether target is strictly below root. root itself does not count.
func within(root, target string) bool {
	r, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	if r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(r)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
