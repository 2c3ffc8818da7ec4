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

package tools

import (
	"strings"

	"github.com/google/uuid"
)

func UUID() string {
	return strings.Replace(uuid.NewString(), "-", "", 4)
}

// TraceID 连接级别的追踪ID，prefix为空时返回纯UUID
func TraceID(prefix string) string {
	if prefix == "" {
		return UUID()
	}
	return prefix + "-" + UUID()[:16]
}
