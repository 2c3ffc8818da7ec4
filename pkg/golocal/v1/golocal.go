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

// Package v1 keeps per-goroutine values, mainly the trace id printed by the logger.
package v1

import (
	"sync"

	"github.com/modern-go/gls"
)

const (
	RequestID  = "X-Request-ID"
	RemoteAddr = "Remote-Addr"
)

var localMap sync.Map

func getMapByGoID(goID int64) *sync.Map {
	value, _ := localMap.Load(goID)
	if value == nil {
		_tmp := &sync.Map{}
		localMap.Store(goID, _tmp)
		return _tmp
	}
	return value.(*sync.Map)
}

func current() *sync.Map {
	return getMapByGoID(gls.GoID())
}

func PutTraceID(value string) {
	current().Store(RequestID, value)
}

func GetTraceID() string {
	value, ok := localMap.Load(gls.GoID())
	if !ok {
		return ""
	}
	if v, ok := value.(*sync.Map).Load(RequestID); ok {
		return v.(string)
	}
	return ""
}

func Put(key string, value interface{}) {
	current().Store(key, value)
}

func Get(key string) interface{} {
	if v, ok := current().Load(key); ok {
		return v
	}
	return nil
}

// Clean 协程退出前必须调用，否则localMap会泄漏
func Clean() {
	localMap.Delete(gls.GoID())
}
