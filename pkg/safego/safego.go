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

package safego

import "github.com/caiflower/minihttp/pkg/e"

func Go(fn func()) {
	go func() {
		defer e.OnError("safeGo")

		fn()
	}()
}

// GoWithRecover panic被恢复后执行onPanic
func GoWithRecover(fn func(), onPanic func(r interface{})) {
	go func() {
		defer e.OnErrorFunc("safeGo", onPanic)

		fn()
	}()
}
