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
	"errors"
	"io/fs"
)

// LoadConfig 读取yaml配置并填充default tag
func LoadConfig(filename string, v interface{}) error {
	if err := UnmarshalFileYaml(filename, v); err != nil {
		return err
	}

	return DoTagFunc(v, SetDefaultValueIfNil)
}

// LoadConfigOrDefault 配置文件不存在时只填充默认值
func LoadConfigOrDefault(filename string, v interface{}) (found bool, err error) {
	err = UnmarshalFileYaml(filename, v)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	found = err == nil

	return found, DoTagFunc(v, SetDefaultValueIfNil)
}
