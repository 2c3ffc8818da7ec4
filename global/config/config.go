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

package config

import (
	"path/filepath"

	"github.com/caiflower/minihttp/global/env"
	"github.com/caiflower/minihttp/pkg/logger"
	"github.com/caiflower/minihttp/pkg/tools"
	serverconfig "github.com/caiflower/minihttp/web/server/config"
)

const DefaultFileName = "default.yaml"

type DefaultConfig struct {
	LoggerConfig logger.Config        `yaml:"logger"`
	ServerConfig serverconfig.Options `yaml:"server"`
}

// LoadDefaultConfig 读取 ${CONFIG_PATH}/default.yaml，文件不存在时全部使用默认值
func LoadDefaultConfig(v *DefaultConfig) (found bool, err error) {
	return LoadConfig(filepath.Join(env.ConfigPath, DefaultFileName), v)
}

func LoadConfig(filename string, v *DefaultConfig) (found bool, err error) {
	return tools.LoadConfigOrDefault(filename, v)
}
