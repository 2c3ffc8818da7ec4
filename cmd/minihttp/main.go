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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/caiflower/minihttp/global"
	globalconfig "github.com/caiflower/minihttp/global/config"
	"github.com/caiflower/minihttp/pkg/crontab"
	"github.com/caiflower/minihttp/pkg/logger"
	"github.com/caiflower/minihttp/pkg/tools"
	"github.com/caiflower/minihttp/web/server"
	"github.com/caiflower/minihttp/web/server/config"
)

func main() {
	cfg, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "minihttp: %v\n", err)
		os.Exit(2)
	}

	if err = start(global.DefaultResourceManger, cfg); err != nil {
		os.Exit(1)
	}
}

// start 初始化日志并阻塞到收到退出信号，返回前刷新日志
func start(rm *global.ResourceManger, cfg *globalconfig.DefaultConfig) error {
	logger.InitLogger(&cfg.LoggerConfig)
	defer logger.DefaultLogger().Close()

	logger.Info("Load config: %s", tools.ToJson(cfg))
	if err := run(rm, cfg); err != nil {
		logger.Error("minihttp exit. Error: %s", err.Error())
		return err
	}
	return nil
}

// loadConfig 命令行参数优先于配置文件
func loadConfig(args []string, output io.Writer) (*globalconfig.DefaultConfig, error) {
	fs := flag.NewFlagSet("minihttp", flag.ContinueOnError)
	fs.SetOutput(output)
	configFile := fs.String("config", "", "yaml config file, default ${CONFIG_PATH}/default.yaml")
	addr := fs.String("addr", "", "listen address, e.g. 127.0.0.1:8080")
	staticRoot := fs.String("static", "", "directory served under /static/")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &globalconfig.DefaultConfig{}
	var err error
	if *configFile != "" {
		var found bool
		found, err = globalconfig.LoadConfig(*configFile, cfg)
		if err == nil && !found {
			err = fmt.Errorf("config file %s not found", *configFile)
		}
	} else {
		_, err = globalconfig.LoadDefaultConfig(cfg)
	}
	if err != nil {
		return nil, err
	}

	var opts []config.Option
	if *addr != "" {
		opts = append(opts, config.WithAddr(*addr))
	}
	if *staticRoot != "" {
		opts = append(opts, config.WithStaticRoot(*staticRoot))
	}
	cfg.ServerConfig.Apply(opts...)

	return cfg, nil
}

func run(rm *global.ResourceManger, cfg *globalconfig.DefaultConfig) error {
	httpServer := server.NewHttpServer(cfg.ServerConfig)
	rm.AddDaemonWithOrder(httpServer, 200)

	if cfg.ServerConfig.StatsCron != "" {
		cron := crontab.NewCronTabManger("stats", logger.DefaultLogger())
		if _, err := cron.AddFunc(cfg.ServerConfig.StatsCron, httpServer.ReportStats); err != nil {
			return err
		}
		rm.AddDaemonWithOrder(cron, 100)
	}

	return rm.Signal()
}
