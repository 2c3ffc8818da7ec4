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

package crontab

import (
	"fmt"

	"github.com/caiflower/minihttp/pkg/logger"
	"github.com/robfig/cron/v3"
)

type CronManger struct {
	name   string
	cron   *cron.Cron
	logger logger.ILog
}

// NewCronTabManger 同时支持5位、6位(带秒)表达式以及@every等描述符
func NewCronTabManger(name string, log logger.ILog) *CronManger {
	if log == nil {
		log = logger.DefaultLogger()
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &CronManger{
		name:   name,
		logger: log,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.Recover(cronLogger{log})),
		),
	}
}

func (c *CronManger) Name() string {
	return fmt.Sprintf("CRONTAB:%s", c.name)
}

func (c *CronManger) Start() error {
	c.cron.Start()
	return nil
}

func (c *CronManger) Close() {
	<-c.cron.Stop().Done()
}

func (c *CronManger) AddFunc(spec string, fn func()) (cron.EntryID, error) {
	eid, err := c.cron.AddFunc(spec, fn)
	if err != nil {
		c.logger.Error("[Crontab] Add crontab failed. spec=%s. err=%v", spec, err)
		return eid, err
	}
	c.logger.Info("[Crontab] Add crontab. spec=%s. jobId=%v", spec, eid)
	return eid, nil
}

func (c *CronManger) RemoveCronJob(id cron.EntryID) {
	c.cron.Remove(id)
}

func (c *CronManger) EntryCount() int {
	return len(c.cron.Entries())
}

type cronLogger struct {
	log logger.ILog
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("[Crontab] %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("[Crontab] %s %v. err=%v", msg, keysAndValues, err)
}
