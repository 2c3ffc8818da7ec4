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

package global

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/caiflower/minihttp/pkg/logger"
)

// DefaultResourceManger
// 用于守护进程的优雅退出，如HTTP Server、metrics、crontab

type Resource interface {
	Close()
}

type DaemonResource interface {
	Resource
	Name() string
	Start() error
}

const defaultOrder = 100000

type packageResource struct {
	resource Resource
	daemon   DaemonResource
	order    int
}

func (p *packageResource) Name() string {
	if p.daemon != nil {
		return p.daemon.Name()
	}
	return fmt.Sprintf("%T", p.resource)
}

func (p *packageResource) Close() {
	if p.daemon != nil {
		p.daemon.Close()
	} else {
		p.resource.Close()
	}
}

func (p *packageResource) Start() error {
	if p.daemon != nil {
		return p.daemon.Start()
	}
	return nil
}

type ResourceManger struct {
	lock      sync.Mutex
	resources []*packageResource
	started   []*packageResource
	running   bool
}

var DefaultResourceManger = NewResourceManger()

func NewResourceManger() *ResourceManger {
	return &ResourceManger{}
}

// Add 普通资源只在退出时关闭，最后关闭
func (rm *ResourceManger) Add(resource Resource) {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	for _, v := range rm.resources {
		if v.resource == resource {
			return
		}
	}
	rm.resources = append(rm.resources, &packageResource{resource: resource, order: 1000000000})
}

// AddDaemonWithOrder order越大越先启动，关闭顺序相反
func (rm *ResourceManger) AddDaemonWithOrder(daemon DaemonResource, order int) {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	for _, v := range rm.resources {
		if v.daemon == daemon {
			return
		}
	}
	rm.resources = append(rm.resources, &packageResource{daemon: daemon, order: order})
}

func (rm *ResourceManger) AddDaemon(daemon DaemonResource) {
	rm.AddDaemonWithOrder(daemon, defaultOrder)
}

// Start starts every daemon. When one fails the ones already started are closed.
func (rm *ResourceManger) Start() error {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	if rm.running {
		return nil
	}

	sort.SliceStable(rm.resources, func(i, j int) bool {
		return rm.resources[i].order > rm.resources[j].order
	})

	rm.started = rm.started[:0]
	for _, resource := range rm.resources {
		if err := resource.Start(); err != nil {
			rm.closeStarted()
			return fmt.Errorf("start '%s' resource failed: %w", resource.Name(), err)
		}
		rm.started = append(rm.started, resource)
	}
	rm.running = true
	return nil
}

// Destroy closes every started resource in reverse start order.
func (rm *ResourceManger) Destroy() {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	if !rm.running {
		return
	}
	rm.closeStarted()
	rm.running = false
}

func (rm *ResourceManger) closeStarted() {
	for i := len(rm.started) - 1; i >= 0; i-- {
		logger.Info("Close resource %s", rm.started[i].Name())
		rm.started[i].Close()
	}
	rm.started = rm.started[:0]
}

// Signal starts all resources and blocks until SIGHUP, SIGINT, SIGTERM or SIGQUIT.
func (rm *ResourceManger) Signal() error {
	sign := make(chan os.Signal, 1)
	signal.Notify(sign, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sign)

	if err := rm.Start(); err != nil {
		return err
	}

	s := <-sign
	logger.Info("Accept signal %s. The application is shutting down...", s)
	rm.Destroy()
	return nil
}
