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

package limiter

import (
	"context"
	"time"
)

// 令牌桶 https://www.cnblogs.com/niumoo/p/16007224.html

type TokenBucket struct {
	qos    int
	clock  time.Duration
	bucket chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewTokenBucket(qos int) *TokenBucket {
	if qos <= 0 {
		qos = 1
	}
	l := &TokenBucket{
		qos:    qos,
		clock:  time.Second / time.Duration(qos),
		bucket: make(chan struct{}, qos),
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())

	return l
}

// Startup 填满令牌桶并按qos匀速补充
func (l *TokenBucket) Startup() {
	for i := 0; i < l.qos; i++ {
		l.bucket <- struct{}{}
	}

	go func(ctx context.Context) {
		ticker := time.NewTicker(l.clock)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case l.bucket <- struct{}{}:
				default:
					// bucket is full
				}
			}
		}
	}(l.ctx)
}

// Close 停止补充令牌，阻塞在TakeTokenContext上的调用方会返回false
func (l *TokenBucket) Close() {
	l.cancel()
}

func (l *TokenBucket) TakeToken() {
	<-l.bucket
}

func (l *TokenBucket) TakeTokenNonBlocking() bool {
	select {
	case <-l.bucket:
		return true
	default:
		return false
	}
}

func (l *TokenBucket) TakeTokenWithTimeout(timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return l.TakeTokenContext(ctx)
}

func (l *TokenBucket) TakeTokenContext(ctx context.Context) bool {
	select {
	case <-l.bucket:
		return true
	case <-ctx.Done():
		return false
	case <-l.ctx.Done():
		return false
	}
}
