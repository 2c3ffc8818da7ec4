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

package router

import (
	"net/http"

	"github.com/caiflower/minihttp/pkg/logger"
	"github.com/caiflower/minihttp/pkg/tools"
	"github.com/caiflower/minihttp/web/protocol"
)

const (
	MediaTypeJSON = "application/json"
	MediaTypeForm = "application/x-www-form-urlencoded"

	receivedJSONPrefix = "Received JSON: "
	receivedFormPrefix = "Received form data: "
)

// ClassifySubmit picks the submit outcome from the media type token of Content-Type.
// The payload is the request body as received.
func ClassifySubmit(req *protocol.Request) Outcome {
	switch mediaType := req.MediaType(); mediaType {
	case MediaTypeJSON:
		return SubmitJSON{Payload: req.Body}
	case MediaTypeForm:
		return SubmitForm{Payload: req.Body}
	default:
		return UnsupportedMedia{MediaType: mediaType}
	}
}

// SubmitHandler acknowledges POST /submit. Payloads are echoed back byte for byte and
// never decoded.
type SubmitHandler struct {
	logger logger.ILog
}

func NewSubmitHandler(log logger.ILog) *SubmitHandler {
	if log == nil {
		log = logger.DefaultLogger()
	}
	return &SubmitHandler{logger: log}
}

func (h *SubmitHandler) Handle(req *protocol.Request) *protocol.Response {
	return h.respond(ClassifySubmit(req))
}

func (h *SubmitHandler) respond(o Outcome) *protocol.Response {
	switch o := o.(type) {
	case SubmitJSON:
		h.logger.Info("Received JSON payload. size=%d", len(o.Payload))
		h.logger.Debug("JSON payload well-formed=%v", tools.ValidJson(o.Payload))
		return echo(receivedJSONPrefix, o.Payload)
	case SubmitForm:
		h.logger.Info("Received form-encoded payload. size=%d", len(o.Payload))
		return echo(receivedFormPrefix, o.Payload)
	case UnsupportedMedia:
		mediaType := o.MediaType
		if mediaType == "" {
			mediaType = "none"
		}
		h.logger.Warn("Unsupported Content-Type: %s", mediaType)
		return protocol.NewTextResponse(http.StatusUnsupportedMediaType, "415 Unsupported Media Type: "+mediaType)
	default:
		h.logger.Error("Unexpected submit outcome %T", o)
		return internalError()
	}
}

func echo(prefix string, payload []byte) *protocol.Response {
	body := make([]byte, 0, len(prefix)+len(payload))
	body = append(body, prefix...)
	body = append(body, payload...)
	return protocol.NewResponse(http.StatusOK, protocol.ContentTypeText, body)
}
