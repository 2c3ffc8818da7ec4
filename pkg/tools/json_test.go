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
	"testing"

	"github.com/stretchr/testify/assert"
)

type SearchRequest struct {
	Query      string   `json:"query,omitempty"`
	PageNumber int32    `json:"page_number,omitempty"`
	Hobby      []string `json:"hobby,omitempty"`
}

func TestUnmarshal(t *testing.T) {
	req := &SearchRequest{}
	jsonStr := "{\"query\":\"query\",\"page_number\":1,\"hobby\":[\"hobby1\",\"hobby2\"]}"
	_ = Unmarshal([]byte(jsonStr), req)
	assert.Equal(t, req.Query, "query")
	assert.EqualValues(t, req.PageNumber, 1)
	assert.Equal(t, req.Hobby, []string{"hobby1", "hobby2"})
}

func TestMarshal(t *testing.T) {
	req := &SearchRequest{
		Query:      "query",
		PageNumber: 1,
		Hobby:      []string{"hobby1", "hobby2"},
	}
	jsonStr := "{\"query\":\"query\",\"page_number\":1,\"hobby\":[\"hobby1\",\"hobby2\"]}"
	assert.Equal(t, jsonStr, ToJson(req))
}

func TestValidJson(t *testing.T) {
	assert.True(t, ValidJson([]byte(`{"key":"value"}`)))
	assert.True(t, ValidJson([]byte(`[1,2,3]`)))
	assert.False(t, ValidJson([]byte(`{"key":`)))
	assert.False(t, ValidJson([]byte(`a=1&b=2`)))
}
