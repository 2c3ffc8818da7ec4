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
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/modern-go/reflect2"
)

var durationType = reflect.TypeOf(time.Duration(0))

// DoTagFunc 对结构体指针的每个字段依次执行fn
func DoTagFunc(v interface{}, fn ...func(reflect.StructField, reflect.Value) error) error {
	if reflect2.IsNil(v) {
		return nil
	}

	vType := reflect2.TypeOf(v).Type1()
	if vType.Kind() != reflect.Ptr || vType.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("DoTagFunc requires a pointer to struct, got %s", vType)
	}

	indirect := reflect.Indirect(reflect.ValueOf(v))
	for i := 0; i < indirect.NumField(); i++ {
		field := indirect.Field(i)
		fieldStruct := vType.Elem().Field(i)
		if !field.CanSet() {
			continue
		}

		for _, f := range fn {
			if err := f(fieldStruct, field); err != nil {
				return err
			}
		}
	}

	return nil
}

// SetDefaultValueIfNil 字段为零值时使用default tag的值填充，嵌套结构体递归处理
func SetDefaultValueIfNil(structField reflect.StructField, vValue reflect.Value) error {
	tag, hasDefault := structField.Tag.Lookup("default")

	switch vValue.Kind() {
	case reflect.Struct:
		t := structField.Type
		for i := 0; i < t.NumField(); i++ {
			if !vValue.Field(i).CanSet() {
				continue
			}
			if err := SetDefaultValueIfNil(t.Field(i), vValue.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr:
		if vValue.IsNil() {
			if !hasDefault {
				return nil
			}
			vValue.Set(reflect.New(structField.Type.Elem()))
			return setValue(structField.Name, tag, vValue.Elem())
		}
		if vValue.Elem().Kind() == reflect.Struct {
			elem := vValue.Elem()
			for i := 0; i < elem.NumField(); i++ {
				if !elem.Field(i).CanSet() {
					continue
				}
				if err := SetDefaultValueIfNil(elem.Type().Field(i), elem.Field(i)); err != nil {
					return err
				}
			}
		}
		return nil
	}

	// 非指针的bool无法区分"未配置"与false，只支持*bool
	if !hasDefault || vValue.Kind() == reflect.Bool || !vValue.IsZero() {
		return nil
	}
	return setValue(structField.Name, tag, vValue)
}

func setValue(name, tag string, vValue reflect.Value) error {
	switch vValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if vValue.Type() == durationType {
			d, err := time.ParseDuration(tag)
			if err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			vValue.SetInt(int64(d))
			return nil
		}
		v, err := strconv.ParseInt(tag, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		vValue.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(tag, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		vValue.SetUint(v)
	case reflect.String:
		vValue.SetString(tag)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(tag, 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		vValue.SetFloat(v)
	case reflect.Bool:
		v, err := strconv.ParseBool(tag)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		vValue.SetBool(v)
	default:
	}
	return nil
}
