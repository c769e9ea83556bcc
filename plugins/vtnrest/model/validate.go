// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// vlanTag is the validate tag of every VLAN id field.
const vlanTag = "min=0,max=4095"

var resourceNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_]{0,30}$`)

// validate checks the validate tags of the resource types. Fields are
// reported by their json key.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	if err := v.RegisterValidation("vtnname", func(fl validator.FieldLevel) bool {
		return resourceNameRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// checkStruct runs the validate tags of v and reports the first failure as
// a ValidationError of resource.
func checkStruct(resource string, v interface{}) error {
	return validationError(resource, "", validate.Struct(v))
}

// checkVar validates a single value against tag.
func checkVar(resource, field string, value interface{}, tag string) error {
	return validationError(resource, field, validate.Var(value, tag))
}

func validationError(resource, field string, err error) error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	if ns := fe.Namespace(); ns != "" {
		// drop the type name
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			field = ns[i+1:]
		}
	}
	value := ""
	if v := fe.Value(); v != nil {
		value = fmt.Sprint(v)
	}
	return &ValidationError{Resource: resource, Field: field, Value: value, Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return fmt.Sprintf("is required when %s is not given", strings.ToLower(fe.Param()))
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gtefield":
		return fmt.Sprintf("must not be below %s", strings.ToLower(fe.Param()))
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "vtnname":
		return "must match " + resourceNameRe.String()
	}
	return fmt.Sprintf("failed the %s check", fe.Tag())
}
