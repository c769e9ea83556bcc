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

import "fmt"

// ValidationError reports a field value that cannot be accepted while a
// resource is being constructed. It always maps to a client error.
type ValidationError struct {
	Resource string
	Field    string
	Value    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s %q: %s", e.Resource, e.Field, e.Value, e.Reason)
}

func invalid(resource, field string, value interface{}, format string, args ...interface{}) error {
	return &ValidationError{
		Resource: resource,
		Field:    field,
		Value:    fmt.Sprint(value),
		Reason:   fmt.Sprintf(format, args...),
	}
}
