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

package service

import (
	"fmt"
)

// NotFoundError reports a resource the engine does not know.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

// NotFound builds a *NotFoundError.
func NotFound(kind string, name interface{}) error {
	return &NotFoundError{Kind: kind, Name: fmt.Sprint(name)}
}

// UnavailableError reports that no engine serves a container.
type UnavailableError struct {
	Container string
	Reason    string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("network management service unavailable for container %s", e.Container)
	}
	return fmt.Sprintf("network management service unavailable for container %s: %s", e.Container, e.Reason)
}
