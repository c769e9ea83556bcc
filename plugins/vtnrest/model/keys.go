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

// NorthboundPrefix is the base for all VTN resources
func NorthboundPrefix() string {
	return "/controller/nb/v2/vtn"
}

// ContainerPrefix provides the resource prefix of one container
func ContainerPrefix(containerName string) string {
	return NorthboundPrefix() + "/" + containerName + "/"
}

// DefaultContainerName is the only container a stock controller exposes
const DefaultContainerName = "default"
