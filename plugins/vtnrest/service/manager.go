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

// Package service is the boundary between the northbound REST layer and the
// network management engine that owns the virtual network configuration.
package service

import (
	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
)

// Manager is the network management engine of one container. Every call
// is synchronous; a failure is a *NotFoundError, an *UnavailableError or
// an unexpected engine fault.
type Manager interface {
	Tenants() ([]model.VTenant, error)
	Tenant(name string) (model.VTenant, error)
	Bridges(tenant string) ([]model.VBridge, error)
	Terminals(tenant string) ([]model.VTerminal, error)
	Interfaces(path NodePath) ([]model.VInterface, error)
	VlanMaps(path BridgePath) ([]model.VlanMap, error)

	// MacMap returns the configured MAC mapping of a vBridge together with
	// the hosts currently mapped through it.
	MacMap(path BridgePath) (model.MacMapInfo, error)
	// ResolveMapping replaces the MAC mapping of a vBridge and returns the
	// result as resolved by the engine.
	ResolveMapping(path BridgePath, policy model.MacMapPolicy) (model.MacMapInfo, error)
	// MacEntries lists the hosts learned on a vBridge.
	MacEntries(path BridgePath) ([]model.MacEntry, error)

	FlowConditions() ([]model.FlowCondition, error)
	FlowCondition(name string) (model.FlowCondition, error)
	FlowFilters(path FlowFilterPath) (model.RuleChain[model.FlowFilter], error)
	// SetFlowFilters replaces the list at path. A chain holding an invalid
	// rule is refused with a *model.ValidationError.
	SetFlowFilters(path FlowFilterPath, chain model.RuleChain[model.FlowFilter]) error
	PathMaps(tenant string) (model.RuleChain[model.PathMap], error)
	Nodes() ([]model.Node, error)
}
