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

// Virtual node kinds that own interfaces.
const (
	KindBridge   = "vbridge"
	KindTerminal = "vterminal"
)

// Flow filter directions.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// BridgePath locates a vBridge.
type BridgePath struct {
	Tenant string
	Bridge string
}

func (p BridgePath) String() string {
	return fmt.Sprintf("%s/%s", p.Tenant, p.Bridge)
}

// NodePath locates a vBridge or a vTerminal.
type NodePath struct {
	Tenant string
	Kind   string
	Name   string
}

func (p NodePath) String() string {
	return fmt.Sprintf("%s/%s:%s", p.Tenant, p.Kind, p.Name)
}

// FlowFilterPath locates a flow filter list. With no Node it is the list of
// the VTN itself, with no Interface the list of the node.
type FlowFilterPath struct {
	Tenant    string
	Node      *NodePath
	Interface string
	Direction string
}

// Validate checks that the list can exist: VTN filters only apply to
// incoming packets and vTerminals only carry filters on interfaces.
func (p FlowFilterPath) Validate() error {
	switch p.Direction {
	case DirectionIn, DirectionOut:
	default:
		return fmt.Errorf("unknown flow filter direction %q", p.Direction)
	}
	if p.Node == nil {
		if p.Interface != "" {
			return fmt.Errorf("interface %q without a virtual node", p.Interface)
		}
		if p.Direction != DirectionIn {
			return fmt.Errorf("VTN flow filters only apply to incoming packets")
		}
		return nil
	}
	if p.Node.Tenant != p.Tenant {
		return fmt.Errorf("node %s is not in VTN %s", p.Node, p.Tenant)
	}
	if p.Node.Kind == KindTerminal && p.Interface == "" {
		return fmt.Errorf("vterminal %s has no flow filters of its own", p.Node.Name)
	}
	return nil
}

func (p FlowFilterPath) String() string {
	s := p.Tenant
	if p.Node != nil {
		s = p.Node.String()
	}
	if p.Interface != "" {
		s += "/" + p.Interface
	}
	return s + "/" + p.Direction
}
