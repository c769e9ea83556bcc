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

// Package engine is an in-memory network management engine serving the
// configuration held in a YAML snapshot. It stands in for the controller's
// own engine when the REST layer runs on its own.
package engine

import (
	"sync"

	"github.com/ligato/cn-infra/logging/logrus"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/service"
)

var log = logrus.DefaultLogger()

// Engine implements service.Manager over a snapshot.
type Engine struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

var _ service.Manager = (*Engine)(nil)

// New serves s. The engine owns s from now on.
func New(s *Snapshot) *Engine {
	if s == nil {
		s = &Snapshot{Version: snapshotVersion}
	}
	return &Engine{snapshot: s}
}

// ExportYaml renders the current state as a snapshot file. Only the
// exported copy is stamped.
func (e *Engine) ExportYaml() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := *e.snapshot
	s.stamp()
	return s.ToYaml()
}

func (e *Engine) tenant(name string) (*TenantConfig, error) {
	for i := range e.snapshot.Tenants {
		if t := &e.snapshot.Tenants[i]; t.VTN.Name == name {
			return t, nil
		}
	}
	return nil, service.NotFound("vtn", name)
}

func (e *Engine) bridge(path service.BridgePath) (*BridgeConfig, error) {
	t, err := e.tenant(path.Tenant)
	if err != nil {
		return nil, err
	}
	for i := range t.Bridges {
		if b := &t.Bridges[i]; b.VBridge.Name == path.Bridge {
			return b, nil
		}
	}
	return nil, service.NotFound("vbridge", path)
}

func (e *Engine) terminal(tenant, name string) (*TerminalConfig, error) {
	t, err := e.tenant(tenant)
	if err != nil {
		return nil, err
	}
	for i := range t.Terminals {
		if vt := &t.Terminals[i]; vt.VTerminal.Name == name {
			return vt, nil
		}
	}
	return nil, service.NotFound("vterminal", tenant+"/"+name)
}

func (e *Engine) interfaces(path service.NodePath) ([]InterfaceConfig, error) {
	switch path.Kind {
	case service.KindBridge:
		b, err := e.bridge(service.BridgePath{Tenant: path.Tenant, Bridge: path.Name})
		if err != nil {
			return nil, err
		}
		return b.Interfaces, nil
	case service.KindTerminal:
		vt, err := e.terminal(path.Tenant, path.Name)
		if err != nil {
			return nil, err
		}
		return vt.Interfaces, nil
	}
	return nil, service.NotFound("virtual node", path)
}

// filterList finds the storage of the flow filter list at path.
func (e *Engine) filterList(path service.FlowFilterPath) (*[]model.FlowFilter, error) {
	if err := path.Validate(); err != nil {
		log.Debugf("filterList: %s: %v", path, err)
		return nil, service.NotFound("flowfilter list", path)
	}
	if path.Node == nil {
		t, err := e.tenant(path.Tenant)
		if err != nil {
			return nil, err
		}
		return &t.FlowFilters, nil
	}
	var filters *DirectedFilters
	if path.Interface == "" {
		b, err := e.bridge(service.BridgePath{Tenant: path.Tenant, Bridge: path.Node.Name})
		if err != nil {
			return nil, err
		}
		filters = &b.FlowFilters
	} else {
		ifs, err := e.interfaces(*path.Node)
		if err != nil {
			return nil, err
		}
		for i := range ifs {
			if ifs[i].Interface.Name == path.Interface {
				filters = &ifs[i].FlowFilters
				break
			}
		}
		if filters == nil {
			return nil, service.NotFound("interface", path.Node.String()+"/"+path.Interface)
		}
	}
	if path.Direction == service.DirectionOut {
		return &filters.Out, nil
	}
	return &filters.In, nil
}

func (e *Engine) Tenants() ([]model.VTenant, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var tenants []model.VTenant
	for _, t := range e.snapshot.Tenants {
		tenants = append(tenants, t.VTN)
	}
	return tenants, nil
}

func (e *Engine) Tenant(name string) (model.VTenant, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, err := e.tenant(name)
	if err != nil {
		return model.VTenant{}, err
	}
	return t.VTN, nil
}

func (e *Engine) Bridges(tenant string) ([]model.VBridge, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, err := e.tenant(tenant)
	if err != nil {
		return nil, err
	}
	var bridges []model.VBridge
	for _, b := range t.Bridges {
		bridges = append(bridges, b.VBridge)
	}
	return bridges, nil
}

func (e *Engine) Terminals(tenant string) ([]model.VTerminal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, err := e.tenant(tenant)
	if err != nil {
		return nil, err
	}
	var terminals []model.VTerminal
	for _, vt := range t.Terminals {
		terminals = append(terminals, vt.VTerminal)
	}
	return terminals, nil
}

func (e *Engine) Interfaces(path service.NodePath) ([]model.VInterface, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ifs, err := e.interfaces(path)
	if err != nil {
		return nil, err
	}
	var list []model.VInterface
	for _, i := range ifs {
		list = append(list, i.Interface)
	}
	return list, nil
}

func (e *Engine) VlanMaps(path service.BridgePath) ([]model.VlanMap, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, err := e.bridge(path)
	if err != nil {
		return nil, err
	}
	return append([]model.VlanMap(nil), b.VlanMaps...), nil
}

func (e *Engine) MacMap(path service.BridgePath) (model.MacMapInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, err := e.bridge(path)
	if err != nil {
		return model.MacMapInfo{}, err
	}
	return b.macMapInfo(), nil
}

// ResolveMapping stores policy as the vBridge's MAC mapping. The engine
// keeps the mapped hosts of its snapshot: resolving them against live
// traffic belongs to the controller.
func (e *Engine) ResolveMapping(path service.BridgePath, policy model.MacMapPolicy) (model.MacMapInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, err := e.bridge(path)
	if err != nil {
		return model.MacMapInfo{}, err
	}
	if policy.IsEmpty() {
		b.MacMap = nil
	} else {
		b.MacMap = &policy
	}
	log.Debugf("ResolveMapping: %s: %s", path, policy)
	return b.macMapInfo(), nil
}

func (b *BridgeConfig) macMapInfo() model.MacMapInfo {
	var policy model.MacMapPolicy
	if b.MacMap != nil {
		policy = *b.MacMap
	}
	return model.NewMacMapInfo(policy, b.Mapped)
}

func (e *Engine) MacEntries(path service.BridgePath) ([]model.MacEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, err := e.bridge(path)
	if err != nil {
		return nil, err
	}
	return append([]model.MacEntry(nil), b.MacEntries...), nil
}

func (e *Engine) FlowConditions() ([]model.FlowCondition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.FlowCondition(nil), e.snapshot.FlowConditions...), nil
}

func (e *Engine) FlowCondition(name string) (model.FlowCondition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.snapshot.FlowConditions {
		if c.Name == name {
			return c, nil
		}
	}
	return model.FlowCondition{}, service.NotFound("flowcondition", name)
}

func (e *Engine) FlowFilters(path service.FlowFilterPath) (model.RuleChain[model.FlowFilter], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	list, err := e.filterList(path)
	if err != nil {
		return model.RuleChain[model.FlowFilter]{}, err
	}
	return model.NewRuleChain(*list), nil
}

// SetFlowFilters replaces the whole list at path, keeping the chain order.
func (e *Engine) SetFlowFilters(path service.FlowFilterPath, chain model.RuleChain[model.FlowFilter]) error {
	if err := chain.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	list, err := e.filterList(path)
	if err != nil {
		return err
	}
	*list = chain.Rules()
	log.Debugf("SetFlowFilters: %s: indexes %v", path, chain.Indexes())
	return nil
}

func (e *Engine) PathMaps(tenant string) (model.RuleChain[model.PathMap], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, err := e.tenant(tenant)
	if err != nil {
		return model.RuleChain[model.PathMap]{}, err
	}
	return model.NewRuleChain(t.PathMaps), nil
}

func (e *Engine) Nodes() ([]model.Node, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.Node(nil), e.snapshot.Nodes...), nil
}
