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

// Package vtndump prints every resource a network management engine serves,
// one line per resource: its REST path followed by its wire form.
package vtndump

import (
	"fmt"
	"io"

	"github.com/ligato/cn-infra/logging/logrus"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/codec"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/service"
)

var log = logrus.DefaultLogger()

type dumper struct {
	w      io.Writer
	prefix string
	format codec.Format
}

func (d *dumper) line(path string, v model.XMLRooted) error {
	b, err := codec.Marshal(v, d.format)
	if err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}
	_, err = fmt.Fprintf(d.w, "%s%s %s\n", d.prefix, path, b)
	return err
}

// VtnDump writes the resources of container served by mgr to w.
func VtnDump(w io.Writer, container string, mgr service.Manager, format codec.Format) error {
	d := &dumper{w: w, prefix: model.ContainerPrefix(container), format: format}

	nodes, err := mgr.Nodes()
	if err != nil {
		return err
	}
	if err := d.line("nodes", model.NewEnvelope(nodes)); err != nil {
		return err
	}
	conditions, err := mgr.FlowConditions()
	if err != nil {
		return err
	}
	for _, c := range conditions {
		if err := d.line("flowconditions/"+c.Name, c); err != nil {
			return err
		}
	}

	tenants, err := mgr.Tenants()
	if err != nil {
		return err
	}
	for _, t := range tenants {
		log.Debugf("VtnDump: vtn %s", t.Name)
		if err := d.tenant(mgr, t); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) tenant(mgr service.Manager, t model.VTenant) error {
	base := "vtns/" + t.Name
	if err := d.line(base, t); err != nil {
		return err
	}
	if err := d.filters(mgr, base, service.FlowFilterPath{Tenant: t.Name, Direction: service.DirectionIn}); err != nil {
		return err
	}
	pathMaps, err := mgr.PathMaps(t.Name)
	if err != nil {
		return err
	}
	if err := d.line(base+"/pathmaps", pathMaps); err != nil {
		return err
	}

	bridges, err := mgr.Bridges(t.Name)
	if err != nil {
		return err
	}
	for _, b := range bridges {
		if err := d.bridge(mgr, base, t.Name, b); err != nil {
			return err
		}
	}
	terminals, err := mgr.Terminals(t.Name)
	if err != nil {
		return err
	}
	for _, vt := range terminals {
		node := service.NodePath{Tenant: t.Name, Kind: service.KindTerminal, Name: vt.Name}
		nodeBase := base + "/vterminals/" + vt.Name
		if err := d.line(nodeBase, vt); err != nil {
			return err
		}
		if err := d.interfaces(mgr, nodeBase, node); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) bridge(mgr service.Manager, base, tenant string, b model.VBridge) error {
	path := service.BridgePath{Tenant: tenant, Bridge: b.Name}
	node := service.NodePath{Tenant: tenant, Kind: service.KindBridge, Name: b.Name}
	base += "/vbridges/" + b.Name
	if err := d.line(base, b); err != nil {
		return err
	}
	vlanMaps, err := mgr.VlanMaps(path)
	if err != nil {
		return err
	}
	if err := d.line(base+"/vlanmaps", model.NewEnvelope(vlanMaps)); err != nil {
		return err
	}
	info, err := mgr.MacMap(path)
	if err != nil {
		return err
	}
	if err := d.line(base+"/macmap", info); err != nil {
		return err
	}
	entries, err := mgr.MacEntries(path)
	if err != nil {
		return err
	}
	if err := d.line(base+"/mac", model.NewEnvelope(entries)); err != nil {
		return err
	}
	for _, dir := range []string{service.DirectionIn, service.DirectionOut} {
		if err := d.filters(mgr, base, service.FlowFilterPath{Tenant: tenant, Node: &node, Direction: dir}); err != nil {
			return err
		}
	}
	return d.interfaces(mgr, base, node)
}

func (d *dumper) interfaces(mgr service.Manager, base string, node service.NodePath) error {
	ifs, err := mgr.Interfaces(node)
	if err != nil {
		return err
	}
	for _, i := range ifs {
		ifBase := base + "/interfaces/" + i.Name
		if err := d.line(ifBase, i); err != nil {
			return err
		}
		for _, dir := range []string{service.DirectionIn, service.DirectionOut} {
			path := service.FlowFilterPath{Tenant: node.Tenant, Node: &node, Interface: i.Name, Direction: dir}
			if err := d.filters(mgr, ifBase, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// filters prints a flow filter list unless it is empty.
func (d *dumper) filters(mgr service.Manager, base string, path service.FlowFilterPath) error {
	chain, err := mgr.FlowFilters(path)
	if err != nil {
		return err
	}
	if chain.IsEmpty() {
		return nil
	}
	return d.line(base+"/flowfilters/"+path.Direction, chain)
}
