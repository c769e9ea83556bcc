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
	"encoding/json"
	"encoding/xml"
	"fmt"
)

// Virtual node states. The names were kept as strings for readability.
const (
	StateUnknown = "UNKNOWN"
	StateDown    = "DOWN"
	StateUp      = "UP"
)

func encodeXMLEmpty(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// VTenant is a virtual tenant network (VTN).
type VTenant struct {
	Name        string `json:"name" validate:"required,vtnname"`
	Description string `json:"description,omitempty"`
	IdleTimeout *int   `json:"idleTimeout,omitempty" validate:"omitempty,min=0,max=65535"`
	HardTimeout *int   `json:"hardTimeout,omitempty" validate:"omitempty,min=0,max=65535"`
}

func (t VTenant) Validate() error {
	return checkStruct("vtn", t)
}

func (t VTenant) Equal(o VTenant) bool {
	return t.Name == o.Name && t.Description == o.Description &&
		optEqual(t.IdleTimeout, o.IdleTimeout) && optEqual(t.HardTimeout, o.HardTimeout)
}

func (t VTenant) Hash() uint64 {
	return newHasher("vtn").str(t.Name).str(t.Description).optInt(t.IdleTimeout).optInt(t.HardTimeout).sum()
}

func (VTenant) listNames() listNames {
	return listNames{container: "vtns", item: "vtn"}
}

// XMLRootName implements XMLRooted.
func (VTenant) XMLRootName() string {
	return "vtn"
}

type vtenantJSON VTenant

func (t *VTenant) UnmarshalJSON(data []byte) error {
	var w vtenantJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := VTenant(w).Validate(); err != nil {
		return err
	}
	*t = VTenant(w)
	return nil
}

func (t VTenant) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("name", t.Name)
	w.str("description", t.Description)
	w.optInt("idleTimeout", t.IdleTimeout)
	w.optInt("hardTimeout", t.HardTimeout)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (t *VTenant) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "name", "description", "idleTimeout", "hardTimeout")
	if err != nil {
		return err
	}
	v := VTenant{
		Name:        r.str("name"),
		Description: r.str("description"),
		IdleTimeout: r.optInt("idleTimeout"),
		HardTimeout: r.optInt("hardTimeout"),
	}
	if r.err != nil {
		return r.err
	}
	if err := skipXML(d, start); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*t = v
	return nil
}

// VBridge is a virtual layer 2 bridge inside a VTN.
type VBridge struct {
	Name        string `json:"name" validate:"required,vtnname"`
	Description string `json:"description,omitempty"`
	AgeInterval *int   `json:"ageInterval,omitempty" validate:"omitempty,min=10,max=1000000"`
	Faults      int    `json:"faults"`
	State       string `json:"state,omitempty" validate:"omitempty,oneof=UNKNOWN DOWN UP"`
}

func (b VBridge) Validate() error {
	return checkStruct("vbridge", b)
}

func (b VBridge) Equal(o VBridge) bool {
	return b.Name == o.Name && b.Description == o.Description &&
		optEqual(b.AgeInterval, o.AgeInterval) && b.Faults == o.Faults && b.State == o.State
}

func (b VBridge) Hash() uint64 {
	return newHasher("vbridge").str(b.Name).str(b.Description).optInt(b.AgeInterval).
		int(b.Faults).str(b.State).sum()
}

func (VBridge) listNames() listNames {
	return listNames{container: "vbridges", item: "vbridge"}
}

// XMLRootName implements XMLRooted.
func (VBridge) XMLRootName() string {
	return "vbridge"
}

type vbridgeJSON VBridge

func (b *VBridge) UnmarshalJSON(data []byte) error {
	var w vbridgeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := VBridge(w).Validate(); err != nil {
		return err
	}
	*b = VBridge(w)
	return nil
}

func (b VBridge) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("name", b.Name)
	w.str("description", b.Description)
	w.optInt("ageInterval", b.AgeInterval)
	w.int("faults", b.Faults)
	w.str("state", b.State)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (b *VBridge) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "name", "description", "ageInterval", "faults", "state")
	if err != nil {
		return err
	}
	v := VBridge{
		Name:        r.str("name"),
		Description: r.str("description"),
		AgeInterval: r.optInt("ageInterval"),
		Faults:      r.int("faults"),
		State:       r.str("state"),
	}
	if r.err != nil {
		return r.err
	}
	if err := skipXML(d, start); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*b = v
	return nil
}

// VTerminal is a virtual terminal: a vBridge-like node with at most one
// interface, used as a redirect endpoint.
type VTerminal struct {
	Name        string `json:"name" validate:"required,vtnname"`
	Description string `json:"description,omitempty"`
	Faults      int    `json:"faults"`
	State       string `json:"state,omitempty" validate:"omitempty,oneof=UNKNOWN DOWN UP"`
}

func (t VTerminal) Validate() error {
	return checkStruct("vterminal", t)
}

func (t VTerminal) Equal(o VTerminal) bool {
	return t == o
}

func (t VTerminal) Hash() uint64 {
	return newHasher("vterminal").str(t.Name).str(t.Description).int(t.Faults).str(t.State).sum()
}

func (VTerminal) listNames() listNames {
	return listNames{container: "vterminals", item: "vterminal"}
}

// XMLRootName implements XMLRooted.
func (VTerminal) XMLRootName() string {
	return "vterminal"
}

type vterminalJSON VTerminal

func (t *VTerminal) UnmarshalJSON(data []byte) error {
	var w vterminalJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := VTerminal(w).Validate(); err != nil {
		return err
	}
	*t = VTerminal(w)
	return nil
}

func (t VTerminal) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("name", t.Name)
	w.str("description", t.Description)
	w.int("faults", t.Faults)
	w.str("state", t.State)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (t *VTerminal) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "name", "description", "faults", "state")
	if err != nil {
		return err
	}
	v := VTerminal{
		Name:        r.str("name"),
		Description: r.str("description"),
		Faults:      r.int("faults"),
		State:       r.str("state"),
	}
	if r.err != nil {
		return r.err
	}
	if err := skipXML(d, start); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*t = v
	return nil
}

// PortMap maps a physical switch port (and VLAN) to a virtual interface.
// Either ID or Name identifies the port.
type PortMap struct {
	Node string `json:"node" validate:"required"`
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty" validate:"required_without=Name"`
	Name string `json:"name,omitempty"`
	Vlan int    `json:"vlan" validate:"min=0,max=4095"`
}

func (p PortMap) Validate() error {
	return checkStruct("portmap", p)
}

func (p PortMap) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("node", p.Node)
	w.str("type", p.Type)
	w.str("id", p.ID)
	w.str("name", p.Name)
	w.int("vlan", p.Vlan)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (p *PortMap) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "node", "type", "id", "name", "vlan")
	if err != nil {
		return err
	}
	*p = PortMap{
		Node: r.str("node"),
		Type: r.str("type"),
		ID:   r.str("id"),
		Name: r.str("name"),
		Vlan: r.int("vlan"),
	}
	if r.err != nil {
		return r.err
	}
	return skipXML(d, start)
}

// VInterface is an interface of a vBridge or vTerminal.
type VInterface struct {
	Name        string   `json:"name" validate:"required,vtnname"`
	Description string   `json:"description,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
	State       string   `json:"state,omitempty" validate:"omitempty,oneof=UNKNOWN DOWN UP"`
	EntityState string   `json:"entityState,omitempty" validate:"omitempty,oneof=UNKNOWN DOWN UP"`
	PortMap     *PortMap `json:"portmap,omitempty"`
}

// Validate checks the port map too.
func (i VInterface) Validate() error {
	return checkStruct("interface", i)
}

func (i VInterface) Equal(o VInterface) bool {
	return i.Name == o.Name && i.Description == o.Description && optEqual(i.Enabled, o.Enabled) &&
		i.State == o.State && i.EntityState == o.EntityState && optEqual(i.PortMap, o.PortMap)
}

func (i VInterface) Hash() uint64 {
	h := newHasher("interface").str(i.Name).str(i.Description).optBool(i.Enabled).
		str(i.State).str(i.EntityState).flag(i.PortMap != nil)
	if pm := i.PortMap; pm != nil {
		h.str(pm.Node).str(pm.Type).str(pm.ID).str(pm.Name).int(pm.Vlan)
	}
	return h.sum()
}

func (VInterface) listNames() listNames {
	return listNames{container: "interfaces", item: "interface"}
}

// XMLRootName implements XMLRooted.
func (VInterface) XMLRootName() string {
	return "interface"
}

type vinterfaceJSON VInterface

func (i *VInterface) UnmarshalJSON(data []byte) error {
	var w vinterfaceJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := VInterface(w).Validate(); err != nil {
		return err
	}
	*i = VInterface(w)
	return nil
}

func (i VInterface) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("name", i.Name)
	w.str("description", i.Description)
	w.optBool("enabled", i.Enabled)
	w.str("state", i.State)
	w.str("entityState", i.EntityState)
	start.Attr = w.attrs
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if i.PortMap != nil {
		if err := e.EncodeElement(*i.PortMap, xmlStart("portmap")); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (i *VInterface) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "name", "description", "enabled", "state", "entityState")
	if err != nil {
		return err
	}
	v := VInterface{
		Name:        r.str("name"),
		Description: r.str("description"),
		Enabled:     r.optBool("enabled"),
		State:       r.str("state"),
		EntityState: r.str("entityState"),
	}
	if r.err != nil {
		return r.err
	}
	err = decodeXMLChildren(d, start, single(map[string]func(xml.StartElement) error{
		"portmap": func(s xml.StartElement) error {
			v.PortMap = &PortMap{}
			return d.DecodeElement(v.PortMap, &s)
		},
	}))
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*i = v
	return nil
}

// VlanMap maps every host of a VLAN, on one switch or on all of them, to a
// vBridge.
type VlanMap struct {
	ID   string `json:"id" validate:"required"`
	Node string `json:"node,omitempty"`
	Vlan int    `json:"vlan" validate:"min=0,max=4095"`
}

// NewVlanMap derives the map id from node and vlan.
func NewVlanMap(node string, vlan int) (VlanMap, error) {
	m := VlanMap{ID: VlanMapID(node, vlan), Node: node, Vlan: vlan}
	return m, m.Validate()
}

// VlanMapID is the identifier the controller assigns to a VLAN map.
func VlanMapID(node string, vlan int) string {
	if node == "" {
		node = "ANY"
	}
	return fmt.Sprintf("%s.%d", node, vlan)
}

func (m VlanMap) Validate() error {
	return checkStruct("vlanmap", m)
}

func (m VlanMap) Equal(o VlanMap) bool {
	return m == o
}

func (m VlanMap) Hash() uint64 {
	return newHasher("vlanmap").str(m.ID).str(m.Node).int(m.Vlan).sum()
}

func (VlanMap) listNames() listNames {
	return listNames{container: "vlanmaps", item: "vlanmap"}
}

// XMLRootName implements XMLRooted.
func (VlanMap) XMLRootName() string {
	return "vlanmap"
}

type vlanMapJSON VlanMap

func (m *VlanMap) UnmarshalJSON(data []byte) error {
	var w vlanMapJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := VlanMap(w).Validate(); err != nil {
		return err
	}
	*m = VlanMap(w)
	return nil
}

func (m VlanMap) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("id", m.ID)
	w.str("node", m.Node)
	w.int("vlan", m.Vlan)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (m *VlanMap) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "id", "node", "vlan")
	if err != nil {
		return err
	}
	v := VlanMap{ID: r.str("id"), Node: r.str("node"), Vlan: r.int("vlan")}
	if r.err != nil {
		return r.err
	}
	if err := skipXML(d, start); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*m = v
	return nil
}

// Node is a physical switch known to the controller together with its
// management addresses, primary first.
type Node struct {
	ID        string `validate:"required"`
	Addresses IPAddressList
}

func (n Node) Validate() error {
	return checkStruct("node", n)
}

func (n Node) Equal(o Node) bool {
	return n.ID == o.ID && n.Addresses.Equal(o.Addresses)
}

func (n Node) Hash() uint64 {
	return newHasher("node").str(n.ID).u64(n.Addresses.Hash()).sum()
}

func (Node) listNames() listNames {
	return listNames{container: "nodes", item: "node"}
}

// XMLRootName implements XMLRooted.
func (Node) XMLRootName() string {
	return "node"
}

type nodeJSON struct {
	ID        string         `json:"id"`
	Addresses *IPAddressList `json:"addresses,omitempty"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	w := nodeJSON{ID: n.ID}
	if n.Addresses.Len() != 0 {
		w.Addresses = &n.Addresses
	}
	return json.Marshal(w)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v := Node{ID: w.ID}
	if w.Addresses != nil {
		v.Addresses = *w.Addresses
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*n = v
	return nil
}

func (n Node) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("id", n.ID)
	start.Attr = w.attrs
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if n.Addresses.Len() != 0 {
		if err := e.EncodeElement(n.Addresses, xmlStart("addresses")); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (n *Node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "id")
	if err != nil {
		return err
	}
	v := Node{ID: r.str("id")}
	err = decodeXMLChildren(d, start, single(map[string]func(xml.StartElement) error{
		"addresses": func(s xml.StartElement) error {
			return d.DecodeElement(&v.Addresses, &s)
		},
	}))
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*n = v
	return nil
}
