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

// MacEntrySpec is the raw form of a MacEntry.
type MacEntrySpec struct {
	Address       string `validate:"required"`
	Vlan          int    `validate:"min=0,max=4095"`
	Node          string
	PortName      string
	PortID        string
	InetAddresses []string
}

// MacEntry is a host learned on a switch port: where it was seen and which
// network addresses it used.
type MacEntry struct {
	address  string
	vlan     uint16
	node     string
	portName string
	portID   string
	inet     IPAddressSet
}

// NewMacEntry validates spec. The address is mandatory.
func NewMacEntry(spec MacEntrySpec) (MacEntry, error) {
	if err := checkStruct("macentry", spec); err != nil {
		return MacEntry{}, err
	}
	mac, err := parseMAC("macentry", "address", spec.Address)
	if err != nil {
		return MacEntry{}, err
	}
	inet, err := NewIPAddressSet(spec.InetAddresses...)
	if err != nil {
		return MacEntry{}, err
	}
	return MacEntry{
		address:  mac,
		vlan:     uint16(spec.Vlan),
		node:     spec.Node,
		portName: spec.PortName,
		portID:   spec.PortID,
		inet:     inet,
	}, nil
}

func (m MacEntry) Address() string { return m.address }
func (m MacEntry) Vlan() uint16 { return m.vlan }
func (m MacEntry) Node() string { return m.node }
func (m MacEntry) PortName() string { return m.portName }
func (m MacEntry) PortID() string { return m.portID }

// InetAddresses returns the addresses seen for the host, or false if none.
func (m MacEntry) InetAddresses() (IPAddressSet, bool) {
	return m.inet, m.inet.Len() != 0
}

// Host returns the matcher selecting exactly this entry.
func (m MacEntry) Host() MacHost {
	return MacHost{address: m.address, vlan: m.vlan}
}

func (m MacEntry) Equal(o MacEntry) bool {
	return m.address == o.address && m.vlan == o.vlan && m.node == o.node &&
		m.portName == o.portName && m.portID == o.portID && m.inet.Equal(o.inet)
}

func (m MacEntry) Hash() uint64 {
	return newHasher("macentry").str(m.address).u64(uint64(m.vlan)).str(m.node).
		str(m.portName).str(m.portID).u64(m.inet.Hash()).sum()
}

func (m MacEntry) String() string {
	return fmt.Sprintf("%s@%d on %s/%s %v", m.address, m.vlan, m.node, m.portName, m.inet.Addresses())
}

func (MacEntry) listNames() listNames {
	return listNames{container: "macentries", item: "macentry"}
}

type macEntryJSON struct {
	Address       string        `json:"address"`
	Vlan          int           `json:"vlan"`
	Node          string        `json:"node,omitempty"`
	PortName      string        `json:"portName,omitempty"`
	PortID        string        `json:"portId,omitempty"`
	InetAddresses *IPAddressSet `json:"inetAddresses,omitempty"`
}

func (m MacEntry) MarshalJSON() ([]byte, error) {
	w := macEntryJSON{
		Address:  m.address,
		Vlan:     int(m.vlan),
		Node:     m.node,
		PortName: m.portName,
		PortID:   m.portID,
	}
	if inet, ok := m.InetAddresses(); ok {
		w.InetAddresses = &inet
	}
	return json.Marshal(w)
}

func (m *MacEntry) UnmarshalJSON(data []byte) error {
	var w macEntryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	spec := MacEntrySpec{Address: w.Address, Vlan: w.Vlan, Node: w.Node, PortName: w.PortName, PortID: w.PortID}
	if w.InetAddresses != nil {
		spec.InetAddresses = w.InetAddresses.Addresses()
	}
	v, err := NewMacEntry(spec)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m MacEntry) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("address", m.address)
	w.int("vlan", int(m.vlan))
	w.str("node", m.node)
	w.str("portName", m.portName)
	w.str("portId", m.portID)
	start.Attr = w.attrs
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if inet, ok := m.InetAddresses(); ok {
		if err := e.EncodeElement(inet, xmlStart("inetAddresses")); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (m *MacEntry) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "address", "vlan", "node", "portName", "portId")
	if err != nil {
		return err
	}
	spec := MacEntrySpec{
		Address:  r.str("address"),
		Vlan:     r.int("vlan"),
		Node:     r.str("node"),
		PortName: r.str("portName"),
		PortID:   r.str("portId"),
	}
	if r.err != nil {
		return r.err
	}
	err = decodeXMLChildren(d, start, single(map[string]func(xml.StartElement) error{
		"inetAddresses": func(s xml.StartElement) error {
			var inet IPAddressSet
			if err := d.DecodeElement(&inet, &s); err != nil {
				return err
			}
			spec.InetAddresses = inet.Addresses()
			return nil
		},
	}))
	if err != nil {
		return err
	}
	v, err := NewMacEntry(spec)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
