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
	"net/netip"
)

const flowMatchItem = "flowmatch"

// EtherMatch selects packets by layer 2 header fields. Empty strings and
// nil pointers are wildcards.
type EtherMatch struct {
	Src          string `json:"src,omitempty"`
	Dst          string `json:"dst,omitempty"`
	Type         *int   `json:"type,omitempty" validate:"omitempty,min=0,max=65535"`
	Vlan         *int   `json:"vlan,omitempty" validate:"omitempty,min=0,max=4095"`
	VlanPriority *int   `json:"vlanpri,omitempty" validate:"omitempty,min=0,max=7"`
}

func (m EtherMatch) normalize() (EtherMatch, error) {
	var err error
	if m.Src != "" {
		if m.Src, err = parseMAC(flowMatchItem, "ethernet.src", m.Src); err != nil {
			return m, err
		}
	}
	if m.Dst != "" {
		if m.Dst, err = parseMAC(flowMatchItem, "ethernet.dst", m.Dst); err != nil {
			return m, err
		}
	}
	return m, nil
}

func (m EtherMatch) equal(o EtherMatch) bool {
	return m.Src == o.Src && m.Dst == o.Dst && optEqual(m.Type, o.Type) &&
		optEqual(m.Vlan, o.Vlan) && optEqual(m.VlanPriority, o.VlanPriority)
}

func (m EtherMatch) hash(h *hasher) {
	h.str(m.Src).str(m.Dst).optInt(m.Type).optInt(m.Vlan).optInt(m.VlanPriority)
}

func (m EtherMatch) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("src", m.Src)
	w.str("dst", m.Dst)
	w.optInt("type", m.Type)
	w.optInt("vlan", m.Vlan)
	w.optInt("vlanpri", m.VlanPriority)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (m *EtherMatch) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "src", "dst", "type", "vlan", "vlanpri")
	if err != nil {
		return err
	}
	*m = EtherMatch{
		Src:          r.str("src"),
		Dst:          r.str("dst"),
		Type:         r.optInt("type"),
		Vlan:         r.optInt("vlan"),
		VlanPriority: r.optInt("vlanpri"),
	}
	if r.err != nil {
		return r.err
	}
	return skipXML(d, start)
}

// Inet4Match selects packets by IPv4 header fields. Src and Dst are
// networks in CIDR notation; a bare address is a /32.
type Inet4Match struct {
	Src      string `json:"src,omitempty"`
	Dst      string `json:"dst,omitempty"`
	Protocol *int   `json:"protocol,omitempty" validate:"omitempty,min=0,max=255"`
	DSCP     *int   `json:"dscp,omitempty" validate:"omitempty,min=0,max=63"`
}

func parseInet4Network(field, s string) (string, error) {
	if s == "" {
		return "", nil
	}
	p, err := netip.ParsePrefix(s)
	if err != nil {
		a, aerr := netip.ParseAddr(s)
		if aerr != nil {
			return "", invalid(flowMatchItem, field, s, "not an IPv4 network")
		}
		p = netip.PrefixFrom(a, a.BitLen())
	}
	if !p.Addr().Is4() {
		return "", invalid(flowMatchItem, field, s, "not an IPv4 network")
	}
	return p.Masked().String(), nil
}

func (m Inet4Match) normalize() (Inet4Match, error) {
	var err error
	if m.Src, err = parseInet4Network("inet4.src", m.Src); err != nil {
		return m, err
	}
	if m.Dst, err = parseInet4Network("inet4.dst", m.Dst); err != nil {
		return m, err
	}
	return m, nil
}

func (m Inet4Match) equal(o Inet4Match) bool {
	return m.Src == o.Src && m.Dst == o.Dst && optEqual(m.Protocol, o.Protocol) && optEqual(m.DSCP, o.DSCP)
}

func (m Inet4Match) hash(h *hasher) {
	h.str(m.Src).str(m.Dst).optInt(m.Protocol).optInt(m.DSCP)
}

func (m Inet4Match) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("src", m.Src)
	w.str("dst", m.Dst)
	w.optInt("protocol", m.Protocol)
	w.optInt("dscp", m.DSCP)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (m *Inet4Match) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "src", "dst", "protocol", "dscp")
	if err != nil {
		return err
	}
	*m = Inet4Match{
		Src:      r.str("src"),
		Dst:      r.str("dst"),
		Protocol: r.optInt("protocol"),
		DSCP:     r.optInt("dscp"),
	}
	if r.err != nil {
		return r.err
	}
	return skipXML(d, start)
}

// PortRange is an inclusive transport port range.
type PortRange struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"max=65535,gtefield=From"`
}

func (p PortRange) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.int("from", p.From)
	w.int("to", p.To)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (p *PortRange) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "from", "to")
	if err != nil {
		return err
	}
	*p = PortRange{From: r.int("from"), To: r.int("to")}
	if r.err != nil {
		return r.err
	}
	return skipXML(d, start)
}

// L4Match selects packets by transport ports.
type L4Match struct {
	Src *PortRange `json:"src,omitempty"`
	Dst *PortRange `json:"dst,omitempty"`
}

func (m L4Match) equal(o L4Match) bool {
	return optEqual(m.Src, o.Src) && optEqual(m.Dst, o.Dst)
}

func (m L4Match) hash(h *hasher) {
	for _, p := range []*PortRange{m.Src, m.Dst} {
		h.flag(p != nil)
		if p != nil {
			h.int(p.From).int(p.To)
		}
	}
}

func (m L4Match) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if m.Src != nil {
		if err := e.EncodeElement(*m.Src, xmlStart("src")); err != nil {
			return err
		}
	}
	if m.Dst != nil {
		if err := e.EncodeElement(*m.Dst, xmlStart("dst")); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (m *L4Match) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if _, err := readXMLAttrs(start.Name.Local, start); err != nil {
		return err
	}
	var v L4Match
	port := func(dst **PortRange) func(xml.StartElement) error {
		return func(s xml.StartElement) error {
			*dst = &PortRange{}
			return d.DecodeElement(*dst, &s)
		}
	}
	err := decodeXMLChildren(d, start, single(map[string]func(xml.StartElement) error{
		"src": port(&v.Src),
		"dst": port(&v.Dst),
	}))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// FlowMatch is one indexed entry of a flow condition. All header matches
// are optional; an entry with none of them matches every packet.
type FlowMatch struct {
	Index int         `json:"index" validate:"min=1,max=65535"`
	Ether *EtherMatch `json:"ethernet,omitempty"`
	Inet4 *Inet4Match `json:"inet4,omitempty"`
	L4    *L4Match    `json:"l4,omitempty"`
}

// Normalize validates the match and returns it with addresses in canonical
// form.
func (m FlowMatch) Normalize() (FlowMatch, error) {
	if err := checkStruct(flowMatchItem, m); err != nil {
		return m, err
	}
	if m.Ether != nil {
		ether, err := m.Ether.normalize()
		if err != nil {
			return m, err
		}
		m.Ether = &ether
	}
	if m.Inet4 != nil {
		inet, err := m.Inet4.normalize()
		if err != nil {
			return m, err
		}
		m.Inet4 = &inet
	}
	return m, nil
}

// Validate is Normalize without the result.
func (m FlowMatch) Validate() error {
	_, err := m.Normalize()
	return err
}

func (m FlowMatch) RuleIndex() int {
	return m.Index
}

func (m FlowMatch) Equal(o FlowMatch) bool {
	if m.Index != o.Index {
		return false
	}
	if (m.Ether == nil) != (o.Ether == nil) || (m.Ether != nil && !m.Ether.equal(*o.Ether)) {
		return false
	}
	if (m.Inet4 == nil) != (o.Inet4 == nil) || (m.Inet4 != nil && !m.Inet4.equal(*o.Inet4)) {
		return false
	}
	if (m.L4 == nil) != (o.L4 == nil) || (m.L4 != nil && !m.L4.equal(*o.L4)) {
		return false
	}
	return true
}

func (m FlowMatch) Hash() uint64 {
	h := newHasher(flowMatchItem).int(m.Index)
	h.flag(m.Ether != nil)
	if m.Ether != nil {
		m.Ether.hash(h)
	}
	h.flag(m.Inet4 != nil)
	if m.Inet4 != nil {
		m.Inet4.hash(h)
	}
	h.flag(m.L4 != nil)
	if m.L4 != nil {
		m.L4.hash(h)
	}
	return h.sum()
}

func (FlowMatch) listNames() listNames {
	return listNames{container: "flowmatches", item: flowMatchItem}
}

type flowMatchJSON FlowMatch

func (m *FlowMatch) UnmarshalJSON(data []byte) error {
	var w flowMatchJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, err := FlowMatch(w).Normalize()
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m FlowMatch) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.int("index", m.Index)
	start.Attr = w.attrs
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if m.Ether != nil {
		if err := e.EncodeElement(*m.Ether, xmlStart("ethernet")); err != nil {
			return err
		}
	}
	if m.Inet4 != nil {
		if err := e.EncodeElement(*m.Inet4, xmlStart("inet4")); err != nil {
			return err
		}
	}
	if m.L4 != nil {
		if err := e.EncodeElement(*m.L4, xmlStart("l4")); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (m *FlowMatch) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "index")
	if err != nil {
		return err
	}
	v := FlowMatch{Index: r.int("index")}
	if r.err != nil {
		return r.err
	}
	err = decodeXMLChildren(d, start, single(map[string]func(xml.StartElement) error{
		"ethernet": func(s xml.StartElement) error {
			v.Ether = &EtherMatch{}
			return d.DecodeElement(v.Ether, &s)
		},
		"inet4": func(s xml.StartElement) error {
			v.Inet4 = &Inet4Match{}
			return d.DecodeElement(v.Inet4, &s)
		},
		"l4": func(s xml.StartElement) error {
			v.L4 = &L4Match{}
			return d.DecodeElement(v.L4, &s)
		},
	}))
	if err != nil {
		return err
	}
	if v, err = v.Normalize(); err != nil {
		return err
	}
	*m = v
	return nil
}

// FlowCondition is a named, ordered chain of flow matches. A packet meets
// the condition when it matches any entry; entries are tried in chain order.
type FlowCondition struct {
	Name    string `validate:"required,vtnname"`
	Matches RuleChain[FlowMatch]
}

func (c FlowCondition) Validate() error {
	return checkStruct("flowcondition", c)
}

func (c FlowCondition) Equal(o FlowCondition) bool {
	return c.Name == o.Name && c.Matches.Equal(o.Matches)
}

func (c FlowCondition) Hash() uint64 {
	return newHasher("flowcondition").str(c.Name).u64(c.Matches.Hash()).sum()
}

func (FlowCondition) listNames() listNames {
	return listNames{container: "flowconditions", item: "flowcondition"}
}

// XMLRootName implements XMLRooted.
func (FlowCondition) XMLRootName() string {
	return "flowcondition"
}

type flowConditionJSON struct {
	Name      string          `json:"name"`
	FlowMatch json.RawMessage `json:"flowmatch,omitempty"`
}

func (c FlowCondition) MarshalJSON() ([]byte, error) {
	w := flowConditionJSON{Name: c.Name}
	if !c.Matches.IsEmpty() {
		raw, err := json.Marshal(c.Matches.Rules())
		if err != nil {
			return nil, err
		}
		w.FlowMatch = raw
	}
	return json.Marshal(w)
}

func (c *FlowCondition) UnmarshalJSON(data []byte) error {
	var w flowConditionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	matches, err := parseArrayJSON[FlowMatch](w.FlowMatch)
	if err != nil {
		return err
	}
	v := FlowCondition{Name: w.Name, Matches: NewRuleChain(matches)}
	if err := v.Validate(); err != nil {
		return err
	}
	*c = v
	return nil
}

func (c FlowCondition) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("name", c.Name)
	start.Attr = w.attrs
	return encodeXMLItems(e, start, flowMatchItem, c.Matches.items)
}

func (c *FlowCondition) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "name")
	if err != nil {
		return err
	}
	v := FlowCondition{Name: r.str("name")}
	var matches []FlowMatch
	err = decodeXMLChildren(d, start, map[string]func(xml.StartElement) error{
		flowMatchItem: func(s xml.StartElement) error {
			var m FlowMatch
			if err := d.DecodeElement(&m, &s); err != nil {
				return err
			}
			matches = append(matches, m)
			return nil
		},
	})
	if err != nil {
		return err
	}
	v.Matches = NewRuleChain(matches)
	if err := v.Validate(); err != nil {
		return err
	}
	*c = v
	return nil
}
