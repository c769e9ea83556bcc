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

// MacMapPolicy is the MAC mapping configuration of a vBridge: which hosts
// may be mapped (allow) and which may not (deny). An empty list is always
// stored as absent so it never reaches the wire as an empty container.
// How allow and deny interact is decided by the resolution engine.
type MacMapPolicy struct {
	allowed *MacHostSet
	denied  *MacHostSet
}

// NewMacMapPolicy builds a policy from raw, possibly duplicated, host lists.
func NewMacMapPolicy(allow, deny []MacHost) MacMapPolicy {
	return MacMapPolicyOf(NewMacHostSet(allow...), NewMacHostSet(deny...))
}

// MacMapPolicyOf builds a policy from two sets, dropping empty ones.
func MacMapPolicyOf(allow, deny MacHostSet) MacMapPolicy {
	return MacMapPolicy{allowed: presentSet(allow), denied: presentSet(deny)}
}

func presentSet(s MacHostSet) *MacHostSet {
	if s.Len() == 0 {
		return nil
	}
	return &s
}

// Allowed returns the allow list, or false when absent.
func (p MacMapPolicy) Allowed() (MacHostSet, bool) {
	if p.allowed == nil {
		return MacHostSet{}, false
	}
	return *p.allowed, true
}

// Denied returns the deny list, or false when absent.
func (p MacMapPolicy) Denied() (MacHostSet, bool) {
	if p.denied == nil {
		return MacHostSet{}, false
	}
	return *p.denied, true
}

// IsEmpty reports whether neither list is configured.
func (p MacMapPolicy) IsEmpty() bool {
	return p.allowed == nil && p.denied == nil
}

func (p MacMapPolicy) Equal(o MacMapPolicy) bool {
	return optSetEqual(p.allowed, o.allowed) && optSetEqual(p.denied, o.denied)
}

func optSetEqual(a, b *MacHostSet) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (p MacMapPolicy) Hash() uint64 {
	h := newHasher("macmap")
	for _, s := range []*MacHostSet{p.allowed, p.denied} {
		h.flag(s != nil)
		if s != nil {
			h.u64(s.Hash())
		}
	}
	return h.sum()
}

func (p MacMapPolicy) String() string {
	var allow, deny []MacHost
	if p.allowed != nil {
		allow = p.allowed.Hosts()
	}
	if p.denied != nil {
		deny = p.denied.Hosts()
	}
	return fmt.Sprintf("allow=%v deny=%v", allow, deny)
}

// XMLRootName implements XMLRooted.
func (MacMapPolicy) XMLRootName() string {
	return "macmap"
}

type macMapJSON struct {
	Allow *MacHostSet `json:"allow,omitempty"`
	Deny  *MacHostSet `json:"deny,omitempty"`
}

func (p MacMapPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(macMapJSON{Allow: p.allowed, Deny: p.denied})
}

func (p *MacMapPolicy) UnmarshalJSON(data []byte) error {
	var w macMapJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = macMapFromWire(w.Allow, w.Deny)
	return nil
}

func macMapFromWire(allow, deny *MacHostSet) MacMapPolicy {
	var a, d MacHostSet
	if allow != nil {
		a = *allow
	}
	if deny != nil {
		d = *deny
	}
	return MacMapPolicyOf(a, d)
}

func (p MacMapPolicy) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := p.encodeXMLLists(e); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (p MacMapPolicy) encodeXMLLists(e *xml.Encoder) error {
	if p.allowed != nil {
		if err := e.EncodeElement(*p.allowed, xmlStart("allow")); err != nil {
			return err
		}
	}
	if p.denied != nil {
		if err := e.EncodeElement(*p.denied, xmlStart("deny")); err != nil {
			return err
		}
	}
	return nil
}

func (p *MacMapPolicy) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if _, err := readXMLAttrs(start.Name.Local, start); err != nil {
		return err
	}
	var allow, deny *MacHostSet
	if err := decodeXMLChildren(d, start, single(macMapXMLHandlers(d, &allow, &deny))); err != nil {
		return err
	}
	*p = macMapFromWire(allow, deny)
	return nil
}

func macMapXMLHandlers(d *xml.Decoder, allow, deny **MacHostSet) map[string]func(xml.StartElement) error {
	list := func(dst **MacHostSet) func(xml.StartElement) error {
		return func(s xml.StartElement) error {
			var set MacHostSet
			if err := d.DecodeElement(&set, &s); err != nil {
				return err
			}
			*dst = &set
			return nil
		}
	}
	return map[string]func(xml.StartElement) error{
		"allow": list(allow),
		"deny":  list(deny),
	}
}

// MacMapInfo is a MacMapPolicy together with the hosts the resolution
// engine currently maps through it. It is built once from an engine result
// and not modified afterwards.
type MacMapInfo struct {
	policy MacMapPolicy
	mapped []MacEntry
}

// NewMacMapInfo keeps mapped in the order the engine returned it. An empty
// list is stored as absent.
func NewMacMapInfo(policy MacMapPolicy, mapped []MacEntry) MacMapInfo {
	info := MacMapInfo{policy: policy}
	if len(mapped) != 0 {
		info.mapped = append([]MacEntry(nil), mapped...)
	}
	return info
}

func (i MacMapInfo) Policy() MacMapPolicy {
	return i.policy
}

// Mapped returns the resolved hosts, or false when there are none.
func (i MacMapInfo) Mapped() ([]MacEntry, bool) {
	if i.mapped == nil {
		return nil, false
	}
	return append([]MacEntry(nil), i.mapped...), true
}

func (i MacMapInfo) Equal(o MacMapInfo) bool {
	return i.policy.Equal(o.policy) && equalSequence(i.mapped, o.mapped)
}

func (i MacMapInfo) Hash() uint64 {
	return newHasher("macmapinfo").u64(i.policy.Hash()).u64(hashSequence("mapped", i.mapped)).sum()
}

// XMLRootName implements XMLRooted.
func (MacMapInfo) XMLRootName() string {
	return "macmapinfo"
}

type macMapInfoJSON struct {
	Allow  *MacHostSet         `json:"allow,omitempty"`
	Deny   *MacHostSet         `json:"deny,omitempty"`
	Mapped *Envelope[MacEntry] `json:"mapped,omitempty"`
}

func (i MacMapInfo) MarshalJSON() ([]byte, error) {
	w := macMapInfoJSON{Allow: i.policy.allowed, Deny: i.policy.denied}
	if i.mapped != nil {
		mapped := NewEnvelope(i.mapped)
		w.Mapped = &mapped
	}
	return json.Marshal(w)
}

func (i *MacMapInfo) UnmarshalJSON(data []byte) error {
	var w macMapInfoJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var mapped []MacEntry
	if w.Mapped != nil {
		mapped = w.Mapped.Items()
	}
	*i = NewMacMapInfo(macMapFromWire(w.Allow, w.Deny), mapped)
	return nil
}

func (i MacMapInfo) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := i.policy.encodeXMLLists(e); err != nil {
		return err
	}
	if i.mapped != nil {
		if err := e.EncodeElement(NewEnvelope(i.mapped), xmlStart("mapped")); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (i *MacMapInfo) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if _, err := readXMLAttrs(start.Name.Local, start); err != nil {
		return err
	}
	var allow, deny *MacHostSet
	var mapped []MacEntry
	handlers := macMapXMLHandlers(d, &allow, &deny)
	handlers["mapped"] = func(s xml.StartElement) error {
		var env Envelope[MacEntry]
		if err := d.DecodeElement(&env, &s); err != nil {
			return err
		}
		mapped = env.Items()
		return nil
	}
	if err := decodeXMLChildren(d, start, single(handlers)); err != nil {
		return err
	}
	*i = NewMacMapInfo(macMapFromWire(allow, deny), mapped)
	return nil
}
