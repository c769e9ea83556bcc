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
	"net"
)

// Valid VLAN ids. Zero means untagged.
const (
	MinVlanID = 0
	MaxVlanID = 4095
)

// MacHost matches layer 2 hosts by MAC address and VLAN id. A MacHost
// without an address is a wildcard matching every host on the VLAN.
type MacHost struct {
	address string // canonical form, "" for the wildcard
	vlan    uint16
}

// MacHostSpec is the raw, unvalidated form of a MacHost.
type MacHostSpec struct {
	Address string
	Vlan    int `validate:"min=0,max=4095"`
}

// NewMacHost validates and canonicalizes a host matcher. An empty address
// builds the wildcard matcher for vlan.
func NewMacHost(address string, vlan int) (MacHost, error) {
	if err := checkStruct("machost", MacHostSpec{Address: address, Vlan: vlan}); err != nil {
		return MacHost{}, err
	}
	var mac string
	if address != "" {
		var err error
		if mac, err = parseMAC("machost", "address", address); err != nil {
			return MacHost{}, err
		}
	}
	return MacHost{address: mac, vlan: uint16(vlan)}, nil
}

// Address returns the canonical MAC address, or false for the wildcard.
func (h MacHost) Address() (string, bool) {
	return h.address, h.address != ""
}

// Vlan returns the VLAN id.
func (h MacHost) Vlan() uint16 {
	return h.vlan
}

// IsWildcard reports whether the matcher has no address.
func (h MacHost) IsWildcard() bool {
	return h.address == ""
}

func (h MacHost) Equal(o MacHost) bool {
	return h == o
}

func (h MacHost) Hash() uint64 {
	return newHasher("machost").flag(h.address != "").str(h.address).u64(uint64(h.vlan)).sum()
}

func (h MacHost) String() string {
	addr := h.address
	if addr == "" {
		addr = "ANY"
	}
	return fmt.Sprintf("%s@%d", addr, h.vlan)
}

// less orders host matchers for deterministic output. Wildcards sort first.
func (h MacHost) less(o MacHost) bool {
	if h.address != o.address {
		return h.address < o.address
	}
	return h.vlan < o.vlan
}

// XMLRootName implements XMLRooted.
func (MacHost) XMLRootName() string {
	return "machost"
}

type macHostJSON struct {
	Address string `json:"address,omitempty"`
	Vlan    *int64 `json:"vlan,omitempty"`
}

func (h MacHost) MarshalJSON() ([]byte, error) {
	vlan := int64(h.vlan)
	return json.Marshal(macHostJSON{Address: h.address, Vlan: &vlan})
}

func (h *MacHost) UnmarshalJSON(data []byte) error {
	var w macHostJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var vlan int64
	if w.Vlan != nil {
		vlan = *w.Vlan
	}
	// checked before narrowing to int
	if err := checkVar("machost", "vlan", vlan, vlanTag); err != nil {
		return err
	}
	v, err := NewMacHost(w.Address, int(vlan))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (h MacHost) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("address", h.address)
	w.int("vlan", int(h.vlan))
	start.Attr = w.attrs
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (h *MacHost) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "address", "vlan")
	if err != nil {
		return err
	}
	address, vlan := r.str("address"), r.int("vlan")
	if r.err != nil {
		return r.err
	}
	if err := skipXML(d, start); err != nil {
		return err
	}
	v, err := NewMacHost(address, vlan)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// parseMAC accepts any textual form net.ParseMAC understands, limited to
// 48-bit addresses, and returns the lower case colon separated form.
func parseMAC(resource, field, s string) (string, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return "", invalid(resource, field, s, "not a MAC address")
	}
	if len(hw) != 6 {
		return "", invalid(resource, field, s, "not a 48-bit MAC address")
	}
	return hw.String(), nil
}
