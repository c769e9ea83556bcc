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
	"encoding/xml"
	"net/netip"
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"
)

const ipAddrItem = "ipaddr"

func parseIPAddrs(resource string, raw []string) ([]netip.Addr, error) {
	addrs := make([]netip.Addr, 0, len(raw))
	for _, s := range raw {
		a, err := netip.ParseAddr(s)
		if err != nil {
			return nil, invalid(resource, ipAddrItem, s, "not an IP address")
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

func addrStrings(addrs []netip.Addr) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}

// IPAddressList keeps network addresses in caller order, duplicates
// included.
type IPAddressList struct {
	addrs []netip.Addr
}

// NewIPAddressList parses every address up front.
func NewIPAddressList(raw ...string) (IPAddressList, error) {
	addrs, err := parseIPAddrs("ipaddresses", raw)
	if err != nil {
		return IPAddressList{}, err
	}
	if len(addrs) == 0 {
		return IPAddressList{}, nil
	}
	return IPAddressList{addrs: addrs}, nil
}

func (l IPAddressList) Len() int {
	return len(l.addrs)
}

// Addresses returns the canonical text of each address, in order.
func (l IPAddressList) Addresses() []string {
	return addrStrings(l.addrs)
}

// Equal is positional.
func (l IPAddressList) Equal(o IPAddressList) bool {
	if len(l.addrs) != len(o.addrs) {
		return false
	}
	for i := range l.addrs {
		if l.addrs[i] != o.addrs[i] {
			return false
		}
	}
	return true
}

func (l IPAddressList) Hash() uint64 {
	hashes := make([]uint64, len(l.addrs))
	for i, a := range l.addrs {
		hashes[i] = newHasher(ipAddrItem).str(a.String()).sum()
	}
	return orderedHash("ipaddresslist", hashes)
}

func (l IPAddressList) MarshalJSON() ([]byte, error) {
	return itemsJSON(ipAddrItem, l.Addresses())
}

func (l *IPAddressList) UnmarshalJSON(data []byte) error {
	raw, err := parseItemsJSON[string](data, ipAddrItem)
	if err != nil {
		return err
	}
	v, err := NewIPAddressList(raw...)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l IPAddressList) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return encodeXMLItems(e, start, ipAddrItem, l.Addresses())
}

func (l *IPAddressList) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	raw, err := decodeXMLAddrs(d, start)
	if err != nil {
		return err
	}
	v, err := NewIPAddressList(raw...)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// IPAddressSet is the unordered, duplicate free variant of IPAddressList.
type IPAddressSet struct {
	addrs sets.Set[netip.Addr]
}

// NewIPAddressSet parses every address up front and drops duplicates.
func NewIPAddressSet(raw ...string) (IPAddressSet, error) {
	addrs, err := parseIPAddrs("ipaddresses", raw)
	if err != nil {
		return IPAddressSet{}, err
	}
	if len(addrs) == 0 {
		return IPAddressSet{}, nil
	}
	return IPAddressSet{addrs: sets.New(addrs...)}, nil
}

func (s IPAddressSet) Len() int {
	return s.addrs.Len()
}

// Contains reports whether the textual address raw is a member.
func (s IPAddressSet) Contains(raw string) bool {
	a, err := netip.ParseAddr(raw)
	if err != nil {
		return false
	}
	return s.addrs.Has(a)
}

// Addresses returns the members in address order.
func (s IPAddressSet) Addresses() []string {
	list := s.addrs.UnsortedList()
	sort.Slice(list, func(i, j int) bool { return list[i].Less(list[j]) })
	return addrStrings(list)
}

func (s IPAddressSet) Equal(o IPAddressSet) bool {
	return s.addrs.Equal(o.addrs)
}

func (s IPAddressSet) Hash() uint64 {
	hashes := make([]uint64, 0, s.addrs.Len())
	for a := range s.addrs {
		hashes = append(hashes, newHasher(ipAddrItem).str(a.String()).sum())
	}
	return unorderedHash("ipaddressset", hashes)
}

func (s IPAddressSet) MarshalJSON() ([]byte, error) {
	return itemsJSON(ipAddrItem, s.Addresses())
}

func (s *IPAddressSet) UnmarshalJSON(data []byte) error {
	raw, err := parseItemsJSON[string](data, ipAddrItem)
	if err != nil {
		return err
	}
	v, err := NewIPAddressSet(raw...)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s IPAddressSet) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return encodeXMLItems(e, start, ipAddrItem, s.Addresses())
}

func (s *IPAddressSet) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	raw, err := decodeXMLAddrs(d, start)
	if err != nil {
		return err
	}
	v, err := NewIPAddressSet(raw...)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func decodeXMLAddrs(d *xml.Decoder, start xml.StartElement) ([]string, error) {
	if _, err := readXMLAttrs(start.Name.Local, start); err != nil {
		return nil, err
	}
	var raw []string
	err := decodeXMLChildren(d, start, map[string]func(xml.StartElement) error{
		ipAddrItem: func(s xml.StartElement) error {
			text, err := decodeXMLText(d, s)
			if err != nil {
				return err
			}
			raw = append(raw, text)
			return nil
		},
	})
	return raw, err
}
