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
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"
)

const macHostItem = "machost"

// MacHostSet is an unordered, duplicate free collection of MacHost. The zero
// value is the empty set.
type MacHostSet struct {
	hosts sets.Set[MacHost]
}

// NewMacHostSet builds a set from hosts; duplicates collapse silently.
func NewMacHostSet(hosts ...MacHost) MacHostSet {
	if len(hosts) == 0 {
		return MacHostSet{}
	}
	return MacHostSet{hosts: sets.New(hosts...)}
}

// MacHostSetOf validates raw entries and builds a set from them. The first
// invalid entry fails the whole set.
func MacHostSetOf(raw ...MacHostSpec) (MacHostSet, error) {
	hosts := make([]MacHost, 0, len(raw))
	for _, r := range raw {
		h, err := NewMacHost(r.Address, r.Vlan)
		if err != nil {
			return MacHostSet{}, err
		}
		hosts = append(hosts, h)
	}
	return NewMacHostSet(hosts...), nil
}

func (s MacHostSet) Len() int {
	return s.hosts.Len()
}

func (s MacHostSet) Contains(h MacHost) bool {
	return s.hosts.Has(h)
}

// Hosts returns the members in a stable order unrelated to insertion order.
func (s MacHostSet) Hosts() []MacHost {
	if s.hosts.Len() == 0 {
		return nil
	}
	list := s.hosts.UnsortedList()
	sort.Slice(list, func(i, j int) bool { return list[i].less(list[j]) })
	return list
}

// Equal compares membership only.
func (s MacHostSet) Equal(o MacHostSet) bool {
	return s.hosts.Equal(o.hosts)
}

func (s MacHostSet) Hash() uint64 {
	hashes := make([]uint64, 0, s.hosts.Len())
	for h := range s.hosts {
		hashes = append(hashes, h.Hash())
	}
	return unorderedHash("machosts", hashes)
}

// XMLRootName implements XMLRooted.
func (MacHostSet) XMLRootName() string {
	return "machosts"
}

func (s MacHostSet) MarshalJSON() ([]byte, error) {
	return itemsJSON(macHostItem, s.Hosts())
}

func (s *MacHostSet) UnmarshalJSON(data []byte) error {
	hosts, err := parseItemsJSON[MacHost](data, macHostItem)
	if err != nil {
		return err
	}
	*s = NewMacHostSet(hosts...)
	return nil
}

func (s MacHostSet) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return encodeXMLItems(e, start, macHostItem, s.Hosts())
}

func (s *MacHostSet) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	hosts, err := decodeXMLItems[MacHost](d, start, macHostItem)
	if err != nil {
		return err
	}
	*s = NewMacHostSet(hosts...)
	return nil
}
