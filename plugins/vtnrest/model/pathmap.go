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
)

// MaxPathPolicyID is the highest path policy identifier. Policy 0 selects
// the shortest path.
const MaxPathPolicyID = 3

const pathMapItem = "pathmap"

// PathMap routes packets meeting a flow condition along a path policy.
type PathMap struct {
	Index       int    `json:"index" validate:"min=1,max=65535"`
	Condition   string `json:"condition" validate:"required,vtnname"`
	Policy      int    `json:"policy" validate:"min=0,max=3"`
	IdleTimeout *int   `json:"idleTimeout,omitempty" validate:"omitempty,min=0,max=65535"`
	HardTimeout *int   `json:"hardTimeout,omitempty" validate:"omitempty,min=0,max=65535"`
}

func (m PathMap) Validate() error {
	if err := checkStruct(pathMapItem, m); err != nil {
		return err
	}
	if (m.IdleTimeout == nil) != (m.HardTimeout == nil) {
		return invalid(pathMapItem, "hardTimeout", "", "idleTimeout and hardTimeout must be given together")
	}
	return nil
}

func (m PathMap) RuleIndex() int {
	return m.Index
}

func (m PathMap) Equal(o PathMap) bool {
	return m.Index == o.Index && m.Condition == o.Condition && m.Policy == o.Policy &&
		optEqual(m.IdleTimeout, o.IdleTimeout) && optEqual(m.HardTimeout, o.HardTimeout)
}

func (m PathMap) Hash() uint64 {
	return newHasher(pathMapItem).int(m.Index).str(m.Condition).int(m.Policy).
		optInt(m.IdleTimeout).optInt(m.HardTimeout).sum()
}

func (PathMap) listNames() listNames {
	return listNames{container: "pathmaps", item: pathMapItem}
}

// XMLRootName implements XMLRooted.
func (PathMap) XMLRootName() string {
	return pathMapItem
}

type pathMapJSON PathMap

func (m *PathMap) UnmarshalJSON(data []byte) error {
	var w pathMapJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := PathMap(w).Validate(); err != nil {
		return err
	}
	*m = PathMap(w)
	return nil
}

func (m PathMap) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.int("index", m.Index)
	w.str("condition", m.Condition)
	w.int("policy", m.Policy)
	w.optInt("idleTimeout", m.IdleTimeout)
	w.optInt("hardTimeout", m.HardTimeout)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (m *PathMap) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "index", "condition", "policy", "idleTimeout", "hardTimeout")
	if err != nil {
		return err
	}
	v := PathMap{
		Index:       r.int("index"),
		Condition:   r.str("condition"),
		Policy:      r.int("policy"),
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
	*m = v
	return nil
}
