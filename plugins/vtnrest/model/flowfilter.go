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

// Flow filter actions.
const (
	FilterPass     = "pass"
	FilterDrop     = "drop"
	FilterRedirect = "redirect"
)

const flowFilterItem = "flowfilter"

// RedirectDestination names the virtual interface a redirect filter sends
// packets to. Exactly one of Bridge and Terminal is set.
type RedirectDestination struct {
	Bridge    string `json:"bridge,omitempty" validate:"omitempty,vtnname"`
	Terminal  string `json:"terminal,omitempty" validate:"omitempty,vtnname"`
	Interface string `json:"interface" validate:"required,vtnname"`
	Output    bool   `json:"output"`
}

// validate checks what the tags cannot: the destination names exactly one
// node.
func (r RedirectDestination) validate() error {
	if (r.Bridge == "") == (r.Terminal == "") {
		return invalid(flowFilterItem, "redirect", r.Bridge+r.Terminal, "exactly one of bridge and terminal is required")
	}
	return nil
}

func (r RedirectDestination) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.str("bridge", r.Bridge)
	w.str("terminal", r.Terminal)
	w.str("interface", r.Interface)
	output := r.Output
	w.optBool("output", &output)
	start.Attr = w.attrs
	return encodeXMLEmpty(e, start)
}

func (r *RedirectDestination) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	a, err := readXMLAttrs(start.Name.Local, start, "bridge", "terminal", "interface", "output")
	if err != nil {
		return err
	}
	v := RedirectDestination{Bridge: a.str("bridge"), Terminal: a.str("terminal"), Interface: a.str("interface")}
	if out := a.optBool("output"); out != nil {
		v.Output = *out
	}
	if a.err != nil {
		return a.err
	}
	*r = v
	return skipXML(d, start)
}

// FlowFilter applies an action to packets meeting a flow condition.
// Priority and DSCP rewrite the packet before the action is taken.
type FlowFilter struct {
	Index     int                  `json:"index" validate:"min=1,max=65535"`
	Condition string               `json:"condition" validate:"required,vtnname"`
	Type      string               `json:"type" validate:"oneof=pass drop redirect"`
	Priority  *int                 `json:"priority,omitempty" validate:"omitempty,min=0,max=7"`
	DSCP      *int                 `json:"dscp,omitempty" validate:"omitempty,min=0,max=63"`
	Redirect  *RedirectDestination `json:"redirect,omitempty"`
}

func (f FlowFilter) Validate() error {
	if err := checkStruct(flowFilterItem, f); err != nil {
		return err
	}
	if f.Type != FilterRedirect {
		if f.Redirect != nil {
			return invalid(flowFilterItem, "redirect", f.Type, "only allowed for %s filters", FilterRedirect)
		}
		return nil
	}
	if f.Redirect == nil {
		return invalid(flowFilterItem, "redirect", "", "is required")
	}
	return f.Redirect.validate()
}

func (f FlowFilter) RuleIndex() int {
	return f.Index
}

func (f FlowFilter) Equal(o FlowFilter) bool {
	return f.Index == o.Index && f.Condition == o.Condition && f.Type == o.Type &&
		optEqual(f.Priority, o.Priority) && optEqual(f.DSCP, o.DSCP) && optEqual(f.Redirect, o.Redirect)
}

func (f FlowFilter) Hash() uint64 {
	h := newHasher(flowFilterItem).int(f.Index).str(f.Condition).str(f.Type).optInt(f.Priority).optInt(f.DSCP)
	h.flag(f.Redirect != nil)
	if r := f.Redirect; r != nil {
		h.str(r.Bridge).str(r.Terminal).str(r.Interface).flag(r.Output)
	}
	return h.sum()
}

func (FlowFilter) listNames() listNames {
	return listNames{container: "flowfilters", item: flowFilterItem}
}

// XMLRootName implements XMLRooted.
func (FlowFilter) XMLRootName() string {
	return flowFilterItem
}

type flowFilterJSON FlowFilter

func (f *FlowFilter) UnmarshalJSON(data []byte) error {
	var w flowFilterJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := FlowFilter(w).Validate(); err != nil {
		return err
	}
	*f = FlowFilter(w)
	return nil
}

func (f FlowFilter) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	w.int("index", f.Index)
	w.str("condition", f.Condition)
	w.str("type", f.Type)
	w.optInt("priority", f.Priority)
	w.optInt("dscp", f.DSCP)
	start.Attr = w.attrs
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if f.Redirect != nil {
		if err := e.EncodeElement(*f.Redirect, xmlStart("redirect")); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (f *FlowFilter) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "index", "condition", "type", "priority", "dscp")
	if err != nil {
		return err
	}
	v := FlowFilter{
		Index:     r.int("index"),
		Condition: r.str("condition"),
		Type:      r.str("type"),
		Priority:  r.optInt("priority"),
		DSCP:      r.optInt("dscp"),
	}
	if r.err != nil {
		return r.err
	}
	err = decodeXMLChildren(d, start, single(map[string]func(xml.StartElement) error{
		"redirect": func(s xml.StartElement) error {
			v.Redirect = &RedirectDestination{}
			return d.DecodeElement(v.Redirect, &s)
		},
	}))
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*f = v
	return nil
}
