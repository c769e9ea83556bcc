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
	"testing"

	"github.com/onsi/gomega"
	"github.com/pkg/errors"
)

func intPtr(v int) *int {
	return &v
}

func TestValidateTags(t *testing.T) {
	gomega.RegisterTestingT(t)

	for _, tc := range []struct {
		name     string
		v        interface{ Validate() error }
		resource string
		field    string
		reason   string
	}{
		{"empty vtn name", VTenant{}, "vtn", "name", "is required"},
		{"bad vtn name", VTenant{Name: "_x"}, "vtn", "name", "must match " + resourceNameRe.String()},
		{"long vtn name", VTenant{Name: "a234567890123456789012345678901x"}, "vtn", "name", "must match " + resourceNameRe.String()},
		{"idle timeout", VTenant{Name: "t", IdleTimeout: intPtr(65536)}, "vtn", "idleTimeout", "must be at most 65535"},
		{"age interval", VBridge{Name: "b", AgeInterval: intPtr(5)}, "vbridge", "ageInterval", "must be at least 10"},
		{"bridge state", VBridge{Name: "b", State: "SIDEWAYS"}, "vbridge", "state", "must be one of UNKNOWN, DOWN, UP"},
		{"terminal state", VTerminal{Name: "t", State: "up"}, "vterminal", "state", "must be one of UNKNOWN, DOWN, UP"},
		{"entity state", VInterface{Name: "i", EntityState: "GONE"}, "interface", "entityState", "must be one of UNKNOWN, DOWN, UP"},
		{"portmap node", VInterface{Name: "i", PortMap: &PortMap{ID: "1"}}, "interface", "portmap.node", "is required"},
		{"portmap port", VInterface{Name: "i", PortMap: &PortMap{Node: "openflow:1"}}, "interface", "portmap.id", "is required when name is not given"},
		{"portmap vlan", PortMap{Node: "openflow:1", Name: "s1-eth1", Vlan: 4096}, "portmap", "vlan", "must be at most 4095"},
		{"vlanmap id", VlanMap{Vlan: 1}, "vlanmap", "id", "is required"},
		{"node id", Node{}, "node", "id", "is required"},
		{"filter type", FlowFilter{Index: 1, Condition: "c", Type: "forward"}, "flowfilter", "type", "must be one of pass, drop, redirect"},
		{"filter priority", FlowFilter{Index: 1, Condition: "c", Type: FilterPass, Priority: intPtr(8)}, "flowfilter", "priority", "must be at most 7"},
		{"redirect interface", FlowFilter{Index: 1, Condition: "c", Type: FilterRedirect, Redirect: &RedirectDestination{Bridge: "b"}},
			"flowfilter", "redirect.interface", "is required"},
		{"pathmap policy", PathMap{Index: 1, Condition: "c", Policy: MaxPathPolicyID + 1}, "pathmap", "policy", "must be at most 3"},
		{"flowcondition name", FlowCondition{Name: "no spaces"}, "flowcondition", "name", "must match " + resourceNameRe.String()},
		{"match index", FlowMatch{Index: 65536}, "flowmatch", "index", "must be at most 65535"},
		{"ether vlan", FlowMatch{Index: 1, Ether: &EtherMatch{Vlan: intPtr(-1)}}, "flowmatch", "ethernet.vlan", "must be at least 0"},
		{"inet protocol", FlowMatch{Index: 1, Inet4: &Inet4Match{Protocol: intPtr(256)}}, "flowmatch", "inet4.protocol", "must be at most 255"},
		{"port range", FlowMatch{Index: 1, L4: &L4Match{Src: &PortRange{From: 90, To: 80}}}, "flowmatch", "l4.src.to", "must not be below from"},
	} {
		err := tc.v.Validate()
		var verr *ValidationError
		gomega.Expect(errors.As(err, &verr)).Should(gomega.BeTrue(), tc.name)
		gomega.Expect(verr.Resource).Should(gomega.Equal(tc.resource), tc.name)
		gomega.Expect(verr.Field).Should(gomega.Equal(tc.field), tc.name)
		gomega.Expect(verr.Reason).Should(gomega.Equal(tc.reason), tc.name)
	}
}

func TestValidateTagsAccept(t *testing.T) {
	gomega.RegisterTestingT(t)

	for _, v := range []interface{ Validate() error }{
		VTenant{Name: "vtn_1", IdleTimeout: intPtr(0), HardTimeout: intPtr(65535)},
		VBridge{Name: "b", AgeInterval: intPtr(10), State: StateUp},
		VTerminal{Name: "t"},
		VInterface{Name: "i", State: StateDown, PortMap: &PortMap{Node: "openflow:1", Name: "s1-eth1"}},
		VlanMap{ID: "ANY.0"},
		Node{ID: "openflow:1"},
		PathMap{Index: 65535, Condition: "c", Policy: 0},
		FlowMatch{Index: 1, L4: &L4Match{Dst: &PortRange{From: 80, To: 80}}},
	} {
		gomega.Expect(v.Validate()).Should(gomega.Succeed(), "%+v", v)
	}
}

func TestValidateReportsValue(t *testing.T) {
	gomega.RegisterTestingT(t)

	err := VBridge{Name: "b", State: "SIDEWAYS"}.Validate()
	gomega.Expect(err).Should(gomega.MatchError(`vbridge: invalid state "SIDEWAYS": must be one of UNKNOWN, DOWN, UP`))

	var vt VTerminal
	err = json.Unmarshal([]byte(`{"name":"t","state":"LOST"}`), &vt)
	gomega.Expect(err).Should(gomega.BeAssignableToTypeOf(&ValidationError{}))
}

func TestRuleChainValidate(t *testing.T) {
	gomega.RegisterTestingT(t)

	gomega.Expect(NewRuleChain[PathMap](nil).Validate()).Should(gomega.Succeed())

	chain := NewRuleChain([]PathMap{{Index: 2, Condition: "c"}, {Index: 0, Condition: "!!"}})
	err := chain.Validate()
	var verr *ValidationError
	gomega.Expect(errors.As(err, &verr)).Should(gomega.BeTrue())
	gomega.Expect(verr.Field).Should(gomega.Equal("index"))

	// a chain that validates survives its own round trip
	chain = NewRuleChain([]PathMap{{Index: 2, Condition: "c"}, {Index: 1, Condition: "d", Policy: 3}})
	gomega.Expect(chain.Validate()).Should(gomega.Succeed())
	data, err := json.Marshal(chain)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	var back RuleChain[PathMap]
	gomega.Expect(json.Unmarshal(data, &back)).Should(gomega.Succeed())
	gomega.Expect(back.Equal(chain)).Should(gomega.BeTrue())

	matches := NewRuleChain([]FlowMatch{{Index: 1}, {Index: 2, Ether: &EtherMatch{Src: "zz"}}})
	gomega.Expect(matches.Validate()).Should(gomega.BeAssignableToTypeOf(&ValidationError{}))
}
