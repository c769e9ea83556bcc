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
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/onsi/gomega"
)

// hostSpecs turns small integers into raw host entries. Code 0 is the
// wildcard; the low bits pick the VLAN so that duplicates are frequent.
func hostSpecs(codes []int) []MacHostSpec {
	specs := make([]MacHostSpec, len(codes))
	for i, c := range codes {
		specs[i] = MacHostSpec{Vlan: c % 4}
		if c >= 4 {
			specs[i].Address = fmt.Sprintf("02:00:00:00:00:%02x", c/4)
		}
	}
	return specs
}

func shuffled(specs []MacHostSpec, seed int64) []MacHostSpec {
	out := make([]MacHostSpec, len(specs))
	for i, j := range rand.New(rand.NewSource(seed)).Perm(len(specs)) {
		out[i] = specs[j]
	}
	return out
}

func TestMacHostSetCollapsesDuplicates(t *testing.T) {
	gomega.RegisterTestingT(t)

	s, err := MacHostSetOf(
		MacHostSpec{Vlan: 0},
		MacHostSpec{Address: "00:11:22:33:44:55", Vlan: 10},
		MacHostSpec{Address: "00:11:22:33:44:55", Vlan: 10},
	)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	gomega.Expect(s.Len()).Should(gomega.Equal(2))
	gomega.Expect(s.Contains(mustHost(t, "", 0))).Should(gomega.BeTrue())
	gomega.Expect(s.Contains(mustHost(t, "00:11:22:33:44:55", 10))).Should(gomega.BeTrue())
	gomega.Expect(s.Contains(mustHost(t, "00:11:22:33:44:55", 11))).Should(gomega.BeFalse())
}

func TestMacHostSetInvalidEntry(t *testing.T) {
	gomega.RegisterTestingT(t)

	_, err := MacHostSetOf(MacHostSpec{Vlan: 1}, MacHostSpec{Address: "zz", Vlan: 1})
	gomega.Expect(err).Should(gomega.BeAssignableToTypeOf(&ValidationError{}))
}

func TestMacHostSetPermutationProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("permuted input builds an equal set with an equal hash", prop.ForAll(
		func(codes []int, seed int64) bool {
			specs := hostSpecs(codes)
			s1, err1 := MacHostSetOf(specs...)
			s2, err2 := MacHostSetOf(shuffled(specs, seed)...)
			if err1 != nil || err2 != nil {
				return false
			}
			return s1.Equal(s2) && s2.Equal(s1) && s1.Hash() == s2.Hash()
		},
		gen.SliceOf(gen.IntRange(0, 40)),
		gen.Int64(),
	))

	properties.Property("JSON round trip keeps membership", prop.ForAll(
		func(codes []int) bool {
			s, err := MacHostSetOf(hostSpecs(codes)...)
			if err != nil {
				return false
			}
			data, err := json.Marshal(s)
			if err != nil {
				return false
			}
			var back MacHostSet
			if err := json.Unmarshal(data, &back); err != nil {
				return false
			}
			return back.Equal(s)
		},
		gen.SliceOf(gen.IntRange(0, 40)),
	))

	properties.TestingRun(t)
}

func TestMacHostSetWire(t *testing.T) {
	gomega.RegisterTestingT(t)

	// insertion order is not observable on the wire
	s := NewMacHostSet(mustHost(t, "00:11:22:33:44:55", 10), mustHost(t, "", 0))
	data, err := json.Marshal(s)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	gomega.Expect(string(data)).Should(gomega.Equal(
		`{"machost":[{"vlan":0},{"address":"00:11:22:33:44:55","vlan":10}]}`))

	gomega.Expect(marshalRoot(t, s)).Should(gomega.Equal(
		`<machosts><machost vlan="0"></machost><machost address="00:11:22:33:44:55" vlan="10"></machost></machosts>`))

	data, err = json.Marshal(MacHostSet{})
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	gomega.Expect(string(data)).Should(gomega.Equal(`{}`))

	var back MacHostSet
	gomega.Expect(xml.Unmarshal([]byte(`<machosts><machost vlan="3"/><machost vlan="3"/></machosts>`), &back)).
		Should(gomega.Succeed())
	gomega.Expect(back.Len()).Should(gomega.Equal(1))

	err = xml.Unmarshal([]byte(`<machosts><host vlan="3"/></machosts>`), &back)
	gomega.Expect(err).Should(gomega.MatchError(gomega.ContainSubstring("unexpected element <host>")))
}
