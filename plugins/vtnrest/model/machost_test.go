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
	"bytes"
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/onsi/gomega"
	"github.com/pkg/errors"
)

// marshalRoot encodes v the way a response body is written: with the
// resource's own root element name.
func marshalRoot(t *testing.T, v XMLRooted) string {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := enc.EncodeElement(v, xmlStart(v.XMLRootName())); err != nil {
		t.Fatalf("encode %T: %v", v, err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func mustHost(t *testing.T, address string, vlan int) MacHost {
	h, err := NewMacHost(address, vlan)
	if err != nil {
		t.Fatalf("NewMacHost(%q, %d): %v", address, vlan, err)
	}
	return h
}

func TestMacHostCanonicalAddress(t *testing.T) {
	gomega.RegisterTestingT(t)

	h, err := NewMacHost("00-11-22-AA-BB-CC", 10)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	addr, ok := h.Address()
	gomega.Expect(ok).Should(gomega.BeTrue())
	gomega.Expect(addr).Should(gomega.Equal("00:11:22:aa:bb:cc"))
	gomega.Expect(h.Vlan()).Should(gomega.Equal(uint16(10)))

	// the same host written differently is the same matcher
	gomega.Expect(h.Equal(mustHost(t, "00:11:22:aa:bb:cc", 10))).Should(gomega.BeTrue())
	gomega.Expect(h.Hash()).Should(gomega.Equal(mustHost(t, "00:11:22:aa:bb:cc", 10).Hash()))
}

func TestMacHostWildcard(t *testing.T) {
	gomega.RegisterTestingT(t)

	h := mustHost(t, "", 0)
	gomega.Expect(h.IsWildcard()).Should(gomega.BeTrue())
	_, ok := h.Address()
	gomega.Expect(ok).Should(gomega.BeFalse())

	data, err := json.Marshal(h)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	gomega.Expect(string(data)).Should(gomega.Equal(`{"vlan":0}`))
	gomega.Expect(marshalRoot(t, h)).Should(gomega.Equal(`<machost vlan="0"></machost>`))
}

func TestMacHostHashSeparatesFields(t *testing.T) {
	gomega.RegisterTestingT(t)

	a := mustHost(t, "00:00:00:00:00:01", 2)
	b := mustHost(t, "00:00:00:00:00:02", 1)
	gomega.Expect(a.Equal(b)).Should(gomega.BeFalse())
	gomega.Expect(a.Hash()).ShouldNot(gomega.Equal(b.Hash()))
	gomega.Expect(mustHost(t, "", 1).Hash()).ShouldNot(gomega.Equal(mustHost(t, "", 2).Hash()))
}

func TestMacHostValidation(t *testing.T) {
	gomega.RegisterTestingT(t)

	for _, tc := range []struct {
		address string
		vlan    int
		field   string
	}{
		{"00:11:22:33:44:55", 4096, "vlan"},
		{"00:11:22:33:44:55", -1, "vlan"},
		{"not-a-mac", 0, "address"},
		{"00:00:00:00:fe:80:00:00:00:00:00:00:02:00:5e:10:00:00:00:01", 0, "address"},
	} {
		_, err := NewMacHost(tc.address, tc.vlan)
		var verr *ValidationError
		gomega.Expect(errors.As(err, &verr)).Should(gomega.BeTrue(), "%s/%d", tc.address, tc.vlan)
		gomega.Expect(verr.Field).Should(gomega.Equal(tc.field))
	}
}

func TestMacHostJSON(t *testing.T) {
	gomega.RegisterTestingT(t)

	var h MacHost
	err := json.Unmarshal([]byte(`{"address":"00:11:22:33:44:55","vlan":10}`), &h)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	gomega.Expect(h.Equal(mustHost(t, "00:11:22:33:44:55", 10))).Should(gomega.BeTrue())

	// vlan defaults to untagged
	err = json.Unmarshal([]byte(`{"address":"00:11:22:33:44:55"}`), &h)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	gomega.Expect(h.Vlan()).Should(gomega.Equal(uint16(0)))

	err = json.Unmarshal([]byte(`{"vlan":70000}`), &h)
	var verr *ValidationError
	gomega.Expect(errors.As(err, &verr)).Should(gomega.BeTrue())

	// a type mismatch is a decoder failure, not a validation failure
	err = json.Unmarshal([]byte(`{"vlan":"not-a-number"}`), &h)
	gomega.Expect(err).Should(gomega.HaveOccurred())
	gomega.Expect(errors.As(err, &verr)).Should(gomega.BeFalse())
	var terr *json.UnmarshalTypeError
	gomega.Expect(errors.As(err, &terr)).Should(gomega.BeTrue())
}

func TestMacHostXML(t *testing.T) {
	gomega.RegisterTestingT(t)

	h := mustHost(t, "00:11:22:33:44:55", 10)
	out := marshalRoot(t, h)
	gomega.Expect(out).Should(gomega.Equal(`<machost address="00:11:22:33:44:55" vlan="10"></machost>`))

	var back MacHost
	gomega.Expect(xml.Unmarshal([]byte(out), &back)).Should(gomega.Succeed())
	gomega.Expect(back.Equal(h)).Should(gomega.BeTrue())

	err := xml.Unmarshal([]byte(`<machost vlan="1" color="red"/>`), &back)
	gomega.Expect(err).Should(gomega.MatchError(gomega.ContainSubstring(`unexpected attribute "color"`)))

	err = xml.Unmarshal([]byte(`<machost vlan="1"><note/></machost>`), &back)
	gomega.Expect(err).Should(gomega.MatchError(gomega.ContainSubstring("unexpected element <note>")))

	err = xml.Unmarshal([]byte(`<machost vlan="ten"/>`), &back)
	gomega.Expect(err).Should(gomega.HaveOccurred())
}
