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
	"math/big"
)

// BigInteger wraps a single, possibly absent, integer for the wire. It is
// used for resources such as "count" which return a bare number.
type BigInteger struct {
	value *big.Int
}

// NewBigInteger wraps v.
func NewBigInteger(v int64) BigInteger {
	return BigInteger{value: big.NewInt(v)}
}

// NewBigIntegerFromBig wraps a copy of v. A nil v is absent.
func NewBigIntegerFromBig(v *big.Int) BigInteger {
	if v == nil {
		return BigInteger{}
	}
	return BigInteger{value: new(big.Int).Set(v)}
}

// Value returns a copy of the wrapped value, or false when absent.
func (b BigInteger) Value() (*big.Int, bool) {
	if b.value == nil {
		return nil, false
	}
	return new(big.Int).Set(b.value), true
}

// Equal is null safe: two absent values are equal, absent never equals a
// present value.
func (b BigInteger) Equal(o BigInteger) bool {
	if b.value == nil || o.value == nil {
		return b.value == nil && o.value == nil
	}
	return b.value.Cmp(o.value) == 0
}

func (b BigInteger) Hash() uint64 {
	h := newHasher("integer").flag(b.value != nil)
	if b.value != nil {
		h.flag(b.value.Sign() < 0).str(string(b.value.Bytes()))
	}
	return h.sum()
}

func (b BigInteger) String() string {
	if b.value == nil {
		return "<nil>"
	}
	return b.value.String()
}

// XMLRootName implements XMLRooted.
func (BigInteger) XMLRootName() string {
	return "integer"
}

type bigIntegerJSON struct {
	Value *big.Int `json:"value,omitempty"`
}

func (b BigInteger) MarshalJSON() ([]byte, error) {
	return json.Marshal(bigIntegerJSON{Value: b.value})
}

func (b *BigInteger) UnmarshalJSON(data []byte) error {
	var w bigIntegerJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	b.value = w.Value
	return nil
}

func (b BigInteger) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	var w xmlAttrWriter
	if b.value != nil {
		w.str("value", b.value.String())
	}
	start.Attr = w.attrs
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (b *BigInteger) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r, err := readXMLAttrs(start.Name.Local, start, "value")
	if err != nil {
		return err
	}
	b.value = nil
	if s, ok := r.attrs["value"]; ok {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("attribute \"value\" of <%s>: invalid integer %q", start.Name.Local, s)
		}
		b.value = v
	}
	return skipXML(d, start)
}
