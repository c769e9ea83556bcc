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
)

// listNames are the wire names of a list resource: the container element
// (XML root) and the per item key.
type listNames struct {
	container string
	item      string
}

// Resource is implemented by every value that can be listed in an Envelope.
type Resource[T any] interface {
	Equal(T) bool
	Hash() uint64
	listNames() listNames
}

// Envelope is the wire wrapper of every "list of T" resource. A nil and an
// empty item sequence are the same list: they compare equal, hash equal and
// are both rendered without the item key.
type Envelope[T Resource[T]] struct {
	items []T
}

// NewEnvelope wraps items. A nil slice is accepted.
func NewEnvelope[T Resource[T]](items []T) Envelope[T] {
	if len(items) == 0 {
		return Envelope[T]{}
	}
	return Envelope[T]{items: append([]T(nil), items...)}
}

// Items returns a copy of the wrapped items in their original order.
func (e Envelope[T]) Items() []T {
	if len(e.items) == 0 {
		return nil
	}
	return append([]T(nil), e.items...)
}

func (e Envelope[T]) Len() int {
	return len(e.items)
}

func (e Envelope[T]) IsEmpty() bool {
	return len(e.items) == 0
}

func (e Envelope[T]) Equal(o Envelope[T]) bool {
	return equalSequence(e.items, o.items)
}

func (e Envelope[T]) Hash() uint64 {
	return hashSequence(e.names().container, e.items)
}

func (e Envelope[T]) names() listNames {
	var zero T
	return zero.listNames()
}

// XMLRootName implements XMLRooted.
func (e Envelope[T]) XMLRootName() string {
	return e.names().container
}

func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	return itemsJSON(e.names().item, e.items)
}

func (e *Envelope[T]) UnmarshalJSON(data []byte) error {
	items, err := parseItemsJSON[T](data, e.names().item)
	if err != nil {
		return err
	}
	*e = NewEnvelope(items)
	return nil
}

func (e Envelope[T]) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	return encodeXMLItems(enc, start, e.names().item, e.items)
}

func (e *Envelope[T]) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	items, err := decodeXMLItems[T](d, start, e.names().item)
	if err != nil {
		return err
	}
	*e = NewEnvelope(items)
	return nil
}

// equalSequence is the one place the empty-equals-absent rule is decided:
// when either side is empty the other must be empty too, otherwise the
// sequences are compared position by position.
func equalSequence[T Resource[T]](a, b []T) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func hashSequence[T Resource[T]](kind string, items []T) uint64 {
	hashes := make([]uint64, len(items))
	for i, v := range items {
		hashes[i] = v.Hash()
	}
	return orderedHash(kind, hashes)
}
