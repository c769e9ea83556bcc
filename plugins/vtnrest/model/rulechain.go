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

// Valid rule indexes.
const (
	MinRuleIndex = 1
	MaxRuleIndex = 65535
)

// IndexedResource is an entry of a rule chain. The index is assigned by the
// caller and need not be contiguous.
type IndexedResource[T any] interface {
	Resource[T]
	RuleIndex() int
	Validate() error
}

// RuleChain is an ordered list of indexed rules whose position is their
// evaluation precedence. The chain keeps the order it was built with and is
// never sorted by index. Index uniqueness is left to whoever owns the chain.
type RuleChain[T IndexedResource[T]] struct {
	Envelope[T]
}

// NewRuleChain wraps rules as given. Unlike a decoded chain the rules are
// not checked; see Validate.
func NewRuleChain[T IndexedResource[T]](rules []T) RuleChain[T] {
	return RuleChain[T]{Envelope: NewEnvelope(rules)}
}

// Validate checks every rule in chain order and returns the first failure.
func (c RuleChain[T]) Validate() error {
	for _, r := range c.items {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Rules returns the rules in chain order.
func (c RuleChain[T]) Rules() []T {
	return c.Items()
}

// Indexes returns the rule indexes in chain order.
func (c RuleChain[T]) Indexes() []int {
	if c.IsEmpty() {
		return nil
	}
	idx := make([]int, len(c.items))
	for i, r := range c.items {
		idx[i] = r.RuleIndex()
	}
	return idx
}

// Lookup returns the first rule carrying index.
func (c RuleChain[T]) Lookup(index int) (T, bool) {
	for _, r := range c.items {
		if r.RuleIndex() == index {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Equal is positional: the same rules in another order are a different
// chain.
func (c RuleChain[T]) Equal(o RuleChain[T]) bool {
	return c.Envelope.Equal(o.Envelope)
}
