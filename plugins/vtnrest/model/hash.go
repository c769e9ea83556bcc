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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// hasher feeds length-delimited fields into one xxhash digest so every field
// reaches the final avalanche instead of being folded with ^ or +.
type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newHasher(kind string) *hasher {
	h := &hasher{d: xxhash.New()}
	return h.str(kind)
}

func (h *hasher) u64(v uint64) *hasher {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.d.Write(h.buf[:])
	return h
}

func (h *hasher) int(v int) *hasher {
	return h.u64(uint64(int64(v)))
}

func (h *hasher) str(s string) *hasher {
	h.u64(uint64(len(s)))
	h.d.WriteString(s)
	return h
}

func (h *hasher) flag(b bool) *hasher {
	if b {
		return h.u64(1)
	}
	return h.u64(0)
}

func (h *hasher) optInt(p *int) *hasher {
	if p == nil {
		return h.flag(false)
	}
	return h.flag(true).int(*p)
}

func (h *hasher) optBool(p *bool) *hasher {
	if p == nil {
		return h.u64(2)
	}
	return h.flag(*p)
}

func (h *hasher) sum() uint64 {
	return h.d.Sum64()
}

// unorderedHash combines element hashes with commutative operations and then
// mixes the aggregate, so the result ignores encounter order.
func unorderedHash(kind string, hashes []uint64) uint64 {
	var add, xor uint64
	for _, v := range hashes {
		add += v
		xor ^= v
	}
	return newHasher(kind).u64(uint64(len(hashes))).u64(add).u64(xor).sum()
}

// orderedHash chains element hashes so the result depends on position.
func orderedHash(kind string, hashes []uint64) uint64 {
	h := newHasher(kind).u64(uint64(len(hashes)))
	for _, v := range hashes {
		h.u64(v)
	}
	return h.sum()
}

func optEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
