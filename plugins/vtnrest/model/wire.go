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
	"fmt"
	"strconv"
)

// XMLRooted is implemented by every resource that can be the document root
// of an XML request or response.
type XMLRooted interface {
	XMLRootName() string
}

func xmlStart(name string, attrs ...xml.Attr) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
}

// itemsJSON renders {"<key>":[...]}, or {} when there is nothing to list.
func itemsJSON[T any](key string, items []T) ([]byte, error) {
	if len(items) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string][]T{key: items})
}

// parseItemsJSON is the inverse of itemsJSON. A missing or null key yields a
// nil slice; other keys are ignored.
func parseItemsJSON[T any](data []byte, key string) ([]T, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	body, ok := raw[key]
	if !ok || isJSONNull(body) {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// parseArrayJSON decodes a bare JSON array, treating null as absent.
func parseArrayJSON[T any](body json.RawMessage) ([]T, error) {
	if len(body) == 0 || isJSONNull(body) {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func isJSONNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

func encodeXMLItems[T any](e *xml.Encoder, start xml.StartElement, item string, items []T) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, v := range items {
		if err := e.EncodeElement(v, xmlStart(item)); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func decodeXMLItems[T any](d *xml.Decoder, start xml.StartElement, item string) ([]T, error) {
	if _, err := readXMLAttrs(start.Name.Local, start); err != nil {
		return nil, err
	}
	var items []T
	err := decodeXMLChildren(d, start, map[string]func(xml.StartElement) error{
		item: func(s xml.StartElement) error {
			var v T
			if err := d.DecodeElement(&v, &s); err != nil {
				return err
			}
			items = append(items, v)
			return nil
		},
	})
	return items, err
}

// decodeXMLChildren consumes the content of start up to its end element,
// handing every child element to the handler registered under its local
// name. Undeclared child elements are rejected. Each handler must consume
// its element completely.
func decodeXMLChildren(d *xml.Decoder, start xml.StartElement,
	handlers map[string]func(xml.StartElement) error) error {

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			h, ok := handlers[t.Name.Local]
			if !ok {
				return fmt.Errorf("unexpected element <%s> in <%s>", t.Name.Local, start.Name.Local)
			}
			if err := h(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// single makes every child element in handlers optional but not
// repeatable: a second occurrence fails instead of replacing or extending
// the first.
func single(handlers map[string]func(xml.StartElement) error) map[string]func(xml.StartElement) error {
	seen := make(map[string]bool, len(handlers))
	once := make(map[string]func(xml.StartElement) error, len(handlers))
	for name, h := range handlers {
		name, h := name, h
		once[name] = func(s xml.StartElement) error {
			if seen[name] {
				return fmt.Errorf("duplicate element <%s>", name)
			}
			seen[name] = true
			return h(s)
		}
	}
	return once
}

// decodeXMLText reads the character data of a leaf element.
func decodeXMLText(d *xml.Decoder, start xml.StartElement) (string, error) {
	var text []byte
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text = append(text, t...)
		case xml.StartElement:
			return "", fmt.Errorf("unexpected element <%s> in <%s>", t.Name.Local, start.Name.Local)
		case xml.EndElement:
			return string(bytes.TrimSpace(text)), nil
		}
	}
}

// skipXML consumes an element whose content carries nothing but attributes.
func skipXML(d *xml.Decoder, start xml.StartElement) error {
	return decodeXMLChildren(d, start, nil)
}

// xmlAttrWriter collects attributes, leaving out absent values.
type xmlAttrWriter struct {
	attrs []xml.Attr
}

func (w *xmlAttrWriter) str(name, v string) {
	if v != "" {
		w.attrs = append(w.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: v})
	}
}

func (w *xmlAttrWriter) int(name string, v int) {
	w.attrs = append(w.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: strconv.Itoa(v)})
}

func (w *xmlAttrWriter) optInt(name string, v *int) {
	if v != nil {
		w.int(name, *v)
	}
}

func (w *xmlAttrWriter) optBool(name string, v *bool) {
	if v != nil {
		w.attrs = append(w.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: strconv.FormatBool(*v)})
	}
}

func (w *xmlAttrWriter) start(name string) xml.StartElement {
	return xmlStart(name, w.attrs...)
}

// xmlAttrReader reads declared attributes of one element. The first
// conversion failure is kept in err.
type xmlAttrReader struct {
	element string
	attrs   map[string]string
	err     error
}

// readXMLAttrs indexes the attributes of start, rejecting any attribute not
// listed in allowed. Namespace declarations are always accepted.
func readXMLAttrs(element string, start xml.StartElement, allowed ...string) (*xmlAttrReader, error) {
	r := &xmlAttrReader{element: element, attrs: make(map[string]string, len(start.Attr))}
	for _, a := range start.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		if !containsString(allowed, a.Name.Local) {
			return nil, fmt.Errorf("unexpected attribute %q in <%s>", a.Name.Local, element)
		}
		r.attrs[a.Name.Local] = a.Value
	}
	return r, nil
}

func (r *xmlAttrReader) str(name string) string {
	return r.attrs[name]
}

func (r *xmlAttrReader) optInt(name string) *int {
	s, ok := r.attrs[name]
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("attribute %q of <%s>: %v", name, r.element, err)
		}
		return nil
	}
	return &v
}

func (r *xmlAttrReader) int(name string) int {
	if v := r.optInt(name); v != nil {
		return *v
	}
	return 0
}

func (r *xmlAttrReader) optBool(name string) *bool {
	s, ok := r.attrs[name]
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("attribute %q of <%s>: %v", name, r.element, err)
		}
		return nil
	}
	return &v
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
