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

// Package codec renders resources as JSON or XML and decodes request
// bodies back into resources.
package codec

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/ligato/cn-infra/logging"
	"github.com/unrolled/render"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
)

// Format is a wire format.
type Format int

// Supported formats.
const (
	JSON Format = iota
	XML
)

// Media types.
const (
	MediaTypeJSON = "application/json"
	MediaTypeXML  = "application/xml"
)

func (f Format) String() string {
	if f == XML {
		return "xml"
	}
	return "json"
}

// NewFormatter returns the render instance every handler writes through.
func NewFormatter() *render.Render {
	return render.New(render.Options{
		PrefixXML:      []byte(xml.Header),
		XMLContentType: MediaTypeXML,
	})
}

// Negotiate picks the response format for an Accept header. XML is chosen
// only when the client ranks an XML media type strictly above JSON, or
// lists it first at equal quality. The */* and application/* ranges stand
// for JSON.
func Negotiate(accept string) Format {
	xmlQ, jsonQ := -1.0, -1.0
	xmlPos, jsonPos := -1, -1
	for i, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if s, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				q = v
			}
		}
		switch {
		case mediaType == "application/xml" || mediaType == "text/xml":
			if q > xmlQ {
				xmlQ, xmlPos = q, i
			}
		case mediaType == "application/json" || mediaType == "text/json" ||
			mediaType == "*/*" || mediaType == "application/*":
			if q > jsonQ {
				jsonQ, jsonPos = q, i
			}
		}
	}
	if xmlQ <= 0 {
		return JSON
	}
	if xmlQ > jsonQ || (xmlQ == jsonQ && xmlPos < jsonPos) {
		return XML
	}
	return JSON
}

// contentFormat picks the request decoder from Content-Type. Anything that
// is not XML is read as JSON.
func contentFormat(contentType string) Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return JSON
	}
	if mediaType == "application/xml" || mediaType == "text/xml" || strings.HasSuffix(mediaType, "+xml") {
		return XML
	}
	return JSON
}

// Adapter moves resources between HTTP messages and the model.
type Adapter struct {
	formatter *render.Render
	log       logging.Logger
}

// NewAdapter builds an adapter writing through formatter.
func NewAdapter(formatter *render.Render, log logging.Logger) *Adapter {
	return &Adapter{formatter: formatter, log: log}
}

// Formatter returns the render instance of the adapter.
func (a *Adapter) Formatter() *render.Render {
	return a.formatter
}

// Decode reads the request body into v. The error is a
// *model.ValidationError when the document parsed but holds an invalid
// value, and a *MalformedPayloadError otherwise.
func (a *Adapter) Decode(req *http.Request, v model.XMLRooted) error {
	format := contentFormat(req.Header.Get("Content-Type"))
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		return &MalformedPayloadError{Format: format, Err: err}
	}
	if format == XML {
		err = DecodeXML(bytes.NewReader(body), v)
	} else {
		err = DecodeJSON(bytes.NewReader(body), v)
	}
	if err != nil {
		a.log.Debugf("Decode: %s %s: %v", format, req.URL, err)
	}
	return err
}

// DecodeJSON decodes one JSON document. Unknown fields are ignored.
func DecodeJSON(r io.Reader, v interface{}) error {
	body, err := ioutil.ReadAll(r)
	if err != nil {
		return &MalformedPayloadError{Format: JSON, Err: err}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return classify(JSON, err)
	}
	return nil
}

// DecodeXML decodes one XML document whose root element must be named
// after v.
func DecodeXML(r io.Reader, v model.XMLRooted) error {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return &MalformedPayloadError{Format: XML, Err: io.ErrUnexpectedEOF}
		}
		if err != nil {
			return &MalformedPayloadError{Format: XML, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != v.XMLRootName() {
			return &MalformedPayloadError{
				Format: XML,
				Err:    fmt.Errorf("expected element type <%s> but have <%s>", v.XMLRootName(), start.Name.Local),
			}
		}
		if err := d.DecodeElement(v, &start); err != nil {
			return classify(XML, err)
		}
		return trailingXML(d)
	}
}

// trailingXML fails unless only whitespace, comments and processing
// instructions follow the root element.
func trailingXML(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &MalformedPayloadError{Format: XML, Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return &MalformedPayloadError{
				Format: XML,
				Err:    fmt.Errorf("unexpected element <%s> after the document element", t.Name.Local),
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return &MalformedPayloadError{
					Format: XML,
					Err:    fmt.Errorf("unexpected text %q after the document element", string(bytes.TrimSpace(t))),
				}
			}
		}
	}
}

// xmlDocument names the root element after the resource instead of its Go
// type.
type xmlDocument struct {
	v model.XMLRooted
}

func (d xmlDocument) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return e.EncodeElement(d.v, xml.StartElement{Name: xml.Name{Local: d.v.XMLRootName()}})
}

// Marshal encodes v the way Render writes it, without the XML header.
func Marshal(v model.XMLRooted, format Format) ([]byte, error) {
	if format == XML {
		return xml.Marshal(xmlDocument{v: v})
	}
	return json.Marshal(v)
}

// Render writes v with status in the format the request accepts.
func (a *Adapter) Render(w http.ResponseWriter, req *http.Request, status int, v model.XMLRooted) {
	var err error
	if Negotiate(req.Header.Get("Accept")) == XML {
		err = a.formatter.XML(w, status, xmlDocument{v: v})
	} else {
		err = a.formatter.JSON(w, status, v)
	}
	if err != nil {
		a.log.Errorf("Render: %s %s: %v", req.Method, req.URL, err)
	}
}

// Error writes the response for a failed request. Client errors carry
// their message; an unexpected failure is logged and answered with a
// fixed text.
func (a *Adapter) Error(w http.ResponseWriter, req *http.Request, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.log.Errorf("%s %s: %v", req.Method, req.URL, err)
		msg = InternalErrorMessage
	} else {
		a.log.Debugf("%s %s: %d %v", req.Method, req.URL, status, err)
	}
	if rerr := a.formatter.Text(w, status, msg); rerr != nil {
		a.log.Errorf("Error: %s %s: %v", req.Method, req.URL, rerr)
	}
}
