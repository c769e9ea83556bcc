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

package vtnrest

import (
	"bytes"
	"encoding/xml"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/ligato/cn-infra/rpc/rest"
	httpmock "github.com/ligato/cn-infra/rpc/rest/mock"
	"github.com/onsi/gomega"
	"github.com/unrolled/render"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/codec"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/engine"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/service"
)

const base = "/controller/nb/v2/vtn/default/"

// mockHTTPHandlers registers handlers the way the REST plugin does and is
// served through httpmock instead of a listener.
type mockHTTPHandlers struct {
	rest.HTTPHandlers
	mx        *mux.Router
	formatter *render.Render
	// header is added to the next request
	header http.Header
}

func newMockHTTPHandlers() *mockHTTPHandlers {
	return &mockHTTPHandlers{mx: mux.NewRouter(), formatter: codec.NewFormatter(), header: http.Header{}}
}

func (h *mockHTTPHandlers) RegisterHTTPHandler(path string, provider rest.HandlerProvider, methods ...string) *mux.Route {
	return h.mx.HandleFunc(path, provider(h.formatter)).Methods(methods...)
}

func (h *mockHTTPHandlers) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for k, v := range h.header {
		req.Header[k] = v
	}
	h.header = http.Header{}
	h.mx.ServeHTTP(w, req)
}

// testAgent is the plugin under test with its http mock.
type testAgent struct {
	handlers *mockHTTPHandlers
	httpMock *httpmock.HTTPMock
}

// response is the part of an http.Response the tests look at.
type response struct {
	Code   int
	header http.Header
	Body   *bytes.Buffer
}

func (r *response) Header() http.Header {
	return r.header
}

func newTestRouter(t *testing.T) (*testAgent, *service.Registry) {
	s, err := engine.ReadSnapshotFile("engine/testdata/snapshot.yaml")
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	log := logrus.DefaultLogger()
	log.SetLevel(logging.DebugLevel)

	registry := service.NewRegistry()
	registry.Register(model.DefaultContainerName, engine.New(s))

	ta := &testAgent{handlers: newMockHTTPHandlers(), httpMock: &httpmock.HTTPMock{}}
	if _, err := ta.httpMock.SetHandler(rest.Config{}, ta.handlers); err != nil {
		t.Fatalf("set handler: %v", err)
	}
	plugin := &Plugin{Deps: Deps{
		Log:          log,
		HTTPHandlers: ta.handlers,
		Facade:       service.NewFacade(registry, log),
	}}
	if err := plugin.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return ta, registry
}

func call(ta *testAgent, method, url string, body io.Reader, headers ...string) *response {
	for i := 0; i+1 < len(headers); i += 2 {
		ta.handlers.header.Set(headers[i], headers[i+1])
	}
	httpResp, err := ta.httpMock.NewRequest(method, "http://127.0.0.1"+url, body)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	defer httpResp.Body.Close()
	data, err := ioutil.ReadAll(httpResp.Body)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	return &response{Code: httpResp.StatusCode, header: httpResp.Header, Body: bytes.NewBuffer(data)}
}

func TestPluginInitRequiresDeps(t *testing.T) {
	gomega.RegisterTestingT(t)

	gomega.Expect((&Plugin{}).Init()).Should(gomega.HaveOccurred())

	p := &Plugin{Deps: Deps{HTTPHandlers: newMockHTTPHandlers()}}
	gomega.Expect(p.Init()).Should(gomega.MatchError("vtnrest: no service facade"))
	gomega.Expect(p.String()).Should(gomega.Equal(PluginName))
	gomega.Expect(p.Close()).Should(gomega.Succeed())
}

func TestGetTenants(t *testing.T) {
	gomega.RegisterTestingT(t)

	router, _ := newTestRouter(t)

	rec := call(router, http.MethodGet, base+"vtns", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Header().Get("Content-Type")).Should(gomega.HavePrefix(codec.MediaTypeJSON))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(
		`{"vtn":[{"name":"vtn1","description":"production","idleTimeout":300,"hardTimeout":0},{"name":"vtn2"}]}`))

	rec = call(router, http.MethodGet, base+"vtns/count", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(`{"value":2}`))

	rec = call(router, http.MethodGet, base+"vtns/vtn2", nil, "Accept", "application/xml")
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Header().Get("Content-Type")).Should(gomega.HavePrefix(codec.MediaTypeXML))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(xml.Header + `<vtn name="vtn2"`))

	rec = call(router, http.MethodGet, base+"vtns/vtn9", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusNotFound))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal("vtn not found: vtn9"))
}

func TestUnknownContainer(t *testing.T) {
	gomega.RegisterTestingT(t)

	router, registry := newTestRouter(t)

	rec := call(router, http.MethodGet, "/controller/nb/v2/vtn/other/vtns", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusServiceUnavailable))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal("network management service unavailable for container other"))

	registry.Unregister(model.DefaultContainerName)
	rec = call(router, http.MethodGet, base+"nodes", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusServiceUnavailable))
}

func TestGetVirtualNodes(t *testing.T) {
	gomega.RegisterTestingT(t)

	router, _ := newTestRouter(t)

	rec := call(router, http.MethodGet, base+"vtns/vtn1/vbridges/count", nil)
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(`{"value":2}`))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vbridges/br2", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.ContainSubstring(`"name":"br2"`))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vbridges/br9", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusNotFound))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal("vbridge not found: vtn1/br9"))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vbridges/br1/interfaces", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(`{"interface":[{"name":"if1"`))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vterminals/vt1/interfaces", nil, "Accept", "text/xml")
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(xml.Header + `<interfaces><interface name="if1"`))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vterminals/vt9", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusNotFound))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vbridges/br1/vlanmaps", nil)
	gomega.Expect(rec.Body.String()).Should(gomega.ContainSubstring(`"id":"openflow:2.10"`))

	rec = call(router, http.MethodGet, base+"vtns/vtn2/vterminals", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(`{}`))

	rec = call(router, http.MethodGet, base+"nodes", nil)
	gomega.Expect(rec.Body.String()).Should(gomega.ContainSubstring(`"ipaddr":["192.168.10.1","10.0.0.1"]`))
}

func TestMacMapResource(t *testing.T) {
	gomega.RegisterTestingT(t)

	router, _ := newTestRouter(t)
	url := base + "vtns/vtn1/vbridges/br1/macmap"

	rec := call(router, http.MethodGet, url, nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.ContainSubstring(`"mapped":{"macentry":[`))

	rec = call(router, http.MethodGet, url+"/deny", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(`{"machost":[{"address":"00:aa:bb:cc:dd:ee","vlan":0}]}`))

	rec = call(router, http.MethodPut, url, strings.NewReader(`{"allow":{"machost":[{"address":"00:11:22:33:44:66","vlan":5}]}}`),
		"Content-Type", "application/json")
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(`{"allow":{"machost":[{"address":"00:11:22:33:44:66","vlan":5}]},"mapped":`))

	// the deny list was replaced along with the rest of the policy
	rec = call(router, http.MethodGet, url+"/deny", nil, "Accept", "application/xml")
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(xml.Header + `<machosts></machosts>`))

	rec = call(router, http.MethodPut, url, strings.NewReader(`<macmap><deny><machost address="00:aa:bb:cc:dd:ee" vlan="4"/></deny></macmap>`),
		"Content-Type", "application/xml", "Accept", "application/xml")
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(xml.Header + `<macmapinfo><deny>`))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vbridges/br1/mac/count", nil)
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(`{"value":2}`))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vbridges/br2/mac", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(`{}`))
}

func TestMacMapRejectsMalformedVlan(t *testing.T) {
	gomega.RegisterTestingT(t)

	router, _ := newTestRouter(t)
	url := base + "vtns/vtn1/vbridges/br1/macmap"

	rec := call(router, http.MethodPut, url, strings.NewReader(`{"allow":{"machost":[{"vlan": "not-a-number"}]}}`),
		"Content-Type", "application/json")
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusBadRequest))
	gomega.Expect(rec.Header().Get("Content-Type")).Should(gomega.HavePrefix("text/plain"))
	gomega.Expect(rec.Body.String()).Should(gomega.ContainSubstring("cannot unmarshal string"))

	rec = call(router, http.MethodPut, url, strings.NewReader(`{"allow":{"machost":[{"vlan":4096}]}}`))
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusBadRequest))

	rec = call(router, http.MethodPut, url, strings.NewReader(`<macmapinfo/>`), "Content-Type", "application/xml")
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusBadRequest))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal("expected element type <macmap> but have <macmapinfo>"))

	// nothing was stored
	rec = call(router, http.MethodGet, url+"/deny", nil)
	gomega.Expect(rec.Body.String()).Should(gomega.ContainSubstring("00:aa:bb:cc:dd:ee"))

	rec = call(router, http.MethodPut, base+"vtns/vtn1/vbridges/br9/macmap", strings.NewReader(`{}`))
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusNotFound))
}

func TestFlowFilterResource(t *testing.T) {
	gomega.RegisterTestingT(t)

	router, _ := newTestRouter(t)
	url := base + "vtns/vtn1/vbridges/br1/interfaces/if1/flowfilters/out"

	rec := call(router, http.MethodGet, url, nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(`{"flowfilter":[{"index":30,`))

	chain := `{"flowfilter":[{"index":50,"condition":"any","type":"drop"},{"index":40,"condition":"web","type":"pass"}]}`
	rec = call(router, http.MethodPut, url, strings.NewReader(chain), "Content-Type", "application/json")
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(chain))

	rec = call(router, http.MethodGet, url, nil, "Accept", "application/xml")
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(xml.Header + `<flowfilters><flowfilter index="50"`))

	rec = call(router, http.MethodPut, url, strings.NewReader(`{"flowfilter":[{"index":1,"condition":"any","type":"redirect"}]}`))
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusBadRequest))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/flowfilters/in", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(`{"flowfilter":[{"index":10,`))

	// VTN level lists only exist for incoming packets
	rec = call(router, http.MethodGet, base+"vtns/vtn1/flowfilters/out", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusNotFound))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vbridges/br1/flowfilters/sideways", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusNotFound))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/vterminals/vt1/interfaces/if1/flowfilters/in", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.Equal(`{}`))

	rec = call(router, http.MethodDelete, url, nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusMethodNotAllowed))
}

func TestFlowConditionsAndPathMaps(t *testing.T) {
	gomega.RegisterTestingT(t)

	router, _ := newTestRouter(t)

	rec := call(router, http.MethodGet, base+"flowconditions/web", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(`{"name":"web","flowmatch":[{"index":20,`))

	rec = call(router, http.MethodGet, base+"flowconditions", nil, "Accept", "application/xml")
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(xml.Header + `<flowconditions><flowcondition name="web">`))

	rec = call(router, http.MethodGet, base+"flowconditions/ssh", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusNotFound))

	rec = call(router, http.MethodGet, base+"vtns/vtn1/pathmaps", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	gomega.Expect(rec.Body.String()).Should(gomega.HavePrefix(`{"pathmap":[{"index":20,`))
}

func TestSnapshotExport(t *testing.T) {
	gomega.RegisterTestingT(t)

	router, registry := newTestRouter(t)

	rec := call(router, http.MethodGet, base+"snapshot", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusOK))
	s, err := engine.ParseSnapshot(rec.Body.Bytes())
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	gomega.Expect(s.Tenants).Should(gomega.HaveLen(2))

	registry.Register("plain", plainManager{})
	rec = call(router, http.MethodGet, "/controller/nb/v2/vtn/plain/snapshot", nil)
	gomega.Expect(rec.Code).Should(gomega.Equal(http.StatusNotFound))
}

// plainManager is an engine that cannot export its configuration.
type plainManager struct {
	service.Manager
}
