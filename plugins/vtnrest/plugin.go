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

// Package vtnrest serves the VTN northbound REST API. Every request is
// resolved to the network management engine of its container, and the
// engine's answer is rendered as JSON or XML.
package vtnrest

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/ligato/cn-infra/rpc/rest"
	"github.com/unrolled/render"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/codec"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/service"
)

// route variables
const (
	containerName = "containerName"
	tenantName    = "tenantName"
	bridgeName    = "bridgeName"
	terminalName  = "terminalName"
	ifName        = "ifName"
	conditionName = "conditionName"
	direction     = "direction"
)

// PluginName is the name the agent knows the plugin by.
const PluginName = "vtnrest"

// Deps are the plugin dependencies.
type Deps struct {
	Log          logging.Logger
	HTTPHandlers rest.HTTPHandlers //inject
	Facade       *service.Facade
}

// Plugin registers the VTN resources with the REST plugin.
type Plugin struct {
	Deps
}

// Exporter is implemented by engines able to dump their configuration.
type Exporter interface {
	ExportYaml() ([]byte, error)
}

// Init registers the handlers.
func (p *Plugin) Init() error {
	if p.Log == nil {
		p.Log = logrus.DefaultLogger()
	}
	if p.HTTPHandlers == nil {
		return fmt.Errorf("vtnrest: no http handlers to register with")
	}
	if p.Facade == nil {
		return fmt.Errorf("vtnrest: no service facade")
	}
	p.InitHTTPHandlers()
	return nil
}

// Close is called by the agent on shutdown.
func (p *Plugin) Close() error {
	return nil
}

func (p *Plugin) String() string {
	return PluginName
}

// ContainerURL is the prefix of every resource of a container.
func ContainerURL() string {
	return model.ContainerPrefix(fmt.Sprintf("{%s}", containerName))
}

// TenantURL is the URL of one VTN.
func TenantURL() string {
	return ContainerURL() + fmt.Sprintf("vtns/{%s}", tenantName)
}

// BridgeURL is the URL of one vBridge.
func BridgeURL() string {
	return TenantURL() + fmt.Sprintf("/vbridges/{%s}", bridgeName)
}

// TerminalURL is the URL of one vTerminal.
func TerminalURL() string {
	return TenantURL() + fmt.Sprintf("/vterminals/{%s}", terminalName)
}

func flowFiltersURL(base string) string {
	return base + fmt.Sprintf("/flowfilters/{%s:in|out}", direction)
}

// InitHTTPHandlers registers the handler funcs for every resource.
func (p *Plugin) InitHTTPHandlers() {

	p.Log.Infof("InitHTTPHandlers: registering %s ...", ContainerURL())

	p.register(ContainerURL()+"vtns", p.tenantsHandler, http.MethodGet)
	p.register(ContainerURL()+"vtns/count", p.tenantCountHandler, http.MethodGet)
	p.register(TenantURL(), p.tenantHandler, http.MethodGet)

	p.register(TenantURL()+"/vbridges", p.bridgesHandler, http.MethodGet)
	p.register(TenantURL()+"/vbridges/count", p.bridgeCountHandler, http.MethodGet)
	p.register(BridgeURL(), p.bridgeHandler, http.MethodGet)
	p.register(BridgeURL()+"/interfaces", p.interfacesHandler, http.MethodGet)
	p.register(BridgeURL()+"/vlanmaps", p.vlanMapsHandler, http.MethodGet)
	p.register(BridgeURL()+"/macmap", p.macMapHandler, http.MethodGet, http.MethodPut)
	p.register(BridgeURL()+"/macmap/allow", p.macMapSetHandler(model.MacMapPolicy.Allowed), http.MethodGet)
	p.register(BridgeURL()+"/macmap/deny", p.macMapSetHandler(model.MacMapPolicy.Denied), http.MethodGet)
	p.register(BridgeURL()+"/mac", p.macEntriesHandler, http.MethodGet)
	p.register(BridgeURL()+"/mac/count", p.macEntryCountHandler, http.MethodGet)

	p.register(TenantURL()+"/vterminals", p.terminalsHandler, http.MethodGet)
	p.register(TerminalURL(), p.terminalHandler, http.MethodGet)
	p.register(TerminalURL()+"/interfaces", p.interfacesHandler, http.MethodGet)

	for _, base := range []string{
		TenantURL(),
		BridgeURL(),
		BridgeURL() + fmt.Sprintf("/interfaces/{%s}", ifName),
		TerminalURL() + fmt.Sprintf("/interfaces/{%s}", ifName),
	} {
		p.register(flowFiltersURL(base), p.flowFiltersHandler, http.MethodGet, http.MethodPut)
	}
	p.register(TenantURL()+"/pathmaps", p.pathMapsHandler, http.MethodGet)

	p.register(ContainerURL()+"flowconditions", p.flowConditionsHandler, http.MethodGet)
	p.register(ContainerURL()+fmt.Sprintf("flowconditions/{%s}", conditionName), p.flowConditionHandler, http.MethodGet)
	p.register(ContainerURL()+"nodes", p.nodesHandler, http.MethodGet)
	p.register(ContainerURL()+"snapshot", p.snapshotHandler, http.MethodGet)
}

func (p *Plugin) register(url string, provider rest.HandlerProvider, methods ...string) {
	p.Log.Debugf("InitHTTPHandlers: registering %v %s", methods, url)
	p.HTTPHandlers.RegisterHTTPHandler(url, provider, methods...)
}

// request is what a handler works with once its container is resolved.
type request struct {
	mgr     service.Manager
	vars    map[string]string
	adapter *codec.Adapter
}

func (r *request) bridgePath() service.BridgePath {
	return service.BridgePath{Tenant: r.vars[tenantName], Bridge: r.vars[bridgeName]}
}

// nodePath is nil when the route names no virtual node.
func (r *request) nodePath() *service.NodePath {
	switch {
	case r.vars[bridgeName] != "":
		return &service.NodePath{Tenant: r.vars[tenantName], Kind: service.KindBridge, Name: r.vars[bridgeName]}
	case r.vars[terminalName] != "":
		return &service.NodePath{Tenant: r.vars[tenantName], Kind: service.KindTerminal, Name: r.vars[terminalName]}
	}
	return nil
}

func (r *request) flowFilterPath() service.FlowFilterPath {
	return service.FlowFilterPath{
		Tenant:    r.vars[tenantName],
		Node:      r.nodePath(),
		Interface: r.vars[ifName],
		Direction: r.vars[direction],
	}
}

// serve builds a handler provider around fn. fn either writes the response
// itself and returns nil, or returns the error to report.
func (p *Plugin) serve(name string, fn func(w http.ResponseWriter, req *http.Request, r *request) error) rest.HandlerProvider {
	return func(formatter *render.Render) http.HandlerFunc {
		adapter := codec.NewAdapter(formatter, p.Log)
		return func(w http.ResponseWriter, req *http.Request) {
			p.Log.Debugf("%s: Method %s, URL: %s", name, req.Method, req.URL)
			vars := mux.Vars(req)
			mgr, err := p.Facade.Manager(vars[containerName])
			if err == nil {
				err = fn(w, req, &request{mgr: mgr, vars: vars, adapter: adapter})
			}
			if err != nil {
				adapter.Error(w, req, err)
			}
		}
	}
}

// get serves a read-only resource.
func (p *Plugin) get(name string, fetch func(r *request) (model.XMLRooted, error)) rest.HandlerProvider {
	return p.serve(name, func(w http.ResponseWriter, req *http.Request, r *request) error {
		v, err := fetch(r)
		if err != nil {
			return err
		}
		r.adapter.Render(w, req, http.StatusOK, v)
		return nil
	})
}

func count(n int) model.BigInteger {
	return model.NewBigInteger(int64(n))
}
