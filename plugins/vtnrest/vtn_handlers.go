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
	"net/http"

	"github.com/unrolled/render"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/service"
)

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns
func (p *Plugin) tenantsHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("tenantsHandler", func(r *request) (model.XMLRooted, error) {
		tenants, err := r.mgr.Tenants()
		return model.NewEnvelope(tenants), err
	})(formatter)
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/count
func (p *Plugin) tenantCountHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("tenantCountHandler", func(r *request) (model.XMLRooted, error) {
		tenants, err := r.mgr.Tenants()
		return count(len(tenants)), err
	})(formatter)
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>
func (p *Plugin) tenantHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("tenantHandler", func(r *request) (model.XMLRooted, error) {
		t, err := r.mgr.Tenant(r.vars[tenantName])
		return t, err
	})(formatter)
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/vbridges
func (p *Plugin) bridgesHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("bridgesHandler", func(r *request) (model.XMLRooted, error) {
		bridges, err := r.mgr.Bridges(r.vars[tenantName])
		return model.NewEnvelope(bridges), err
	})(formatter)
}

func (p *Plugin) bridgeCountHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("bridgeCountHandler", func(r *request) (model.XMLRooted, error) {
		bridges, err := r.mgr.Bridges(r.vars[tenantName])
		return count(len(bridges)), err
	})(formatter)
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/vbridges/<bridgeName>
func (p *Plugin) bridgeHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("bridgeHandler", func(r *request) (model.XMLRooted, error) {
		bridges, err := r.mgr.Bridges(r.vars[tenantName])
		if err != nil {
			return nil, err
		}
		for _, b := range bridges {
			if b.Name == r.vars[bridgeName] {
				return b, nil
			}
		}
		return nil, service.NotFound("vbridge", r.bridgePath())
	})(formatter)
}

func (p *Plugin) terminalsHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("terminalsHandler", func(r *request) (model.XMLRooted, error) {
		terminals, err := r.mgr.Terminals(r.vars[tenantName])
		return model.NewEnvelope(terminals), err
	})(formatter)
}

func (p *Plugin) terminalHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("terminalHandler", func(r *request) (model.XMLRooted, error) {
		terminals, err := r.mgr.Terminals(r.vars[tenantName])
		if err != nil {
			return nil, err
		}
		for _, vt := range terminals {
			if vt.Name == r.vars[terminalName] {
				return vt, nil
			}
		}
		return nil, service.NotFound("vterminal", r.vars[tenantName]+"/"+r.vars[terminalName])
	})(formatter)
}

// interfacesHandler lists the interfaces of a vBridge or a vTerminal.
func (p *Plugin) interfacesHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("interfacesHandler", func(r *request) (model.XMLRooted, error) {
		ifs, err := r.mgr.Interfaces(*r.nodePath())
		return model.NewEnvelope(ifs), err
	})(formatter)
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/vbridges/<bridgeName>/vlanmaps
func (p *Plugin) vlanMapsHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("vlanMapsHandler", func(r *request) (model.XMLRooted, error) {
		vlanMaps, err := r.mgr.VlanMaps(r.bridgePath())
		return model.NewEnvelope(vlanMaps), err
	})(formatter)
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/nodes
func (p *Plugin) nodesHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("nodesHandler", func(r *request) (model.XMLRooted, error) {
		nodes, err := r.mgr.Nodes()
		return model.NewEnvelope(nodes), err
	})(formatter)
}

// snapshotHandler dumps the container's configuration as YAML when its
// engine can export one.
func (p *Plugin) snapshotHandler(formatter *render.Render) http.HandlerFunc {
	return p.serve("snapshotHandler", func(w http.ResponseWriter, req *http.Request, r *request) error {
		exporter, ok := r.mgr.(Exporter)
		if !ok {
			return service.NotFound("snapshot", r.vars[containerName])
		}
		b, err := exporter.ExportYaml()
		if err != nil {
			return err
		}
		if err := formatter.Text(w, http.StatusOK, string(b)); err != nil {
			p.Log.Errorf("snapshotHandler: %v", err)
		}
		return nil
	})(formatter)
}
