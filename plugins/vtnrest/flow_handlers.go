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

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/flowconditions
func (p *Plugin) flowConditionsHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("flowConditionsHandler", func(r *request) (model.XMLRooted, error) {
		conditions, err := r.mgr.FlowConditions()
		return model.NewEnvelope(conditions), err
	})(formatter)
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/flowconditions/<conditionName>
func (p *Plugin) flowConditionHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("flowConditionHandler", func(r *request) (model.XMLRooted, error) {
		c, err := r.mgr.FlowCondition(r.vars[conditionName])
		return c, err
	})(formatter)
}

// The same handler serves the VTN, vBridge and interface level lists. The
// chain is stored and rendered in the order the client sent it.
//
// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/flowfilters/in
// curl -X PUT -H 'Content-Type: application/json' -d '{"flowfilter":[{"index":10,"condition":"web","type":"pass"}]}' \
//   http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/vbridges/<bridgeName>/flowfilters/out
func (p *Plugin) flowFiltersHandler(formatter *render.Render) http.HandlerFunc {
	return p.serve("flowFiltersHandler", func(w http.ResponseWriter, req *http.Request, r *request) error {
		path := r.flowFilterPath()
		if err := path.Validate(); err != nil {
			p.Log.Debugf("flowFiltersHandler: %s: %v", path, err)
			return service.NotFound("flowfilter list", path)
		}
		if req.Method == http.MethodPut {
			var chain model.RuleChain[model.FlowFilter]
			if err := r.adapter.Decode(req, &chain); err != nil {
				return err
			}
			if err := r.mgr.SetFlowFilters(path, chain); err != nil {
				return err
			}
		}
		chain, err := r.mgr.FlowFilters(path)
		if err != nil {
			return err
		}
		r.adapter.Render(w, req, http.StatusOK, chain)
		return nil
	})(formatter)
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/pathmaps
func (p *Plugin) pathMapsHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("pathMapsHandler", func(r *request) (model.XMLRooted, error) {
		chain, err := r.mgr.PathMaps(r.vars[tenantName])
		return chain, err
	})(formatter)
}
