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

	"github.com/ligato/cn-infra/rpc/rest"
	"github.com/unrolled/render"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
)

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/vbridges/<bridgeName>/macmap
// curl -X PUT -H 'Content-Type: application/json' -d '{"allow":{"machost":[{"vlan":0}]}}' \
//   http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/vbridges/<bridgeName>/macmap
func (p *Plugin) macMapHandler(formatter *render.Render) http.HandlerFunc {
	return p.serve("macMapHandler", func(w http.ResponseWriter, req *http.Request, r *request) error {
		var (
			info model.MacMapInfo
			err  error
		)
		switch req.Method {
		case http.MethodGet:
			info, err = r.mgr.MacMap(r.bridgePath())
		case http.MethodPut:
			var policy model.MacMapPolicy
			if err := r.adapter.Decode(req, &policy); err != nil {
				return err
			}
			p.Log.Debugf("macMapHandler: %s: %s", r.bridgePath(), policy)
			info, err = r.mgr.ResolveMapping(r.bridgePath(), policy)
		}
		if err != nil {
			return err
		}
		r.adapter.Render(w, req, http.StatusOK, info)
		return nil
	})(formatter)
}

// macMapSetHandler serves one host set of the configured policy. A set that
// is not configured is rendered empty.
func (p *Plugin) macMapSetHandler(set func(model.MacMapPolicy) (model.MacHostSet, bool)) rest.HandlerProvider {
	return p.get("macMapSetHandler", func(r *request) (model.XMLRooted, error) {
		info, err := r.mgr.MacMap(r.bridgePath())
		if err != nil {
			return nil, err
		}
		hosts, _ := set(info.Policy())
		return hosts, nil
	})
}

// curl -X GET http://localhost:8083/controller/nb/v2/vtn/default/vtns/<tenantName>/vbridges/<bridgeName>/mac
func (p *Plugin) macEntriesHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("macEntriesHandler", func(r *request) (model.XMLRooted, error) {
		entries, err := r.mgr.MacEntries(r.bridgePath())
		return model.NewEnvelope(entries), err
	})(formatter)
}

func (p *Plugin) macEntryCountHandler(formatter *render.Render) http.HandlerFunc {
	return p.get("macEntryCountHandler", func(r *request) (model.XMLRooted, error) {
		entries, err := r.mgr.MacEntries(r.bridgePath())
		return count(len(entries)), err
	})(formatter)
}
