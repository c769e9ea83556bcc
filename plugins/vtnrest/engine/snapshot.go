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

package engine

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
)

const snapshotVersion = 1

// Snapshot is the container struct for the YAML snapshot file. Resources
// are written in their JSON wire form.
type Snapshot struct {
	Version        int                   `json:"vtn_snapshot_version"`
	Description    string                `json:"description,omitempty"`
	Tenants        []TenantConfig        `json:"vtns,omitempty"`
	FlowConditions []model.FlowCondition `json:"flowconditions,omitempty"`
	Nodes          []model.Node          `json:"nodes,omitempty"`
}

// TenantConfig is a VTN and everything configured inside it.
type TenantConfig struct {
	VTN         model.VTenant      `json:"vtn"`
	Bridges     []BridgeConfig     `json:"vbridges,omitempty"`
	Terminals   []TerminalConfig   `json:"vterminals,omitempty"`
	FlowFilters []model.FlowFilter `json:"flowfilters,omitempty"`
	PathMaps    []model.PathMap    `json:"pathmaps,omitempty"`
}

// BridgeConfig is a vBridge with its interfaces and mappings. Mapped is the
// result of MAC mapping as last resolved by the controller.
type BridgeConfig struct {
	VBridge     model.VBridge       `json:"vbridge"`
	Interfaces  []InterfaceConfig   `json:"interfaces,omitempty"`
	VlanMaps    []model.VlanMap     `json:"vlanmaps,omitempty"`
	MacMap      *model.MacMapPolicy `json:"macmap,omitempty"`
	Mapped      []model.MacEntry    `json:"mapped,omitempty"`
	MacEntries  []model.MacEntry    `json:"macentries,omitempty"`
	FlowFilters DirectedFilters     `json:"flowfilters"`
}

// TerminalConfig is a vTerminal with its interfaces.
type TerminalConfig struct {
	VTerminal  model.VTerminal   `json:"vterminal"`
	Interfaces []InterfaceConfig `json:"interfaces,omitempty"`
}

// InterfaceConfig is a virtual interface with its flow filters.
type InterfaceConfig struct {
	Interface   model.VInterface `json:"interface"`
	FlowFilters DirectedFilters  `json:"flowfilters"`
}

// DirectedFilters holds the incoming and outgoing flow filter lists.
type DirectedFilters struct {
	In  []model.FlowFilter `json:"in,omitempty"`
	Out []model.FlowFilter `json:"out,omitempty"`
}

// ReadSnapshotFile parses a YAML snapshot.
func ReadSnapshotFile(fpath string) (*Snapshot, error) {
	b, err := ioutil.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	s, err := ParseSnapshot(b)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", fpath)
	}
	return s, nil
}

// ParseSnapshot converts the YAML to JSON and decodes it, so that every
// resource goes through its wire decoder and is validated on the way in.
func ParseSnapshot(b []byte) (*Snapshot, error) {
	log.Debugf("ParseSnapshot: yaml.YAMLToJSON ...")
	jb, err := yaml.YAMLToJSON(b)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{}
	if err := json.Unmarshal(jb, s); err != nil {
		log.Debugf("ParseSnapshot: json=%s ...", string(jb))
		return nil, err
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("incorrect snapshot version, expecting %d, got: %d", snapshotVersion, s.Version)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// validate rejects duplicate names, which the lookups below rely on.
func (s *Snapshot) validate() error {
	tenants := make(map[string]bool)
	for _, t := range s.Tenants {
		if tenants[t.VTN.Name] {
			return fmt.Errorf("duplicate vtn %s", t.VTN.Name)
		}
		tenants[t.VTN.Name] = true
		nodes := make(map[string]bool)
		for _, b := range t.Bridges {
			if nodes[b.VBridge.Name] {
				return fmt.Errorf("duplicate node %s in vtn %s", b.VBridge.Name, t.VTN.Name)
			}
			nodes[b.VBridge.Name] = true
		}
		for _, vt := range t.Terminals {
			if nodes[vt.VTerminal.Name] {
				return fmt.Errorf("duplicate node %s in vtn %s", vt.VTerminal.Name, t.VTN.Name)
			}
			nodes[vt.VTerminal.Name] = true
		}
	}
	conditions := make(map[string]bool)
	for _, c := range s.FlowConditions {
		if conditions[c.Name] {
			return fmt.Errorf("duplicate flow condition %s", c.Name)
		}
		conditions[c.Name] = true
	}
	return nil
}

// ToYaml renders the snapshot back into YAML.
func (s *Snapshot) ToYaml() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Snapshot) stamp() {
	s.Version = snapshotVersion
	s.Description = fmt.Sprintf("Snapshot: %s", time.Now().UTC().Format(time.RFC3339))
}
