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

// Main file for the VTN northbound REST server. It serves the configuration
// of a snapshot file through the VTN REST API.
package main

import (
	"github.com/ligato/cn-infra/agent"
	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/ligato/cn-infra/rpc/rest"
	"github.com/namsral/flag"

	"github.com/ligato/vtn-northbound/plugins/vtnrest"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/engine"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/service"
)

var (
	httpListen    string // cli flag - see RegisterFlags
	snapshotFile  string // cli flag - see RegisterFlags
	containerName string // cli flag - see RegisterFlags
	debug         bool   // cli flag - see RegisterFlags
	log           = logrus.DefaultLogger()
)

// RegisterFlags add command line flags.
func RegisterFlags() {
	flag.StringVar(&httpListen, "http-listen", ":8083",
		"Address the REST API listens on; also set via 'HTTP_LISTEN' env variable.")
	flag.StringVar(&snapshotFile, "snapshot", "",
		"Name of a vtn snapshot (yaml) file to serve; also set via 'SNAPSHOT' env variable.")
	flag.StringVar(&containerName, "container", model.DefaultContainerName,
		"Container the snapshot is served for; also set via 'CONTAINER' env variable.")
	flag.BoolVar(&debug, "debug", false,
		"Enable debug logging")
}

// LogFlags dumps the command line flags
func LogFlags() {
	log.Debugf("LogFlags:")
	log.Debugf("\thttpListen:'%s'", httpListen)
	log.Debugf("\tsnapshotFile:'%s'", snapshotFile)
	log.Debugf("\tcontainer:'%s'", containerName)
}

func init() {
	log.SetLevel(logging.InfoLevel)
	RegisterFlags()
}

func loadEngine() (*engine.Engine, error) {
	if snapshotFile == "" {
		log.Warnf("no snapshot file given, serving an empty configuration")
		return engine.New(nil), nil
	}
	s, err := engine.ReadSnapshotFile(snapshotFile)
	if err != nil {
		return nil, err
	}
	log.Infof("loaded snapshot %s: %d vtns, %d flow conditions, %d nodes",
		snapshotFile, len(s.Tenants), len(s.FlowConditions), len(s.Nodes))
	return engine.New(s), nil
}

func main() {
	flag.Parse()
	if debug {
		log.SetLevel(logging.DebugLevel)
	}
	LogFlags()

	mgr, err := loadEngine()
	if err != nil {
		log.Fatalf("loading snapshot: %v", err)
	}
	registry := service.NewRegistry()
	registry.Register(containerName, mgr)

	httpPlugin := rest.NewPlugin(rest.UseConf(rest.Config{Endpoint: httpListen}))
	plugin := &vtnrest.Plugin{Deps: vtnrest.Deps{
		Log:          log,
		HTTPHandlers: httpPlugin,
		Facade:       service.NewFacade(registry, log),
	}}

	log.Infof("serving container %s on %s", containerName, httpListen)
	a := agent.NewAgent(agent.AllPlugins(httpPlugin, plugin))
	if err := a.Run(); err != nil {
		log.Fatalf("agent: %v", err)
	}
}
