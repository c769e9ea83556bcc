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

// Command vtndump validates a vtn snapshot file and prints every resource it
// would serve.
package main

import (
	"os"

	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/namsral/flag"

	"github.com/ligato/vtn-northbound/cmd/vtndump/vtndump"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/codec"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/engine"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
)

var log = logrus.DefaultLogger()

func main() {
	snapshotFile := flag.String("snapshot", "", "Name of the vtn snapshot (yaml) file to dump")
	container := flag.String("container", model.DefaultContainerName, "Container the paths are printed for")
	asXML := flag.Bool("xml", false, "Print resources as XML instead of JSON")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(logging.DebugLevel)
	}
	if *snapshotFile == "" {
		log.Fatalf("no snapshot file given")
	}
	s, err := engine.ReadSnapshotFile(*snapshotFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	format := codec.JSON
	if *asXML {
		format = codec.XML
	}
	if err := vtndump.VtnDump(os.Stdout, *container, engine.New(s), format); err != nil {
		log.Fatalf("%v", err)
	}
}
