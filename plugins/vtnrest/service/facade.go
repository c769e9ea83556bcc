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

package service

import (
	"sort"
	"sync"

	"github.com/ligato/cn-infra/logging"
)

// Provider looks up the engine serving a container.
type Provider interface {
	Lookup(container string) (Manager, bool)
}

// Registry is the in-process Provider. Engines register and unregister
// themselves per container; lookups may run concurrently.
type Registry struct {
	mu       sync.RWMutex
	managers map[string]Manager
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{managers: make(map[string]Manager)}
}

// Register makes mgr the engine of container, replacing any previous one.
func (r *Registry) Register(container string, mgr Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers[container] = mgr
}

// Unregister removes the engine of container.
func (r *Registry) Unregister(container string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, container)
}

// Lookup implements Provider.
func (r *Registry) Lookup(container string) (Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mgr, ok := r.managers[container]
	return mgr, ok && mgr != nil
}

// Containers lists the registered containers in name order.
func (r *Registry) Containers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.managers))
	for name := range r.managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Facade hands the REST layer the engine of a container. It keeps no state
// of its own; every request resolves the engine again.
type Facade struct {
	provider Provider
	log      logging.Logger
}

// NewFacade builds a facade over provider.
func NewFacade(provider Provider, log logging.Logger) *Facade {
	return &Facade{provider: provider, log: log}
}

// Manager returns the engine of container, or an *UnavailableError.
func (f *Facade) Manager(container string) (Manager, error) {
	if f.provider == nil {
		return nil, &UnavailableError{Container: container, Reason: "no service provider"}
	}
	mgr, ok := f.provider.Lookup(container)
	if !ok {
		f.log.Debugf("Manager: no engine registered for container %s", container)
		return nil, &UnavailableError{Container: container}
	}
	return mgr, nil
}
