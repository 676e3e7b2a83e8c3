package extension

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/xfer/model/types"
)

// Registry holds the function registration table shared by the dispatcher
// and its worker contexts
type Registry struct {
	services map[string]types.Service
	sealed   bool
	mux      sync.RWMutex
}

// Function is a resolved registry entry
type Function struct {
	Ref        string
	Signature  *types.Signature
	Executable types.Executable
}

// Lookup returns a service by name
func (r *Registry) Lookup(name string) types.Service {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.services[name]
}

// Register registers a service; the table is fixed once sealed
func (r *Registry) Register(service types.Service) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.sealed {
		return fmt.Errorf("registry is sealed, cannot register %v", service.Name())
	}
	if strings.Contains(service.Name(), ".") {
		return fmt.Errorf("invalid service name %q", service.Name())
	}
	r.services[service.Name()] = service
	return nil
}

// Seal fixes the registration table; worker contexts are started from a sealed table
func (r *Registry) Seal() {
	r.mux.Lock()
	r.sealed = true
	r.mux.Unlock()
}

// Function resolves a "service.method" reference
func (r *Registry) Function(ref string) (*Function, error) {
	idx := strings.LastIndex(ref, ".")
	if idx <= 0 || idx == len(ref)-1 {
		return nil, types.NewUnknownFunctionError(ref)
	}
	service := r.Lookup(ref[:idx])
	if service == nil {
		return nil, types.NewUnknownFunctionError(ref)
	}
	name := ref[idx+1:]
	signature := service.Methods().Lookup(name)
	if signature == nil {
		return nil, types.NewUnknownFunctionError(ref)
	}
	executable, err := service.Method(name)
	if err != nil || executable == nil {
		return nil, types.NewUnknownFunctionError(ref)
	}
	return &Function{Ref: ref, Signature: signature, Executable: executable}, nil
}

// Check verifies that ref is registered and accepts count arguments
func (r *Registry) Check(ref string, count int) (*Function, error) {
	fn, err := r.Function(ref)
	if err != nil {
		return nil, err
	}
	if !fn.Signature.Accepts(count) {
		return nil, types.NewArgumentMismatchError(ref, fn.Signature.Arity, count)
	}
	return fn, nil
}

// Refs returns all registered function references, sorted
func (r *Registry) Refs() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	var ret []string
	for name, service := range r.services {
		for _, signature := range service.Methods() {
			ret = append(ret, name+"."+signature.Name)
		}
	}
	sort.Strings(ret)
	return ret
}

// NewRegistry creates a registry with the supplied services
func NewRegistry(services ...types.Service) (*Registry, error) {
	ret := &Registry{services: make(map[string]types.Service)}
	for _, service := range services {
		if service == nil {
			continue
		}
		if err := ret.Register(service); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
