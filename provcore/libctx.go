package provcore

import (
	"sync"

	"github.com/pkg/errors"
)

// ProviderLoader is interface for activating a provider into a library context
type ProviderLoader func(handle CoreHandle) (Provider, error)

var (
	lockLoaders sync.RWMutex
	loaders     = make(map[string]ProviderLoader)
)

// RegisterLoader registers a provider loader by name
func RegisterLoader(name string, loader ProviderLoader) error {
	lockLoaders.Lock()
	defer lockLoaders.Unlock()

	if _, ok := loaders[name]; ok {
		return errors.Errorf("already registered: %s", name)
	}

	loaders[name] = loader

	return nil
}

// UnregisterLoader removes a provider loader by name
func UnregisterLoader(name string) (ProviderLoader, error) {
	lockLoaders.Lock()
	defer lockLoaders.Unlock()

	if loader, ok := loaders[name]; ok {
		delete(loaders, name)
		return loader, nil
	}

	return nil, errors.Errorf("not registered: %s", name)
}

// RegisteredLoaders returns the names of registered provider loaders
func RegisteredLoaders() []string {
	lockLoaders.RLock()
	defer lockLoaders.RUnlock()

	list := []string{}
	for name := range loaders {
		list = append(list, name)
	}
	return list
}

// CoreHandle identifies the framework instance loading a provider. It is
// passed to the provider's init entry point, most notably so the provider
// can derive a child context for its own delegated calls.
type CoreHandle struct {
	libctx *LibCtx
}

// LibCtx is a library context: the ordered list of active providers and the
// default property query applied to algorithm fetches in this context.
type LibCtx struct {
	parent *LibCtx

	mu              sync.RWMutex
	providers       []activeProvider
	defaultPropsRaw string
	defaultProps    PropertyQuery
}

type activeProvider struct {
	name string
	prov Provider
	// owned is true when the provider was loaded into this context and
	// should be torn down with it; mirrored providers are not owned.
	owned bool
}

// NewLibCtx returns an empty library context.
func NewLibCtx() *LibCtx {
	return &LibCtx{}
}

// Handle returns a core handle for this context.
func (lc *LibCtx) Handle() CoreHandle {
	return CoreHandle{libctx: lc}
}

// NewChild derives a library context mirroring the providers currently
// active in the handle's context. The child starts with no default property
// query and does not own the mirrored providers: closing the child leaves
// them loaded in the parent.
func NewChild(handle CoreHandle) *LibCtx {
	child := &LibCtx{parent: handle.libctx}
	if handle.libctx == nil {
		return child
	}

	handle.libctx.mu.RLock()
	defer handle.libctx.mu.RUnlock()

	for _, ap := range handle.libctx.providers {
		child.providers = append(child.providers, activeProvider{
			name: ap.name,
			prov: ap.prov,
		})
	}
	return child
}

// SetDefaultProperties sets the default property query applied to all
// algorithm fetches in this context.
func (lc *LibCtx) SetDefaultProperties(query string) error {
	pq, err := ParsePropertyQuery(query)
	if err != nil {
		return err
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.defaultPropsRaw = query
	lc.defaultProps = pq
	return nil
}

// DefaultProperties returns the default property query string.
func (lc *LibCtx) DefaultProperties() string {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.defaultPropsRaw
}

// AddProvider activates an already constructed provider under the given name.
func (lc *LibCtx) AddProvider(name string, prov Provider) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	for _, ap := range lc.providers {
		if ap.name == name {
			return errors.Errorf("provider already active: %s", name)
		}
	}
	lc.providers = append(lc.providers, activeProvider{name: name, prov: prov, owned: true})
	return nil
}

// LoadProvider activates a registered provider into this context.
func (lc *LibCtx) LoadProvider(name string) (Provider, error) {
	lockLoaders.RLock()
	loader, ok := loaders[name]
	lockLoaders.RUnlock()
	if !ok {
		return nil, errors.Errorf("provider not registered: %s", name)
	}

	prov, err := loader(lc.Handle())
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load provider: %s", name)
	}
	if err := lc.AddProvider(name, prov); err != nil {
		prov.Teardown()
		return nil, err
	}
	return prov, nil
}

// Provider returns an active provider by name.
func (lc *LibCtx) Provider(name string) (Provider, error) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()

	for _, ap := range lc.providers {
		if ap.name == name {
			return ap.prov, nil
		}
	}
	return nil, errors.Errorf("provider not active: %s", name)
}

// Providers returns the names of active providers in activation order.
func (lc *LibCtx) Providers() []string {
	lc.mu.RLock()
	defer lc.mu.RUnlock()

	list := make([]string, len(lc.providers))
	for i, ap := range lc.providers {
		list[i] = ap.name
	}
	return list
}

// FetchKeyManager returns the first visible key-management implementation for
// the key type, walking providers in activation order. Both the context's
// default property query and the caller's query must pass.
func (lc *LibCtx) FetchKeyManager(keyType, propQuery string) (KeyManager, error) {
	query, err := ParsePropertyQuery(propQuery)
	if err != nil {
		return nil, err
	}

	lc.mu.RLock()
	providers := append([]activeProvider(nil), lc.providers...)
	defaults := lc.defaultProps
	lc.mu.RUnlock()

	for _, ap := range providers {
		for _, alg := range ap.prov.QueryOperation(OpKeyManagement) {
			if !alg.Matches(keyType) {
				continue
			}
			if !defaults.Match(alg.Properties) || !query.Match(alg.Properties) {
				continue
			}
			if alg.KeyManager == nil {
				continue
			}
			return alg.KeyManager, nil
		}
	}
	return nil, errors.Errorf("key manager not found: %s", keyType)
}

// Close releases the context. Providers loaded into this context are torn
// down in reverse activation order; mirrored providers are left alone.
func (lc *LibCtx) Close() {
	lc.mu.Lock()
	providers := lc.providers
	lc.providers = nil
	lc.mu.Unlock()

	for i := len(providers) - 1; i >= 0; i-- {
		if providers[i].owned {
			providers[i].prov.Teardown()
		}
	}
}
