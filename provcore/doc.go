// Package provcore defines the contract between the cryptographic framework
// and its providers: typed parameter lists, capability-selection masks,
// operation categories, algorithm registration, and the library context that
// routes algorithm fetches to the active providers.
//
// Providers are activated into a LibCtx in registration order. Each provider
// publishes Algorithm entries carrying a property definition; fetches apply
// the context's default property query plus the caller's query to decide
// which implementation is visible. A provider that delegates generic
// operations back into the framework derives a child context with NewChild
// and sets a default property query excluding itself, so delegated calls can
// never recurse into the provider that issued them.
//
// Key objects exchanged across this boundary are opaque to the framework:
// only the KeyManager that created an object understands its concrete type.
package provcore
