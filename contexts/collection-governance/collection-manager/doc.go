// Package collectionmanager contains the Bazaar governance surface for
// collection registries: salted factory deployments and administrative calls
// relayed through the blind authorization forwarder.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package collectionmanager
