// Package settlementengine contains the Bazaar order ledger and settlement
// flow for unique and semi-fungible items.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package settlementengine
