// Package assetadapter classifies item registries by the ownership model they
// implement and exposes one uniform ownership/approval/transfer surface over
// both models.
//
// Capabilities are negotiated by Go interface assertion: a registry that
// implements neither the exclusive-ownership nor the balance-based surface is
// rejected as unsupported. Optional capabilities (fingerprint verification)
// are discovered the same way; their absence is a normal branch, not an error.
package assetadapter
