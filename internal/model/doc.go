// Package model defines the core domain types shared across packages.
//
// Types here are plain data structures with no behavior, used by the API
// client (after conversion from wire types), the store, and the updater.
package model
