// Package types defines the Kanbaru entity model (boards, lists, cards),
// the store snapshot, the remote document store interface, configuration,
// and the standard error taxonomy shared by every other package.
package types
