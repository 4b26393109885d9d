// Package playbook runs every block of a playbook against the provider.
//
// Blocks are ordered by their dependencies (see Plan) and reconciled one at a
// time. The run stops at the first error.
package playbook
