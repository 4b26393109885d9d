// Package reconcile drives Elastic Beanstalk resources towards a desired
// state.
//
// Each reconciler reads the desired state from a config struct, looks up the
// current state from the provider, computes the action to take and invokes
// the provider. The result reports whether a change was made (or, in check
// mode, would have been made) together with the resulting descriptor.
//
// Nothing is cached between invocations; every call starts with a fresh
// lookup. Calls are made sequentially, and the only suspension points are
// provider calls and the Waiter poll interval.
package reconcile
