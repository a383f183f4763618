// Package events carries task lifecycle notifications from the task service
// to interested listeners such as the live feed.
//
// The primary components are:
// - TaskEvent: a committed create, update or delete of a task
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
