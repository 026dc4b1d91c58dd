// Package ui holds what the controllers share with the adapters that render
// them: navigation targets and native-input style form validation.
package ui

// Route is a top-level view the operator can be sent to.
type Route string

const (
	RouteLogin     Route = "login"
	RouteDashboard Route = "dashboard"
)

// Navigator leaves the current view for another one.
type Navigator interface {
	Navigate(route Route)
}
