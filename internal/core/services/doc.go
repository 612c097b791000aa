// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go and receive every collaborator through their
// constructors; none of them read the environment.
package services
