// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the café backend. It implements workflows
// that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - Lifecycle: drives orders through their states and applies each
//     transition's side effects in a fixed order
//   - Router: classifies order lines onto preparation stations and decides
//     when an order is fully prepared
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
