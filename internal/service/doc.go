// Package service contains the application's business logic, orchestrating
// operations between the API layer and the data stores.
package service
