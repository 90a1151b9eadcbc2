package domain

// Reference-data projections consumed by the order engine. Master-data
// CRUD lives elsewhere; the engine only reads these by id.

type Product struct {
	ID   uint64
	Code string
	Name string
	Unit string
}

type PaymentMethod struct {
	ID   uint64
	Name string
}

type Employee struct {
	ID     uint64
	Name   string
	Active bool
}
