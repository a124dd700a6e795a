// Package models contains the GORM persistence models that map to database tables.
// They are kept apart from the storefront domain types so the domain stays free
// of ORM concerns.
//
// Structure:
// - settings.go: the settings singleton row and the product on sale
// - order.go: the archived copy of placed orders
package models
