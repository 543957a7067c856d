// Package orm manipulates Notion databases and pages as Go values.
//
// A Session retrieves databases and pages. A Database owns a schema, either
// reflected from the server or assigned with SetSchema, which maps attribute
// names to columns for CreatePage, Page.Set and queries.
package orm
