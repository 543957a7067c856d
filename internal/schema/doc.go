// Package schema describes database schemas as ordered typed columns.
//
// A schema is reflected from a live database with Reflect, or declared with
// New, FromStruct or a YAML file, then checked against the database with
// Verify. Columns are addressed from Go code by an attribute name derived from
// their display name with Identifier.
package schema
