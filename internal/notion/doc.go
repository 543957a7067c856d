// Package notion provides a typed object model over the Notion API.
//
// The package is organised in layers:
//   - Transport, the raw request boundary, and Client, its rate-limited HTTP implementation
//   - Typed objects (Page, Database, Block, User, RichText, File) decoded from raw payloads
//   - Property values: one concrete type per Notion property kind, composable from native Go values
//   - Endpoints grouped in API, and a QueryBuilder that paginates results lazily
package notion
