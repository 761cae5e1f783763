// Package schemas embeds the JSON Schemas that describe every JSON artifact a run writes.
package schemas

import "embed"

// FS holds the *.schema.json files
//
//go:embed *.schema.json
var FS embed.FS
