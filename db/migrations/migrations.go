package migrations

import "embed"

// FS holds the SQL migrations read by golang-migrate's iofs source.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the devserver migrates to.
const Version = 1
