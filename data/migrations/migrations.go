// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the versioned SQL schema into the binary.
package migrations

import "embed"

// Files holds every NNNNNN_name.{up,down}.sql file of this directory.
//
//go:embed *.sql
var Files embed.FS
