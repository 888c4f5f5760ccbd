// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tag serves the popular tag list.

Tags are free text stored on each post. The popular list counts posts per tag,
keeps the top entries and is cached for a fixed TTL so that the aggregate is
not recomputed on every page load.
*/
package tag

// Popular is one entry of the popular tag list.
type Popular struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
