// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds generic helpers for the optional fields of partial
// update payloads.
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Or returns *p, or current when the field was not sent.
func Or[T any](p *T, current T) T {
	if p == nil {
		return current
	}
	return *p
}
