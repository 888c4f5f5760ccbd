// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import "context"

// # Repository Interfaces

// PostLookup resolves the posts referenced by a series.
type PostLookup interface {

	/*
		FindPostSummaries resolves post IDs to their summaries.

		Parameters:
		  - context: context.Context
		  - postIDs: []string

		Returns:
		  - map[string]PostSummary: Found posts keyed by ID. Missing IDs are absent.
		  - error: Database execution errors
	*/
	FindPostSummaries(context context.Context, postIDs []string) (map[string]PostSummary, error)

	/*
		ListReferencingPosts returns the posts whose back-reference names seriesID.

		Parameters:
		  - context: context.Context
		  - seriesID: string

		Returns:
		  - []PostSummary: Posts ordered by creation time, oldest first
		  - error: Database execution errors
	*/
	ListReferencingPosts(context context.Context, seriesID string) ([]PostSummary, error)
}

// MutateFunc changes a locked series in memory and returns the back-reference
// writes that must commit with it. posts reads inside the same transaction.
type MutateFunc func(context context.Context, series *Series, posts PostLookup) ([]Link, error)

// Repository defines the persistence contract for series.
type Repository interface {
	PostLookup

	/*
		Create persists a new series with an empty episode list.

		Parameters:
		  - context: context.Context
		  - series: *Series

		Returns:
		  - error: Persistence errors
	*/
	Create(context context.Context, series *Series) error

	/*
		FindByID retrieves a series.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Series: The aggregate with its episodes
		  - error: apperr.NotFound if the series does not exist
	*/
	FindByID(context context.Context, id string) (*Series, error)

	/*
		UpdateInfo overwrites the descriptive fields of a series.

		Parameters:
		  - context: context.Context
		  - series: *Series (Episodes are ignored)

		Returns:
		  - error: apperr.NotFound if the series does not exist
	*/
	UpdateInfo(context context.Context, series *Series) error

	/*
		ListByAuthor returns every series written by authorID, newest first.

		Parameters:
		  - context: context.Context
		  - authorID: string

		Returns:
		  - []*Series: Matching series
		  - error: Database execution errors
	*/
	ListByAuthor(context context.Context, authorID string) ([]*Series, error)

	/*
		Mutate applies a list change and its back-reference writes atomically.

		Description: The series row is locked for the duration of the call, so
		concurrent mutations of the same series are serialized. When mutate or
		any link write fails, nothing is persisted.

		Parameters:
		  - context: context.Context
		  - seriesID: string
		  - mutate: MutateFunc

		Returns:
		  - *Series: The persisted aggregate
		  - error: apperr.NotFound if the series does not exist, or a LinkSet
		    targets a missing post, or any error returned by mutate
	*/
	Mutate(context context.Context, seriesID string, mutate MutateFunc) (*Series, error)
}
