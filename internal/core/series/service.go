// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/internal/platform/validate"
	"github.com/taibuivan/tsuzuri/pkg/textnorm"
	"github.com/taibuivan/tsuzuri/pkg/uuid"
)

// # Service Layer

// Service orchestrates series metadata and episode membership.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Input carries the editable fields of a series. Flags are pointers so a
// missing flag can be told apart from false.
type Input struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	IsOriginal     *bool    `json:"isOriginal"`
	IsAdultContent *bool    `json:"isAdultContent"`
	AIGenerated    *bool    `json:"aiGenerated"`
}

func (input *Input) validate() error {
	input.Title = textnorm.Normalize(input.Title)
	input.Description = textnorm.Normalize(input.Description)
	input.Tags = textnorm.Tags(input.Tags)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MinLen(FieldTitle, input.Title, constants.SeriesTitleMin).
		MaxLen(FieldTitle, input.Title, constants.SeriesTitleMax)
	validator.Required(FieldDescription, input.Description).
		MinLen(FieldDescription, input.Description, constants.SeriesDescriptionMin).
		MaxLen(FieldDescription, input.Description, constants.SeriesDescriptionMax)
	validator.MaxItems(FieldTags, len(input.Tags), constants.SeriesTagsMax).
		EachMaxLen(FieldTags, input.Tags, constants.PostTagMax)
	validator.Flag(FieldIsOriginal, input.IsOriginal)
	validator.Flag(FieldIsAdultContent, input.IsAdultContent)
	validator.Flag(FieldAIGenerated, input.AIGenerated)
	return validator.Err()
}

func (input *Input) applyTo(series *Series) {
	series.Title = input.Title
	series.Description = input.Description
	series.Tags = input.Tags
	series.IsOriginal = *input.IsOriginal
	series.IsAdultContent = *input.IsAdultContent
	series.AIGenerated = *input.AIGenerated
}

// # Metadata

/*
CreateSeries validates the input and persists a new empty series.

Parameters:
  - context: context.Context
  - authorID: string (Authenticated caller)
  - input: Input

Returns:
  - *Series: The created aggregate
  - error: Validation or persistence errors
*/
func (service *Service) CreateSeries(context context.Context, authorID string, input Input) (*Series, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	series := &Series{ID: uuid.New(), AuthorID: authorID, Episodes: []Episode{}}
	input.applyTo(series)

	if err := service.repo.Create(context, series); err != nil {
		return nil, err
	}

	service.logger.Info("series_created",
		slog.String("series_id", series.ID),
		slog.String("author_id", authorID),
	)
	return series, nil
}

/*
UpdateSeriesInfo overwrites the descriptive fields of a series owned by the caller.

Returns:
  - *Series: The updated aggregate
  - error: apperr.NotFound when the series is absent or owned by someone else
*/
func (service *Service) UpdateSeriesInfo(context context.Context, actorID, seriesID string, input Input) (*Series, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	series, err := service.findOwned(context, actorID, seriesID)
	if err != nil {
		return nil, err
	}

	input.applyTo(series)
	if err := service.repo.UpdateInfo(context, series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetSeriesTitle returns the title of any series.
func (service *Service) GetSeriesTitle(context context.Context, seriesID string) (string, error) {
	series, err := service.find(context, seriesID)
	if err != nil {
		return "", err
	}
	return series.Title, nil
}

// ListUserSeries returns every series written by authorID.
func (service *Service) ListUserSeries(context context.Context, authorID string) ([]*Series, error) {
	if !validate.IsUUID(authorID) {
		return nil, apperr.NotFound("User")
	}
	return service.repo.ListByAuthor(context, authorID)
}

// # Membership

/*
AddPostToSeries appends a post to the episode list of a series.

Description: When the post is not yet a member it is appended with
episode number 1 + max. When it is already a member the list is left
unchanged. In both cases the post's series reference is rewritten in the
same transaction. A post that was in another series keeps its old entry
there until that series is reconciled.

Parameters:
  - context: context.Context
  - actorID: string (Must own the series and the post)
  - seriesID: string
  - postID: string

Returns:
  - *Series: The persisted aggregate
  - error: ValidationError on empty postID, NotFound for a missing series or
    post, a series the actor does not own, or a post by another author
*/
func (service *Service) AddPostToSeries(context context.Context, actorID, seriesID, postID string) (*Series, error) {
	if postID == "" {
		return nil, validate.RequiredError(FieldPostID, "This field is required")
	}
	if !validate.IsUUID(seriesID) {
		return nil, apperr.NotFound("Series")
	}
	if !validate.IsUUID(postID) {
		return nil, apperr.NotFound("Post")
	}

	var added bool
	var episode Episode

	series, err := service.repo.Mutate(context, seriesID, appendMutation(actorID, postID, &episode, &added))
	if err != nil {
		return nil, err
	}

	// Log membership changes
	if added {
		service.logger.Info("series_post_added",
			slog.String("series_id", seriesID),
			slog.String("post_id", postID),
			slog.Int("episode_number", episode.EpisodeNumber),
		)
	}

	return series, nil
}

// AttachPost adds a freshly created post to a series.
func (service *Service) AttachPost(context context.Context, actorID, seriesID, postID string) error {
	_, err := service.AddPostToSeries(context, actorID, seriesID, postID)
	return err
}

/*
RemovePostFromSeries filters a post out of the episode list.

Description: Remaining episodes keep their numbers. The post's series
reference is cleared in the same transaction only while it still points at
this series. A missing post is tolerated.

Returns:
  - *Series: The persisted aggregate
  - error: ValidationError on empty postID, NotFound for a missing series or
    one the actor does not own
*/
func (service *Service) RemovePostFromSeries(context context.Context, actorID, seriesID, postID string) (*Series, error) {
	if postID == "" {
		return nil, validate.RequiredError(FieldPostID, "This field is required")
	}
	if !validate.IsUUID(seriesID) {
		return nil, apperr.NotFound("Series")
	}

	var removed bool

	series, err := service.repo.Mutate(context, seriesID, removeMutation(actorID, postID, &removed))
	if err != nil {
		return nil, err
	}

	if removed {
		service.logger.Info("series_post_removed",
			slog.String("series_id", seriesID),
			slog.String("post_id", postID),
		)
	}

	return series, nil
}

/*
ReorderEpisodes overwrites episode numbers for the listed members.

Description: Members without an assignment keep their number. Uniqueness
and contiguity of the submitted numbers are not checked. The list itself
keeps its stored order. Only the series author may reorder; anyone else
gets NotFound.
*/
func (service *Service) ReorderEpisodes(context context.Context, actorID, seriesID string, assignments []Episode) (*Series, error) {
	if assignments == nil {
		return nil, validate.RequiredError(FieldPosts, "This field is required")
	}
	if !validate.IsUUID(seriesID) {
		return nil, apperr.NotFound("Series")
	}

	var changed int

	series, err := service.repo.Mutate(context, seriesID, reorderMutation(actorID, assignments, &changed))
	if err != nil {
		return nil, err
	}

	service.logger.Info("series_episodes_reordered",
		slog.String("series_id", seriesID),
		slog.Int("changed", changed),
	)
	return series, nil
}

// # Reads

// ListSeriesPosts resolves the episode list to titles, in stored order.
func (service *Service) ListSeriesPosts(context context.Context, seriesID string) ([]EpisodePost, error) {
	series, resolved, err := service.resolve(context, seriesID)
	if err != nil {
		return nil, err
	}

	result := make([]EpisodePost, 0, len(series.Episodes))
	for _, episode := range series.Episodes {
		if post, ok := resolved[episode.PostID]; ok {
			result = append(result, EpisodePost{ID: post.ID, Title: post.Title, EpisodeNumber: episode.EpisodeNumber})
		}
	}
	return result, nil
}

/*
ListSeriesWorks resolves the episode list to title and description.

Description: Entries whose post no longer exists are silently dropped.
Output keeps the stored list order.

Returns:
  - []Work: Resolved episodes
  - error: NotFound if the series does not exist
*/
func (service *Service) ListSeriesWorks(context context.Context, seriesID string) ([]Work, error) {
	series, resolved, err := service.resolve(context, seriesID)
	if err != nil {
		return nil, err
	}

	result := make([]Work, 0, len(series.Episodes))
	for _, episode := range series.Episodes {
		if post, ok := resolved[episode.PostID]; ok {
			result = append(result, Work{
				ID:            post.ID,
				Title:         post.Title,
				Description:   post.Description,
				EpisodeNumber: episode.EpisodeNumber,
			})
		}
	}
	return result, nil
}

/*
GetSeriesDetail returns a series with its resolved posts and counters.

Description: With requireOwnership set, a series owned by someone else is
reported as NotFound, exactly like a missing one.

Parameters:
  - context: context.Context
  - seriesID: string
  - requesterID: string ("" for anonymous)
  - requireOwnership: bool

Returns:
  - *Detail: The series and its posts in stored order
  - error: NotFound
*/
func (service *Service) GetSeriesDetail(context context.Context, seriesID, requesterID string, requireOwnership bool) (*Detail, error) {
	series, resolved, err := service.resolve(context, seriesID)
	if err != nil {
		return nil, err
	}

	if requireOwnership && (requesterID == "" || series.AuthorID != requesterID) {
		return nil, apperr.NotFound("Series")
	}

	detail := &Detail{Series: series, Posts: make([]DetailPost, 0, len(series.Episodes))}
	for _, episode := range series.Episodes {
		post, ok := resolved[episode.PostID]
		if !ok {
			continue
		}
		detail.Posts = append(detail.Posts, DetailPost{
			ID:               post.ID,
			Title:            post.Title,
			Description:      post.Description,
			EpisodeNumber:    episode.EpisodeNumber,
			GoodCounter:      post.GoodCounter,
			BookShelfCounter: post.BookShelfCounter,
			ViewCounter:      post.ViewCounter,
		})
	}
	return detail, nil
}

/*
ListSeriesStats sums the engagement counters of each of the author's series.

Returns:
  - []Stats: One entry per series, newest series first
  - error: Repository errors
*/
func (service *Service) ListSeriesStats(context context.Context, authorID string) ([]Stats, error) {
	seriesList, err := service.repo.ListByAuthor(context, authorID)
	if err != nil {
		return nil, err
	}

	// Resolve every episode of every series in one round-trip
	var postIDs []string
	for _, series := range seriesList {
		for _, episode := range series.Episodes {
			postIDs = append(postIDs, episode.PostID)
		}
	}

	resolved, err := service.repo.FindPostSummaries(context, postIDs)
	if err != nil {
		return nil, err
	}

	result := make([]Stats, 0, len(seriesList))
	for _, series := range seriesList {
		stats := Stats{ID: series.ID, Title: series.Title, Description: series.Description}
		for _, episode := range series.Episodes {
			post, ok := resolved[episode.PostID]
			if !ok {
				continue
			}
			stats.TotalLikes += post.GoodCounter
			stats.TotalBookshelf += post.BookShelfCounter
			stats.TotalViews += post.ViewCounter
		}
		stats.TotalPoints = Points(stats.TotalLikes, stats.TotalBookshelf)
		result = append(result, stats)
	}
	return result, nil
}

// # Repair

/*
ReconcileSeries heals dangling references between a series and its posts.

Description: Runs [Series.Reconcile] under the series row lock, reading the
posts inside the same transaction. Only the owner or an admin may run it.

Parameters:
  - context: context.Context
  - actorID: string
  - isAdmin: bool
  - seriesID: string

Returns:
  - ReconcileReport: The applied repairs
  - error: NotFound
*/
func (service *Service) ReconcileSeries(context context.Context, actorID string, isAdmin bool, seriesID string) (ReconcileReport, error) {
	if !validate.IsUUID(seriesID) {
		return ReconcileReport{}, apperr.NotFound("Series")
	}

	var report ReconcileReport

	_, err := service.repo.Mutate(context, seriesID, reconcileMutation(actorID, isAdmin, &report))
	if err != nil {
		return ReconcileReport{}, err
	}

	if report.Changed() {
		service.logger.Warn("series_reconciled",
			slog.String("series_id", seriesID),
			slog.Int("dropped", len(report.Dropped)),
			slog.Int("relinked", len(report.Relinked)),
			slog.Int("appended", len(report.Appended)),
		)
	}
	return report, nil
}

// ReconcileAuthor runs [Service.ReconcileSeries] as admin over every series
// of authorID and returns only the reports that changed something.
func (service *Service) ReconcileAuthor(context context.Context, authorID string) ([]ReconcileReport, error) {
	owned, err := service.ListUserSeries(context, authorID)
	if err != nil {
		return nil, err
	}

	reports := []ReconcileReport{}
	for _, series := range owned {
		report, err := service.ReconcileSeries(context, authorID, true, series.ID)
		if err != nil {
			return nil, err
		}
		if report.Changed() {
			reports = append(reports, report)
		}
	}
	return reports, nil
}

// # Mutations

func appendMutation(actorID, postID string, episode *Episode, added *bool) MutateFunc {
	return func(_ context.Context, series *Series, _ PostLookup) ([]Link, error) {
		if series.AuthorID != actorID {
			return nil, apperr.NotFound("Series")
		}
		*episode, *added = series.AppendPost(postID)
		return []Link{{Action: LinkSet, PostID: postID}}, nil
	}
}

func removeMutation(actorID, postID string, removed *bool) MutateFunc {
	return func(_ context.Context, series *Series, _ PostLookup) ([]Link, error) {
		if series.AuthorID != actorID {
			return nil, apperr.NotFound("Series")
		}
		*removed = series.RemovePost(postID)

		// A malformed ID cannot match any post row
		if !validate.IsUUID(postID) {
			return nil, nil
		}
		return []Link{{Action: LinkClear, PostID: postID}}, nil
	}
}

func reorderMutation(actorID string, assignments []Episode, changed *int) MutateFunc {
	return func(_ context.Context, series *Series, _ PostLookup) ([]Link, error) {
		if series.AuthorID != actorID {
			return nil, apperr.NotFound("Series")
		}
		*changed = series.ApplyEpisodeNumbers(assignments)
		return nil, nil
	}
}

func reconcileMutation(actorID string, isAdmin bool, report *ReconcileReport) MutateFunc {
	return func(ctx context.Context, series *Series, posts PostLookup) ([]Link, error) {
		if !isAdmin && series.AuthorID != actorID {
			return nil, apperr.NotFound("Series")
		}

		postIDs := make([]string, 0, len(series.Episodes))
		for _, episode := range series.Episodes {
			postIDs = append(postIDs, episode.PostID)
		}

		listed, err := posts.FindPostSummaries(ctx, postIDs)
		if err != nil {
			return nil, err
		}
		referencing, err := posts.ListReferencingPosts(ctx, series.ID)
		if err != nil {
			return nil, err
		}

		var links []Link
		links, *report = series.Reconcile(listed, referencing)
		return links, nil
	}
}

// # Helpers

func (service *Service) find(context context.Context, seriesID string) (*Series, error) {
	if !validate.IsUUID(seriesID) {
		return nil, apperr.NotFound("Series")
	}
	return service.repo.FindByID(context, seriesID)
}

func (service *Service) findOwned(context context.Context, actorID, seriesID string) (*Series, error) {
	series, err := service.find(context, seriesID)
	if err != nil {
		return nil, err
	}
	if series.AuthorID != actorID {
		return nil, apperr.NotFound("Series")
	}
	return series, nil
}

// resolve loads a series and the posts its episodes point at.
func (service *Service) resolve(context context.Context, seriesID string) (*Series, map[string]PostSummary, error) {
	series, err := service.find(context, seriesID)
	if err != nil {
		return nil, nil, err
	}

	postIDs := make([]string, 0, len(series.Episodes))
	for _, episode := range series.Episodes {
		postIDs = append(postIDs, episode.PostID)
	}

	resolved, err := service.repo.FindPostSummaries(context, postIDs)
	if err != nil {
		return nil, nil, err
	}
	return series, resolved, nil
}
