package reports

import (
	"context"
	"errors"
)

// Backend is the set of calls the moderation inbox needs from the system of
// record. Credentials are bound to the Backend value itself: the server binds
// an authenticated operator, the CLI client binds a bearer token.
type Backend interface {
	GetLiveReports(ctx context.Context, status StatusFilter) ([]LivestreamReport, error)
	GetVideoReports(ctx context.Context, status StatusFilter) ([]VideoReport, error)
	ResolveLiveReport(ctx context.Context, reportID string, decision Decision, notes string) error
	ResolveVideoReport(ctx context.Context, reportID string, decision Decision, notes string) error
	ModerateCreator(ctx context.Context, creatorID string, action CreatorAction, note string) error
}

// Source reads one content type's reports and normalizes them.
type Source interface {
	Type() Type
	Fetch(ctx context.Context, status StatusFilter) Result
}

type LivestreamSource struct {
	backend Backend
}

func NewLivestreamSource(b Backend) *LivestreamSource {
	return &LivestreamSource{backend: b}
}

func (s *LivestreamSource) Type() Type { return TypeLivestream }

func (s *LivestreamSource) Fetch(ctx context.Context, status StatusFilter) Result {
	raw, err := s.backend.GetLiveReports(ctx, status)
	if err != nil {
		return fetchFailure(TypeLivestream, err)
	}
	return LoadedResult(TypeLivestream, NormalizeLivestream(raw))
}

type VideoSource struct {
	backend Backend
}

func NewVideoSource(b Backend) *VideoSource {
	return &VideoSource{backend: b}
}

func (s *VideoSource) Type() Type { return TypeVideo }

func (s *VideoSource) Fetch(ctx context.Context, status StatusFilter) Result {
	raw, err := s.backend.GetVideoReports(ctx, status)
	if err != nil {
		return fetchFailure(TypeVideo, err)
	}
	return LoadedResult(TypeVideo, NormalizeVideo(raw))
}

// A read cut short by its deadline has not failed, it just has not arrived.
func fetchFailure(t Type, err error) Result {
	if errors.Is(err, context.DeadlineExceeded) {
		return NotLoadedResult(t)
	}
	return FailedResult(t, err)
}

// Sources returns the livestream and video sources over one backend, in the
// order their results are concatenated.
func Sources(b Backend) []Source {
	return []Source{NewLivestreamSource(b), NewVideoSource(b)}
}
