package reports

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type resolveCall struct {
	kind     string
	id       string
	decision Decision
	notes    string
}

type creatorCall struct {
	creatorID string
	action    CreatorAction
	note      string
}

// fakeBackend records calls and can be told to fail or block.
type fakeBackend struct {
	mu       sync.Mutex
	live     []LivestreamReport
	videos   []VideoReport
	liveErr  error
	videoErr error

	resolveErr error
	creatorErr error
	block      chan struct{}

	resolves  []resolveCall
	creators  []creatorCall
	statusArg []StatusFilter
}

func (f *fakeBackend) GetLiveReports(_ context.Context, status StatusFilter) ([]LivestreamReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusArg = append(f.statusArg, status)
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	var out []LivestreamReport
	for _, r := range f.live {
		if status.IsAll() || r.Status == Status(status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetVideoReports(_ context.Context, status StatusFilter) ([]VideoReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusArg = append(f.statusArg, status)
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	var out []VideoReport
	for _, r := range f.videos {
		if status.IsAll() || r.Status == Status(status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeBackend) ResolveLiveReport(_ context.Context, id string, d Decision, notes string) error {
	return f.recordResolve("livestream", id, d, notes)
}

func (f *fakeBackend) ResolveVideoReport(_ context.Context, id string, d Decision, notes string) error {
	return f.recordResolve("video", id, d, notes)
}

func (f *fakeBackend) recordResolve(kind, id string, d Decision, notes string) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolves = append(f.resolves, resolveCall{kind: kind, id: id, decision: d, notes: notes})
	if f.resolveErr != nil {
		return f.resolveErr
	}
	for i := range f.live {
		if kind == "livestream" && f.live[i].ID == id {
			f.live[i].Status = Status(d)
		}
	}
	for i := range f.videos {
		if kind == "video" && f.videos[i].ID == id {
			f.videos[i].Status = Status(d)
		}
	}
	return nil
}

func (f *fakeBackend) ModerateCreator(_ context.Context, creatorID string, a CreatorAction, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators = append(f.creators, creatorCall{creatorID: creatorID, action: a, note: note})
	return f.creatorErr
}

func TestFromLivestreamFieldMapping(t *testing.T) {
	raw := LivestreamReport{
		ID:                "l1",
		CreationTime:      10,
		SessionID:         "sess-1",
		ChannelName:       strPtr("Pizza Night Live"),
		ChefID:            strPtr("chef-9"),
		ReporterID:        "u1",
		ReporterName:      "Ana",
		Reason:            "Spam",
		AdditionalDetails: strPtr("links in chat"),
		Status:            StatusPending,
		ReportedAt:        200,
	}

	r := FromLivestream(raw)
	assert.Equal(t, TypeLivestream, r.Type)
	assert.Equal(t, "l1", r.ID)
	assert.Equal(t, int64(10), r.CreationTime)
	assert.Equal(t, int64(200), r.CreatedAt)
	assert.Equal(t, "sess-1", r.TargetID)
	assert.Equal(t, "links in chat", *r.Description)
	assert.Equal(t, "Pizza Night Live", *r.TargetTitle)
	assert.Equal(t, "Pizza Night Live", *r.ChannelName)
	assert.Equal(t, "chef-9", *r.CreatorID)
	assert.Nil(t, r.CreatorName)
	assert.Equal(t, StatusPending, r.Status)
}

func TestFromVideoFieldMapping(t *testing.T) {
	raw := VideoReport{
		ID:           "v1",
		VideoID:      "vid-1",
		VideoTitle:   strPtr("Knife skills"),
		CreatorID:    strPtr("chef-2"),
		CreatorName:  strPtr("Marco"),
		ReporterID:   "u2",
		ReporterName: "Bo",
		Reason:       "Misleading",
		Description:  strPtr("not a real recipe"),
		Status:       StatusPending,
		CreatedAt:    300,
	}

	r := FromVideo(raw)
	assert.Equal(t, TypeVideo, r.Type)
	assert.Equal(t, int64(300), r.CreatedAt)
	assert.Equal(t, "vid-1", r.TargetID)
	assert.Equal(t, "Knife skills", *r.TargetTitle)
	assert.Equal(t, "Marco", *r.CreatorName)
	assert.Equal(t, "chef-2", *r.CreatorID)
	assert.Equal(t, "not a real recipe", *r.Description)
	assert.Nil(t, r.ChannelName)
}

func TestNormalizeKeepsMissingOptionalsNil(t *testing.T) {
	l := FromLivestream(LivestreamReport{ID: "l", Reason: "x"})
	assert.Nil(t, l.Description)
	assert.Nil(t, l.TargetTitle)
	assert.Nil(t, l.ChannelName)
	assert.Nil(t, l.CreatorID)

	v := FromVideo(VideoReport{ID: "v", Reason: "x"})
	assert.Nil(t, v.Description)
	assert.Nil(t, v.TargetTitle)
	assert.Nil(t, v.CreatorID)
	assert.Nil(t, v.CreatorName)
}

func TestAggregateScenarioA(t *testing.T) {
	video := LoadedResult(TypeVideo, []ModerationReport{{ID: "1", CreatedAt: 100, Type: TypeVideo}})
	live := LoadedResult(TypeLivestream, []ModerationReport{{ID: "2", CreatedAt: 200, Type: TypeLivestream}})

	out := Aggregate(video, live)
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].ID)
	assert.Equal(t, "1", out[1].ID)
}

func TestAggregateDescendingAndStable(t *testing.T) {
	live := LoadedResult(TypeLivestream, []ModerationReport{
		{ID: "a", CreatedAt: 50},
		{ID: "b", CreatedAt: 70},
		{ID: "c", CreatedAt: 50},
	})
	video := LoadedResult(TypeVideo, []ModerationReport{
		{ID: "d", CreatedAt: 50},
		{ID: "e", CreatedAt: 90},
	})

	out := Aggregate(live, video)
	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"e", "b", "a", "c", "d"}, ids)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].CreatedAt, out[i].CreatedAt)
	}

	again := Aggregate(live, video)
	assert.Equal(t, out, again)
}

func TestAggregatePartialArrival(t *testing.T) {
	live := LoadedResult(TypeLivestream, []ModerationReport{{ID: "a", CreatedAt: 1}})
	pending := NotLoadedResult(TypeVideo)
	failed := FailedResult(TypeVideo, errors.New("boom"))

	assert.Len(t, Aggregate(live, pending), 1)
	assert.True(t, Loading(live, pending))
	assert.False(t, Loading(live, failed))
	assert.Len(t, Aggregate(live, failed), 1)
	assert.Contains(t, Errors(live, failed), TypeVideo)
	assert.Nil(t, Errors(live, pending))

	empty := Aggregate(NotLoadedResult(TypeLivestream), NotLoadedResult(TypeVideo))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestAggregatorMemoizesOnVersions(t *testing.T) {
	agg := NewAggregator()
	live := LoadedResult(TypeLivestream, []ModerationReport{{ID: "a", CreatedAt: 1}})
	video := NotLoadedResult(TypeVideo)

	first := agg.Aggregate(live, video)
	second := agg.Aggregate(live, video)
	require.Len(t, first, 1)
	assert.Same(t, &first[0], &second[0])

	video = LoadedResult(TypeVideo, []ModerationReport{{ID: "b", CreatedAt: 2}})
	third := agg.Aggregate(live, video)
	require.Len(t, third, 2)
	assert.Equal(t, "b", third[0].ID)
}

func sampleInbox() []ModerationReport {
	return []ModerationReport{
		{ID: "1", Type: TypeLivestream, TargetTitle: strPtr("Pizza Night Live"), ReporterName: "Ana", Reason: "Inappropriate content", CreatedAt: 5},
		{ID: "2", Type: TypeVideo, TargetTitle: strPtr("Knife skills"), ReporterName: "Bo", Reason: "Spam", CreatedAt: 4},
		{ID: "3", Type: TypeVideo, ReporterName: "Pizzaiolo Fan", Reason: "Harassment", CreatedAt: 3},
		{ID: "4", Type: TypeLivestream, ReporterName: "Cy", Reason: "Other", CreatedAt: 2},
	}
}

func ids(list []ModerationReport) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}

func TestFilterScenarioB(t *testing.T) {
	out := Filter(sampleInbox(), "pizza", TypeFilterAll)
	assert.Equal(t, []string{"1", "3"}, ids(out))
}

func TestFilterCaseInsensitive(t *testing.T) {
	out := Filter(sampleInbox(), "spam", TypeFilterAll)
	assert.Equal(t, []string{"2"}, ids(out))
	out = Filter(sampleInbox(), "SPAM", TypeFilterAll)
	assert.Equal(t, []string{"2"}, ids(out))
}

func TestFilterTypeAndQueryCombine(t *testing.T) {
	list := sampleInbox()
	assert.Len(t, Filter(list, "", TypeFilterAll), len(list))
	assert.Equal(t, []string{"2", "3"}, ids(Filter(list, "", TypeFilter(TypeVideo))))
	assert.Equal(t, []string{"1"}, ids(Filter(list, "pizza", TypeFilter(TypeLivestream))))
	assert.Empty(t, Filter(list, "knife", TypeFilter(TypeLivestream)))
}

func TestFilterIsPureAndDoesNotMutate(t *testing.T) {
	list := sampleInbox()
	before := ids(list)

	a := Filter(list, "a", TypeFilter(TypeVideo))
	b := Filter(list, "a", TypeFilter(TypeVideo))
	assert.Equal(t, a, b)
	assert.Equal(t, before, ids(list))
}

func TestParseFilters(t *testing.T) {
	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.True(t, f.IsAll())

	f, err = ParseStatusFilter("flagged")
	require.NoError(t, err)
	assert.Equal(t, StatusFilter("flagged"), f)

	_, err = ParseStatusFilter("closed")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	tf, err := ParseTypeFilter("video")
	require.NoError(t, err)
	assert.Equal(t, TypeFilter(TypeVideo), tf)

	_, err = ParseTypeFilter("photo")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestSourcesNormalizeAndSurfaceFailures(t *testing.T) {
	fb := &fakeBackend{
		live:     []LivestreamReport{{ID: "l1", Status: StatusPending, ReportedAt: 9}},
		videoErr: errors.New("backend down"),
	}

	live := NewLivestreamSource(fb).Fetch(context.Background(), DefaultStatusFilter)
	require.Equal(t, Loaded, live.State)
	require.Len(t, live.Items, 1)
	assert.Equal(t, TypeLivestream, live.Items[0].Type)
	assert.Equal(t, int64(9), live.Items[0].CreatedAt)

	video := NewVideoSource(fb).Fetch(context.Background(), DefaultStatusFilter)
	assert.Equal(t, Failed, video.State)
	assert.EqualError(t, video.Err, "backend down")

	fb.videoErr = context.DeadlineExceeded
	video = NewVideoSource(fb).Fetch(context.Background(), DefaultStatusFilter)
	assert.Equal(t, NotLoaded, video.State)
}

func TestSourcesEmptyListIsLoaded(t *testing.T) {
	fb := &fakeBackend{}
	r := NewVideoSource(fb).Fetch(context.Background(), StatusAll)
	assert.Equal(t, Loaded, r.State)
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}
