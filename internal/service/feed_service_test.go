package service

import (
	"Quad/internal/api/config"
	"Quad/internal/api/dto"
	"Quad/internal/model"
	"Quad/internal/pkg/clock"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakePostRepo struct {
	posts []*model.Post
	err   error
}

func (r *fakePostRepo) GetFeedCandidates(_ context.Context, _ uint64, _ int) ([]*model.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.posts, nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, postID uint64) (*model.Post, error) {
	for _, p := range r.posts {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, nil
}

type fakeInteractionRepo struct {
	history []*model.InteractionRecord
	err     error
	created []*model.InteractionRecord
}

func (r *fakeInteractionRepo) CreateRecord(_ context.Context, record *model.InteractionRecord) error {
	r.created = append(r.created, record)
	return nil
}

func (r *fakeInteractionRepo) GetUserHistory(_ context.Context, _ uint64, _ time.Time, _ int) ([]*model.InteractionRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.history, nil
}

type fakeHideRepo struct {
	hiddenPosts   []uint64
	hiddenAuthors []uint64
}

func (r *fakeHideRepo) CreateHide(_ context.Context, _ *model.UserHide) error { return nil }
func (r *fakeHideRepo) DeleteHide(_ context.Context, _ uint64, _ int8, _ uint64) error {
	return nil
}
func (r *fakeHideRepo) GetHiddenIDs(_ context.Context, _ uint64, targetType int8) ([]uint64, error) {
	if targetType == model.HideTargetPost {
		return r.hiddenPosts, nil
	}
	return r.hiddenAuthors, nil
}

type fakeAffinityRepo struct {
	snapshot *model.AffinitySnapshot
	err      error
}

func (r *fakeAffinityRepo) SaveSnapshot(_ context.Context, _ *model.AffinitySnapshot) error {
	return nil
}
func (r *fakeAffinityRepo) GetSnapshot(_ context.Context, _ uint64) (*model.AffinitySnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.snapshot, nil
}

type fakeFeedCache struct {
	affinity map[string]float64
	dirty    map[uint64]bool
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{affinity: make(map[string]float64), dirty: make(map[uint64]bool)}
}

func (c *fakeFeedCache) IncrAffinity(_ context.Context, userID, authorID uint64, delta float64) error {
	key := itoaPair(userID, authorID)
	c.affinity[key] += delta
	return nil
}

func (c *fakeFeedCache) MarkAffinityDirty(_ context.Context, userID uint64) error {
	c.dirty[userID] = true
	return nil
}

func itoaPair(a, b uint64) string {
	return fmt.Sprintf("%d:%d", a, b)
}

type feedFixture struct {
	svc          FeedService
	postRepo     *fakePostRepo
	interactions *fakeInteractionRepo
	hides        *fakeHideRepo
	affinities   *fakeAffinityRepo
	cache        *fakeFeedCache
	clk          *clock.Fixed
}

func newFeedFixture() *feedFixture {
	cfg := &config.FeedConfig{
		CandidateLimit:   200,
		HistoryDays:      30,
		AffinityTimeout:  1000,
		RecencyWeight:    0.5,
		AffinityWeight:   0.3,
		EngagementWeight: 0.2,
		RecencyHalfLife:  24,
		AffinityBaseline: 0.1,
	}
	f := &feedFixture{
		postRepo:     &fakePostRepo{},
		interactions: &fakeInteractionRepo{},
		hides:        &fakeHideRepo{},
		affinities:   &fakeAffinityRepo{},
		cache:        newFakeFeedCache(),
		clk:          &clock.Fixed{Current: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
	}
	f.svc = NewFeedService(cfg, f.postRepo, f.interactions, f.hides, f.affinities, f.cache, f.clk)
	return f
}

func (f *feedFixture) postAt(id, authorID uint64, age time.Duration) *model.Post {
	return &model.Post{
		ID:        id,
		UserID:    authorID,
		Content:   "content",
		CreatedAt: f.clk.Current.Add(-age),
	}
}

func feedIDs(feed *dto.FeedDTO) []uint64 {
	ids := make([]uint64, 0, len(feed.Posts))
	for _, p := range feed.Posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestGetFeedAffinityBeatsRecency(t *testing.T) {
	f := newFeedFixture()
	// 作者 1 的帖子更老，但用户和作者 1 互动频繁
	f.postRepo.posts = []*model.Post{
		f.postAt(1, 1, 2*time.Hour),
		f.postAt(2, 2, 0),
	}
	for i := 0; i < 5; i++ {
		f.interactions.history = append(f.interactions.history, &model.InteractionRecord{
			UserID:    42,
			PostID:    1,
			AuthorID:  1,
			Kind:      model.InteractionLike,
			CreatedAt: f.clk.Current.Add(-time.Hour),
		})
	}

	feed, err := f.svc.GetFeed(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetFeed error: %v", err)
	}
	if !feed.Personalized {
		t.Fatal("feed not personalized")
	}
	ids := feedIDs(feed)
	if len(ids) != 2 || ids[0] != 1 {
		t.Fatalf("feed order = %v, want [1 2]", ids)
	}
}

func TestGetFeedAnonymousChronological(t *testing.T) {
	f := newFeedFixture()
	f.postRepo.posts = []*model.Post{
		f.postAt(1, 1, 3*time.Hour),
		f.postAt(3, 2, time.Hour),
		f.postAt(2, 3, 2*time.Hour),
	}

	feed, err := f.svc.GetFeed(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetFeed error: %v", err)
	}
	if feed.Personalized {
		t.Fatal("anonymous feed marked personalized")
	}
	ids := feedIDs(feed)
	want := []uint64{3, 2, 1}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("feed order = %v, want %v", ids, want)
		}
	}
}

func TestGetFeedHistoryFailureUsesSnapshot(t *testing.T) {
	f := newFeedFixture()
	f.postRepo.posts = []*model.Post{
		f.postAt(1, 1, 2*time.Hour),
		f.postAt(2, 2, 0),
	}
	f.interactions.err = errors.New("timeout")
	f.affinities.snapshot = &model.AffinitySnapshot{
		UserID:     42,
		Affinities: model.AffinityMap{"1": 40},
	}

	feed, err := f.svc.GetFeed(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetFeed error: %v", err)
	}
	if !feed.Personalized {
		t.Fatal("snapshot path must still personalize")
	}
	if ids := feedIDs(feed); ids[0] != 1 {
		t.Fatalf("feed order = %v, want author 1 first", ids)
	}
}

func TestGetFeedFallsBackToChronological(t *testing.T) {
	f := newFeedFixture()
	f.postRepo.posts = []*model.Post{
		f.postAt(1, 1, 2*time.Hour),
		f.postAt(2, 2, time.Hour),
	}
	f.interactions.err = errors.New("timeout")
	f.affinities.err = errors.New("connection refused")

	feed, err := f.svc.GetFeed(context.Background(), 42)
	if err != nil {
		t.Fatalf("fallback must not fail: %v", err)
	}
	if feed.Personalized {
		t.Fatal("degraded feed marked personalized")
	}
	if ids := feedIDs(feed); ids[0] != 2 || ids[1] != 1 {
		t.Fatalf("feed order = %v, want [2 1]", ids)
	}
}

func TestGetFeedFiltersHidden(t *testing.T) {
	f := newFeedFixture()
	f.postRepo.posts = []*model.Post{
		f.postAt(1, 1, time.Hour),
		f.postAt(2, 2, 2*time.Hour),
		f.postAt(3, 3, 3*time.Hour),
	}
	f.hides.hiddenPosts = []uint64{1}
	f.hides.hiddenAuthors = []uint64{3}

	feed, err := f.svc.GetFeed(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetFeed error: %v", err)
	}
	ids := feedIDs(feed)
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("feed = %v, want only post 2", ids)
	}
}

func TestTrackInteraction(t *testing.T) {
	f := newFeedFixture()
	f.postRepo.posts = []*model.Post{f.postAt(1, 9, time.Hour)}

	err := f.svc.TrackInteraction(context.Background(), 42, &dto.TrackInteractionDTO{
		PostID: 1,
		Kind:   model.InteractionLike,
	})
	if err != nil {
		t.Fatalf("TrackInteraction error: %v", err)
	}

	if len(f.interactions.created) != 1 {
		t.Fatalf("record count = %d, want 1", len(f.interactions.created))
	}
	record := f.interactions.created[0]
	if record.AuthorID != 9 || record.Kind != model.InteractionLike {
		t.Fatalf("record = %+v", record)
	}
	if f.cache.affinity[itoaPair(42, 9)] != 3 {
		t.Fatalf("affinity delta = %v, want 3", f.cache.affinity[itoaPair(42, 9)])
	}
	if !f.cache.dirty[42] {
		t.Fatal("dirty flag not set")
	}
}

func TestTrackInteractionPostMissing(t *testing.T) {
	f := newFeedFixture()

	err := f.svc.TrackInteraction(context.Background(), 42, &dto.TrackInteractionDTO{
		PostID: 404,
		Kind:   model.InteractionView,
	})
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}
