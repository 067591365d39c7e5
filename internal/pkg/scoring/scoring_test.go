package scoring

import (
	"Quad/internal/model"
	"testing"
	"time"
)

var testWeights = Weights{
	Recency:          0.5,
	Affinity:         0.3,
	Engagement:       0.2,
	RecencyHalfLife:  24,
	AffinityBaseline: 0.1,
}

func makePost(id, authorID uint64, createdAt time.Time, reactions, comments, shares int) *model.Post {
	return &model.Post{
		ID:             id,
		UserID:         authorID,
		CreatedAt:      createdAt,
		ReactionsCount: reactions,
		CommentsCount:  comments,
		SharesCount:    shares,
	}
}

func TestRecencyScoreMonotonic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	prev := 2.0
	for _, ageHours := range []float64{0, 1, 6, 24, 48, 168} {
		score := RecencyScore(now.Add(-time.Duration(ageHours*float64(time.Hour))), now, 24)
		if score <= 0 || score > 1 {
			t.Fatalf("age %vh: score %v out of (0,1]", ageHours, score)
		}
		if score >= prev {
			t.Fatalf("age %vh: score %v not decreasing (prev %v)", ageHours, score, prev)
		}
		prev = score
	}

	// 半衰期处应恰好折半
	half := RecencyScore(now.Add(-24*time.Hour), now, 24)
	full := RecencyScore(now, now, 24)
	if diff := full/half - 2; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("half life mismatch: full=%v half=%v", full, half)
	}
}

func TestEngagementScoreDamped(t *testing.T) {
	small := EngagementScore(1, 0, 0)
	medium := EngagementScore(100, 10, 5)
	viral := EngagementScore(1000000, 100000, 50000)

	if !(small < medium && medium < viral) {
		t.Fatalf("scores not increasing: %v %v %v", small, medium, viral)
	}
	if viral >= 1 {
		t.Fatalf("viral score %v should saturate below 1", viral)
	}
	if zero := EngagementScore(0, 0, 0); zero != 0 {
		t.Fatalf("empty counters should score 0, got %v", zero)
	}
}

func TestBuildAffinityWeightsKinds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*model.InteractionRecord{
		{UserID: 1, PostID: 10, AuthorID: 100, Kind: model.InteractionView, CreatedAt: now},
		{UserID: 1, PostID: 11, AuthorID: 200, Kind: model.InteractionShare, CreatedAt: now},
		{UserID: 1, PostID: 12, AuthorID: 200, Kind: model.InteractionLike, CreatedAt: now},
		{UserID: 1, PostID: 13, AuthorID: 300, Kind: "unknown", CreatedAt: now},
	}

	affinity := BuildAffinity(records, now)

	if affinity[200] <= affinity[100] {
		t.Fatalf("share+like author %v should outrank view author %v", affinity[200], affinity[100])
	}
	if _, ok := affinity[300]; ok {
		t.Fatal("unknown interaction kind should be ignored")
	}
}

func TestAffinityScoreBaseline(t *testing.T) {
	affinity := map[uint64]float64{100: 50}

	if got := AffinityScore(affinity, 999, 0.1); got != 0.1 {
		t.Fatalf("unknown author should get baseline, got %v", got)
	}
	if got := AffinityScore(affinity, 100, 0.1); got <= 0.1 || got >= 1 {
		t.Fatalf("known author score %v out of (baseline, 1)", got)
	}
}

func TestRankPostsPermutation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []*model.Post{
		makePost(1, 100, now.Add(-1*time.Hour), 5, 1, 0),
		makePost(2, 200, now.Add(-2*time.Hour), 500, 80, 20),
		makePost(3, 100, now.Add(-30*time.Minute), 0, 0, 0),
		makePost(4, 300, now.Add(-72*time.Hour), 10, 2, 1),
		makePost(5, 200, now.Add(-10*time.Minute), 1, 0, 0),
	}

	ranked := RankPosts(posts, map[uint64]float64{200: 40}, testWeights, now)

	if len(ranked) != len(posts) {
		t.Fatalf("expected %d posts, got %d", len(posts), len(ranked))
	}
	seen := make(map[uint64]bool)
	for _, p := range ranked {
		if seen[p.ID] {
			t.Fatalf("post %d duplicated", p.ID)
		}
		seen[p.ID] = true
	}
	for _, p := range posts {
		if !seen[p.ID] {
			t.Fatalf("post %d dropped", p.ID)
		}
	}
}

func TestRankPostsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []*model.Post{
		makePost(3, 100, now.Add(-1*time.Hour), 10, 0, 0),
		makePost(1, 200, now.Add(-1*time.Hour), 10, 0, 0),
		makePost(2, 300, now.Add(-1*time.Hour), 10, 0, 0),
	}
	affinity := map[uint64]float64{}

	first := RankPosts(posts, affinity, testWeights, now)
	second := RankPosts(posts, affinity, testWeights, now)

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("rank order not deterministic at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
	// 完全同分时按 ID 降序
	if first[0].ID != 3 || first[1].ID != 2 || first[2].ID != 1 {
		t.Fatalf("tie break by id desc expected, got %d %d %d", first[0].ID, first[1].ID, first[2].ID)
	}
}

func TestRankPostsEmptyHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []*model.Post{
		makePost(1, 100, now.Add(-5*time.Hour), 0, 0, 0),
		makePost(2, 200, now.Add(-4*time.Hour), 0, 0, 0),
		makePost(3, 300, now.Add(-3*time.Hour), 0, 0, 0),
		makePost(4, 400, now.Add(-2*time.Hour), 0, 0, 0),
		makePost(5, 500, now.Add(-1*time.Hour), 0, 0, 0),
	}

	// 无历史时亲和度全为基线，时间与互动量决定顺序；此处互动量也为零，纯时间序
	ranked := RankPosts(posts, BuildAffinity(nil, now), testWeights, now)

	if len(ranked) != 5 {
		t.Fatalf("expected 5 posts, got %d", len(ranked))
	}
	for i, want := range []uint64{5, 4, 3, 2, 1} {
		if ranked[i].ID != want {
			t.Fatalf("pos %d: want %d got %d", i, want, ranked[i].ID)
		}
	}
}

func TestSortChronological(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []*model.Post{
		makePost(1, 100, now.Add(-2*time.Hour), 0, 0, 0),
		makePost(3, 200, now.Add(-1*time.Hour), 0, 0, 0),
		makePost(2, 300, now.Add(-1*time.Hour), 0, 0, 0),
	}

	got := SortChronological(posts)

	for i, want := range []uint64{3, 2, 1} {
		if got[i].ID != want {
			t.Fatalf("pos %d: want %d got %d", i, want, got[i].ID)
		}
	}
	// 原切片不被修改
	if posts[0].ID != 1 {
		t.Fatal("input slice mutated")
	}
}
