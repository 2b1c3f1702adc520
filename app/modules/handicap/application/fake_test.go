package handicapservice

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"sync"

	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Handicap Repo
// ------------------------

// FakeHandicapRepo keeps rows in memory. Any ...Func field overrides the in-memory behavior.
type FakeHandicapRepo struct {
	mu    sync.Mutex
	trace []string

	rounds    map[uuid.UUID]*handicapdb.Round
	courses   map[uuid.UUID]*handicapdb.Course
	snapshots []*handicapdb.HandicapSnapshot

	CreateRoundFunc          func(ctx context.Context, db bun.IDB, round *handicapdb.Round) error
	GetRoundFunc             func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*handicapdb.Round, error)
	ListRoundsByPlayerFunc   func(ctx context.Context, db bun.IDB, playerID string) ([]*handicapdb.Round, error)
	ListRoundsByCourseFunc   func(ctx context.Context, db bun.IDB, query handicapdb.RoundQuery) ([]*handicapdb.Round, error)
	DeleteRoundFunc          func(ctx context.Context, db bun.IDB, roundID uuid.UUID) error
	GetCourseFunc            func(ctx context.Context, db bun.IDB, courseID uuid.UUID) (*handicapdb.Course, error)
	UpsertCourseFunc         func(ctx context.Context, db bun.IDB, course *handicapdb.Course) error
	SaveHandicapSnapshotFunc func(ctx context.Context, db bun.IDB, snapshot *handicapdb.HandicapSnapshot) error
}

func NewFakeHandicapRepo() *FakeHandicapRepo {
	return &FakeHandicapRepo{
		trace:   []string{},
		rounds:  map[uuid.UUID]*handicapdb.Round{},
		courses: map[uuid.UUID]*handicapdb.Course{},
	}
}

func (f *FakeHandicapRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Seeding helpers ---

func (f *FakeHandicapRepo) addCourse(c *handicapdb.Course) *handicapdb.Course {
	f.courses[c.ID] = c
	return c
}

func (f *FakeHandicapRepo) addRound(r *handicapdb.Round) *handicapdb.Round {
	f.rounds[r.ID] = r
	return r
}

func (f *FakeHandicapRepo) addSnapshot(s *handicapdb.HandicapSnapshot) {
	f.snapshots = append(f.snapshots, s)
}

// --- Repository Interface Implementation ---

func (f *FakeHandicapRepo) CreateRound(ctx context.Context, db bun.IDB, round *handicapdb.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, db, round)
	}
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	f.rounds[round.ID] = round
	return nil
}

func (f *FakeHandicapRepo) GetRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*handicapdb.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	if r, ok := f.rounds[roundID]; ok {
		return r, nil
	}
	return nil, handicapdb.ErrNotFound
}

func (f *FakeHandicapRepo) ListRoundsByPlayer(ctx context.Context, db bun.IDB, playerID string) ([]*handicapdb.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListRoundsByPlayer")
	if f.ListRoundsByPlayerFunc != nil {
		return f.ListRoundsByPlayerFunc(ctx, db, playerID)
	}
	var out []*handicapdb.Round
	for _, r := range f.rounds {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	sortRounds(out)
	return out, nil
}

func (f *FakeHandicapRepo) ListRoundsByCourse(ctx context.Context, db bun.IDB, query handicapdb.RoundQuery) ([]*handicapdb.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListRoundsByCourse")
	if f.ListRoundsByCourseFunc != nil {
		return f.ListRoundsByCourseFunc(ctx, db, query)
	}
	var out []*handicapdb.Round
	for _, r := range f.rounds {
		if r.CourseID != query.CourseID {
			continue
		}
		if !query.From.IsZero() && r.PlayedOn.Before(query.From) {
			continue
		}
		if !query.To.IsZero() && r.PlayedOn.After(query.To) {
			continue
		}
		out = append(out, r)
	}
	sortRounds(out)
	return out, nil
}

func (f *FakeHandicapRepo) DeleteRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteRound")
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, db, roundID)
	}
	if _, ok := f.rounds[roundID]; !ok {
		return handicapdb.ErrNoRowsAffected
	}
	delete(f.rounds, roundID)
	return nil
}

func (f *FakeHandicapRepo) GetCourse(ctx context.Context, db bun.IDB, courseID uuid.UUID) (*handicapdb.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetCourse")
	if f.GetCourseFunc != nil {
		return f.GetCourseFunc(ctx, db, courseID)
	}
	if c, ok := f.courses[courseID]; ok {
		return c, nil
	}
	return nil, handicapdb.ErrNotFound
}

func (f *FakeHandicapRepo) UpsertCourse(ctx context.Context, db bun.IDB, course *handicapdb.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpsertCourse")
	if f.UpsertCourseFunc != nil {
		return f.UpsertCourseFunc(ctx, db, course)
	}
	f.courses[course.ID] = course
	return nil
}

func (f *FakeHandicapRepo) SaveHandicapSnapshot(ctx context.Context, db bun.IDB, snapshot *handicapdb.HandicapSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SaveHandicapSnapshot")
	if f.SaveHandicapSnapshotFunc != nil {
		return f.SaveHandicapSnapshotFunc(ctx, db, snapshot)
	}
	snapshot.ID = int64(len(f.snapshots) + 1)
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *FakeHandicapRepo) GetLatestHandicap(ctx context.Context, db bun.IDB, playerID string) (*handicapdb.HandicapSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetLatestHandicap")
	if s := f.latest(playerID); s != nil {
		return s, nil
	}
	return nil, handicapdb.ErrNotFound
}

func (f *FakeHandicapRepo) ListHandicapHistory(ctx context.Context, db bun.IDB, playerID string, limit int) ([]*handicapdb.HandicapSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListHandicapHistory")
	var out []*handicapdb.HandicapSnapshot
	for _, s := range f.snapshots {
		if s.PlayerID == playerID {
			out = append(out, s)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *FakeHandicapRepo) latest(playerID string) *handicapdb.HandicapSnapshot {
	var latest *handicapdb.HandicapSnapshot
	for _, s := range f.snapshots {
		if s.PlayerID == playerID && (latest == nil || !s.ComputedAt.Before(latest.ComputedAt)) {
			latest = s
		}
	}
	return latest
}

func sortRounds(rounds []*handicapdb.Round) {
	sort.SliceStable(rounds, func(i, j int) bool {
		if rounds[i].PlayedOn.Equal(rounds[j].PlayedOn) {
			return rounds[i].ID.String() < rounds[j].ID.String()
		}
		return rounds[i].PlayedOn.Before(rounds[j].PlayedOn)
	})
}

// --- Accessors for assertions ---

func (f *FakeHandicapRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.trace)
}

func (f *FakeHandicapRepo) RoundCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rounds)
}

func (f *FakeHandicapRepo) Snapshots() []*handicapdb.HandicapSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.snapshots)
}

// Ensure the fake actually satisfies the interface
var _ handicapdb.Repository = (*FakeHandicapRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type publishedMessage struct {
	Topic   string
	Payload []byte
	CorrID  string
}

type FakePublisher struct {
	mu        sync.Mutex
	Published []publishedMessage
	Err       error
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	for _, m := range messages {
		p.Published = append(p.Published, publishedMessage{
			Topic:   topic,
			Payload: m.Payload,
			CorrID:  m.Metadata.Get("correlation_id"),
		})
	}
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Published))
	for i, m := range p.Published {
		out[i] = m.Topic
	}
	return out
}

func (p *FakePublisher) decode(i int, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return json.Unmarshal(p.Published[i].Payload, v)
}

var _ message.Publisher = (*FakePublisher)(nil)
