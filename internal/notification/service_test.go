package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fkhayef/checkin/internal/group"
	"github.com/fkhayef/checkin/internal/localtime"
	"github.com/fkhayef/checkin/internal/notification/contact"
	"github.com/fkhayef/checkin/internal/notification/dedup"
	"github.com/fkhayef/checkin/internal/notification/dispatch"
	"github.com/fkhayef/checkin/internal/notification/eligibility"
	"github.com/fkhayef/checkin/internal/question"
	"github.com/fkhayef/checkin/pkg/middleware"
	"github.com/fkhayef/checkin/pkg/validation"
)

type fakeStore struct {
	groups      []GroupInfo
	memberships []eligibility.Membership
	profiles    map[uuid.UUID]ProfileInfo
	muted       map[uuid.UUID]bool
	settings    map[eligibility.Pair]eligibility.Setting
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: map[uuid.UUID]ProfileInfo{},
		muted:    map[uuid.UUID]bool{},
		settings: map[eligibility.Pair]eligibility.Setting{},
	}
}

func (f *fakeStore) addGroup(name string, members ...uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.groups = append(f.groups, GroupInfo{ID: id, Name: name})
	for _, m := range members {
		f.memberships = append(f.memberships, eligibility.Membership{GroupID: id, UserID: m})
	}
	return id
}

func (f *fakeStore) addUser(name, phone string) uuid.UUID {
	id := uuid.New()
	f.profiles[id] = ProfileInfo{DisplayName: name, Phone: phone}
	return id
}

func (f *fakeStore) ListGroups(context.Context) ([]GroupInfo, error) {
	return f.groups, nil
}

func (f *fakeStore) LoadAudience(_ context.Context, groupIDs []uuid.UUID) (*Snapshot, error) {
	snap := &Snapshot{
		Groups:   map[uuid.UUID]GroupInfo{},
		Profiles: map[uuid.UUID]ProfileInfo{},
		Audience: &eligibility.Audience{Muted: f.muted, Settings: f.settings},
	}
	want := map[uuid.UUID]bool{}
	for _, id := range groupIDs {
		want[id] = true
	}
	for _, g := range f.groups {
		if want[g.ID] {
			snap.Groups[g.ID] = g
		}
	}
	for _, m := range f.memberships {
		if want[m.GroupID] {
			snap.Audience.Memberships = append(snap.Audience.Memberships, m)
			snap.Profiles[m.UserID] = f.profiles[m.UserID]
		}
	}
	return snap, nil
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []dispatch.Message
	fail map[string]bool
}

func (d *fakeDispatcher) Dispatch(_ context.Context, _ string, messages []dispatch.Message) dispatch.Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := dispatch.Result{Failures: []dispatch.Failure{}}
	for _, m := range messages {
		if d.fail[m.To] {
			res.Failures = append(res.Failures, dispatch.Failure{To: m.To, Error: "rejected"})
			continue
		}
		d.sent = append(d.sent, m)
		res.Sent++
	}
	return res
}

func (d *fakeDispatcher) recipients() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.sent))
	for i, m := range d.sent {
		out[i] = m.To
	}
	return out
}

type countingQuestions struct {
	calls atomic.Int32
}

func (q *countingQuestions) Question(_ context.Context, g question.Group, _ localtime.Date) string {
	q.calls.Add(1)
	return "What made " + g.Name + " smile today?"
}

// failingDedupStore fails every operation for one scope
type failingDedupStore struct {
	dedup.Store
	scope uuid.UUID
}

func (s *failingDedupStore) Exists(ctx context.Context, kind dedup.Kind, scopeID uuid.UUID, date localtime.Date) (bool, error) {
	if scopeID == s.scope {
		return false, errors.New("connection reset")
	}
	return s.Store.Exists(ctx, kind, scopeID, date)
}

type fixture struct {
	store      *fakeStore
	dispatcher *fakeDispatcher
	questions  *countingQuestions
	dedupStore *dedup.MemoryStore
	svc        *Service
	loc        *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	f := &fixture{
		store:      newFakeStore(),
		dispatcher: &fakeDispatcher{fail: map[string]bool{}},
		questions:  &countingQuestions{},
		dedupStore: dedup.NewMemoryStore(),
		loc:        loc,
	}
	f.svc = f.build(f.dedupStore)
	return f
}

func (f *fixture) build(store dedup.Store) *Service {
	return NewService(Deps{
		Store:      f.store,
		Contacts:   contact.NewResolver(nil, zap.NewNop()),
		Guard:      dedup.NewGuard(store, f.loc),
		Questions:  f.questions,
		Dispatcher: f.dispatcher,
		Window:     localtime.Window{Hour: 12, Minute: 0, Length: 10 * time.Minute, Location: f.loc},
		AppURL:     "https://checkin.example/",
		Logger:     zap.NewNop(),
	})
}

func (f *fixture) at(hour, minute int) time.Time {
	return time.Date(2026, time.October, 15, hour, minute, 0, 0, f.loc)
}

func TestNotifyNewAnswer_OptOutAndMissingPhone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	b := f.store.addUser("Ben", "+15550000002")
	c := f.store.addUser("Cy", "+15550000003")
	g := f.store.addGroup("Roommates", a, b, c)
	f.store.settings[eligibility.Pair{UserID: b, GroupID: g}] = eligibility.Setting{DailyQuestionSMS: true, MessageSMS: false}

	sum, err := f.svc.NotifyNewAnswer(ctx, a, g)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Eligible)
	assert.Equal(t, 1, sum.Sent)
	assert.Empty(t, sum.Reason)
	assert.Equal(t, 1, sum.Skipped["actor"])
	assert.Equal(t, 1, sum.Skipped["opted_out"])
	require.Equal(t, []string{"+15550000003"}, f.dispatcher.recipients())
	assert.Contains(t, f.dispatcher.sent[0].Body, "Ana just answered")
	assert.Contains(t, f.dispatcher.sent[0].Body, "https://checkin.example/groups/"+g.String())

	// C without any phone: nobody to text
	f.store.profiles[c] = ProfileInfo{DisplayName: "Cy"}
	f.dispatcher.sent = nil

	sum, err = f.svc.NotifyNewAnswer(ctx, a, g)
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Sent)
	assert.Equal(t, ReasonNoEligibleUsers, sum.Reason)
	assert.Equal(t, 1, sum.Skipped[SkipNoPhone])
	assert.Empty(t, f.dispatcher.recipients())
}

func TestNotifyNewMessage_SharedPhoneTextedOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	b := f.store.addUser("Ben", "+15550000002")
	c := f.store.addUser("Cy", "+15550000002")
	g := f.store.addGroup("Roommates", a, b, c)

	sum, err := f.svc.NotifyNewMessage(ctx, a, g)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Eligible)
	assert.Equal(t, 1, sum.Sent)
	assert.Equal(t, 1, sum.Skipped[SkipDuplicatePhone])
	assert.Equal(t, []string{"+15550000002"}, f.dispatcher.recipients())
}

func TestNotifyNewMessage_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	outsider := f.store.addUser("Oz", "+15550000009")
	g := f.store.addGroup("Roommates", a)

	_, err := f.svc.NotifyNewMessage(ctx, outsider, g)
	assert.ErrorIs(t, err, group.ErrNotMember)

	_, err = f.svc.NotifyNewMessage(ctx, a, uuid.New())
	assert.ErrorIs(t, err, group.ErrGroupNotFound)

	f.svc.Dispatcher = nil
	_, err = f.svc.NotifyNewMessage(ctx, a, g)
	assert.ErrorIs(t, err, ErrSMSNotConfigured)
}

func TestNotifyNewCheckIn_FanIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	actor := f.store.addUser("Ana", "+15550000001")
	x := f.store.addUser("Xi", "+15550000002")
	y := f.store.addUser("Yu", "+15550000003")
	muted := f.store.addUser("Mo", "+15550000004")
	g1 := f.store.addGroup("Roommates", actor, x, y, muted)
	g2 := f.store.addGroup("Book club", actor, x, y)

	off := eligibility.Setting{DailyQuestionSMS: true, MessageSMS: false}
	f.store.settings[eligibility.Pair{UserID: x, GroupID: g1}] = off
	f.store.settings[eligibility.Pair{UserID: y, GroupID: g1}] = off
	f.store.settings[eligibility.Pair{UserID: y, GroupID: g2}] = off
	f.store.muted[muted] = true

	sum, err := f.svc.NotifyNewCheckIn(ctx, actor, []uuid.UUID{g1, g2, g1}, " great ")
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Sent)
	assert.Equal(t, 1, sum.Skipped["opted_out"])
	assert.Equal(t, 1, sum.Skipped["muted"])
	require.Equal(t, []string{"+15550000002"}, f.dispatcher.recipients())
	assert.Equal(t, "Ana checked in in Roommates, Book club feeling great. https://checkin.example",
		f.dispatcher.sent[0].Body)
}

func TestRunDailyQuestions_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	b := f.store.addUser("Ben", "+15550000002")
	f.store.addGroup("Roommates", a, b)
	f.store.addGroup("Book club", b)

	job, err := f.svc.RunDailyQuestions(ctx, f.at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", job.Date)
	assert.Equal(t, 2, job.Processed)
	assert.Equal(t, 3, job.Sent)
	assert.Empty(t, job.Errors)
	assert.Equal(t, 2, f.dedupStore.Len())

	job, err = f.svc.RunDailyQuestions(ctx, f.at(18, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, job.Sent)
	assert.Equal(t, 2, job.Skipped[SkipAlreadyRan])
	assert.Equal(t, ReasonAlreadyRan, job.Reason)
	assert.Len(t, f.dispatcher.recipients(), 3)
	assert.Equal(t, int32(2), f.questions.calls.Load())
	assert.Equal(t, 2, f.dedupStore.Len())
}

func TestRunDailyQuestions_ConcurrentRunsSendOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	b := f.store.addUser("Ben", "+15550000002")
	f.store.addGroup("Roommates", a, b)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RunDailyQuestions(ctx, f.at(9, 0))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.dispatcher.recipients(), 2)
	assert.Equal(t, 1, f.dedupStore.Len())
}

func TestRunDailyQuestions_FailedGroupDoesNotAbortOthers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	b := f.store.addUser("Ben", "+15550000002")
	broken := f.store.addGroup("Roommates", a)
	f.store.addGroup("Book club", b)

	svc := f.build(&failingDedupStore{Store: f.dedupStore, scope: broken})

	job, err := svc.RunDailyQuestions(ctx, f.at(9, 0))
	require.NoError(t, err)
	require.Len(t, job.Errors, 1)
	assert.Equal(t, broken, job.Errors[0].ScopeID)
	assert.Equal(t, 1, job.Sent)
	assert.Equal(t, []string{"+15550000002"}, f.dispatcher.recipients())
}

func TestRunDailyQuestions_ReportsSendFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	b := f.store.addUser("Ben", "+15550000002")
	f.store.addGroup("Roommates", a, b)
	f.dispatcher.fail["+15550000001"] = true

	job, err := f.svc.RunDailyQuestions(ctx, f.at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, job.Sent)
	assert.Equal(t, 1, job.Failed)
	require.Len(t, job.Failures, 1)
	assert.Equal(t, "+15550000001", job.Failures[0].To)
	assert.Empty(t, job.Reason)
}

func TestRunDailyReminders_Window(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	f.store.addGroup("Roommates", a)

	for _, at := range []time.Time{f.at(11, 59), f.at(12, 10), f.at(0, 5)} {
		job, err := f.svc.RunDailyReminders(ctx, at)
		require.NoError(t, err)
		assert.Equal(t, ReasonOutsideWindow, job.Reason, at)
	}
	assert.Empty(t, f.dispatcher.recipients())

	job, err := f.svc.RunDailyReminders(ctx, f.at(12, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, job.Sent)
}

func TestRunDailyReminders_OncePerUserAcrossGroups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	x := f.store.addUser("Xi", "+15550000001")
	y := f.store.addUser("Yu", "+15550000002")
	noPhone := f.store.addUser("Np", "")
	g1 := f.store.addGroup("Roommates", x, y, noPhone)
	g2 := f.store.addGroup("Book club", x, y)

	off := eligibility.Setting{DailyQuestionSMS: false, MessageSMS: true}
	f.store.settings[eligibility.Pair{UserID: x, GroupID: g1}] = off
	f.store.settings[eligibility.Pair{UserID: y, GroupID: g1}] = off
	f.store.settings[eligibility.Pair{UserID: y, GroupID: g2}] = off

	job, err := f.svc.RunDailyReminders(ctx, f.at(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, job.Eligible)
	assert.Equal(t, 1, job.Sent)
	assert.Equal(t, 1, job.Skipped["opted_out"])
	assert.Equal(t, 1, job.Skipped[SkipNoPhone])
	assert.Equal(t, []string{"+15550000001"}, f.dispatcher.recipients())

	job, err = f.svc.RunDailyReminders(ctx, f.at(12, 5))
	require.NoError(t, err)
	assert.Equal(t, 0, job.Sent)
	assert.Equal(t, 1, job.Skipped[SkipAlreadyRan])
	assert.Equal(t, ReasonAlreadyRan, job.Reason)
	assert.Len(t, f.dispatcher.recipients(), 1)
}

func TestTodayQuestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.store.addUser("Ana", "+15550000001")
	g := f.store.addGroup("Roommates", a)

	_, err := f.svc.TodayQuestion(ctx, g, f.at(9, 0))
	assert.ErrorIs(t, err, dedup.ErrArtifactNotFound)

	_, err = f.svc.RunDailyQuestions(ctx, f.at(9, 0))
	require.NoError(t, err)

	artifact, err := f.svc.TodayQuestion(ctx, g, f.at(23, 0))
	require.NoError(t, err)
	assert.Equal(t, "What made Roommates smile today?", artifact.Content)
}

type allowAll struct{}

func (allowAll) RequireMember(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func TestHandler_NewAnswer(t *testing.T) {
	f := newFixture(t)
	a := f.store.addUser("Ana", "+15550000001")
	g := f.store.addGroup("Roommates", a)

	h := NewHandler(f.svc, allowAll{}, validation.New())
	body := `{"group_id":"` + g.String() + `"}`

	t.Run("unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/new-answer", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing group", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/new-answer", strings.NewReader(`{}`))
		req = req.WithContext(middleware.WithUserID(req.Context(), a))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("sms not configured", func(t *testing.T) {
		svc := f.build(f.dedupStore)
		svc.Dispatcher = nil
		req := httptest.NewRequest(http.MethodPost, "/new-answer", strings.NewReader(body))
		req = req.WithContext(middleware.WithUserID(req.Context(), a))
		rec := httptest.NewRecorder()
		NewHandler(svc, allowAll{}, validation.New()).Routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "CONFIG_ERROR")
	})

	t.Run("ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/new-answer", strings.NewReader(body))
		req = req.WithContext(middleware.WithUserID(req.Context(), a))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"reason":"no_eligible_users"`)
	})
}

func TestHandler_DailyQuestionBackfill(t *testing.T) {
	f := newFixture(t)
	a := f.store.addUser("Ana", "+15550000001")
	b := f.store.addUser("Ben", "+15550000002")
	f.store.addGroup("Roommates", a, b)

	h := NewHandler(f.svc, allowAll{}, validation.New())
	h.now = func() time.Time { return f.at(9, 0) }

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "bad date", query: "?date=15-10-2026", want: http.StatusBadRequest},
		{name: "future", query: "?date=2026-10-16", want: http.StatusBadRequest},
		{name: "yesterday", query: "?date=2026-10-14", want: http.StatusOK},
		{name: "today", query: "", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.JobRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/daily-question"+tt.query, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	_, err := f.dedupStore.Get(context.Background(), dedup.KindDailyQuestion, f.store.groups[0].ID,
		localtime.Date{Year: 2026, Month: time.October, Day: 14})
	require.NoError(t, err)
	assert.Equal(t, 2, f.dedupStore.Len())
	assert.Len(t, f.dispatcher.recipients(), 4)
}
