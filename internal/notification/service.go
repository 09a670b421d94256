package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/checkin/internal/group"
	"github.com/fkhayef/checkin/internal/localtime"
	"github.com/fkhayef/checkin/internal/metrics"
	"github.com/fkhayef/checkin/internal/notification/contact"
	"github.com/fkhayef/checkin/internal/notification/dedup"
	"github.com/fkhayef/checkin/internal/notification/dispatch"
	"github.com/fkhayef/checkin/internal/notification/eligibility"
	"github.com/fkhayef/checkin/internal/question"
)

// ErrSMSNotConfigured is returned when no SMS provider is available
var ErrSMSNotConfigured = errors.New("sms provider is not configured")

// jobConcurrency bounds how many groups the daily question job works on at once
const jobConcurrency = 4

// Store loads the data a trigger needs
type Store interface {
	ListGroups(ctx context.Context) ([]GroupInfo, error)
	LoadAudience(ctx context.Context, groupIDs []uuid.UUID) (*Snapshot, error)
}

// ContactResolver maps users to phone numbers
type ContactResolver interface {
	Resolve(ctx context.Context, userIDs []uuid.UUID, profilePhones map[uuid.UUID]string) contact.Contacts
}

// Dispatcher sends a batch of messages
type Dispatcher interface {
	Dispatch(ctx context.Context, event string, messages []dispatch.Message) dispatch.Result
}

// QuestionSource produces the daily question for a group
type QuestionSource interface {
	Question(ctx context.Context, g question.Group, d localtime.Date) string
}

// Deps are the collaborators of a Service. Dispatcher is nil when SMS is not configured.
type Deps struct {
	Store      Store
	Resolver   *eligibility.Resolver
	Contacts   ContactResolver
	Guard      *dedup.Guard
	Questions  QuestionSource
	Dispatcher Dispatcher
	Window     localtime.Window
	AppURL     string
	Logger     *zap.Logger
}

// Service runs event triggers and daily jobs:
// dedup guard, eligibility, contact resolution, then dispatch.
type Service struct {
	Deps
}

// NewService creates a new notification service
func NewService(deps Deps) *Service {
	if deps.Resolver == nil {
		deps.Resolver = eligibility.NewResolver(nil)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	deps.AppURL = strings.TrimRight(deps.AppURL, "/")
	return &Service{Deps: deps}
}

// NotifyNewAnswer tells the group that the actor answered today's question
func (s *Service) NotifyNewAnswer(ctx context.Context, actor, groupID uuid.UUID) (*Summary, error) {
	return s.notifyGroup(ctx, eligibility.EventNewAnswer, actor, groupID, func(snap *Snapshot, g GroupInfo) string {
		return fmt.Sprintf("%s just answered today's question in %s. %s",
			snap.DisplayName(actor), g.Name, s.groupURL(g.ID))
	})
}

// NotifyNewMessage tells the group that the actor posted a message
func (s *Service) NotifyNewMessage(ctx context.Context, actor, groupID uuid.UUID) (*Summary, error) {
	return s.notifyGroup(ctx, eligibility.EventNewMessage, actor, groupID, func(snap *Snapshot, g GroupInfo) string {
		return fmt.Sprintf("%s sent a message in %s. %s",
			snap.DisplayName(actor), g.Name, s.groupURL(g.ID))
	})
}

func (s *Service) notifyGroup(
	ctx context.Context,
	event eligibility.EventType,
	actor, groupID uuid.UUID,
	body func(*Snapshot, GroupInfo) string,
) (*Summary, error) {
	if s.Dispatcher == nil {
		return nil, ErrSMSNotConfigured
	}

	snap, err := s.loadForActor(ctx, actor, []uuid.UUID{groupID})
	if err != nil {
		return nil, err
	}

	res, err := s.Resolver.ResolveEvent(event, []uuid.UUID{groupID}, actor, snap.Audience)
	if err != nil {
		return nil, err
	}

	text := body(snap, snap.Groups[groupID])
	return s.deliver(ctx, event, res, s.Contacts.Resolve(ctx, res.Eligible, snap.Phones()), func(uuid.UUID) string {
		return text
	}), nil
}

// NotifyNewCheckIn tells the members of every group the check-in was shared to.
// A member is skipped only when message SMS is off in all of the groups they share with it.
func (s *Service) NotifyNewCheckIn(ctx context.Context, actor uuid.UUID, groupIDs []uuid.UUID, mood string) (*Summary, error) {
	if s.Dispatcher == nil {
		return nil, ErrSMSNotConfigured
	}

	groupIDs = uniqueIDs(groupIDs)
	snap, err := s.loadForActor(ctx, actor, groupIDs)
	if err != nil {
		return nil, err
	}

	event := eligibility.EventNewCheckIn
	res, err := s.Resolver.ResolveEvent(event, groupIDs, actor, snap.Audience)
	if err != nil {
		return nil, err
	}

	name := snap.DisplayName(actor)
	mood = strings.TrimSpace(mood)
	body := func(userID uuid.UUID) string {
		var names []string
		for _, gid := range groupIDs {
			if snap.IsMember(gid, userID) {
				names = append(names, snap.Groups[gid].Name)
			}
		}
		text := fmt.Sprintf("%s checked in in %s", name, strings.Join(names, ", "))
		if mood != "" {
			text += fmt.Sprintf(" feeling %s", mood)
		}
		return text + ". " + s.AppURL
	}

	return s.deliver(ctx, event, res, s.Contacts.Resolve(ctx, res.Eligible, snap.Phones()), body), nil
}

// loadForActor loads the groups and checks that they exist and that the actor belongs to each
func (s *Service) loadForActor(ctx context.Context, actor uuid.UUID, groupIDs []uuid.UUID) (*Snapshot, error) {
	snap, err := s.Store.LoadAudience(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	for _, gid := range groupIDs {
		if _, ok := snap.Groups[gid]; !ok {
			return nil, group.ErrGroupNotFound
		}
		if !snap.IsMember(gid, actor) {
			return nil, group.ErrNotMember
		}
	}
	return snap, nil
}

// RunDailyQuestions generates and sends today's question for every group that has not had one.
// Each group is an independent unit: a failing group is reported and the rest carry on.
func (s *Service) RunDailyQuestions(ctx context.Context, now time.Time) (*JobSummary, error) {
	if s.Dispatcher == nil {
		return nil, ErrSMSNotConfigured
	}

	event := eligibility.EventDailyQuestionReady
	date := s.Guard.DateOf(now)
	job := &JobSummary{Summary: *newSummary(event), Date: date.String(), Errors: []UnitError{}}

	groups, err := s.Store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		job.Reason = ReasonNoEligibleUsers
		return job, nil
	}

	snap, err := s.Store.LoadAudience(ctx, groupIDsOf(groups))
	if err != nil {
		return nil, err
	}

	// one identity listing for the whole run, and only if some group gets that far
	contacts := sync.OnceValue(func() contact.Contacts {
		return s.Contacts.Resolve(ctx, snap.Audience.UserIDs(), snap.Phones())
	})

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(jobConcurrency)

	for _, g := range groups {
		eg.Go(func() error {
			sum, err := s.dailyQuestion(ctx, g, date, snap, contacts)

			mu.Lock()
			defer mu.Unlock()
			job.Processed++
			if err != nil {
				s.Logger.Error("daily question failed",
					zap.String("group_id", g.ID.String()),
					zap.Error(err))
				job.Errors = append(job.Errors, UnitError{ScopeID: g.ID, Error: err.Error()})
				return nil
			}
			job.add(sum)
			return nil
		})
	}
	_ = eg.Wait()

	job.Reason = jobReason(&job.Summary)
	s.Logger.Info("daily question job completed",
		zap.String("date", job.Date),
		zap.Int("groups", job.Processed),
		zap.Int("sent", job.Sent),
		zap.Int("failed", job.Failed),
		zap.Int("errors", len(job.Errors)))
	return job, nil
}

func (s *Service) dailyQuestion(
	ctx context.Context,
	g GroupInfo,
	date localtime.Date,
	snap *Snapshot,
	contacts func() contact.Contacts,
) (*Summary, error) {
	event := eligibility.EventDailyQuestionReady
	sum := newSummary(event)

	// cheap prefilter so a finished group does not cost an LLM call; Claim decides
	ok, err := s.Guard.ShouldRun(ctx, dedup.KindDailyQuestion, g.ID, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		sum.Skipped[SkipAlreadyRan]++
		return sum, nil
	}

	q := s.Questions.Question(ctx, question.Group{ID: g.ID, Name: g.Name, Prompt: g.Prompt}, date)

	claimed, err := s.Guard.Claim(ctx, dedup.KindDailyQuestion, g.ID, date, q)
	if err != nil {
		return nil, err
	}
	if !claimed {
		s.Logger.Info("daily question already claimed",
			zap.String("group_id", g.ID.String()),
			zap.String("date", date.String()))
		sum.Skipped[SkipAlreadyRan]++
		return sum, nil
	}

	res, err := s.Resolver.ResolveEvent(event, []uuid.UUID{g.ID}, uuid.Nil, snap.Audience)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Today's question in %s: %s Answer at %s", g.Name, q, s.groupURL(g.ID))
	return s.deliver(ctx, event, res, contacts(), func(uuid.UUID) string { return text }), nil
}

// RunDailyReminders reminds every eligible user once per local day. It does nothing outside
// the reminder window. A user is skipped only when daily question SMS is off in all their groups.
func (s *Service) RunDailyReminders(ctx context.Context, now time.Time) (*JobSummary, error) {
	if s.Dispatcher == nil {
		return nil, ErrSMSNotConfigured
	}

	event := eligibility.EventDailyReminderDue
	date := s.Guard.DateOf(now)
	job := &JobSummary{Summary: *newSummary(event), Date: date.String(), Errors: []UnitError{}}

	if !s.Window.Contains(now) {
		s.Logger.Debug("daily reminder outside window",
			zap.String("window", s.Window.String()),
			zap.Time("now", now))
		job.Reason = ReasonOutsideWindow
		return job, nil
	}

	groups, err := s.Store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	groupIDs := groupIDsOf(groups)

	snap, err := s.Store.LoadAudience(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	res, err := s.Resolver.ResolveEvent(event, groupIDs, uuid.Nil, snap.Audience)
	if err != nil {
		return nil, err
	}

	// claim each user before sending; a claimed user is never reminded twice that day
	contacts := s.Contacts.Resolve(ctx, res.Eligible, snap.Phones())
	claimed := make(contact.Contacts, len(contacts))
	alreadyRan := 0
	for _, userID := range res.Eligible {
		phone, ok := contacts.Phone(userID)
		if !ok {
			continue
		}
		job.Processed++
		won, err := s.Guard.Claim(ctx, dedup.KindDailyReminder, userID, date, "")
		if err != nil {
			s.Logger.Error("daily reminder claim failed",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			job.Errors = append(job.Errors, UnitError{ScopeID: userID, Error: err.Error()})
			continue
		}
		if !won {
			alreadyRan++
			continue
		}
		claimed[userID] = phone
	}

	text := "Don't forget to answer today's question! " + s.AppURL
	sum := s.deliver(ctx, event, filterResult(res, claimed), claimed, func(uuid.UUID) string { return text })
	sum.Eligible = len(res.Eligible)
	if noPhone := len(res.Eligible) - job.Processed; noPhone > 0 {
		sum.Skipped[SkipNoPhone] = noPhone
		metrics.RecordSkipped(string(event), SkipNoPhone, noPhone)
	}
	if alreadyRan > 0 {
		sum.Skipped[SkipAlreadyRan] = alreadyRan
		metrics.RecordSkipped(string(event), SkipAlreadyRan, alreadyRan)
	}
	job.add(sum)
	job.Reason = jobReason(&job.Summary)

	s.Logger.Info("daily reminder job completed",
		zap.String("date", job.Date),
		zap.Int("eligible", job.Eligible),
		zap.Int("sent", job.Sent),
		zap.Int("failed", job.Failed),
		zap.Int("already_ran", alreadyRan))
	return job, nil
}

// TodayQuestion returns the question generated for the group today
func (s *Service) TodayQuestion(ctx context.Context, groupID uuid.UUID, now time.Time) (*dedup.Artifact, error) {
	return s.Guard.Get(ctx, dedup.KindDailyQuestion, groupID, s.Guard.DateOf(now))
}

// deliver resolves contacts for the eligible users, builds one message each and dispatches them
func (s *Service) deliver(
	ctx context.Context,
	event eligibility.EventType,
	res eligibility.Result,
	contacts contact.Contacts,
	body func(uuid.UUID) string,
) *Summary {
	sum := newSummary(event)
	sum.Eligible = len(res.Eligible)
	for reason, n := range res.Skipped {
		if n == 0 {
			continue
		}
		sum.Skipped[string(reason)] = n
		metrics.RecordSkipped(string(event), string(reason), n)
	}

	messages := make([]dispatch.Message, 0, len(res.Eligible))
	seen := make(map[string]struct{}, len(res.Eligible))
	for _, userID := range res.Eligible {
		phone, ok := contacts.Phone(userID)
		if !ok {
			sum.Skipped[SkipNoPhone]++
			continue
		}
		// one text per number, the first eligible user sharing it wins
		if _, dup := seen[phone]; dup {
			sum.Skipped[SkipDuplicatePhone]++
			continue
		}
		seen[phone] = struct{}{}
		messages = append(messages, dispatch.Message{To: phone, Body: body(userID)})
	}
	metrics.RecordSkipped(string(event), SkipNoPhone, sum.Skipped[SkipNoPhone])
	metrics.RecordSkipped(string(event), SkipDuplicatePhone, sum.Skipped[SkipDuplicatePhone])

	if len(messages) == 0 {
		sum.Reason = ReasonNoEligibleUsers
		return sum
	}

	out := s.Dispatcher.Dispatch(ctx, string(event), messages)
	sum.Sent = out.Sent
	sum.Failed = len(out.Failures)
	sum.Failures = out.Failures
	return sum
}

func (s *Service) groupURL(groupID uuid.UUID) string {
	return fmt.Sprintf("%s/groups/%s", s.AppURL, groupID)
}

// jobReason explains a job that sent nothing
func jobReason(sum *Summary) string {
	if sum.Sent > 0 || sum.Failed > 0 {
		return ""
	}
	if sum.Skipped[SkipAlreadyRan] > 0 {
		return ReasonAlreadyRan
	}
	return ReasonNoEligibleUsers
}

// filterResult keeps only the eligible users present in keep
func filterResult(res eligibility.Result, keep contact.Contacts) eligibility.Result {
	out := eligibility.Result{Eligible: make([]uuid.UUID, 0, len(keep)), Skipped: res.Skipped}
	for _, id := range res.Eligible {
		if _, ok := keep[id]; ok {
			out.Eligible = append(out.Eligible, id)
		}
	}
	return out
}

func groupIDsOf(groups []GroupInfo) []uuid.UUID {
	ids := make([]uuid.UUID, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
