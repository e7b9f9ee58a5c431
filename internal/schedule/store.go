package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/huntsched/internal/huntarr"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("schedule store closed")

// Persister is the remote side of the Store.
type Persister interface {
	LoadSchedules(ctx context.Context) (huntarr.SchedulePayload, error)
	SaveSchedules(ctx context.Context, payload huntarr.SchedulePayload) error
}

// StoreOptions configure a Store.
type StoreOptions struct {
	Logger zerolog.Logger
	// Now overrides the clock used for generated ids.
	Now func() time.Time
	// OnSave is called from the save goroutine after every save attempt.
	OnSave func(error)
}

// Store owns the schedule buckets. Load, Add and Delete run on a single
// writer goroutine in the order they are issued; saves run on a second
// goroutine and always send the latest snapshot, so mutations issued while a
// save is in flight coalesce into one follow-up save.
type Store struct {
	api    Persister
	log    zerolog.Logger
	now    func() time.Time
	onSave func(error)

	mu       sync.RWMutex
	buckets  map[AppType][]Rule
	// unknown holds buckets of app types this build does not know; they
	// are written back untouched on every save.
	unknown  huntarr.SchedulePayload
	gen      uint64 // bumped by every mutation that needs saving
	savedGen uint64
	lastErr  error
	saved    chan struct{} // closed and replaced after each save

	ops    chan func()
	kick   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewStore starts a Store backed by api. Call Close to stop it.
func NewStore(api Persister, opts StoreOptions) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		api:     api,
		log:     opts.Logger.With().Str("component", "schedule").Logger(),
		now:     opts.Now,
		onSave:  opts.OnSave,
		buckets: emptyBuckets(),
		saved:   make(chan struct{}),
		ops:     make(chan func()),
		kick:    make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.wg.Add(2)
	go s.writer()
	go s.saver()
	return s
}

// Close stops the writer and save goroutines. An in-flight save is cancelled.
func (s *Store) Close() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}

func emptyBuckets() map[AppType][]Rule {
	buckets := make(map[AppType][]Rule, len(AllAppTypes))
	for _, app := range AllAppTypes {
		buckets[app] = nil
	}
	return buckets
}

func (s *Store) writer() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case op := <-s.ops:
			op()
		}
	}
}

// submit runs fn on the writer goroutine and waits for it to finish.
func (s *Store) submit(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	op := func() {
		defer close(done)
		fn()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrClosed
	case s.ops <- op:
	}
	<-done
	return nil
}

// Load replaces every bucket with the server's rules. On failure all
// buckets are emptied and the error is returned.
func (s *Store) Load(ctx context.Context) error {
	var loadErr error
	err := s.submit(ctx, func() {
		payload, err := s.api.LoadSchedules(ctx)
		if err != nil {
			s.mu.Lock()
			s.buckets = emptyBuckets()
			s.unknown = nil
			s.mu.Unlock()
			s.log.Warn().Err(err).Msg("schedule load failed; buckets reset")
			loadErr = fmt.Errorf("load schedules: %w", err)
			return
		}
		buckets, unknown := s.normalize(payload)
		s.mu.Lock()
		s.buckets = buckets
		s.unknown = unknown
		s.mu.Unlock()
		s.log.Debug().Int("rules", countRules(buckets)).Msg("schedules loaded")
	})
	if err != nil {
		return err
	}
	return loadErr
}

func (s *Store) normalize(payload huntarr.SchedulePayload) (map[AppType][]Rule, huntarr.SchedulePayload) {
	buckets := emptyBuckets()
	var unknown huntarr.SchedulePayload
	for key, raws := range payload {
		app, err := ParseAppType(key)
		if err != nil {
			s.log.Warn().Str("bucket", key).Msg("keeping unknown schedule bucket as-is")
			if unknown == nil {
				unknown = huntarr.SchedulePayload{}
			}
			unknown[key] = append([]huntarr.RawRule(nil), raws...)
			continue
		}
		rules := make([]Rule, 0, len(raws))
		for _, raw := range raws {
			rules = append(rules, s.normalizeRule(app, raw))
		}
		buckets[app] = append(buckets[app], rules...)
	}
	return buckets, unknown
}

func (s *Store) normalizeRule(app AppType, raw huntarr.RawRule) Rule {
	rule := Rule{
		ID:      strings.TrimSpace(raw.ID),
		Time:    ParseClock(raw.Time),
		Action:  Action(strings.ToLower(strings.TrimSpace(raw.Action))),
		Address: strings.TrimSpace(raw.App),
		App:     app,
		Enabled: true,
	}
	if rule.ID == "" {
		rule.ID = NewRuleID(s.now())
	}
	if rule.Address == "" {
		rule.Address = GlobalAddress
	}
	if raw.Enabled != nil {
		rule.Enabled = *raw.Enabled
	}
	rule.Days = make([]string, 0, len(raw.Days))
	for _, day := range raw.Days {
		rule.Days = append(rule.Days, strings.ToLower(strings.TrimSpace(day)))
	}
	if _, err := ParseAction(string(rule.Action)); err != nil {
		s.log.Warn().Str("id", rule.ID).Str("action", string(rule.Action)).Msg("rule has unrecognised action")
	}
	return rule
}

// NewRule is the user input for Add.
type NewRule struct {
	Hour    string
	Minute  string
	Action  string
	Days    []string
	Address string
}

// Validate checks input and returns the rule it would create, without an id.
func (n NewRule) Validate() (Rule, error) {
	clock, err := ParseHourMinute(n.Hour, n.Minute)
	if err != nil {
		return Rule{}, err
	}
	var days []string
	seen := make(map[string]bool, len(n.Days))
	for _, day := range n.Days {
		day = strings.ToLower(strings.TrimSpace(day))
		if IsWeekday(day) && !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return Rule{}, ErrNoDays
	}
	action, err := ParseAction(n.Action)
	if err != nil {
		return Rule{}, err
	}
	addr := Decode(strings.TrimSpace(n.Address))
	app, err := addr.AppType()
	if err != nil {
		return Rule{}, err
	}
	return Rule{
		Time:    clock,
		Days:    SortDays(days),
		Action:  action,
		Address: Encode(app, addr.Selector),
		App:     app,
		Enabled: true,
	}, nil
}

// Add validates input and appends a rule to the bucket named by the address's
// app type, then schedules a save. Invalid input changes nothing.
func (s *Store) Add(ctx context.Context, in NewRule) (Rule, error) {
	rule, err := in.Validate()
	if err != nil {
		return Rule{}, err
	}
	err = s.submit(ctx, func() {
		rule.ID = NewRuleID(s.now())
		s.mu.Lock()
		s.buckets[rule.App] = append(s.buckets[rule.App], rule.clone())
		s.gen++
		s.mu.Unlock()
		s.requestSave()
	})
	if err != nil {
		return Rule{}, err
	}
	s.log.Info().Str("id", rule.ID).Str("address", rule.Address).Str("time", rule.Time.String()).Msg("schedule added")
	return rule, nil
}

// Delete removes the rule with id from bucket. Deleting an id that is not
// present is a no-op and does not save; the return value reports whether a
// rule was removed.
func (s *Store) Delete(ctx context.Context, id string, bucket AppType) (bool, error) {
	removed := false
	err := s.submit(ctx, func() {
		s.mu.Lock()
		rules := s.buckets[bucket]
		for i, rule := range rules {
			if rule.ID == id {
				s.buckets[bucket] = append(rules[:i:i], rules[i+1:]...)
				s.gen++
				removed = true
				break
			}
		}
		s.mu.Unlock()
		if removed {
			s.requestSave()
		}
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.log.Info().Str("id", id).Str("bucket", bucket.String()).Msg("schedule deleted")
	}
	return removed, nil
}

func (s *Store) requestSave() {
	select {
	case s.kick <- struct{}{}:
	default:
		// a save is already pending and will pick up the latest snapshot
	}
}

func (s *Store) saver() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.kick:
		}

		s.mu.RLock()
		gen := s.gen
		payload := s.payloadLocked()
		s.mu.RUnlock()

		err := s.api.SaveSchedules(s.ctx, payload)
		if err != nil {
			err = fmt.Errorf("save schedules: %w", err)
			s.log.Error().Err(err).Msg("schedule save failed; keeping local state")
		} else {
			s.log.Debug().Uint64("gen", gen).Msg("schedules saved")
		}

		s.mu.Lock()
		s.savedGen = gen
		s.lastErr = err
		close(s.saved)
		s.saved = make(chan struct{})
		s.mu.Unlock()

		if s.onSave != nil && s.ctx.Err() == nil {
			s.onSave(err)
		}
	}
}

// Flush waits until every mutation issued before the call has been saved
// and returns the result of the last save.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	target := s.gen
	s.mu.RUnlock()
	for {
		s.mu.RLock()
		if s.savedGen >= target {
			err := s.lastErr
			s.mu.RUnlock()
			return err
		}
		ch := s.saved
		s.mu.RUnlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ctx.Done():
			return ErrClosed
		case <-ch:
		}
	}
}

func (s *Store) payloadLocked() huntarr.SchedulePayload {
	payload := make(huntarr.SchedulePayload, len(s.buckets)+len(s.unknown))
	for key, raws := range s.unknown {
		payload[key] = raws
	}
	for app, rules := range s.buckets {
		raws := make([]huntarr.RawRule, 0, len(rules))
		for _, rule := range rules {
			enabled := rule.Enabled
			raws = append(raws, huntarr.RawRule{
				ID:      rule.ID,
				Time:    huntarr.TimeObject(rule.Time.Hour, rule.Time.Minute),
				Days:    append(huntarr.DayList{}, rule.Days...),
				Action:  string(rule.Action),
				App:     rule.Address,
				AppType: app.String(),
				Enabled: &enabled,
			})
		}
		payload[app.String()] = raws
	}
	return payload
}

// Flatten returns every rule across all buckets sorted by time of day.
// Rules at the same minute keep bucket order.
func (s *Store) Flatten() []Rule {
	s.mu.RLock()
	var all []Rule
	for _, app := range AllAppTypes {
		all = append(all, cloneRules(s.buckets[app])...)
	}
	s.mu.RUnlock()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Time.Minutes() < all[j].Time.Minutes()
	})
	return all
}

func countRules(buckets map[AppType][]Rule) int {
	n := 0
	for _, rules := range buckets {
		n += len(rules)
	}
	return n
}

func cloneRules(rules []Rule) []Rule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]Rule, len(rules))
	for i, rule := range rules {
		out[i] = rule.clone()
	}
	return out
}
