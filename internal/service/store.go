package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/notify"
	"github.com/BuzzLyutic/tasklist/internal/repo"
)

const (
	msgAdded     = "Task added successfully"
	msgUpdated   = "Task updated successfully"
	msgCompleted = "Task completed"
	msgReopened  = "Task reopened"
	msgDeleted   = "Task deleted"
	msgSaveError = "Failed to save tasks"
	msgCorrupt   = "Saved tasks were unreadable and have been reset"
)

// TaskStore owns the ordered task list. Every mutation is written through
// to the slot before it becomes visible; a failed write leaves the list as
// it was.
type TaskStore struct {
	mu       sync.Mutex
	slot     repo.Slot
	logger   *zap.Logger
	notifier notify.Notifier
	newID    func() string
	now      func() time.Time
	collator *collate.Collator

	tasks   []model.Task // canonical order
	pending []notify.Notification
}

type Option func(*TaskStore)

func WithNotifier(n notify.Notifier) Option {
	return func(s *TaskStore) { s.notifier = n }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *TaskStore) { s.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(s *TaskStore) { s.now = fn }
}

func NewTaskStore(slot repo.Slot, logger *zap.Logger, opts ...Option) *TaskStore {
	s := &TaskStore{
		slot:     slot,
		logger:   logger,
		notifier: notify.Discard,
		newID:    uuid.NewString,
		now:      time.Now,
		collator: collate.New(language.English),
		tasks:    []model.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with the slot contents. An empty slot
// gives an empty list. Unreadable contents also give an empty list, and
// the returned error wraps ErrCorruptState.
func (s *TaskStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()

	data, err := s.slot.Load(ctx)
	if errors.Is(err, repo.ErrorNotFound) {
		s.tasks = []model.Task{}
		return nil
	}
	if err == nil {
		var tasks []model.Task
		if tasks, err = repo.Decode(data); err == nil {
			s.tasks = tasks
			s.logger.Debug("tasks loaded", zap.Int("count", len(tasks)))
			return nil
		}
	}
	if !errors.Is(err, repo.ErrCorrupt) {
		return fmt.Errorf("load tasks: %w", err)
	}

	s.tasks = []model.Task{}
	s.logger.Warn("persisted tasks are corrupt, starting empty", zap.Error(err))
	s.notify(msgCorrupt, notify.SeverityError)
	return fmt.Errorf("%w: %w", ErrCorruptState, err)
}

// Add appends a new incomplete task. An empty priority means medium.
func (s *TaskStore) Add(ctx context.Context, title, date, priority string) (model.Task, error) {
	t, err := s.validate(title, date, priority)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.unlock()

	t.ID = s.freshID()
	next := append(slices.Clone(s.tasks), t)
	if err := s.persist(ctx, next); err != nil {
		return model.Task{}, err
	}

	s.logger.Debug("task added", zap.String("task_id", t.ID))
	s.notify(msgAdded, notify.SeverityNormal)
	return t, nil
}

// Edit overwrites title, date and priority. Status and position are kept.
func (s *TaskStore) Edit(ctx context.Context, id, title, date, priority string) (model.Task, error) {
	fields, err := s.validate(title, date, priority)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}

	next := slices.Clone(s.tasks)
	next[i].Title = fields.Title
	next[i].Date = fields.Date
	next[i].Priority = fields.Priority
	if err := s.persist(ctx, next); err != nil {
		return model.Task{}, err
	}

	s.notify(msgUpdated, notify.SeverityNormal)
	return next[i], nil
}

// ToggleComplete flips the status of a task.
func (s *TaskStore) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}

	next := slices.Clone(s.tasks)
	next[i].Status = !next[i].Status
	if err := s.persist(ctx, next); err != nil {
		return model.Task{}, err
	}

	if next[i].Status {
		s.notify(msgCompleted, notify.SeverityNormal)
	} else {
		s.notify(msgReopened, notify.SeverityNormal)
	}
	return next[i], nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.logger.Debug("task deleted", zap.String("task_id", id))
	s.notify(msgDeleted, notify.SeverityNormal)
	return nil
}

// Reorder rebuilds the canonical order from ids. Unknown and repeated ids
// are skipped. Tasks whose id is absent keep their relative order and go
// to the end, so a partial ordering (e.g. a drag inside a filtered view)
// never loses tasks.
func (s *TaskStore) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.unlock()

	byID := make(map[string]int, len(s.tasks))
	for i, t := range s.tasks {
		byID[t.ID] = i
	}

	placed := make(map[string]bool, len(ids))
	next := make([]model.Task, 0, len(s.tasks))
	for _, id := range ids {
		i, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		next = append(next, s.tasks[i])
	}

	appended := 0
	for _, t := range s.tasks {
		if !placed[t.ID] {
			next = append(next, t)
			appended++
		}
	}
	if appended > 0 {
		s.logger.Debug("reorder left tasks unplaced, appended at end", zap.Int("count", appended))
	}

	return s.persist(ctx, next)
}

// View returns a fresh copy of the tasks matching filter, ordered by key.
func (s *TaskStore) View(filter model.Filter, key model.SortKey) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Match(t) {
			out = append(out, t)
		}
	}

	switch key {
	case model.SortDate:
		sortByDate(out)
	case model.SortTitle:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return s.collator.CompareString(a.Title, b.Title)
		})
	}
	return out
}

// Get returns a single task.
func (s *TaskStore) Get(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

func (s *TaskStore) validate(title, date, priority string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if _, err := model.ParseDate(date); err != nil {
		return model.Task{}, err
	}
	p, err := model.ParsePriority(priority)
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{Title: title, Date: date, Priority: p}, nil
}

// persist writes next to the slot and, only on success, makes it current.
// Callers hold s.mu.
func (s *TaskStore) persist(ctx context.Context, next []model.Task) error {
	data, err := repo.Encode(next)
	if err == nil {
		err = s.slot.Save(ctx, data)
	}
	if err != nil {
		s.logger.Error("failed to save tasks", zap.Error(err))
		s.notify(msgSaveError, notify.SeverityError)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.tasks = next
	return nil
}

func (s *TaskStore) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func (s *TaskStore) freshID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

// notify queues a notification; unlock delivers it once s.mu is released
// so listeners may call back into the store.
func (s *TaskStore) notify(msg string, sev notify.Severity) {
	s.pending = append(s.pending, notify.Notification{Message: msg, Severity: sev, At: s.now()})
}

func (s *TaskStore) unlock() {
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, n := range pending {
		s.notifier.Notify(n)
	}
}

// sortByDate orders most recent first. Dates that do not parse sort last,
// keeping their relative order.
func sortByDate(tasks []model.Task) {
	type keyed struct {
		task model.Task
		at   time.Time
		ok   bool
	}
	ks := make([]keyed, len(tasks))
	for i, t := range tasks {
		at, err := model.ParseDate(t.Date)
		ks[i] = keyed{task: t, at: at, ok: err == nil}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.ok && b.ok:
			return b.at.Compare(a.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	for i := range ks {
		tasks[i] = ks[i].task
	}
}
