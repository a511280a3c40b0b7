package deploy

import (
	"sort"
	"strings"
	"sync"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/logging"
	"github.com/andparsons/composer-project-files-installer/pkg/strategy"
	"github.com/andparsons/composer-project-files-installer/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// DefaultPriority applies to packages without an explicit priority
	DefaultPriority = 100
	// CopyPriority applies to copy-strategy packages without an explicit priority
	CopyPriority = 101
)

// Entry pairs a package name with the strategy that deploys it
type Entry struct {
	PackageName string
	Strategy    strategy.Strategy
}

// Result is the outcome of running one entry
type Result struct {
	PackageName string
	Strategy    types.StrategyType
	Priority    int
	Err         error
}

// Failed reports whether the entry returned an error
func (r Result) Failed() bool {
	return r.Err != nil
}

// Manager is safe for concurrent use; passes themselves run sequentially.
type Manager struct {
	mu         sync.Mutex
	entries    []Entry
	priorities map[string]int
	logger     zerolog.Logger
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		priorities: map[string]int{},
		logger:     logging.GetLogger("deploy"),
	}
}

// AddEntry registers a package. Entries are not deduplicated.
func (m *Manager) AddEntry(name string, s strategy.Strategy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{PackageName: name, Strategy: s})
	if s != nil {
		m.logger.Debug().Str("package", name).Str("strategy", string(s.Type())).Msg("Registered package")
	}
}

// SetPriorityTable replaces the priority table. Package names are matched
// case-insensitively.
func (m *Manager) SetPriorityTable(priorities map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priorities = make(map[string]int, len(priorities))
	for name, p := range priorities {
		m.priorities[strings.ToLower(name)] = p
	}
}

// Entries returns a copy of the registered entries in registration order
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Len returns the number of registered entries
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Reset drops every registered entry. The priority table is kept.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}

// Priority returns the priority the entry would run with
func (m *Manager) Priority(e Entry) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.priorityLocked(e)
}

func (m *Manager) priorityLocked(e Entry) int {
	if p, ok := m.priorities[strings.ToLower(e.PackageName)]; ok {
		return p
	}
	if e.Strategy != nil && e.Strategy.Type() == types.StrategyCopy {
		return CopyPriority
	}
	return DefaultPriority
}

// RunDeploy deploys every entry, highest priority first
func (m *Manager) RunDeploy() []Result {
	return m.run("deploy", strategy.Strategy.Deploy)
}

// RunCleanup cleans every entry, highest priority first
func (m *Manager) RunCleanup() []Result {
	return m.run("clean", strategy.Strategy.Clean)
}

func (m *Manager) run(op string, fn func(strategy.Strategy) error) []Result {
	m.mu.Lock()
	ordered := m.sortedLocked()
	m.mu.Unlock()

	done := logging.LogOperationStart(m.logger, op)
	defer done()

	results := make([]Result, 0, len(ordered))
	for _, pe := range ordered {
		res := Result{PackageName: pe.entry.PackageName, Priority: pe.priority}
		if pe.entry.Strategy == nil {
			res.Err = errors.Newf(errors.ErrInternal, "package %s has no strategy", pe.entry.PackageName)
			results = append(results, res)
			continue
		}
		res.Strategy = pe.entry.Strategy.Type()

		m.logger.Debug().
			Str("package", res.PackageName).
			Int("priority", res.Priority).
			Msgf("Start %s", op)

		if err := fn(pe.entry.Strategy); err != nil {
			res.Err = err
			m.logger.Debug().
				Err(err).
				Str("package", res.PackageName).
				Str("code", string(errors.GetErrorCode(err))).
				Msgf("%s failed", op)
		}
		results = append(results, res)
	}
	return results
}

type prioritized struct {
	entry    Entry
	priority int
}

// sortedLocked orders entries by descending priority; equal priorities keep
// registration order
func (m *Manager) sortedLocked() []prioritized {
	out := make([]prioritized, len(m.entries))
	for i, e := range m.entries {
		out[i] = prioritized{entry: e, priority: m.priorityLocked(e)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].priority > out[j].priority
	})
	return out
}

// Failures returns the failed results
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}
