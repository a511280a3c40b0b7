package testutil

import (
	"sync"

	"github.com/andparsons/composer-project-files-installer/pkg/types"
)

// MockStrategy is a mock implementation of the strategy.Strategy interface
// for testing. Calls are recorded in order on the shared Log when set.
type MockStrategy struct {
	Name       string
	Kind       types.StrategyType
	DeployErr  error
	CleanErr   error
	DeployFunc func() error
	CleanFunc  func() error
	Log        *CallLog

	mappings  []types.Mapping
	ignored   []string
	forced    bool
	sourceDir string
	destDir   string
}

// NewMockStrategy creates a mock strategy of kind reporting to log
func NewMockStrategy(name string, kind types.StrategyType, log *CallLog) *MockStrategy {
	return &MockStrategy{Name: name, Kind: kind, Log: log}
}

// Type returns the mock's strategy type.
func (m *MockStrategy) Type() types.StrategyType {
	if m.Kind == "" {
		return types.StrategySymlink
	}
	return m.Kind
}

func (m *MockStrategy) SetMappings(mappings []types.Mapping) { m.mappings = mappings }
func (m *MockStrategy) SetIgnoredMappings(ignored []string) { m.ignored = ignored }
func (m *MockStrategy) SetIsForced(forced bool) { m.forced = forced }
func (m *MockStrategy) Mappings() []types.Mapping { return m.mappings }
func (m *MockStrategy) IgnoredMappings() []string { return m.ignored }
func (m *MockStrategy) IsForced() bool { return m.forced }
func (m *MockStrategy) SourceDir() string { return m.sourceDir }
func (m *MockStrategy) DestDir() string { return m.destDir }

// SetDirs sets the directories reported by SourceDir and DestDir
func (m *MockStrategy) SetDirs(sourceDir, destDir string) {
	m.sourceDir = sourceDir
	m.destDir = destDir
}

// Deploy records the call and runs DeployFunc or returns DeployErr.
func (m *MockStrategy) Deploy() error {
	m.Log.Record("deploy:" + m.Name)
	if m.DeployFunc != nil {
		return m.DeployFunc()
	}
	return m.DeployErr
}

// Clean records the call and runs CleanFunc or returns CleanErr.
func (m *MockStrategy) Clean() error {
	m.Log.Record("clean:" + m.Name)
	if m.CleanFunc != nil {
		return m.CleanFunc()
	}
	return m.CleanErr
}

// CallLog collects calls across several mocks. A nil log discards them.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

// Record appends a call
func (l *CallLog) Record(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

// Calls returns the recorded calls in order
func (l *CallLog) Calls() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}
