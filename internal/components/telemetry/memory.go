package telemetry

import "sync"

// Report is a single call recorded by Memory.
type Report struct {
	Kind   string
	ID     string
	Params []any
	Count  int64
}

const (
	KindBroken  = "broken"
	KindWarning = "warning"
	KindDebug   = "debug"
	KindCount   = "count"
)

// Memory is an API that keeps every report in memory, it is meant for assertions in tests.
type Memory struct {
	mutex   sync.Mutex
	reports []Report
}

func (m *Memory) record(r Report) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.reports = append(m.reports, r)
}

func (m *Memory) ReportBroken(id string, params ...any) {
	m.record(Report{Kind: KindBroken, ID: id, Params: params})
}

func (m *Memory) ReportWarning(id string, params ...any) {
	m.record(Report{Kind: KindWarning, ID: id, Params: params})
}

func (m *Memory) ReportDebug(msg string, params ...any) {
	m.record(Report{Kind: KindDebug, ID: msg, Params: params})
}

func (m *Memory) ReportCount(id string, count int64) {
	m.record(Report{Kind: KindCount, ID: id, Count: count})
}

// Reports returns a copy of the recorded reports of the given kind, an empty kind returns all of them.
func (m *Memory) Reports(kind string) []Report {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var out []Report
	for _, r := range m.reports {
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
