package paygrid

import (
	"context"
	"sync"
	"time"
)

// Status describes whether a grid reflects a successful reconciliation.
type Status string

const (
	StatusIdle  Status = "idle"
	StatusReady Status = "ready"
	StatusError Status = "error"
)

// Client is the subset of the school API the view model needs.
type Client interface {
	Payments(ctx context.Context, studentID string) ([]Record, error)
	TogglePayment(ctx context.Context, studentID string, key Key) (ToggleResult, error)
}

// ToggleResult is the school API's answer to a toggle. IsPaid is nil when the
// API did not report the resulting state.
type ToggleResult struct {
	IsPaid *bool
}

// Snapshot is a consistent copy of a view model's state.
type Snapshot struct {
	StudentID   string       `json:"student_id"`
	Status      Status       `json:"status"`
	Error       string       `json:"error,omitempty"`
	Version     uint64       `json:"version"`
	RefreshedAt time.Time    `json:"refreshed_at,omitempty"`
	Grid        RenderedGrid `json:"grid"`
}

// Option customises a ViewModel.
type Option func(*ViewModel)

// WithTimeout bounds every call made to the Client.
func WithTimeout(d time.Duration) Option {
	return func(vm *ViewModel) { vm.timeout = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(vm *ViewModel) { vm.now = now }
}

// ViewModel owns the payment grid state of one student.
//
// Every Refresh and Toggle draws a sequence number when it is triggered. A
// response is written to a cell only if no operation triggered later has
// already written that cell, so a reconciliation that started before a toggle
// never overwrites the toggle's result. Network calls run outside the lock.
type ViewModel struct {
	studentID string
	client    Client
	timeout   time.Duration
	now       func() time.Time

	mu          sync.Mutex
	cells       []Cell
	index       map[Key]int
	paid        []bool
	applied     []uint64
	seq         uint64
	version     uint64
	status      Status
	errMsg      string
	refreshedAt time.Time
	lastUsed    time.Time

	refreshSeq    uint64
	cancelRefresh context.CancelFunc
}

// NewViewModel creates an idle view model over cells.
func NewViewModel(studentID string, cells []Cell, client Client, opts ...Option) *ViewModel {
	vm := &ViewModel{
		studentID: studentID,
		client:    client,
		now:       time.Now,
		cells:     append([]Cell(nil), cells...),
		index:     make(map[Key]int, len(cells)),
		paid:      make([]bool, len(cells)),
		applied:   make([]uint64, len(cells)),
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(vm)
	}
	for i, c := range vm.cells {
		vm.index[c.Key] = i
	}
	vm.lastUsed = vm.now()
	return vm
}

// StudentID returns the student the grid belongs to.
func (vm *ViewModel) StudentID() string {
	return vm.studentID
}

// Refresh fetches the student's payments and reconciles them onto the grid.
// Starting a refresh cancels the one still in flight. A failure that has not
// been superseded leaves the grid in StatusError and is returned.
func (vm *ViewModel) Refresh(ctx context.Context) (Snapshot, error) {
	vm.mu.Lock()
	vm.seq++
	seq := vm.seq
	if vm.cancelRefresh != nil {
		vm.cancelRefresh()
	}
	refreshCtx, cancel := context.WithCancel(ctx)
	vm.refreshSeq = seq
	vm.cancelRefresh = cancel
	vm.lastUsed = vm.now()
	vm.mu.Unlock()

	callCtx, callCancel := vm.callContext(refreshCtx)
	records, err := vm.client.Payments(callCtx, vm.studentID)
	callCancel()
	cancel()

	vm.mu.Lock()
	defer vm.mu.Unlock()

	latest := vm.refreshSeq == seq
	if latest {
		vm.cancelRefresh = nil
	}

	if err != nil {
		if latest {
			vm.status = StatusError
			vm.errMsg = err.Error()
			vm.version++
		}
		return vm.snapshotLocked(), err
	}

	present := make(map[Key]struct{}, len(records))
	for _, r := range records {
		present[r.Key()] = struct{}{}
	}
	for i, c := range vm.cells {
		if vm.applied[i] >= seq {
			continue
		}
		_, vm.paid[i] = present[c.Key]
		vm.applied[i] = seq
	}
	if latest {
		vm.status = StatusReady
		vm.errMsg = ""
		vm.refreshedAt = vm.now()
	}
	vm.version++
	return vm.snapshotLocked(), nil
}

// Toggle sends one toggle request for key. On success the reported state (or a
// local flip when none was reported) is applied to that cell only. On failure
// the grid is unchanged and the error is returned.
func (vm *ViewModel) Toggle(ctx context.Context, key Key) (CellState, error) {
	vm.mu.Lock()
	idx, ok := vm.index[key]
	if !ok {
		vm.mu.Unlock()
		return CellState{}, ErrUnknownCell
	}
	vm.seq++
	seq := vm.seq
	vm.lastUsed = vm.now()
	vm.mu.Unlock()

	callCtx, cancel := vm.callContext(ctx)
	res, err := vm.client.TogglePayment(callCtx, vm.studentID, key)
	cancel()

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if err != nil {
		return vm.cellLocked(idx), err
	}
	if vm.applied[idx] < seq {
		if res.IsPaid != nil {
			vm.paid[idx] = *res.IsPaid
		} else {
			vm.paid[idx] = !vm.paid[idx]
		}
		vm.applied[idx] = seq
		vm.version++
	}
	return vm.cellLocked(idx), nil
}

// Snapshot returns the current state.
func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.snapshotLocked()
}

// LastUsed reports when Refresh or Toggle was last triggered.
func (vm *ViewModel) LastUsed() time.Time {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.lastUsed
}

// Close cancels any refresh in flight.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.cancelRefresh != nil {
		vm.cancelRefresh()
		vm.cancelRefresh = nil
	}
}

func (vm *ViewModel) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if vm.timeout > 0 {
		return context.WithTimeout(ctx, vm.timeout)
	}
	return context.WithCancel(ctx)
}

func (vm *ViewModel) cellLocked(idx int) CellState {
	return CellState{Cell: vm.cells[idx], Paid: vm.paid[idx]}
}

func (vm *ViewModel) snapshotLocked() Snapshot {
	cells := make([]CellState, len(vm.cells))
	for i := range vm.cells {
		cells[i] = vm.cellLocked(i)
	}
	return Snapshot{
		StudentID:   vm.studentID,
		Status:      vm.status,
		Error:       vm.errMsg,
		Version:     vm.version,
		RefreshedAt: vm.refreshedAt,
		Grid:        RenderedGrid{Cells: cells},
	}
}
