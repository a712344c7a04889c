package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"production-scheduler/internal/storage"
)

// memStore хранилище в памяти с теми же правилами уникальности, что и sqlstore
type memStore struct {
	mu        sync.Mutex
	orders    map[int64]*storage.Order
	boms      map[string]*storage.BOM
	machines  []*storage.Machine
	schedules []*storage.ScheduleEntry
	nextID    int64

	// ошибки по имени метода, для проверки сбоев хранилища
	fail map[string]error
	// заказы в порядке первого обращения к их этапам
	touched []int64
	bomCalls int
}

func newMemStore() *memStore {
	return &memStore{
		orders: make(map[int64]*storage.Order),
		boms:   make(map[string]*storage.BOM),
		fail:   make(map[string]error),
	}
}

func (m *memStore) addOrder(o storage.Order) *storage.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.Status == "" {
		o.Status = storage.OrderPending
	}
	if o.UOM == "" {
		o.UOM = "PCS"
	}
	m.orders[o.ID] = &o
	return &o
}

func (m *memStore) addBOM(b storage.BOM) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boms[strings.ToLower(b.OutputItem)] = &b
}

func (m *memStore) addMachine(mc storage.Machine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.machines = append(m.machines, &mc)
}

func (m *memStore) err(method string) error {
	return m.fail[method]
}

func (m *memStore) ListOrdersByStatus(_ context.Context, statuses ...string) ([]*storage.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("ListOrdersByStatus"); err != nil {
		return nil, err
	}

	var out []*storage.Order
	for _, o := range m.orders {
		for _, st := range statuses {
			if o.Status == st {
				c := *o
				out = append(out, &c)
			}
		}
	}
	// порядок map случайный, сортировка в сервисе обязана его исправить
	return out, nil
}

func (m *memStore) GetOrder(_ context.Context, id int64) (*storage.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, storage.ErrNotFound)
	}
	c := *o
	return &c, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("UpdateOrderStatus"); err != nil {
		return err
	}
	o, ok := m.orders[id]
	if !ok {
		return storage.ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *memStore) FindBOMByOutputItem(_ context.Context, item string) (*storage.BOM, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bomCalls++
	if err := m.err("FindBOMByOutputItem"); err != nil {
		return nil, err
	}
	b, ok := m.boms[strings.ToLower(item)]
	if !ok {
		return nil, fmt.Errorf("bom %s: %w", item, storage.ErrNotFound)
	}
	return b, nil
}

func (m *memStore) ListMachines(_ context.Context) ([]*storage.Machine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*storage.Machine(nil), m.machines...), nil
}

func (m *memStore) ListMachinesByProcess(_ context.Context, process string) ([]*storage.Machine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("ListMachinesByProcess"); err != nil {
		return nil, err
	}
	var out []*storage.Machine
	for _, mc := range m.machines {
		if strings.EqualFold(mc.Process, process) {
			out = append(out, mc)
		}
	}
	return out, nil
}

func (m *memStore) filter(keep func(e *storage.ScheduleEntry) bool) []*storage.ScheduleEntry {
	var out []*storage.ScheduleEntry
	for _, e := range m.schedules {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledStart.Before(out[j].ScheduledStart) })
	return out
}

func (m *memStore) FindSchedulesByOrderAndStage(_ context.Context, orderID int64, stage string) ([]*storage.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("FindSchedulesByOrderAndStage"); err != nil {
		return nil, err
	}
	if len(m.touched) == 0 || m.touched[len(m.touched)-1] != orderID {
		m.touched = append(m.touched, orderID)
	}
	return m.filter(func(e *storage.ScheduleEntry) bool {
		return e.OrderID == orderID && strings.EqualFold(e.StageName, stage)
	}), nil
}

func (m *memStore) FindSchedulesByStage(_ context.Context, stage string) ([]*storage.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("FindSchedulesByStage"); err != nil {
		return nil, err
	}
	return m.filter(func(e *storage.ScheduleEntry) bool { return strings.EqualFold(e.StageName, stage) }), nil
}

func (m *memStore) FindSchedulesByOrder(_ context.Context, orderID int64) ([]*storage.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("FindSchedulesByOrder"); err != nil {
		return nil, err
	}
	return m.filter(func(e *storage.ScheduleEntry) bool { return e.OrderID == orderID }), nil
}

func (m *memStore) FindSchedulesActiveAt(_ context.Context, at time.Time) ([]*storage.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(e *storage.ScheduleEntry) bool {
		return e.MachineID != nil &&
			(e.Status == storage.ScheduleScheduled || e.Status == storage.ScheduleInProgress) &&
			!e.ScheduledStart.After(at) && e.ScheduledEnd.After(at)
	}), nil
}

func (m *memStore) GetSchedule(_ context.Context, id int64) (*storage.ScheduleEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.schedules {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, fmt.Errorf("schedule %d: %w", id, storage.ErrNotFound)
}

func (m *memStore) CreateSchedule(_ context.Context, e storage.ScheduleEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.err("CreateSchedule"); err != nil {
		return 0, err
	}

	kept := m.schedules[:0]
	for _, x := range m.schedules {
		if x.OrderID == e.OrderID && strings.EqualFold(x.StageName, e.StageName) && x.Status == storage.SchedulePendingApproval {
			continue
		}
		kept = append(kept, x)
	}
	m.schedules = kept

	if e.Status != storage.SchedulePendingApproval {
		for _, x := range m.schedules {
			if x.OrderID == e.OrderID && x.StageName == e.StageName {
				return 0, storage.ErrDuplicateStage
			}
		}
	}

	m.nextID++
	e.ID = m.nextID
	m.schedules = append(m.schedules, &e)
	return e.ID, nil
}

func (m *memStore) ApproveSchedule(_ context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.schedules {
		if e.ID == id {
			e.IsApproved = true
			e.UpdatedAt = at
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) entries(orderID int64) []*storage.ScheduleEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(e *storage.ScheduleEntry) bool { return e.OrderID == orderID })
}

func (m *memStore) status(orderID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[orderID].Status
}
