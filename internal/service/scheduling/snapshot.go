package scheduling

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"production-scheduler/internal/storage"
)

type bomResult struct {
	bom *storage.BOM
	err error
}

type poolResult struct {
	machines []*storage.Machine
	err      error
}

// snapshot кэш справочников на один прогон: BOM по коду изделия и станки по процессу.
// Записи расписания сюда не попадают, их каждый раз читаем из хранилища.
type snapshot struct {
	boms     BOMStore
	machines MachineStore
	limit    int

	mu    sync.Mutex
	bom   map[string]bomResult
	pools map[string]poolResult
}

func newSnapshot(boms BOMStore, machines MachineStore, limit int) *snapshot {
	if limit < 1 {
		limit = 1
	}
	return &snapshot{
		boms:     boms,
		machines: machines,
		limit:    limit,
		bom:      make(map[string]bomResult),
		pools:    make(map[string]poolResult),
	}
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// prefetch параллельно грузит BOM всех заказов, затем станки всех их этапов.
// Ошибки запоминаются по ключу и всплывут у конкретного заказа.
func (s *snapshot) prefetch(ctx context.Context, orders []*storage.Order) {
	items := make(map[string]string)
	for _, o := range orders {
		items[key(o.ItemCode)] = strings.TrimSpace(o.ItemCode)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for _, item := range items {
		g.Go(func() error {
			s.BOM(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	stages := make(map[string]string)
	s.mu.Lock()
	for _, r := range s.bom {
		if r.err != nil || r.bom == nil {
			continue
		}
		for _, st := range r.bom.Stages {
			stages[key(st.StageName)] = strings.TrimSpace(st.StageName)
		}
	}
	s.mu.Unlock()

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for _, stage := range stages {
		g.Go(func() error {
			s.Machines(gctx, stage)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *snapshot) BOM(ctx context.Context, itemCode string) (*storage.BOM, error) {
	k := key(itemCode)

	s.mu.Lock()
	r, ok := s.bom[k]
	s.mu.Unlock()
	if ok {
		return r.bom, r.err
	}

	bom, err := s.boms.FindBOMByOutputItem(ctx, strings.TrimSpace(itemCode))
	if ctx.Err() != nil {
		// отменённый контекст не кэшируем
		return bom, err
	}

	s.mu.Lock()
	s.bom[k] = bomResult{bom: bom, err: err}
	s.mu.Unlock()

	return bom, err
}

func (s *snapshot) Machines(ctx context.Context, process string) ([]*storage.Machine, error) {
	k := key(process)

	s.mu.Lock()
	r, ok := s.pools[k]
	s.mu.Unlock()
	if ok {
		return r.machines, r.err
	}

	machines, err := s.machines.ListMachinesByProcess(ctx, strings.TrimSpace(process))
	if ctx.Err() != nil {
		return machines, err
	}

	s.mu.Lock()
	s.pools[k] = poolResult{machines: machines, err: err}
	s.mu.Unlock()

	return machines, err
}
