package scheduling

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"production-scheduler/internal/clock"
	"production-scheduler/internal/storage"
)

type OrderStore interface {
	ListOrdersByStatus(ctx context.Context, statuses ...string) ([]*storage.Order, error)
	GetOrder(ctx context.Context, id int64) (*storage.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
}

type BOMStore interface {
	FindBOMByOutputItem(ctx context.Context, itemCode string) (*storage.BOM, error)
}

type MachineStore interface {
	ListMachines(ctx context.Context) ([]*storage.Machine, error)
	ListMachinesByProcess(ctx context.Context, process string) ([]*storage.Machine, error)
}

type ScheduleStore interface {
	StageOccupancy
	FindSchedulesByOrderAndStage(ctx context.Context, orderID int64, stageName string) ([]*storage.ScheduleEntry, error)
	FindSchedulesByOrder(ctx context.Context, orderID int64) ([]*storage.ScheduleEntry, error)
	FindSchedulesActiveAt(ctx context.Context, at time.Time) ([]*storage.ScheduleEntry, error)
	GetSchedule(ctx context.Context, id int64) (*storage.ScheduleEntry, error)
	CreateSchedule(ctx context.Context, e storage.ScheduleEntry) (int64, error)
	ApproveSchedule(ctx context.Context, id int64, at time.Time) error
}

type Store interface {
	OrderStore
	BOMStore
	MachineStore
	ScheduleStore
}

type Options struct {
	// PrefetchLimit параллельность загрузки справочников в начале прогона
	PrefetchLimit int
	// RunTimeout 0 значит без ограничения
	RunTimeout time.Duration
}

type Service struct {
	log   *slog.Logger
	store Store
	clock clock.Clock
	opts  Options

	runs singleflight.Group
}

func New(log *slog.Logger, store Store, clk clock.Clock, opts Options) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if opts.PrefetchLimit < 1 {
		opts.PrefetchLimit = 1
	}

	return &Service{
		log:   log,
		store: store,
		clock: clk,
		opts:  opts,
	}
}

func (s *Service) recommend(order *storage.Order, stageName, kind, reason string) storage.Recommendation {
	return storage.Recommendation{
		Type:        kind,
		Reason:      reason,
		SuggestedBy: storage.SuggestedBySystem,
		CreatedAt:   s.clock.Now(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		StageName:   stageName,
	}
}
