package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"production-scheduler/internal/constants"
)

const timeLayout = "Mon 2006-01-02 15:04"

type RunCmd struct{}

func (c *RunCmd) Run(ctx *Context) error {
	res, err := ctx.Scheduler.RunAutoSchedule(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %d order(s) processed in %s\n",
		res.RunID, res.Processed, res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))

	if len(res.Recommendations) > 0 {
		rows := make([][]string, 0, len(res.Recommendations))
		for _, r := range res.Recommendations {
			rows = append(rows, []string{r.OrderNumber, r.StageName, r.Type, r.Reason})
		}
		fmt.Println(renderTable([]string{"Order", "Stage", "Recommendation", "Reason"}, rows))
	}

	if len(res.Failures) > 0 {
		rows := make([][]string, 0, len(res.Failures))
		for _, f := range res.Failures {
			rows = append(rows, []string{f.OrderNumber, f.Error})
		}
		fmt.Println(renderTable([]string{"Order", "Failure"}, rows))
	}

	return nil
}

type ScheduleCmd struct {
	OrderID int64 `arg:"" help:"Order id."`
}

func (c *ScheduleCmd) Run(ctx *Context) error {
	res, err := ctx.Scheduler.OrderSchedule(context.Background(), c.OrderID)
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s  qty %v %s  priority %d  due %s  [%s]\n",
		res.Order.OrderNumber, res.Order.ItemCode, res.Order.Quantity, res.Order.UOM,
		res.Order.Priority, res.Order.DeliveryDate.Format(timeLayout), res.Order.Status)

	if len(res.Entries) == 0 {
		fmt.Println("No schedule entries")
		return nil
	}

	rows := make([][]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		machine := "-"
		if e.Machine != nil {
			machine = e.Machine.MachineCode
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.StageName,
			machine,
			e.ScheduledStart.Format(timeLayout),
			e.ScheduledEnd.Format(timeLayout),
			strconv.Itoa(len(e.Chunks)),
			e.Status,
		})
	}
	fmt.Println(renderTable([]string{"ID", "Stage", "Machine", "Start", "End", "Chunks", "Status"}, rows))

	return nil
}

type ApproveCmd struct {
	ID int64 `arg:"" help:"Schedule entry id."`
}

func (c *ApproveCmd) Run(ctx *Context) error {
	e, err := ctx.Scheduler.ApproveEntry(context.Background(), c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Approved entry %d (%s, %s)\n", e.ID, e.OrderNumber, e.StageName)
	return nil
}

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *Context) error {
	transitions, err := ctx.Progress.Run(context.Background())
	if err != nil {
		return err
	}
	if len(transitions) == 0 {
		fmt.Println("No status changes")
		return nil
	}

	rows := make([][]string, 0, len(transitions))
	for _, t := range transitions {
		rows = append(rows, []string{t.OrderNumber, t.From, t.To})
	}
	fmt.Println(renderTable([]string{"Order", "From", "To"}, rows))

	return nil
}

type SeedCmd struct{}

func (c *SeedCmd) Run(ctx *Context) error {
	res, err := ctx.Store.Seed(context.Background(), constants.SeedMachines, constants.SeedBOMs)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d machine(s), %d BOM(s)\n", res.Machines, res.BOMs)
	return nil
}

type MachinesCmd struct {
	Process string `help:"Only machines of this process." short:"p"`
}

func (c *MachinesCmd) Run(ctx *Context) error {
	statuses, err := ctx.Scheduler.MachineStatuses(context.Background())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		if c.Process != "" && !equalFold(st.Process, c.Process) {
			continue
		}
		until := ""
		if st.BusyUntil != nil {
			until = st.BusyUntil.Format(timeLayout)
		}
		rows = append(rows, []string{st.MachineCode, st.Process, st.Status, st.CurrentOrder, st.StageName, until})
	}
	fmt.Println(renderTable([]string{"Machine", "Process", "Status", "Order", "Stage", "Busy until"}, rows))

	return nil
}
