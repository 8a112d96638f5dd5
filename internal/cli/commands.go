package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"cleanbook/internal/seed"
	"cleanbook/pkg/model"

	"github.com/spf13/cobra"
)

func NewMigrateCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create collections, JSON-schema validators and indexes",
		Args:  cobra.NoArgs,
		RunE: withDeps(load, func(ctx context.Context, deps *Deps, out io.Writer) error {
			if err := deps.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(out, "migration completed")
			return nil
		}),
	}
}

func NewSeedServicesCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-services",
		Short: "Upsert the default service catalog",
		Args:  cobra.NoArgs,
		RunE: withDeps(load, func(ctx context.Context, deps *Deps, out io.Writer) error {
			n, err := seed.Services(ctx, deps.Catalog, deps.Log)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "seeded %d services\n", n)
			return nil
		}),
	}
}

func NewOpenDaysCmd(load Loader) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "open-days",
		Short: "Insert missing availability cells from today through today+days",
		Args:  cobra.NoArgs,
		RunE: withDeps(load, func(ctx context.Context, deps *Deps, out io.Writer) error {
			inserted, err := deps.Grid.OpenDays(ctx, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "opened %d new cells\n", inserted)
			return nil
		}),
	}
	cmd.Flags().IntVar(&days, "days", 30, "number of days ahead to open")
	return cmd
}

type slotFlags struct {
	date string
	slot string
	team int
}

func (f *slotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.slot, "slot", "", "time slot, e.g. 09:00-11:00")
	cmd.Flags().IntVar(&f.team, "team", 0, "team number")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("slot")
	_ = cmd.MarkFlagRequired("team")
}

func (f *slotFlags) ref() model.SlotRef {
	return model.SlotRef{Date: f.date, TimeSlot: f.slot, TeamNumber: f.team}
}

func NewBlockSlotCmd(load Loader) *cobra.Command {
	var flags slotFlags
	var reason string
	cmd := &cobra.Command{
		Use:   "block-slot",
		Short: "Mark an open cell unavailable for a non-booking reason",
		Args:  cobra.NoArgs,
		RunE: withDeps(load, func(ctx context.Context, deps *Deps, out io.Writer) error {
			blocked, err := deps.Grid.Block(ctx, flags.ref(), reason)
			if err != nil {
				return err
			}
			if !blocked {
				return fmt.Errorf("cell %s %s team %d is not open", flags.date, flags.slot, flags.team)
			}
			fmt.Fprintln(out, "blocked")
			return nil
		}),
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&reason, "reason", "", "why the cell is unavailable")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func NewUnblockSlotCmd(load Loader) *cobra.Command {
	var flags slotFlags
	cmd := &cobra.Command{
		Use:   "unblock-slot",
		Short: "Reopen a blocked cell",
		Args:  cobra.NoArgs,
		RunE: withDeps(load, func(ctx context.Context, deps *Deps, out io.Writer) error {
			unblocked, err := deps.Grid.Unblock(ctx, flags.ref())
			if err != nil {
				return err
			}
			if !unblocked {
				return fmt.Errorf("cell %s %s team %d is not blocked", flags.date, flags.slot, flags.team)
			}
			fmt.Fprintln(out, "unblocked")
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func NewBookingsCmd(load Loader) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List the bookings of one date",
		Args:  cobra.NoArgs,
		RunE: withDeps(load, func(ctx context.Context, deps *Deps, out io.Writer) error {
			bookings, err := deps.Bookings.FindByDate(ctx, date)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tSLOT\tTEAM\tSTATUS\tCUSTOMER\tTOTAL")
			for _, b := range bookings {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s %s\t%.2f\n",
					b.BookingNumber, b.TimeSlot, b.TeamNumber, b.Status,
					b.Customer.FirstName, b.Customer.LastName, b.TotalPrice)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
