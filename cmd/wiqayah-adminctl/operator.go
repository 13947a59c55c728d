package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/bootstrap"
	"github.com/wiqayah/admin-console/internal/domain/admin"
	"github.com/wiqayah/admin-console/internal/domain/booking"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/service"
)

const (
	envOperatorEmail    = "WIQAYAH_ADMIN_EMAIL"
	envOperatorPassword = "WIQAYAH_ADMIN_PASSWORD"
)

type operatorOptions struct {
	Timeout time.Duration
	Email   string
}

type bookingsOptions struct {
	operatorOptions
	Status string
	Search string
	Page   int
	Limit  int
}

type setBookingStatusOptions struct {
	operatorOptions
	ID     string
	Status booking.Status
	Notes  string
}

type skillsOptions struct {
	operatorOptions
	Add string
}

func registerOperatorFlags(fs *flag.FlagSet, opts *operatorOptions) {
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for the command")
	fs.StringVar(&opts.Email, "email", os.Getenv(envOperatorEmail), "Admin email (defaults to "+envOperatorEmail+")")
}

func (o operatorOptions) validate() error {
	if o.Timeout <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	if strings.TrimSpace(o.Email) == "" {
		return fmt.Errorf("--email or %s is required", envOperatorEmail)
	}
	return nil
}

// withOperator signs in as an admin through the same gate the web console
// uses and hands f the services bound to that session. Tokens stay in
// process memory and are discarded on exit.
func withOperator(cmdCtx *commandContext, opts operatorOptions, f func(context.Context, service.AdminServices) error) error {
	cfg := cmdCtx.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	svcs, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{Config: &cfg, Logger: cmdCtx.Logger})
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	defer func() {
		if cerr := svcs.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close services failed", zap.Error(cerr))
		}
	}()

	password, err := operatorPassword(os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	g, err := svcs.Registry.Get(ctx, service.NewSessionID())
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	profile, err := g.Login(ctx, opts.Email, password)
	if err != nil {
		return fmt.Errorf("login: %s: %w", apperrors.UserMessage(err), err)
	}
	cmdCtx.Logger.Debug("operator signed in", zap.String("user_id", profile.ID))

	return f(ctx, svcs.Console.For(ctx, g))
}

func operatorPassword(in io.Reader, prompt io.Writer) (string, error) {
	if pw := os.Getenv(envOperatorPassword); pw != "" {
		return pw, nil
	}
	if err := write(prompt, "Password: "); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runStats(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := operatorOptions{}
	registerOperatorFlags(fs, &opts)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}

	return withOperator(cmdCtx, opts, func(ctx context.Context, svc service.AdminServices) error {
		dash, err := svc.Catalog.Dashboard(ctx)
		if err != nil {
			return err
		}
		return renderStats(cmdCtx.Out, dash)
	})
}

func renderStats(w io.Writer, dash service.Dashboard) error {
	s := dash.Stats
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value string
	}{
		{"Users", fmt.Sprintf("%d (+%d this month)", s.TotalUsers, s.NewUsersThisMonth)},
		{"Clients", fmt.Sprintf("%d", s.TotalClients)},
		{"Guards", fmt.Sprintf("%d (%d active, %d pending approval)", s.TotalGuards, s.ActiveGuards, s.PendingApprovalGuards)},
		{"Bookings", fmt.Sprintf("%d (%d active, %d pending)", s.TotalBookings, s.ActiveBookings, s.PendingBookings)},
		{"Completed", fmt.Sprintf("%d (%.1f%%, %d today)", s.CompletedBookings, s.CompletionRate(), s.CompletedToday)},
		{"Cancelled", fmt.Sprintf("%d", s.CancelledBookings)},
		{"Revenue", fmt.Sprintf("%.2f (%.2f this month)", s.TotalRevenue, s.MonthlyRevenue)},
	}
	for _, r := range rows {
		if err := writef(tw, "%s\t%s\n", r.label, r.value); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(dash.Recent) == 0 {
		return nil
	}
	if err := writeln(w, "\nRecent bookings:"); err != nil {
		return err
	}
	return renderBookings(w, dash.Recent)
}

func runBookings(cmdCtx *commandContext, args []string) error {
	opts, err := parseBookingsFlags(args)
	if err != nil {
		return err
	}
	listOpts := admin.BookingListOptions{Page: opts.Page, Limit: opts.Limit, Search: opts.Search}
	if opts.Status != "" {
		st, parseErr := booking.ParseStatus(opts.Status)
		if parseErr != nil {
			return parseErr
		}
		listOpts.Status = &st
	}

	return withOperator(cmdCtx, opts.operatorOptions, func(ctx context.Context, svc service.AdminServices) error {
		page, listErr := svc.Bookings.List(ctx, listOpts)
		if listErr != nil {
			return listErr
		}
		if rerr := renderBookings(cmdCtx.Out, page.Bookings); rerr != nil {
			return rerr
		}
		return writef(cmdCtx.Out, "\nPage %d of %d, %d total (%d upcoming, %d past on this page)\n",
			page.Page, max(page.TotalPages, 1), page.Total, page.UpcomingCount, page.PastCount)
	})
}

func parseBookingsFlags(args []string) (bookingsOptions, error) {
	fs := flag.NewFlagSet("bookings", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := bookingsOptions{}
	registerOperatorFlags(fs, &opts.operatorOptions)
	fs.StringVar(&opts.Status, "status", "", "Filter by status")
	fs.StringVar(&opts.Search, "search", "", "Free-text search")
	fs.IntVar(&opts.Page, "page", 1, "Page number")
	fs.IntVar(&opts.Limit, "limit", admin.DefaultPageSize, "Page size")

	if err := fs.Parse(args); err != nil {
		return bookingsOptions{}, err
	}
	opts.Page, opts.Limit = admin.NormalizePage(opts.Page, opts.Limit)
	if err := opts.validate(); err != nil {
		return bookingsOptions{}, err
	}
	return opts, nil
}

func renderBookings(w io.Writer, bookings []booking.Booking) error {
	if len(bookings) == 0 {
		return writeln(w, "No bookings found.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tSTATUS\tCLIENT\tGUARD\tSTART\tAMOUNT"); err != nil {
		return err
	}
	for _, b := range bookings {
		start := "-"
		if b.Period.Valid() {
			start = b.Period.Start.Format("2006-01-02 15:04")
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			b.ID, b.Status.Label(), b.ClientName(), b.GuardName(), start, b.TotalAmount); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runSetBookingStatus(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetBookingStatusFlags(args)
	if err != nil {
		return err
	}

	return withOperator(cmdCtx, opts.operatorOptions, func(ctx context.Context, svc service.AdminServices) error {
		b, findErr := findBooking(ctx, svc.Bookings, opts.ID)
		if findErr != nil {
			return findErr
		}
		updated, changeErr := svc.Bookings.RequestStatusChange(ctx, b, opts.Status, opts.Notes)
		if changeErr != nil {
			return fmt.Errorf("%s: %w", apperrors.UserMessage(changeErr), changeErr)
		}
		cmdCtx.Logger.Info("booking status changed",
			zap.String("booking_id", b.ID),
			zap.String("from", string(b.Status)),
			zap.String("to", string(updated.Status)))
		return writef(cmdCtx.Out, "Booking %s is now %s.\n", updated.ID, updated.Status.Label())
	})
}

func parseSetBookingStatusFlags(args []string) (setBookingStatusOptions, error) {
	fs := flag.NewFlagSet("set-booking-status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := setBookingStatusOptions{}
	registerOperatorFlags(fs, &opts.operatorOptions)
	var status string
	fs.StringVar(&opts.ID, "id", "", "Booking id")
	fs.StringVar(&status, "status", "", "Target status")
	fs.StringVar(&opts.Notes, "notes", "", "Optional notes sent with the change")

	if err := fs.Parse(args); err != nil {
		return setBookingStatusOptions{}, err
	}
	opts.ID = strings.TrimSpace(opts.ID)
	if opts.ID == "" {
		return setBookingStatusOptions{}, errors.New("--id is required")
	}
	st, err := booking.ParseStatus(status)
	if err != nil {
		return setBookingStatusOptions{}, fmt.Errorf("--status: %w", err)
	}
	opts.Status = st
	if err := opts.validate(); err != nil {
		return setBookingStatusOptions{}, err
	}
	return opts, nil
}

// bookingLister is the slice of BookingWorkflow findBooking pages through.
type bookingLister interface {
	List(ctx context.Context, opts admin.BookingListOptions) (admin.BookingsPage, error)
}

func findBooking(ctx context.Context, lister bookingLister, id string) (booking.Booking, error) {
	for page := 1; ; page++ {
		res, err := lister.List(ctx, admin.BookingListOptions{Page: page, Limit: admin.MaxPageSize})
		if err != nil {
			return booking.Booking{}, err
		}
		if b, ok := res.Find(id); ok {
			return b, nil
		}
		if len(res.Bookings) == 0 || page >= res.TotalPages {
			return booking.Booking{}, fmt.Errorf("booking %q not found", id)
		}
	}
}

func runSkills(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("skills", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := skillsOptions{}
	registerOperatorFlags(fs, &opts.operatorOptions)
	fs.StringVar(&opts.Add, "add", "", "Create a skill with this name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}

	return withOperator(cmdCtx, opts.operatorOptions, func(ctx context.Context, svc service.AdminServices) error {
		if opts.Add != "" {
			skill, err := svc.Catalog.CreateSkill(ctx, opts.Add)
			if err != nil {
				return fmt.Errorf("%s: %w", apperrors.UserMessage(err), err)
			}
			return writef(cmdCtx.Out, "Created skill %q (%s).\n", skill.Name, skill.ID)
		}
		skills, err := svc.Catalog.Skills(ctx)
		if err != nil {
			return err
		}
		return renderSkills(cmdCtx.Out, skills)
	})
}

func renderSkills(w io.Writer, skills []admin.Skill) error {
	if len(skills) == 0 {
		return writeln(w, "No skills defined.")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tNAME\tGUARDS"); err != nil {
		return err
	}
	for _, s := range skills {
		if err := writef(tw, "%s\t%s\t%d\n", s.ID, s.Name, len(s.GuardProfiles)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
