package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/http/validation"
)

const msgLedgerUnavailable = "The payments ledger is not configured."

type ledgerFilter struct {
	Search string
}

func parseLedgerFilter(q url.Values) (ledgerFilter, error) {
	return ledgerFilter{Search: strings.TrimSpace(q.Get("q"))}, nil
}

func (f ledgerFilter) options(pg pageOpts) admin.LedgerListOptions {
	limit, offset := pg.LimitAndOffset()
	return admin.LedgerListOptions{Limit: limit, Offset: offset, Q: f.Search}
}

func (h *UIHandlers) ledgerAvailable() bool { return h.Ledger != nil }

// Payments lists the payment ledger.
// GET /admin/payments?page=&limit=&q=.
func (h *UIHandlers) Payments(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[*admin.Payment, ledgerFilter]{
		Handler:      h,
		W:            w,
		R:            r,
		FilterParser: parseLedgerFilter,
		Fetch: func(ctx context.Context, f ledgerFilter, pg pageOpts) (ListPage[*admin.Payment], error) {
			items, err := h.Ledger.Payments(ctx, f.options(pg))
			items, more := trimExtra(items, pg)
			return ListPage[*admin.Payment]{Items: items, HasNext: more}, err
		},
		BasePath:           PaymentsPath,
		PageMeta:           PageMeta{Title: "Wiqayah Admin - Payments", PageTitle: "Payments", CurrentPage: PagePayments},
		ItemsKey:           "Payments",
		ErrorMessage:       "Unable to load payments.",
		ServiceAvailable:   h.ledgerAvailable,
		UnavailableMessage: msgLedgerUnavailable,
	})
}

func paymentMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Wiqayah Admin - Edit Payment", PageTitle: "Edit Payment", CurrentPage: PagePaymentForm}
	}
	return PageMeta{Title: "Wiqayah Admin - New Payment", PageTitle: "New Payment", CurrentPage: PagePaymentForm}
}

func (h *UIHandlers) renderPaymentForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{R: r, Data: data, DefaultMode: FormModeCreate, MetaForMode: paymentMeta})
	data["PaymentStatuses"] = paymentStatuses
	h.renderDashboardPage(w, r, data)
}

// PaymentNew renders an empty payment form.
// GET /admin/payments/new.
func (h *UIHandlers) PaymentNew(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable() {
		h.NotFound(w, r)
		return
	}
	h.renderPaymentForm(w, r, map[string]any{
		"Mode": FormModeCreate,
		"Form": admin.PaymentInput{Status: "paid"},
	})
}

// PaymentEdit renders the form for an existing payment.
// GET /admin/payments/{id}/edit.
func (h *UIHandlers) PaymentEdit(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable() {
		h.NotFound(w, r)
		return
	}
	id := r.PathValue("id")
	p, err := h.Ledger.Payment(r.Context(), id)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	h.renderPaymentForm(w, r, map[string]any{
		"Mode":      FormModeEdit,
		"PaymentID": p.ID,
		"Form": admin.PaymentInput{
			OrderRef: p.OrderRef,
			Amount:   p.Amount,
			PaidOn:   p.PaidOn.Format(validation.DateLayout),
			Status:   p.Status,
		},
	})
}

var paymentStatuses = []string{"paid", "pending", "refunded", "failed"}

func parsePaymentForm(r *http.Request) (admin.PaymentInput, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return admin.PaymentInput{}, map[string]string{"form": "Invalid form submission."}
	}
	in := admin.PaymentInput{
		OrderRef: strings.TrimSpace(r.PostFormValue("order_ref")),
		PaidOn:   strings.TrimSpace(r.PostFormValue("paid_on")),
		Status:   strings.TrimSpace(r.PostFormValue("status")),
	}
	amount := r.PostFormValue("amount")
	errs := validation.New().
		Validate("order_ref", in.OrderRef, validation.RequiredRange("Order reference", 3, 64)).
		Validate("amount", amount, validation.Amount("Amount")).
		Validate("paid_on", in.PaidOn, validation.Date("Payment date")).
		Validate("status", in.Status, validation.OneOf("Status", paymentStatuses)).
		Errors()
	in.Amount, _ = strconv.ParseFloat(strings.TrimSpace(amount), 64)
	in.Status = strings.ToLower(in.Status)
	return in, errs
}

// PaymentSave creates or updates a payment.
// POST /admin/payments, POST /admin/payments/{id}.
func (h *UIHandlers) PaymentSave(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable() {
		h.NotFound(w, r)
		return
	}
	mode := FormModeCreate
	if r.PathValue("id") != "" {
		mode = FormModeEdit
	}
	HandleForm(FormHandlerOpts[admin.PaymentInput]{
		W:      w,
		R:      r,
		Mode:   mode,
		Parser: parsePaymentForm,
		Save: func(ctx context.Context, id string, in admin.PaymentInput) error {
			_, err := h.Ledger.SavePayment(ctx, id, in)
			return err
		},
		Renderer:       h.renderPaymentForm,
		SuccessURL:     PaymentsPath,
		SuccessMessage: "Payment saved.",
		PageMeta:       paymentMeta(mode),
		ExtraData:      map[string]any{"PaymentID": r.PathValue("id")},
	})
}

// PaymentDelete removes a payment.
// POST /admin/payments/{id}/delete.
func (h *UIHandlers) PaymentDelete(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable() {
		h.NotFound(w, r)
		return
	}
	if err := h.Ledger.DeletePayment(r.Context(), r.PathValue("id")); err != nil {
		h.writeActionError(w, r, err)
		return
	}
	h.afterAction(w, r, PaymentsPath, "Payment deleted.")
}

// Admins lists backend admin accounts next to the local staff roster.
// GET /admin/admins.
func (h *UIHandlers) Admins(w http.ResponseWriter, r *http.Request) {
	h.roleList(w, r, roleListSpec{
		Role:     domainauth.RoleAdmin,
		BasePath: AdminsPath,
		Meta:     PageMeta{Title: "Wiqayah Admin - Admins", PageTitle: "Admins", CurrentPage: PageAdmins},
		ItemsKey: "Admins",
		ErrMsg:   "Unable to load admins.",
		Enrich: func(b *TemplateDataBuilder, _ ListPage[admin.User], _ usersFilter) {
			h.enrichStaffRoster(r.Context(), b)
		},
	})
}

// staffRosterLimit bounds the roster shown under the admin accounts.
const staffRosterLimit = 100

func (h *UIHandlers) enrichStaffRoster(ctx context.Context, b *TemplateDataBuilder) {
	b.With("RosterEnabled", h.ledgerAvailable())
	if !h.ledgerAvailable() {
		return
	}
	staff, err := h.Ledger.Staff(ctx, admin.LedgerListOptions{Limit: staffRosterLimit})
	if err != nil {
		h.logger().Warn("staff roster fetch failed", zap.Error(err))
		b.With("RosterError", "Unable to load the staff roster.")
		return
	}
	b.With("Staff", staff)
}

func staffMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Wiqayah Admin - Edit Staff Admin", PageTitle: "Edit Staff Admin", CurrentPage: PageStaffForm}
	}
	return PageMeta{Title: "Wiqayah Admin - New Staff Admin", PageTitle: "New Staff Admin", CurrentPage: PageStaffForm}
}

func (h *UIHandlers) renderStaffForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data, _ = prepareFormFrame(FormFrameOpts{R: r, Data: data, DefaultMode: FormModeCreate, MetaForMode: staffMeta})
	h.renderDashboardPage(w, r, data)
}

// StaffNew renders an empty roster form.
// GET /admin/admins/staff/new.
func (h *UIHandlers) StaffNew(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable() {
		h.NotFound(w, r)
		return
	}
	h.renderStaffForm(w, r, map[string]any{"Mode": FormModeCreate, "Form": admin.StaffAdminInput{}})
}

// StaffEdit renders the form for an existing roster entry.
// GET /admin/admins/staff/{id}/edit.
func (h *UIHandlers) StaffEdit(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable() {
		h.NotFound(w, r)
		return
	}
	a, err := h.Ledger.StaffAdmin(r.Context(), r.PathValue("id"))
	if err != nil {
		h.NotFound(w, r)
		return
	}
	h.renderStaffForm(w, r, map[string]any{
		"Mode":    FormModeEdit,
		"StaffID": a.ID,
		"Form":    admin.StaffAdminInput{Name: a.Name, Email: a.Email, Title: a.Title},
	})
}

func parseStaffForm(r *http.Request) (admin.StaffAdminInput, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return admin.StaffAdminInput{}, map[string]string{"form": "Invalid form submission."}
	}
	in := admin.StaffAdminInput{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Title: strings.TrimSpace(r.PostFormValue("title")),
	}
	errs := validation.New().
		Validate("name", in.Name, validation.Required("Name", 120)).
		Validate("email", in.Email, validation.Required("Email", 254), validation.Email("Email")).
		Validate("title", in.Title, validation.Optional("Title", 120)).
		Errors()
	return in, errs
}

// StaffSave creates or updates a roster entry.
// POST /admin/admins/staff, POST /admin/admins/staff/{id}.
func (h *UIHandlers) StaffSave(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable() {
		h.NotFound(w, r)
		return
	}
	mode := FormModeCreate
	if r.PathValue("id") != "" {
		mode = FormModeEdit
	}
	HandleForm(FormHandlerOpts[admin.StaffAdminInput]{
		W:      w,
		R:      r,
		Mode:   mode,
		Parser: parseStaffForm,
		Save: func(ctx context.Context, id string, in admin.StaffAdminInput) error {
			_, err := h.Ledger.SaveStaff(ctx, id, in)
			return err
		},
		Renderer:       h.renderStaffForm,
		SuccessURL:     AdminsPath,
		SuccessMessage: "Staff admin saved.",
		PageMeta:       staffMeta(mode),
		ExtraData:      map[string]any{"StaffID": r.PathValue("id")},
	})
}

// StaffDelete removes a roster entry.
// POST /admin/admins/staff/{id}/delete.
func (h *UIHandlers) StaffDelete(w http.ResponseWriter, r *http.Request) {
	if !h.ledgerAvailable() {
		h.NotFound(w, r)
		return
	}
	if err := h.Ledger.DeleteStaff(r.Context(), r.PathValue("id")); err != nil {
		h.writeActionError(w, r, err)
		return
	}
	h.afterAction(w, r, AdminsPath, "Staff admin removed.")
}
