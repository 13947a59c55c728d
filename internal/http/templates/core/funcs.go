// Package core provides the template helpers shared by every console page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/domain/booking"
	"github.com/wiqayah/admin-console/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns the template.FuncMap used by layout, pages and partials.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": timeFunc(uiutil.FormatFriendlyDateTime),
		"friendlyDate": timeFunc(uiutil.FormatFriendlyDate),
		"relativeTime": timeFunc(uiutil.FriendlyRelativeTime),
		"timeTag":      timeTag,
		"money":        uiutil.FormatMoney,
		"percent":      func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"formatNumber": FormatNumber,
		"statusClass":  StatusClass,
		"statusLabel":  func(s booking.Status) string { return s.Label() },
		"roleLabel":    func(r domainauth.Role) string { return r.Label() },
		"roles":        domainauth.Roles,
		"statuses":     booking.Statuses,
		"truncateText": uiutil.TruncateWithEllipsis,
		"navItem":      newNavItem,
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template execution, already escaped
		return template.HTML(buf.String()), nil
	}
	return funcs
}

// NavItem is one sidebar link.
type NavItem struct {
	Href   string
	Label  string
	Active bool
}

func newNavItem(href, label, page, current string) NavItem {
	return NavItem{Href: href, Label: label, Active: page == current}
}

func toTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}

func timeFunc(format func(time.Time) string) func(any) string {
	return func(ts any) string {
		t := toTime(ts)
		if t.IsZero() {
			return ""
		}
		return format(t)
	}
}

func timeTag(ts any) template.HTML {
	t := toTime(ts)
	if t.IsZero() {
		return ""
	}
	// #nosec G203 - constructed from escaped values only
	return template.HTML(fmt.Sprintf(
		`<time datetime="%s" title="%s">%s</time>`,
		t.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t.Local().Format(time.RFC1123)),
		template.HTMLEscapeString(uiutil.FormatFriendlyDateTime(t)),
	))
}

// FormatNumber formats integers with thousands separators.
func FormatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// StatusClass maps a booking status to its badge class.
func StatusClass(s booking.Status) string {
	switch s {
	case booking.StatusPending:
		return "badge-warning"
	case booking.StatusConfirmed:
		return "badge-info"
	case booking.StatusInProgress:
		return "badge-primary"
	case booking.StatusCompleted:
		return "badge-success"
	case booking.StatusCancelled:
		return "badge-danger"
	}
	return "badge-light"
}
