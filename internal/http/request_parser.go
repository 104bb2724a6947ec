// Package http serves the dashboard pages, the JSON API, the XLSX export
// and the live-refresh websocket.
//
// This file turns query strings into filter criteria and table queries.
// A set filter never widens: unknown status values are kept and match no
// row, and an unparsable date is an error.
package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"momodash/internal/analytics"
	"momodash/internal/core"
	"momodash/internal/services"
)

const (
	defaultPageSize = 25
	maxPageSize     = 500
)

var ErrInvalidCriteria = errors.New("invalid filter")

// ParseCriteria reads start, end, province, district, type, status and
// channel from q. Status values are matched case-insensitively; unknown
// ones are kept as given so the status filter selects nothing rather than
// everything.
func ParseCriteria(q url.Values) (analytics.Criteria, error) {
	c := analytics.Criteria{
		Provinces: splitValues(q["province"]),
		Districts: splitValues(q["district"]),
		Types:     splitValues(q["type"]),
		Channels:  splitValues(q["channel"]),
	}
	var err error
	if c.Start, err = parseDateParam(q, "start"); err != nil {
		return analytics.Criteria{}, err
	}
	if c.End, err = parseDateParam(q, "end"); err != nil {
		return analytics.Criteria{}, err
	}
	for _, v := range splitValues(q["status"]) {
		st, err := core.ParseStatus(v)
		if err != nil {
			st = core.Status(v)
		}
		c.Statuses = append(c.Statuses, st)
	}
	return c, nil
}

func parseDateParam(q url.Values, key string) (core.Date, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", ErrInvalidCriteria, key, raw)
	}
	return d, nil
}

// criteria parses the request's filter, answering 400 itself when the
// filter is malformed.
func criteria(w http.ResponseWriter, r *http.Request) (analytics.Criteria, bool) {
	c, err := ParseCriteria(r.URL.Query())
	if err != nil {
		ErrorJSON(http.StatusBadRequest, err.Error()).Write(w)
		return c, false
	}
	return c, true
}

// ParseTableQuery reads page, page_size, sort and order from q.
func ParseTableQuery(q url.Values) services.TableQuery {
	tq := services.TableQuery{
		Page:     1,
		PageSize: defaultPageSize,
		Sort:     analytics.ParseSortField(q.Get("sort")),
		Desc:     strings.EqualFold(strings.TrimSpace(q.Get("order")), "desc"),
	}
	if p, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil && p > 0 {
		tq.Page = p
	}
	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("page_size"))); err == nil && n > 0 {
		tq.PageSize = min(n, maxPageSize)
	}
	return tq
}

// ParseLiveInterval accepts a Go duration ("30s", "1m") or a bare number of
// seconds. Empty, "off", zero and garbage turn live refresh off; anything
// shorter than floor is raised to floor.
func ParseLiveInterval(s string, floor time.Duration) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "off" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		secs, convErr := strconv.Atoi(s)
		if convErr != nil {
			return 0, false
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return 0, false
	}
	return max(d, floor), true
}
