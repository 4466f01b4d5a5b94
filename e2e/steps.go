package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"scad/pkg/domain"
)

const feedPageSize = 200

// feedEvent is the subset of the event feed wire shape the steps assert on.
type feedEvent struct {
	Sequence   int64          `json:"sequence"`
	Type       string         `json:"type"`
	Owner      domain.Address `json:"owner"`
	Identifier string         `json:"identifier"`
	Reader     domain.Address `json:"reader"`
	Granted    *bool          `json:"granted"`
}

type feedPage struct {
	Events    []feedEvent `json:"events"`
	NextAfter int64       `json:"next_after"`
}

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	steps := &ledgerSteps{tc: tc}

	// Background steps
	ctx.Step(`^the ledger is running$`, steps.ledgerIsRunning)

	// Registry steps
	ctx.Step(`^"([^"]*)" registers as (a person|an organization) with identifier "([^"]*)"$`, steps.register)
	ctx.Step(`^"([^"]*)" checks whether "([^"]*)" is registered$`, steps.checkRegistered)

	// Access steps
	ctx.Step(`^"([^"]*)" views their own record$`, steps.viewOwnRecord)
	ctx.Step(`^"([^"]*)" views the record of "([^"]*)"$`, steps.viewRecordOf)
	ctx.Step(`^an anonymous caller views their own record$`, steps.anonymousViewOwnRecord)

	// Consent steps
	ctx.Step(`^"([^"]*)" grants consent to "([^"]*)"$`, steps.grant)
	ctx.Step(`^"([^"]*)" revokes consent from "([^"]*)"$`, steps.revoke)
	ctx.Step(`^"([^"]*)" checks consent from "([^"]*)" to "([^"]*)"$`, steps.checkConsent)
	ctx.Step(`^"([^"]*)" lists their readers$`, steps.listReaders)

	// Event feed steps
	ctx.Step(`^"([^"]*)" reads the event feed$`, steps.readFeed)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the record field "([^"]*)" should equal "([^"]*)"$`, steps.recordFieldShouldEqual)
	ctx.Step(`^the error should be "([^"]*)"$`, steps.errorShouldBe)
	ctx.Step(`^the readers should be "([^"]*)"$`, steps.readersShouldBe)
	ctx.Step(`^the feed for "([^"]*)" should be:$`, steps.feedShouldBe)
	ctx.Step(`^the Registered event of "([^"]*)" should not show "([^"]*)"$`, steps.registeredEventMasked)
}

type ledgerSteps struct {
	tc   *TestContext
	feed []feedEvent
}

func (s *ledgerSteps) ledgerIsRunning(ctx context.Context) error {
	if err := s.tc.Do(ctx, http.MethodGet, "/health/live", nil, ""); err != nil {
		return err
	}
	return s.responseStatusShouldBe(ctx, http.StatusOK)
}

func (s *ledgerSteps) register(ctx context.Context, name, kind, id string) error {
	path := "/registry/person"
	if kind == "an organization" {
		path = "/registry/organization"
	}
	return s.tc.Do(ctx, http.MethodPost, path, map[string]string{"identifier": id}, name)
}

func (s *ledgerSteps) checkRegistered(ctx context.Context, caller, target string) error {
	return s.tc.Do(ctx, http.MethodGet, "/registry/"+s.tc.Identity(target).String()+"/status", nil, caller)
}

func (s *ledgerSteps) viewOwnRecord(ctx context.Context, name string) error {
	return s.tc.Do(ctx, http.MethodGet, "/registry/me", nil, name)
}

func (s *ledgerSteps) viewRecordOf(ctx context.Context, caller, owner string) error {
	return s.tc.Do(ctx, http.MethodGet, "/registry/"+s.tc.Identity(owner).String(), nil, caller)
}

func (s *ledgerSteps) anonymousViewOwnRecord(ctx context.Context) error {
	return s.tc.Do(ctx, http.MethodGet, "/registry/me", nil, "")
}

func (s *ledgerSteps) setConsent(ctx context.Context, owner, reader string, granted bool) error {
	return s.tc.Do(ctx, http.MethodPut, "/consents/"+s.tc.Identity(reader).String(),
		map[string]bool{"granted": granted}, owner)
}

func (s *ledgerSteps) grant(ctx context.Context, owner, reader string) error {
	return s.setConsent(ctx, owner, reader, true)
}

func (s *ledgerSteps) revoke(ctx context.Context, owner, reader string) error {
	return s.setConsent(ctx, owner, reader, false)
}

func (s *ledgerSteps) checkConsent(ctx context.Context, caller, owner, reader string) error {
	path := fmt.Sprintf("/consents/%s/%s", s.tc.Identity(owner), s.tc.Identity(reader))
	return s.tc.Do(ctx, http.MethodGet, path, nil, caller)
}

func (s *ledgerSteps) listReaders(ctx context.Context, owner string) error {
	return s.tc.Do(ctx, http.MethodGet, "/consents", nil, owner)
}

// readFeed pages through the whole feed so scenarios can run against a
// server that already holds events from earlier runs.
func (s *ledgerSteps) readFeed(ctx context.Context, viewer string) error {
	s.feed = nil
	var after int64
	for {
		q := url.Values{}
		q.Set("after", strconv.FormatInt(after, 10))
		q.Set("limit", strconv.Itoa(feedPageSize))
		if err := s.tc.Do(ctx, http.MethodGet, "/events?"+q.Encode(), nil, viewer); err != nil {
			return err
		}
		if err := s.responseStatusShouldBe(ctx, http.StatusOK); err != nil {
			return err
		}
		var page feedPage
		if err := s.tc.ResponseJSON(&page); err != nil {
			return err
		}
		if len(page.Events) == 0 {
			return nil
		}
		s.feed = append(s.feed, page.Events...)
		after = page.NextAfter
	}
}

func (s *ledgerSteps) responseStatusShouldBe(_ context.Context, expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d but got %d\nResponse: %s", expected, got, s.tc.LastResponseBody)
	}
	return nil
}

func (s *ledgerSteps) responseFieldShouldEqual(_ context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(value) != expected {
		return fmt.Errorf("field %s: expected %s but got %v", field, expected, value)
	}
	return nil
}

func (s *ledgerSteps) recordFieldShouldEqual(_ context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField("record")
	if err != nil {
		return err
	}
	record, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("record is %T, not an object", value)
	}
	if got := fmt.Sprint(record[field]); got != expected {
		return fmt.Errorf("record field %s: expected %s but got %s", field, expected, got)
	}
	return nil
}

func (s *ledgerSteps) errorShouldBe(ctx context.Context, code string) error {
	return s.responseFieldShouldEqual(ctx, "error", code)
}

func (s *ledgerSteps) readersShouldBe(_ context.Context, names string) error {
	var res struct {
		Readers []domain.Address `json:"readers"`
	}
	if err := s.tc.ResponseJSON(&res); err != nil {
		return err
	}
	var want []domain.Address
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			want = append(want, s.tc.Identity(name))
		}
	}
	slices.Sort(want)
	got := slices.Clone(res.Readers)
	slices.Sort(got)
	if !slices.Equal(got, want) {
		return fmt.Errorf("expected readers %v but got %v", want, got)
	}
	return nil
}

func (s *ledgerSteps) eventsOf(owner domain.Address) []feedEvent {
	var out []feedEvent
	for _, ev := range s.feed {
		if ev.Owner == owner {
			out = append(out, ev)
		}
	}
	return out
}

func (s *ledgerSteps) feedShouldBe(_ context.Context, name string, table *godog.Table) error {
	got := s.eventsOf(s.tc.Identity(name))
	rows := table.Rows[1:]
	if len(got) != len(rows) {
		return fmt.Errorf("expected %d events for %s but got %d", len(rows), name, len(got))
	}
	for i, row := range rows {
		ev := got[i]
		if i > 0 && ev.Sequence <= got[i-1].Sequence {
			return fmt.Errorf("event %d: sequence %d does not follow %d", i, ev.Sequence, got[i-1].Sequence)
		}
		typ, reader, granted := row.Cells[0].Value, row.Cells[1].Value, row.Cells[2].Value
		if ev.Type != typ {
			return fmt.Errorf("event %d: expected type %s but got %s", i, typ, ev.Type)
		}
		if reader != "" && ev.Reader != s.tc.Identity(reader) {
			return fmt.Errorf("event %d: expected reader %s but got %s", i, reader, ev.Reader)
		}
		if granted != "" {
			if ev.Granted == nil || strconv.FormatBool(*ev.Granted) != granted {
				return fmt.Errorf("event %d: expected granted %s", i, granted)
			}
		}
	}
	return nil
}

func (s *ledgerSteps) registeredEventMasked(_ context.Context, name, raw string) error {
	for _, ev := range s.eventsOf(s.tc.Identity(name)) {
		if ev.Type != "Registered" {
			continue
		}
		if ev.Identifier == "" || strings.Contains(ev.Identifier, raw) {
			return fmt.Errorf("identifier %q is not masked", ev.Identifier)
		}
		return nil
	}
	return fmt.Errorf("no Registered event for %s in the feed", name)
}
