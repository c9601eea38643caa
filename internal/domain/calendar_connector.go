package domain

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPCalendarConnector reads freebusy from the calendar provider and books
// events there. Slot proposal is computed locally from the freebusy data so
// every proposed slot is inside business hours in the recipient's timezone.
type HTTPCalendarConnector struct {
	client    *httpClient
	calendars []string
	now       func() time.Time
}

func NewHTTPCalendarConnector(baseURL, apiKey string, calendars []string) *HTTPCalendarConnector {
	return &HTTPCalendarConnector{
		client:    newHTTPClient(baseURL, apiKey),
		calendars: calendars,
		now:       time.Now,
	}
}

func (c *HTTPCalendarConnector) FreeBusy(ctx context.Context, rng TimeRange, calendars []string) ([]TimeRange, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	payload := map[string]interface{}{
		"start":     rng.Start.UTC().Format(time.RFC3339),
		"end":       rng.End.UTC().Format(time.RFC3339),
		"calendars": calendars,
	}
	body, err := c.client.doJSON(ctx, http.MethodPost, "/freebusy", payload)
	if err != nil {
		return nil, err
	}

	var busy []TimeRange
	for _, item := range gjson.GetBytes(body, "busy").Array() {
		start, startErr := time.Parse(time.RFC3339, item.Get("start").String())
		end, endErr := time.Parse(time.RFC3339, item.Get("end").String())
		if startErr != nil || endErr != nil {
			return nil, NewConnectorError(ConnectorErrPermanent, "freebusy returned unparseable interval", nil)
		}
		busy = append(busy, TimeRange{Start: start, End: end})
	}
	return busy, nil
}

func (c *HTTPCalendarConnector) ProposeSlots(ctx context.Context, req SlotRequest) ([]TimeRange, error) {
	if req.Duration <= 0 {
		return nil, NewValidationError("slot duration must be positive")
	}
	location, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return nil, NewValidationError("unknown timezone: " + req.Timezone)
	}

	searchStart := c.now().In(location).AddDate(0, 0, req.MinLeadDays)
	searchEnd := c.now().In(location).AddDate(0, 0, req.MaxLeadDays+1)

	busy, err := c.FreeBusy(ctx, TimeRange{Start: searchStart, End: searchEnd}, c.calendars)
	if err != nil {
		return nil, err
	}

	return ProposeBusinessSlots(searchStart, searchEnd, busy, req), nil
}

func (c *HTTPCalendarConnector) CreateEvent(ctx context.Context, event CalendarEvent) (string, error) {
	payload := map[string]interface{}{
		"title":     event.Title,
		"start":     event.Start.UTC().Format(time.RFC3339),
		"end":       event.End.UTC().Format(time.RFC3339),
		"attendees": event.Attendees,
	}
	body, err := c.client.doJSON(ctx, http.MethodPost, "/events", payload)
	if err != nil {
		return "", err
	}
	eventID := gjson.GetBytes(body, "id").String()
	if eventID == "" {
		return "", NewConnectorError(ConnectorErrPermanent, "calendar returned no event id", nil)
	}
	return eventID, nil
}

// ProposeBusinessSlots walks the window half hour by half hour and keeps
// slots that fit inside business hours on weekdays and do not overlap any
// busy interval. Pure so it is testable without a provider.
func ProposeBusinessSlots(searchStart, searchEnd time.Time, busy []TimeRange, req SlotRequest) []TimeRange {
	count := req.Count
	if count <= 0 {
		count = 3
	}
	businessStart := req.BusinessStart
	businessEnd := req.BusinessEnd
	if businessStart == 0 && businessEnd == 0 {
		businessStart, businessEnd = 9, 17
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	location := searchStart.Location()
	var slots []TimeRange

	// align to the next half hour boundary
	cursor := searchStart.Truncate(30 * time.Minute)
	if cursor.Before(searchStart) {
		cursor = cursor.Add(30 * time.Minute)
	}

	for cursor.Before(searchEnd) && len(slots) < count {
		local := cursor.In(location)
		weekday := local.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			cursor = startOfNextDay(local, businessStart)
			continue
		}
		if local.Hour() < businessStart {
			cursor = time.Date(local.Year(), local.Month(), local.Day(), businessStart, 0, 0, 0, location)
			continue
		}

		slotEnd := cursor.Add(req.Duration)
		dayEnd := time.Date(local.Year(), local.Month(), local.Day(), businessEnd, 0, 0, 0, location)
		if slotEnd.After(dayEnd) {
			cursor = startOfNextDay(local, businessStart)
			continue
		}

		if overlapsAny(TimeRange{Start: cursor, End: slotEnd}, busy) {
			cursor = cursor.Add(30 * time.Minute)
			continue
		}

		slots = append(slots, TimeRange{Start: cursor, End: slotEnd})
		// spread proposals across the day
		cursor = cursor.Add(2 * time.Hour)
	}

	return slots
}

func startOfNextDay(local time.Time, businessStart int) time.Time {
	next := local.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), businessStart, 0, 0, 0, local.Location())
}

func overlapsAny(slot TimeRange, busy []TimeRange) bool {
	for _, interval := range busy {
		if slot.Start.Before(interval.End) && interval.Start.Before(slot.End) {
			return true
		}
	}
	return false
}
