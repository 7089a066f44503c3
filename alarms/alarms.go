// Package alarms lists and replaces price alarms.
package alarms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SoerenFox/pytr-Modified/utils"
	"github.com/SoerenFox/pytr-Modified/utils/log"
	"github.com/buger/jsonparser"
)

// API is the alarm subset of the client.
type API interface {
	PriceAlarms(ctx context.Context) (json.RawMessage, error)
	CreatePriceAlarm(ctx context.Context, isin string, target float64) (json.RawMessage, error)
	CancelPriceAlarm(ctx context.Context, id string) (json.RawMessage, error)
	InstrumentDetails(ctx context.Context, isin string) (json.RawMessage, error)
}

// Alarm is one configured price alarm.
type Alarm struct {
	ID        string  `json:"id"`
	ISIN      string  `json:"instrumentId"`
	Name      string  `json:"name,omitempty"`
	Target    float64 `json:"targetPrice"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// List fetches the alarms, optionally restricted to the given ISINs,
// with instrument names resolved.
func List(ctx context.Context, api API, isins []string) ([]Alarm, error) {
	resp, err := api.PriceAlarms(ctx)
	if err != nil {
		return nil, err
	}
	wanted := map[string]bool{}
	for _, isin := range isins {
		wanted[strings.ToUpper(isin)] = true
	}

	var alarms []Alarm
	_, err = jsonparser.ArrayEach(resp, func(item []byte, _ jsonparser.ValueType, _ int, _ error) {
		a := Alarm{
			ID:        utils.JSONString(item, "id"),
			ISIN:      utils.JSONString(item, "instrumentId"),
			Target:    utils.JSONFloat(item, "targetPrice"),
			Status:    utils.JSONString(item, "status"),
			CreatedAt: utils.JSONString(item, "createdAt"),
		}
		if len(wanted) > 0 && !wanted[a.ISIN] {
			return
		}
		alarms = append(alarms, a)
	})
	if err != nil {
		return nil, fmt.Errorf("parse price alarms: %w", err)
	}

	names := map[string]string{}
	for i := range alarms {
		isin := alarms[i].ISIN
		if _, ok := names[isin]; !ok {
			details, err := api.InstrumentDetails(ctx, isin)
			if err != nil {
				log.Warn("cannot resolve %s: %v", isin, err)
				names[isin] = ""
			} else {
				names[isin] = utils.JSONString(details, "shortName")
			}
		}
		alarms[i].Name = names[isin]
	}
	return alarms, nil
}

// Print writes the alarms as indented JSON.
func Print(w io.Writer, alarms []Alarm) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(alarms)
}

// Line is one parsed "ISIN target..." input line.
type Line struct {
	ISIN    string
	Targets []float64
}

// ParseLine parses an input line of the form "<ISIN> <price> ...".
func ParseLine(s string) (Line, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Line{}, fmt.Errorf("line %q needs an ISIN and at least one target price", s)
	}
	l := Line{ISIN: strings.ToUpper(fields[0])}
	if len(l.ISIN) != 12 {
		return Line{}, fmt.Errorf("%q does not look like an ISIN", fields[0])
	}
	for _, f := range fields[1:] {
		target, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64)
		if err != nil {
			return Line{}, fmt.Errorf("bad target price %q: %w", f, err)
		}
		l.Targets = append(l.Targets, target)
	}
	return l, nil
}

// Set creates the alarms given as input lines. With removeCurrent,
// existing alarms of each touched instrument are cancelled first.
func Set(ctx context.Context, api API, lines []Line, removeCurrent bool) error {
	if removeCurrent {
		existing, err := List(ctx, api, nil)
		if err != nil {
			return err
		}
		touched := map[string]bool{}
		for _, l := range lines {
			touched[l.ISIN] = true
		}
		for _, a := range existing {
			if !touched[a.ISIN] {
				continue
			}
			if _, err := api.CancelPriceAlarm(ctx, a.ID); err != nil {
				return fmt.Errorf("cancel alarm %s: %w", a.ID, err)
			}
			log.Info("cancelled alarm %s for %s", a.ID, a.ISIN)
		}
	}
	for _, l := range lines {
		for _, target := range l.Targets {
			if _, err := api.CreatePriceAlarm(ctx, l.ISIN, target); err != nil {
				return fmt.Errorf("create alarm for %s: %w", l.ISIN, err)
			}
			log.Info("created alarm for %s at %g", l.ISIN, target)
		}
	}
	return nil
}
