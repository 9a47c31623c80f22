package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// looseNumber decodes a JSON number, a numeric string or null. Postgres
// NUMERIC and BIGINT columns often reach the webhook answer as strings.
type looseNumber struct {
	v *float64
}

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		n.v = nil
		return nil
	}
	text := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			n.v = nil
			return nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("decode number %s: %w", b, err)
	}
	n.v = &f
	return nil
}

func (n looseNumber) float() float64 {
	if n.v == nil {
		return 0
	}
	return *n.v
}

func (n looseNumber) id() int64 { return int64(n.float()) }

// UnmarshalJSON accepts numeric strings for the id and every price field.
func (it *Item) UnmarshalJSON(b []byte) error {
	type plain Item
	aux := struct {
		*plain
		ID            looseNumber `json:"id"`
		TargetPrice   looseNumber `json:"target_price"`
		MarketPrice   looseNumber `json:"market_price"`
		SavingsDaily  looseNumber `json:"savings_daily"`
		SavingsWeekly looseNumber `json:"savings_weekly"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	it.ID = aux.ID.id()
	it.TargetPrice = aux.TargetPrice.float()
	it.MarketPrice = aux.MarketPrice.v
	it.SavingsDaily = aux.SavingsDaily.v
	it.SavingsWeekly = aux.SavingsWeekly.v
	return nil
}

// UnmarshalJSON accepts a numeric string for the estimated price.
func (a *Alternative) UnmarshalJSON(b []byte) error {
	type plain Alternative
	aux := struct {
		*plain
		EstimatedPrice looseNumber `json:"estimated_price"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	a.EstimatedPrice = aux.EstimatedPrice.v
	return nil
}

func (bd *Board) UnmarshalJSON(b []byte) error {
	type plain Board
	aux := struct {
		*plain
		ID looseNumber `json:"id"`
	}{plain: (*plain)(bd)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	bd.ID = aux.ID.id()
	return nil
}

func (m *Membership) UnmarshalJSON(b []byte) error {
	type plain Membership
	aux := struct {
		*plain
		ID looseNumber `json:"id"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.ID = aux.ID.id()
	return nil
}
