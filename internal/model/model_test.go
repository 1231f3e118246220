package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValueJSON(t *testing.T) {
	line := Line{None, Some(1.5), Some(100)}
	raw, err := json.Marshal(line)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(raw); got != "[null,1.5,100]" {
		t.Errorf("marshal = %s", got)
	}

	var back Line
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 3 || back[0].Valid || back[1] != Some(1.5) || back[2] != Some(100) {
		t.Errorf("unmarshal = %+v", back)
	}
}

func TestValueString(t *testing.T) {
	if None.String() != "n/a" {
		t.Errorf("None.String() = %q", None.String())
	}
	if Some(3.14159).String() != "3.14" {
		t.Errorf("Some.String() = %q", Some(3.14159).String())
	}
}

func TestLineHelpers(t *testing.T) {
	l := Line{None, None, Some(2)}
	if l.LeadingUndefined() != 2 {
		t.Errorf("LeadingUndefined = %d", l.LeadingUndefined())
	}
	if NewLine(4).LeadingUndefined() != 4 {
		t.Error("all-undefined line should report its length")
	}
	if l.Last() != Some(2) || (Line{}).Last().Valid {
		t.Error("Last mismatch")
	}
}

func TestIndicatorSet(t *testing.T) {
	set := IndicatorSet{{Name: "sma_20", Line: NewLine(1)}, {Name: IndicatorRSI, Line: Line{Some(50)}}}
	if got := set.Names(); len(got) != 2 || got[0] != "sma_20" || got[1] != "rsi" {
		t.Errorf("Names = %v", got)
	}
	if l, ok := set.Get(IndicatorRSI); !ok || l[0] != Some(50) {
		t.Error("Get rsi failed")
	}
	if _, ok := set.Get("macd"); ok {
		t.Error("Get should miss unknown names")
	}
}

func TestBarsHelpers(t *testing.T) {
	day := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	bars := []Bar{{Date: day, Close: 1}, {Date: day.AddDate(0, 0, 1), Close: 2}}
	if c := Closes(bars); c[0] != 1 || c[1] != 2 {
		t.Errorf("Closes = %v", c)
	}
	if d := Dates(bars); d[0] != "2024-02-29" || d[1] != "2024-03-01" {
		t.Errorf("Dates = %v", d)
	}
	a := &Analysis{}
	if a.LatestClose() != 0 {
		t.Error("empty analysis close should be 0")
	}
	a.Bars = bars
	if a.LatestClose() != 2 {
		t.Error("LatestClose mismatch")
	}
}
