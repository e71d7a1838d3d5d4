package entity

import (
	"errors"
	"testing"
)

func TestParseTicker(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Ticker
		wantErr bool
	}{
		{"simple", "AAPL", "AAPL", false},
		{"lowercased input", "msft", "MSFT", false},
		{"surrounding whitespace", "  GOOG ", "GOOG", false},
		{"class share dot", "BRK.B", "BRK.B", false},
		{"hyphenated", "BRK-B", "BRK-B", false},
		{"digits", "3M1", "3M1", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", "ABCDEFGHIJKLM", "", true},
		{"invalid character", "AA$PL", "", true},
		{"space inside", "AA PL", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTicker(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTicker(%q) expected error, got %q", tt.raw, got)
				}
				if !errors.Is(err, ErrInvalidTicker) {
					t.Errorf("error should wrap ErrInvalidTicker, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTicker(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseTicker(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTickerInitial(t *testing.T) {
	if got := Ticker("AAPL").Initial(); got != "A" {
		t.Errorf("Initial() = %q, want A", got)
	}
	if got := Ticker("").Initial(); got != "?" {
		t.Errorf("Initial() on empty = %q, want ?", got)
	}
}

func TestSentiment(t *testing.T) {
	if ParseSentiment("Bullish") != SentimentBullish {
		t.Error("ParseSentiment should be case-insensitive")
	}
	if ParseSentiment("garbage") != SentimentNeutral {
		t.Error("unrecognized labels should be neutral")
	}
	if SentimentFromChange(1.2) != SentimentBullish {
		t.Error("positive change should be bullish")
	}
	if SentimentFromChange(-0.5) != SentimentBearish {
		t.Error("negative change should be bearish")
	}
	if SentimentFromChange(0) != SentimentNeutral {
		t.Error("zero change should be neutral")
	}
	if SentimentBullish.Label() != "Bullish" {
		t.Errorf("Label() = %q", SentimentBullish.Label())
	}
	if SentimentBearish.Glyph() != "↓" || SentimentBullish.Glyph() != "↑" || SentimentNeutral.Glyph() != "—" {
		t.Error("unexpected sentiment glyphs")
	}
}
