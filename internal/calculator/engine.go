package calculator

import (
	"errors"
	"fmt"

	"StockLens/internal/model"
)

// Default indicator parameters.
const (
	DefaultSMAShort        = 20
	DefaultSMALong         = 50
	DefaultEMAPeriod       = 20
	DefaultRSIPeriod       = 14
	DefaultMACDFast        = 12
	DefaultMACDSlow        = 26
	DefaultMACDSignal      = 9
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0
)

// Params selects the windows of every indicator Compute produces.
type Params struct {
	SMAWindows      []int   `yaml:"sma_windows"`
	EMAWindows      []int   `yaml:"ema_windows"`
	RSIPeriod       int     `yaml:"rsi_period"`
	MACDFast        int     `yaml:"macd_fast"`
	MACDSlow        int     `yaml:"macd_slow"`
	MACDSignal      int     `yaml:"macd_signal"`
	BollingerPeriod int     `yaml:"bollinger_period"`
	BollingerK      float64 `yaml:"bollinger_k"`
}

// DefaultParams returns SMA 20/50, EMA 20, RSI 14, MACD 12/26/9 and Bollinger 20/2.
func DefaultParams() Params {
	return Params{
		SMAWindows:      []int{DefaultSMAShort, DefaultSMALong},
		EMAWindows:      []int{DefaultEMAPeriod},
		RSIPeriod:       DefaultRSIPeriod,
		MACDFast:        DefaultMACDFast,
		MACDSlow:        DefaultMACDSlow,
		MACDSignal:      DefaultMACDSignal,
		BollingerPeriod: DefaultBollingerPeriod,
		BollingerK:      DefaultBollingerK,
	}
}

// Validate checks that every window is positive and unique, and MACD fast < slow.
func (p Params) Validate() error {
	if err := validateWindows("sma", p.SMAWindows); err != nil {
		return err
	}
	if err := validateWindows("ema", p.EMAWindows); err != nil {
		return err
	}
	if p.RSIPeriod <= 0 {
		return errors.New("rsi period must be positive")
	}
	if p.MACDFast <= 0 || p.MACDSlow <= 0 || p.MACDSignal <= 0 {
		return errors.New("macd periods must be positive")
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("macd fast period %d must be below slow period %d", p.MACDFast, p.MACDSlow)
	}
	if p.BollingerPeriod <= 0 {
		return errors.New("bollinger period must be positive")
	}
	if p.BollingerK <= 0 {
		return errors.New("bollinger k must be positive")
	}
	return nil
}

// validateWindows rejects non-positive windows and repeats; a repeated
// window would emit two lines under one indicator name.
func validateWindows(kind string, windows []int) error {
	seen := make(map[int]bool, len(windows))
	for _, w := range windows {
		if w <= 0 {
			return fmt.Errorf("%s window %d must be positive", kind, w)
		}
		if seen[w] {
			return fmt.Errorf("%s window %d is listed twice", kind, w)
		}
		seen[w] = true
	}
	return nil
}

// SMAName returns the indicator key of an SMA window, e.g. "sma_20".
func SMAName(window int) string { return fmt.Sprintf("sma_%d", window) }

// EMAName returns the indicator key of an EMA window, e.g. "ema_20".
func EMAName(window int) string { return fmt.Sprintf("ema_%d", window) }

// Compute derives every configured indicator from bars. The bars are not
// modified; each returned line has len(bars) entries.
func Compute(bars []model.Bar, p Params) model.IndicatorSet {
	closes := model.Closes(bars)
	set := make(model.IndicatorSet, 0, len(p.SMAWindows)+len(p.EMAWindows)+7)

	for _, w := range p.SMAWindows {
		set = append(set, model.NamedLine{Name: SMAName(w), Line: SMA(closes, w)})
	}
	for _, w := range p.EMAWindows {
		set = append(set, model.NamedLine{Name: EMAName(w), Line: EMA(closes, w)})
	}

	set = append(set, model.NamedLine{Name: model.IndicatorRSI, Line: RSI(closes, p.RSIPeriod)})

	macd := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	set = append(set,
		model.NamedLine{Name: model.IndicatorMACD, Line: macd.MACD},
		model.NamedLine{Name: model.IndicatorMACDSignal, Line: macd.Signal},
		model.NamedLine{Name: model.IndicatorMACDHistogram, Line: macd.Histogram},
	)

	bb := Bollinger(closes, p.BollingerPeriod, p.BollingerK)
	set = append(set,
		model.NamedLine{Name: model.IndicatorBBUpper, Line: bb.Upper},
		model.NamedLine{Name: model.IndicatorBBMiddle, Line: bb.Middle},
		model.NamedLine{Name: model.IndicatorBBLower, Line: bb.Lower},
	)
	return set
}
