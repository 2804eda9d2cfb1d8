package comparison

import (
	"fmt"
	"strings"
)

// Verdict is the categorical agreement rating of a validation run. Higher
// values mean better agreement.
type Verdict int

const (
	Poor Verdict = iota
	Moderate
	Good
	Excellent
)

// Verdict thresholds on the aggregate correlation and NRMSE (percent).
const (
	ExcellentMinCorrelation = 0.98
	ExcellentMaxNRMSE       = 5.0
	GoodMinCorrelation      = 0.95
	GoodMaxNRMSE            = 10.0
	ModerateMinCorrelation  = 0.90
)

// Classify applies the verdict rules in order; the first match wins.
func Classify(correlation, nrmsePercent float64) Verdict {
	switch {
	case correlation >= ExcellentMinCorrelation && nrmsePercent <= ExcellentMaxNRMSE:
		return Excellent
	case correlation >= GoodMinCorrelation && nrmsePercent <= GoodMaxNRMSE:
		return Good
	case correlation >= ModerateMinCorrelation:
		return Moderate
	}
	return Poor
}

// String returns the verdict token.
func (v Verdict) String() string {
	switch v {
	case Excellent:
		return "EXCELLENT"
	case Good:
		return "GOOD"
	case Moderate:
		return "MODERATE"
	case Poor:
		return "POOR"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Guidance returns the fixed sentence that accompanies the verdict.
func (v Verdict) Guidance() string {
	switch v {
	case Excellent:
		return "the candidate practically matches the reference."
	case Good:
		return "differences are small, the result is valid."
	case Moderate:
		return "noticeable differences, check the filter parameters."
	default:
		return "strong differences, filtering or input data is likely wrong."
	}
}

// Line renders "TOKEN: guidance".
func (v Verdict) Line() string {
	return v.String() + ": " + v.Guidance()
}

// AtLeast reports whether v is as good as or better than min.
func (v Verdict) AtLeast(min Verdict) bool { return v >= min }

// ParseVerdict parses a verdict token, case-insensitively.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EXCELLENT":
		return Excellent, nil
	case "GOOD":
		return Good, nil
	case "MODERATE":
		return Moderate, nil
	case "POOR":
		return Poor, nil
	}
	return Poor, fmt.Errorf("unknown verdict %q (want EXCELLENT, GOOD, MODERATE or POOR)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(b []byte) error {
	parsed, err := ParseVerdict(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
