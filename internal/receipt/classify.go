package receipt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caixa-dev/caixa/internal/model"
)

// Scoring holds the weights and thresholds of the payment classifier. The
// defaults are empirical; the ceiling approximates the sum of every capped group.
type Scoring struct {
	StrongWeight     float64 `yaml:"strong_weight"`
	StrongCap        int     `yaml:"strong_cap"`
	ValueWeight      float64 `yaml:"value_weight"`
	ValueCap         int     `yaml:"value_cap"`
	AmountWeight     float64 `yaml:"amount_weight"`
	AmountCap        int     `yaml:"amount_cap"`
	DateWeight       float64 `yaml:"date_weight"`
	Ceiling          float64 `yaml:"ceiling"`
	PaymentThreshold float64 `yaml:"payment_threshold"`
	StrongThreshold  float64 `yaml:"strong_threshold"`
}

// DefaultScoring returns the stock classifier settings.
func DefaultScoring() Scoring {
	return Scoring{
		StrongWeight:     1.5,
		StrongCap:        6,
		ValueWeight:      2.0,
		ValueCap:         3,
		AmountWeight:     1.0,
		AmountCap:        4,
		DateWeight:       1.5,
		Ceiling:          15.0,
		PaymentThreshold: 0.35,
		StrongThreshold:  0.7,
	}
}

// Validate checks that the settings describe a usable classifier.
func (s Scoring) Validate() error {
	var errs []error
	if s.Ceiling <= 0 {
		errs = append(errs, fmt.Errorf("ceiling must be positive, got %v", s.Ceiling))
	}
	if s.PaymentThreshold < 0 || s.PaymentThreshold > 1 {
		errs = append(errs, fmt.Errorf("payment threshold %v outside [0,1]", s.PaymentThreshold))
	}
	if s.StrongThreshold < s.PaymentThreshold || s.StrongThreshold > 1 {
		errs = append(errs, fmt.Errorf("strong threshold %v must be in [payment threshold, 1]", s.StrongThreshold))
	}
	if s.StrongCap < 0 || s.ValueCap < 0 || s.AmountCap < 0 {
		errs = append(errs, errors.New("caps must not be negative"))
	}
	return errors.Join(errs...)
}

// Classifier scores OCR text against receipt keywords and structural signals.
type Classifier struct {
	Scoring Scoring
}

// NewClassifier returns a Classifier with the given settings.
func NewClassifier(s Scoring) *Classifier {
	return &Classifier{Scoring: s}
}

// Classify scores a parsed receipt with the default settings.
func Classify(parsed model.Receipt) model.Verdict {
	return NewClassifier(DefaultScoring()).Classify(parsed)
}

// Classify decides whether parsed looks like a payment receipt. Reasons lists
// every keyword and signal that contributed to the score.
func (c *Classifier) Classify(parsed model.Receipt) model.Verdict {
	text := strings.ToLower(parsed.Text)
	if strings.TrimSpace(text) == "" {
		return model.Verdict{Reasons: []string{"empty_text"}}
	}

	s := c.Scoring
	var reasons []string
	score := 0.0

	strong := 0
	for _, k := range strongKeywords {
		if strings.Contains(text, k) {
			strong++
			reasons = append(reasons, "kw:"+k)
		}
	}
	score += float64(min(strong, s.StrongCap)) * s.StrongWeight

	value := 0
	for _, k := range valueKeywords {
		if strings.Contains(text, k) {
			value++
			reasons = append(reasons, "valkw:"+k)
		}
	}
	score += float64(min(value, s.ValueCap)) * s.ValueWeight

	if n := len(parsed.Values); n > 0 {
		reasons = append(reasons, fmt.Sprintf("values_count:%d", n))
		score += float64(min(n, s.AmountCap)) * s.AmountWeight
	}

	if parsed.HasDate() {
		reasons = append(reasons, "has_date")
		score += s.DateWeight
	}

	norm := max(0.0, min(1.0, score/s.Ceiling))
	isPayment := norm >= s.PaymentThreshold

	return model.Verdict{
		IsPayment: isPayment,
		Score:     norm,
		Strong:    isPayment && norm >= s.StrongThreshold,
		Reasons:   reasons,
	}
}
