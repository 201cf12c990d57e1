// Package shiftpolicy chooses the shift applied to each word.
package shiftpolicy

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/verte-zerg/shiftcrack/internal/model"
)

var (
	// ErrMissingSequence is returned when sequence mode has no shifts to draw from.
	ErrMissingSequence = errors.New("sequence mode requires a non-empty shift sequence")
	// ErrUnknownShiftMode is returned for unrecognized mode names.
	ErrUnknownShiftMode = errors.New("unknown shift mode")
)

// Params configures a Policy.
type Params struct {
	Mode        model.ShiftMode
	FixedShift  int
	Seed        int64
	Sequence    []int
	AlphabetLen int
}

// Policy hands out per-word shifts in token order.
type Policy struct {
	params Params
	rnd    *rand.Rand
	count  int
}

// New validates params and returns a Policy positioned before the first word.
func New(params Params) (*Policy, error) {
	p := &Policy{params: params}
	switch params.Mode {
	case model.ShiftFixed:
	case model.ShiftRandom:
		p.rnd = rand.New(rand.NewSource(params.Seed))
	case model.ShiftSequence:
		if len(params.Sequence) == 0 {
			return nil, ErrMissingSequence
		}
		p.params.Sequence = append([]int(nil), params.Sequence...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShiftMode, params.Mode)
	}
	return p, nil
}

// Mode returns the configured mode.
func (p *Policy) Mode() model.ShiftMode {
	return p.params.Mode
}

// Next returns the assignment for the next alphabetic token.
func (p *Policy) Next() model.WordShiftAssignment {
	var shift int
	switch p.params.Mode {
	case model.ShiftFixed:
		shift = p.params.FixedShift
	case model.ShiftRandom:
		shift = p.randomShift()
	case model.ShiftSequence:
		seq := p.params.Sequence
		shift = seq[p.count%len(seq)]
	}
	p.count++
	return model.WordShiftAssignment{WordIndex: p.count, Shift: shift, Mode: p.params.Mode}
}

// randomShift draws from [1, AlphabetLen-1]; the generator advances once per call.
func (p *Policy) randomShift() int {
	span := p.params.AlphabetLen - 1
	if span <= 0 {
		p.rnd.Int63()
		return 0
	}
	return 1 + p.rnd.Intn(span)
}

// Header describes the policy in the first line of a word shift log.
func (p *Policy) Header() string {
	switch p.params.Mode {
	case model.ShiftRandom:
		return fmt.Sprintf("[wordShiftMode=random] seed=%d (shift chosen per word)", p.params.Seed)
	case model.ShiftSequence:
		return fmt.Sprintf("[wordShiftMode=sequence] sequence=%s", FormatSequence(p.params.Sequence))
	default:
		return fmt.Sprintf("[wordShiftMode=same] shift=%d", p.params.FixedShift)
	}
}

// ParseMode maps a user-supplied name to a ShiftMode. "same" is accepted for fixed.
func ParseMode(s string) (model.ShiftMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "same":
		return model.ShiftFixed, nil
	case "random":
		return model.ShiftRandom, nil
	case "sequence":
		return model.ShiftSequence, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownShiftMode, s)
	}
}

// ParseSequence parses a comma-separated list such as "1,5,13,2".
// Blank input yields a nil slice.
func ParseSequence(s string) ([]int, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	var shifts []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid shift %q, enter values like: 1,4,8,19", part)
		}
		shifts = append(shifts, v)
	}
	return shifts, nil
}

// FormatSequence renders shifts in the same comma-separated form ParseSequence reads.
func FormatSequence(shifts []int) string {
	parts := make([]string, len(shifts))
	for i, v := range shifts {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
