package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/okian/xgmap/internal/domain/geometry"
)

// params reads optional query values, keeping the first parse error.
type params struct {
	q   url.Values
	err error
}

func newParams(q url.Values) *params { return &params{q: q} }

// float overwrites *dst when name is present.
func (p *params) float(name string, dst *float64) {
	raw := p.q.Get(name)
	if raw == "" || p.err != nil {
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = fmt.Errorf("%w: %s must be a finite number", ErrBadRequest, name)
		return
	}
	*dst = v
}

// int overwrites *dst when name is present.
func (p *params) int(name string, dst *int) {
	raw := p.q.Get(name)
	if raw == "" || p.err != nil {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.err = fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
		return
	}
	*dst = v
}

func (p *params) int64(name string, dst *int64) {
	raw := p.q.Get(name)
	if raw == "" || p.err != nil {
		return
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
		return
	}
	*dst = v
}

// required marks name as mandatory.
func (p *params) required(names ...string) {
	for _, name := range names {
		if p.err == nil && p.q.Get(name) == "" {
			p.err = fmt.Errorf("%w: missing %s", ErrBadRequest, name)
		}
	}
}

// position reads the mandatory x and y values.
func (p *params) position() geometry.FieldPosition {
	var pos geometry.FieldPosition
	p.required("x", "y")
	p.float("x", &pos.X)
	p.float("y", &pos.Y)
	return pos
}
