package ruleset

import (
	"errors"
	"fmt"

	"github.com/eizengan/reforge"
	"github.com/eizengan/reforge/internal/diagnostic"
)

var ErrInvalidRules = errors.New("rule file is invalid")

// Rule converts d into a reforge.Rule, resolving functions in reg.
func (d *RuleDef) Rule(reg *FuncRegistry) (reforge.Rule, error) {
	path, err := d.Path.Resolve()
	if err != nil {
		return reforge.Rule{}, fmt.Errorf("path: %w", err)
	}

	from, err := d.From.Spec(reg)
	if err != nil {
		return reforge.Rule{}, fmt.Errorf("from: %w", err)
	}

	memo, err := d.Memoize.Spec(reg)
	if err != nil {
		return reforge.Rule{}, err
	}

	return reforge.Rule{
		Path:    path.Values(),
		From:    from,
		Memoize: memo,
	}, nil
}

// Rules converts every rule of the file, in order.
func (rf *RuleFile) Rules(reg *FuncRegistry) ([]reforge.Rule, error) {
	rules := make([]reforge.Rule, 0, len(rf.Rules))

	for i := range rf.Rules {
		r, err := rf.Rules[i].Rule(reg)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}

		rules = append(rules, r)
	}

	return rules, nil
}

// Compile validates rf and compiles it. Validation failures are returned
// together with the diagnostics so callers can print them.
func Compile(rf *RuleFile, reg *FuncRegistry, opts ...reforge.Option) (*reforge.Transformation, *diagnostic.Diagnostics, error) {
	diags := Validate(rf, reg)
	if diags.HasErrors() {
		return nil, diags, fmt.Errorf("%w: %w", ErrInvalidRules, diags.Error())
	}

	rules, err := rf.Rules(reg)
	if err != nil {
		return nil, diags, err
	}

	t, err := reforge.Compile(rules, opts...)
	if err != nil {
		return nil, diags, err
	}

	return t, diags, nil
}
