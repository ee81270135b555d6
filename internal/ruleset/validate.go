package ruleset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eizengan/reforge/internal/diagnostic"
	"github.com/eizengan/reforge/internal/match"
	"github.com/eizengan/reforge/transform"
	"github.com/eizengan/reforge/tree"
)

// SupportedVersion is the only rule file schema version.
const SupportedVersion = "1"

// maxSuggestions bounds the "did you mean" list of unknown functions.
const maxSuggestions = 3

// Validate checks a rule file against the function registry. It reports
// every problem it finds rather than stopping at the first one; path
// conflicts are found by attaching the rules to a scratch tree in order.
func Validate(rf *RuleFile, reg *FuncRegistry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if rf == nil {
		res.AddError("rule_file_is_nil", "rule file is nil", "", "")
		return res
	}

	if reg == nil {
		res.AddError("registry_is_nil", "function registry is nil", "", "")
		return res
	}

	if rf.Version != SupportedVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported version %q (expected %q)", rf.Version, SupportedVersion), "", "")
	}

	if len(rf.Rules) == 0 {
		res.AddWarning("no_rules", "rule file declares no rules", "", "")
		return res
	}

	scratch := tree.New()

	for i := range rf.Rules {
		validateRule(res, scratch, reg, i, &rf.Rules[i])
	}

	return res
}

func validateRule(res *diagnostic.Diagnostics, scratch *tree.Tree, reg *FuncRegistry, index int, r *RuleDef) {
	ruleID := fmt.Sprintf("rule %d", index)
	pathStr := r.Path.String()

	path, pathErr := r.Path.Resolve()
	if pathErr != nil {
		res.AddError("invalid_path", fmt.Sprintf("invalid path: %v", pathErr), ruleID, pathStr)
	}

	fromOK := validateFrom(res, reg, ruleID, pathStr, "from", &r.From)

	memoOK := true
	if r.Memoize.By != nil {
		memoOK = validateFrom(res, reg, ruleID, pathStr, "memoize.by", r.Memoize.By)
	}

	if fromOK && memoOK {
		validateTransform(res, reg, ruleID, pathStr, r)
	}

	if pathErr != nil {
		return
	}

	if err := scratch.Attach(path, noop); err != nil {
		var (
			redef    *tree.NodeRedefinitionError
			mismatch *tree.PathTypeError
		)

		switch {
		case errors.As(err, &redef):
			res.AddError("path_conflict", err.Error(), ruleID, pathStr)
		case errors.As(err, &mismatch):
			res.AddError("path_type_mismatch", err.Error(), ruleID, pathStr)
		default:
			res.AddError("invalid_path", err.Error(), ruleID, pathStr)
		}
	}

	if r.Memoize.First && r.From.Func == "" {
		res.AddInfo("memoize_first_constant",
			"memoize first on a non-function from caches the value of the first source", ruleID, pathStr)
	}
}

// validateFrom checks the structure of f and reports whether it is sound
// enough to build a transform from.
func validateFrom(res *diagnostic.Diagnostics, reg *FuncRegistry, ruleID, pathStr, where string, f *FromDef) bool {
	shapes := f.Shapes()

	switch len(shapes) {
	case 0:
		res.AddError("missing_shape", where+" must set one of func, attribute, key or value", ruleID, pathStr)
		return false
	case 1:
	default:
		res.AddError("multiple_shapes",
			fmt.Sprintf("%s sets %s; choose exactly one", where, strings.Join(shapes, ", ")), ruleID, pathStr)

		return false
	}

	ok := true

	switch shapes[0] {
	case shapeFunc:
		if f.Func == "" {
			res.AddError("empty_func", where+" func name is empty", ruleID, pathStr)
			ok = false
		} else if !reg.Has(f.Func) {
			res.AddErrorWithSuggestions("unknown_func",
				fmt.Sprintf("%s uses unknown function %q", where, f.Func), ruleID, pathStr,
				match.Suggest(f.Func, reg.Names(), maxSuggestions))

			ok = false
		}

		if f.PropagateNil {
			res.AddError("invalid_propagate_nil",
				where+" propagate_nil applies to attribute and key chains only", ruleID, pathStr)

			ok = false
		}

		if f.Input != nil && !validateFrom(res, reg, ruleID, pathStr, where+".input", f.Input) {
			ok = false
		}

	case shapeAttribute, shapeKey:
		if f.Attribute.IsEmpty() && f.Key.IsEmpty() {
			res.AddError("empty_chain", fmt.Sprintf("%s %s must name at least one step", where, shapes[0]), ruleID, pathStr)
			ok = false
		}

		fallthrough

	case shapeValue:
		if f.Input != nil {
			res.AddError("input_without_func", where+" input is only allowed with func", ruleID, pathStr)
			ok = false
		}

		if shapes[0] == shapeValue && f.PropagateNil {
			res.AddError("invalid_propagate_nil",
				where+" propagate_nil applies to attribute and key chains only", ruleID, pathStr)

			ok = false
		}
	}

	return ok
}

// validateTransform builds the rule's transform to catch what only
// construction can tell, such as an input given to a zero-argument function.
func validateTransform(res *diagnostic.Diagnostics, reg *FuncRegistry, ruleID, pathStr string, r *RuleDef) {
	spec, err := r.From.Spec(reg)
	if err != nil {
		res.AddError("invalid_transform", err.Error(), ruleID, pathStr)
		return
	}

	memo, err := r.Memoize.Spec(reg)
	if err != nil {
		res.AddError("invalid_memoize", err.Error(), ruleID, pathStr)
		return
	}

	if _, err := transform.New(spec, memo); err != nil {
		code := "invalid_transform"

		var ce *transform.ConfigurationError
		if errors.As(err, &ce) && strings.HasPrefix(ce.Option, "memoize") {
			code = "invalid_memoize"
		}

		res.AddError(code, err.Error(), ruleID, pathStr)
	}
}

var noop = tree.EvaluatorFunc(func(any) (any, error) { return nil, nil })
