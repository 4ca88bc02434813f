// Package executor implements the Scenario Executor (spec.md §4.6 C10),
// Constructor Compliance Executor (§4.7 C11), and Data Compliance
// Executor (§4.8 C12): the trio that invokes the subject under test with
// generated arguments and turns the outcome into AssertionRecords.
package executor

import (
	"fmt"

	"kontrakt/pkg/fixture"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/instancefactory"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/spec"
	"kontrakt/pkg/typedesc"
	"kontrakt/pkg/valuevalidator"
)

// RunUserScenario implements spec.md §4.6 "UserScenario": synthesise one
// argument per declared parameter, invoke the marked method, and map the
// outcome to an AssertionRecord.
func RunUserScenario(subject any, method instancefactory.EntryPoint, ctx *gencontext.Context, ectx *spec.EphemeralContext) spec.AssertionRecord {
	args, err := synthesizeArgs(method.Params, ctx)
	if err != nil {
		return recordFromSynthesisError(method.Name, err)
	}

	results, err := method.Invoke(subject, args)
	ectx.AppendTrace("user-scenario invoke", map[string]any{"method": method.Name, "args": args})
	if err != nil {
		return recordFromInvokeError(method.Name, err)
	}
	_ = results
	return spec.AssertionRecord{Status: spec.StatusPassed, Rule: method.Name, Location: method.Name}
}

// RunContractAuto implements spec.md §4.6 "ContractAuto(interface)": for
// each declared interface method, synthesise inputs, invoke the matching
// implementation method, and validate the return value against that
// method's declared return constraints.
func RunContractAuto(subject any, methods []instancefactory.EntryPoint, returnReq map[string]genrequest.Request, ctx *gencontext.Context, ectx *spec.EphemeralContext) []spec.AssertionRecord {
	out := make([]spec.AssertionRecord, 0, len(methods))
	for _, method := range methods {
		args, err := synthesizeArgs(method.Params, ctx)
		if err != nil {
			out = append(out, recordFromSynthesisError(method.Name, err))
			continue
		}

		results, err := method.Invoke(subject, args)
		ectx.AppendTrace("contract-auto invoke", map[string]any{"method": method.Name, "args": args})
		if err != nil {
			out = append(out, recordFromInvokeError(method.Name, err))
			continue
		}

		req, hasReq := returnReq[method.Name]
		if !hasReq || len(results) == 0 {
			out = append(out, spec.AssertionRecord{Status: spec.StatusPassed, Rule: method.Name, Location: method.Name})
			continue
		}
		if verr := valuevalidator.Validate(req, results[0], ctx.Clock()); verr != nil {
			if cv, ok := verr.(*kerrors.ContractViolation); ok {
				out = append(out, spec.AssertionRecord{
					Status: spec.StatusFailed, Rule: cv.Rule, Message: cv.Message,
					Expected: "no contract violation", Actual: fmt.Sprintf("%v", results[0]), Location: method.Name,
				})
				continue
			}
			out = append(out, recordFromInvokeError(method.Name, verr))
			continue
		}
		out = append(out, spec.AssertionRecord{Status: spec.StatusPassed, Rule: method.Name, Location: method.Name})
	}
	return out
}

func synthesizeArgs(params []typedesc.Field, ctx *gencontext.Context) ([]any, error) {
	args := make([]any, len(params))
	for i, p := range params {
		req := genrequest.New(p.Type, p.Name, p.Constraints, p.Nullable)
		v, err := fixture.Generate(req, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func recordFromSynthesisError(location string, err error) spec.AssertionRecord {
	return spec.AssertionRecord{
		Status: spec.StatusFailed, Rule: "ArgumentSynthesis", Message: err.Error(), Location: location,
	}
}

func recordFromInvokeError(location string, err error) spec.AssertionRecord {
	if ae, ok := err.(*kerrors.AssertionError); ok {
		return spec.AssertionRecord{Status: spec.StatusFailed, Rule: "Assertion", Message: ae.Message, Location: location}
	}
	return spec.AssertionRecord{
		Status: spec.StatusFailed, Rule: "ExecutionError", Message: err.Error(), Location: location,
	}
}

// ConstructorTarget describes the primary constructor under test for C11
// and C12: a typedesc Object descriptor whose Fields give the parameters
// and whose Construct is called directly, returning the constructor's
// error separately from a successfully-built instance.
type ConstructorTarget struct {
	Descriptor *typedesc.Descriptor
}

// RunConstructorSanity implements spec.md §4.7 step 1: synthesise valid
// arguments, call the constructor, PASSED on success, FAILED otherwise.
func RunConstructorSanity(target ConstructorTarget, ctx *gencontext.Context) spec.AssertionRecord {
	args, err := synthesizeArgs(target.Descriptor.Fields, ctx)
	if err != nil {
		return recordFromSynthesisError("constructor", err)
	}
	if _, err := target.Descriptor.Construct(args); err != nil {
		return spec.AssertionRecord{
			Status: spec.StatusFailed, Rule: "ConstructorSanity", Message: err.Error(),
			Expected: "Instance Created", Actual: fmt.Sprintf("%T", err), Location: target.Descriptor.ID,
		}
	}
	return spec.AssertionRecord{Status: spec.StatusPassed, Rule: "ConstructorSanity", Location: target.Descriptor.ID}
}

// RunConstructorDefensive implements spec.md §4.7 step 2: for each
// parameter, for each invalid value, substitute it into an otherwise
// valid argument set and call the constructor — PASSED if it throws,
// FAILED if it wrongly accepts the invalid input.
//
// The invalid-value fuzzing draws from an RNG stream derived from ctx via
// RNG.Derive, isolated from the stream RunConstructorSanity uses, so
// running both against the same Context does not make one pass's draws
// depend on whether the other already ran.
func RunConstructorDefensive(target ConstructorTarget, ctx *gencontext.Context) ([]spec.AssertionRecord, error) {
	baseline, err := synthesizeArgs(target.Descriptor.Fields, ctx)
	if err != nil {
		return nil, err
	}

	fuzzCtx := ctx.WithRNG(ctx.RNG.Derive("constructor-defensive", []byte(target.Descriptor.ID)))

	var out []spec.AssertionRecord
	for i, field := range target.Descriptor.Fields {
		req := genrequest.New(field.Type, field.Name, field.Constraints, field.Nullable)
		invalidValues, err := fixture.GenerateInvalid(req, fuzzCtx)
		if err != nil {
			return nil, err
		}
		for _, bad := range invalidValues {
			args := append([]any(nil), baseline...)
			args[i] = bad
			_, cerr := target.Descriptor.Construct(args)
			if cerr != nil {
				out = append(out, spec.AssertionRecord{
					Status: spec.StatusPassed, Rule: "ConstructorDefensive", Location: field.Name,
					Expected: "Exception Thrown", Actual: fmt.Sprintf("%T", cerr),
				})
				continue
			}
			out = append(out, spec.AssertionRecord{
				Status: spec.StatusFailed, Rule: "ConstructorDefensive", Location: field.Name,
				Expected: "Exception Thrown", Actual: "Instance Created",
				Message: fmt.Sprintf("constructor accepted invalid %s=%v", field.Name, bad),
			})
		}
	}
	return out, nil
}

// EqualityTarget exposes the value-object operations Data Compliance
// needs without requiring reflection over arbitrary Go equality methods.
type EqualityTarget struct {
	Equals func(a, b any) (bool, error)
	Hash   func(a any) (uint64, error)
}

// RunDataCompliance implements spec.md §4.8: structure check, delegated
// constructor fuzzing, then the equality/hash law suite over a pair of
// instances constructed separately from one synthesised argument set.
func RunDataCompliance(target ConstructorTarget, eq EqualityTarget, ctx *gencontext.Context) ([]spec.AssertionRecord, error) {
	if target.Descriptor == nil || target.Descriptor.Construct == nil {
		return []spec.AssertionRecord{{Status: spec.StatusFailed, Rule: "Structure", Message: "target has no primary constructor"}}, nil
	}

	var out []spec.AssertionRecord
	out = append(out, RunConstructorSanity(target, ctx))
	defensive, err := RunConstructorDefensive(target, ctx)
	if err != nil {
		return nil, err
	}
	out = append(out, defensive...)

	args, err := synthesizeArgs(target.Descriptor.Fields, ctx)
	if err != nil {
		return nil, err
	}
	a, aerr := target.Descriptor.Construct(args)
	b, berr := target.Descriptor.Construct(append([]any(nil), args...))
	if aerr != nil || berr != nil || a == nil || b == nil {
		out = append(out, spec.AssertionRecord{
			Status: spec.StatusFailed, Rule: "PairGeneration",
			Message: fmt.Sprintf("could not build equal-content pair: args=%v", args),
		})
		return out, nil
	}

	out = append(out, checkEqualityLaws(eq, a, b)...)
	return out, nil
}

func checkEqualityLaws(eq EqualityTarget, a, b any) []spec.AssertionRecord {
	var out []spec.AssertionRecord

	notNullEq, err := safeEquals(eq, a, nil)
	out = append(out, lawRecord("NotNullEquality", err == nil && !notNullEq, err))

	reflexive, err := safeEquals(eq, a, a)
	out = append(out, lawRecord("Reflexivity", err == nil && reflexive, err))

	ab, abErr := safeEquals(eq, a, b)
	ba, baErr := safeEquals(eq, b, a)
	symmetric := abErr == nil && baErr == nil && ab == ba
	out = append(out, lawRecord("Symmetry", symmetric, firstNonNil(abErr, baErr)))

	consistent := true
	var consistencyErr error
	first := ab
	for i := 0; i < 2; i++ {
		v, err := safeEquals(eq, a, b)
		if err != nil {
			consistencyErr = err
			consistent = false
			break
		}
		if v != first {
			consistent = false
			break
		}
	}
	out = append(out, lawRecord("EqualsConsistency", consistent, consistencyErr))

	hashA1, err1 := safeHash(eq, a)
	hashA2, err2 := safeHash(eq, a)
	stable := err1 == nil && err2 == nil && hashA1 == hashA2
	out = append(out, lawRecord("HashStability", stable, firstNonNil(err1, err2)))

	if abErr != nil {
		out = append(out, spec.AssertionRecord{Status: spec.StatusFailed, Rule: "HashEqualsConsistency", Message: "equality threw, cannot evaluate prerequisite"})
	} else if !ab {
		out = append(out, spec.AssertionRecord{Status: spec.StatusSkipped, Rule: "HashEqualsConsistency", Message: "a and b are not equal"})
	} else {
		hashB, errB := safeHash(eq, b)
		out = append(out, lawRecord("HashEqualsConsistency", err1 == nil && errB == nil && hashA1 == hashB, firstNonNil(err1, errB)))
	}

	return out
}

func safeEquals(eq EqualityTarget, a, b any) (result bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("(THREW EXCEPTION) %v", r)
		}
	}()
	return eq.Equals(a, b)
}

func safeHash(eq EqualityTarget, a any) (result uint64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("(THREW EXCEPTION) %v", r)
		}
	}()
	return eq.Hash(a)
}

func lawRecord(rule string, ok bool, err error) spec.AssertionRecord {
	if err != nil {
		return spec.AssertionRecord{Status: spec.StatusFailed, Rule: rule, Message: err.Error()}
	}
	if ok {
		return spec.AssertionRecord{Status: spec.StatusPassed, Rule: rule}
	}
	return spec.AssertionRecord{Status: spec.StatusFailed, Rule: rule, Message: rule + " violated"}
}

func firstNonNil(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
